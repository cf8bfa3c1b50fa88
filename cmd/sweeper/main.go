// ABOUTME: CLI that replays a mutation journal, collects, and reports
// ABOUTME: Optionally persists a snapshot and publishes a cycle event

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/prateek/sweeper/analysis"
	"github.com/prateek/sweeper/dump"
	"github.com/prateek/sweeper/events"
	"github.com/prateek/sweeper/heap"
	"github.com/prateek/sweeper/journal"
	"github.com/prateek/sweeper/store"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	dumpPath := flag.String("dump", "", "write a JSON snapshot of the post-cycle heap to this file")
	topRetained := flag.Int("top", 5, "number of top retainers to report")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: sweeper [flags] <journal-file>")
	}
	journalPath := flag.Arg(0)

	cfg := config{}
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %v", err)
		}
		cfg, err = parseConfig(data)
		if err != nil {
			log.Fatalf("parsing config: %v", err)
		}
	}

	h := heap.New(cfg.heap)
	applied, err := journal.Replay(journalPath, h)
	if err != nil {
		log.Fatalf("replaying %s: %v", journalPath, err)
	}
	log.Printf("replayed %d records: %d objects, %d bytes live",
		applied, h.NumObjects(), h.LiveBytes())

	reclaimed := h.Collect()
	cycle := h.Stats().LastCycle
	log.Printf("cycle %d: reclaimed %d objects (%d bytes) in %s, %d live",
		cycle.Seq, cycle.Reclaimed, cycle.ReclaimedBytes, cycle.Duration, cycle.Live)

	reportTopRetainers(h, *topRetained)

	if *dumpPath != "" {
		if err := writeDump(h, *dumpPath); err != nil {
			log.Fatalf("writing dump: %v", err)
		}
		log.Printf("wrote snapshot to %s", *dumpPath)
	}

	if cfg.snapshotDir != "" {
		s, err := store.Open(cfg.snapshotDir)
		if err != nil {
			log.Fatalf("opening snapshot store: %v", err)
		}
		defer s.Close()
		if err := s.SaveHeap(cycle.Seq, h); err != nil {
			log.Fatalf("saving snapshot: %v", err)
		}
		log.Printf("saved snapshot %d to %s", cycle.Seq, cfg.snapshotDir)
	}

	if len(cfg.brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.brokers, cfg.topic)
		defer publisher.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := publisher.Publish(ctx, events.FromCycle(cycle, reclaimed)); err != nil {
			log.Fatalf("publishing cycle event: %v", err)
		}
		log.Printf("published cycle event to %s", cfg.topic)
	}
}

func reportTopRetainers(h *heap.Heap, n int) {
	if n <= 0 || h.NumObjects() == 0 {
		return
	}

	retained := analysis.RetainedSize(h)
	type entry struct {
		id    heap.ObjID
		bytes uint64
	}
	entries := make([]entry, 0, len(retained))
	for id, b := range retained {
		entries = append(entries, entry{id, b})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].bytes != entries[j].bytes {
			return entries[i].bytes > entries[j].bytes
		}
		return entries[i].id < entries[j].id
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	fmt.Println("top retainers:")
	for _, e := range entries {
		fmt.Printf("  object %d retains %d bytes\n", e.id, e.bytes)
	}
}

func writeDump(h *heap.Heap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dump.Write(h, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
