// ABOUTME: CLI configuration parsed from a JSON document
// ABOUTME: Capacity limits, snapshot store location, and Kafka wiring

package main

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/prateek/sweeper/heap"
)

type config struct {
	heap        heap.Config
	snapshotDir string
	brokers     []string
	topic       string
}

// parseConfig reads the CLI configuration. An empty document yields the
// zero config: unbounded heap, no snapshot store, no Kafka.
func parseConfig(data []byte) (config, error) {
	cfg := config{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return cfg, nil
	}

	if !gjson.ValidBytes(data) {
		return cfg, fmt.Errorf("invalid json: %q", data)
	}

	doc := gjson.ParseBytes(data)
	cfg.heap.MaxObjects = int(doc.Get("max_objects").Int())
	cfg.heap.MaxBytes = doc.Get("max_bytes").Uint()
	cfg.snapshotDir = doc.Get("snapshot_dir").String()
	cfg.topic = doc.Get("kafka.topic").String()
	doc.Get("kafka.brokers").ForEach(func(_, value gjson.Result) bool {
		cfg.brokers = append(cfg.brokers, value.String())
		return true
	})

	if len(cfg.brokers) > 0 && cfg.topic == "" {
		return config{}, fmt.Errorf("kafka.brokers set but kafka.topic missing")
	}
	if cfg.heap.MaxObjects < 0 {
		return config{}, fmt.Errorf("max_objects must not be negative")
	}
	return cfg, nil
}
