// ABOUTME: Collection cycle events for external observers
// ABOUTME: Publisher interface with a Kafka implementation

package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/prateek/sweeper/heap"
)

// EventVersion is bumped when the event payload changes shape.
const EventVersion = 1

// TypeCollect is the event type emitted after a collection cycle.
const TypeCollect = "collect"

// Event describes one completed collection cycle.
type Event struct {
	V              int          `json:"v"`
	Type           string       `json:"type"`
	Seq            uint64       `json:"seq"`
	Reclaimed      []heap.ObjID `json:"reclaimed,omitempty"`
	ReclaimedBytes uint64       `json:"reclaimed_bytes"`
	Live           int          `json:"live"`
}

// FromCycle builds a collect event from a cycle summary and the
// reclaimed IDs returned by Collect.
func FromCycle(cycle heap.Cycle, reclaimed []heap.ObjID) Event {
	return Event{
		V:              EventVersion,
		Type:           TypeCollect,
		Seq:            cycle.Seq,
		Reclaimed:      reclaimed,
		ReclaimedBytes: cycle.ReclaimedBytes,
		Live:           cycle.Live,
	}
}

// Publisher delivers cycle events to an external system.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// KafkaPublisher publishes cycle events to a Kafka topic, keyed by
// cycle sequence so per-heap ordering is preserved within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher connects a publisher to the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish sends one event.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(ev.Seq, 10)),
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
