package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventInitialized is published after the database is re-created.
const EventInitialized = "initialized"

// DatabaseEvent announces a change to the transit database file.
type DatabaseEvent struct {
	Type      string    `json:"type"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Objects   []string  `json:"objects"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewDatabaseMessage encodes ev keyed by database path, so events for one
// file stay ordered on a partition.
func NewDatabaseMessage(ev DatabaseEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	return kafka.Message{Key: []byte(ev.Path), Value: payload, Time: ev.CreatedAt}, nil
}

func PublishDatabaseEvent(ctx context.Context, writer MessageWriter, ev DatabaseEvent) error {
	if writer == nil {
		return nil
	}
	msg, err := NewDatabaseMessage(ev)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, msg)
}

// DecodeDatabaseEvent parses a consumed lifecycle message.
func DecodeDatabaseEvent(msg kafka.Message) (DatabaseEvent, error) {
	var ev DatabaseEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return DatabaseEvent{}, fmt.Errorf("unmarshal lifecycle event: %w", err)
	}
	return ev, nil
}
