// internal/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	cfg "github.com/tamzrod/anesthesia-monitor/internal/config"
)

// Transition is published when a unit's status code changes.
type Transition struct {
	ID       string    `json:"id"`
	UnitID   string    `json:"unit"`
	At       time.Time `json:"at"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Alarms   []string  `json:"alarms"`
	Warnings []string  `json:"warnings"`
}

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher delivers transitions to one topic, keyed by unit id.
// A nil *Publisher is valid and drops everything.
type Publisher struct {
	w messageWriter
}

// New builds a publisher from config.
// Returns (nil, nil) when no brokers are configured.
func New(c cfg.EventsConfig) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, nil
	}
	if c.Topic == "" {
		return nil, errors.New("events: topic required")
	}

	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}), nil
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{w: w}
}

// Publish writes one transition. ID and At are filled in when empty.
func (p *Publisher) Publish(ctx context.Context, t Transition) error {
	if p == nil || p.w == nil {
		return nil
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.At.IsZero() {
		t.At = time.Now().UTC()
	}

	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}

	if err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(t.UnitID),
		Value: b,
	}); err != nil {
		return fmt.Errorf("events: publish (unit=%s): %w", t.UnitID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}
