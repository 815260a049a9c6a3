// internal/events/publisher_test.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	cfg "github.com/tamzrod/anesthesia-monitor/internal/config"
)

type fakeWriter struct {
	msgs   []kafka.Message
	fail   bool
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish_KeyedByUnit(t *testing.T) {
	fw := &fakeWriter{}
	p := newPublisher(fw)

	err := p.Publish(context.Background(), Transition{
		UnitID: "or-1",
		From:   "RUNNING",
		To:     "ALARM",
		Alarms: []string{"HYPOXIC MIXTURE RISK: FiO₂ < 30% (high priority)."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	m := fw.msgs[0]
	if string(m.Key) != "or-1" {
		t.Fatalf("key: got=%q", m.Key)
	}

	var got Transition
	if err := json.Unmarshal(m.Value, &got); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected generated id")
	}
	if got.At.IsZero() {
		t.Fatalf("expected timestamp")
	}
	if got.From != "RUNNING" || got.To != "ALARM" || len(got.Alarms) != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestPublish_KeepsGivenIDAndTime(t *testing.T) {
	fw := &fakeWriter{}
	p := newPublisher(fw)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := p.Publish(context.Background(), Transition{ID: "fixed", UnitID: "or-2", At: at}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Transition
	_ = json.Unmarshal(fw.msgs[0].Value, &got)
	if got.ID != "fixed" || !got.At.Equal(at) {
		t.Fatalf("id/at overwritten: %+v", got)
	}
}

func TestPublish_WriterError(t *testing.T) {
	p := newPublisher(&fakeWriter{fail: true})

	if err := p.Publish(context.Background(), Transition{UnitID: "or-1"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher

	if err := p.Publish(context.Background(), Transition{UnitID: "or-1"}); err != nil {
		t.Fatalf("nil publisher should drop silently: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func TestNew_DisabledWithoutBrokers(t *testing.T) {
	p, err := New(cfg.EventsConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected disabled publisher")
	}
}

func TestNew_RequiresTopic(t *testing.T) {
	if _, err := New(cfg.EventsConfig{Brokers: []string{"127.0.0.1:9092"}}); err == nil {
		t.Fatalf("expected error without topic")
	}
}

func TestNew_Enabled(t *testing.T) {
	p, err := New(cfg.EventsConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "anesthesia.status"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatalf("expected publisher")
	}
	fw := &fakeWriter{}
	p.w = fw
	if err := p.Close(); err != nil || !fw.closed {
		t.Fatalf("close not forwarded")
	}
}
