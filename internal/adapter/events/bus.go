// internal/adapter/events/bus.go

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"globalfreq/internal/domain/frequency"
	"globalfreq/internal/logging"
)

// Conn is the subset of *nats.Conn used by the bus
type Conn interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error)
}

// RunEvent is published whenever a combination run completes
type RunEvent struct {
	Type      string    `json:"type"`
	RunID     string    `json:"run_id"`
	Regions   []string  `json:"regions"`
	Features  int       `json:"features"`
	Pivots    int       `json:"pivots"`
	CreatedAt time.Time `json:"created_at"`
}

// Bus publishes and relays run events over NATS
type Bus struct {
	conn    Conn
	subject string
}

// NewBus creates a bus publishing on subject
func NewBus(conn Conn, subject string) *Bus {
	return &Bus{
		conn:    conn,
		subject: subject,
	}
}

// PublishRun emits a summary of a completed run; the document itself is not sent
func (b *Bus) PublishRun(ctx context.Context, run frequency.Run) error {
	event := RunEvent{
		Type:      "run.completed",
		RunID:     run.ID,
		Regions:   run.Regions,
		Features:  run.Features,
		Pivots:    run.Pivots,
		CreatedAt: run.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling run event: %w", err)
	}

	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("error publishing run event: %w", err)
	}

	logging.Ctx(ctx).Debug().Str("run_id", run.ID).Str("subject", b.subject).Msg("Published run event")
	return nil
}

// SubscribeRuns delivers raw run events to handler until the returned
// function is called
func (b *Bus) SubscribeRuns(handler func([]byte)) (func() error, error) {
	sub, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("error subscribing to %s: %w", b.subject, err)
	}
	return sub.Unsubscribe, nil
}
