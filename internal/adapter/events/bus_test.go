// internal/adapter/events/bus_test.go

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalfreq/internal/domain/frequency"
)

type fakeConn struct {
	subject    string
	published  []byte
	publishErr error
	handler    nats.MsgHandler
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.published = data
	return f.publishErr
}

func (f *fakeConn) Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	f.subject = subject
	f.handler = handler
	return &nats.Subscription{Subject: subject}, nil
}

func TestPublishRun(t *testing.T) {
	conn := &fakeConn{}
	bus := NewBus(conn, "frequency.runs")
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err := bus.PublishRun(context.Background(), frequency.Run{
		ID:        "run-1",
		Regions:   []string{"europe", "china"},
		Features:  12,
		Pivots:    40,
		Document:  frequency.Document{"pivots": {0}},
		CreatedAt: created,
	})
	require.NoError(t, err)
	assert.Equal(t, "frequency.runs", conn.subject)

	var event RunEvent
	require.NoError(t, json.Unmarshal(conn.published, &event))
	assert.Equal(t, RunEvent{
		Type:      "run.completed",
		RunID:     "run-1",
		Regions:   []string{"europe", "china"},
		Features:  12,
		Pivots:    40,
		CreatedAt: created,
	}, event)
	assert.NotContains(t, string(conn.published), "document")
}

func TestPublishRunError(t *testing.T) {
	conn := &fakeConn{publishErr: errors.New("nats: connection closed")}
	err := NewBus(conn, "frequency.runs").PublishRun(context.Background(), frequency.Run{ID: "run-1"})
	assert.Error(t, err)
}

func TestSubscribeRuns(t *testing.T) {
	conn := &fakeConn{}
	bus := NewBus(conn, "frequency.runs")

	var got []byte
	unsubscribe, err := bus.SubscribeRuns(func(data []byte) { got = data })
	require.NoError(t, err)
	require.NotNil(t, unsubscribe)
	require.NotNil(t, conn.handler)

	conn.handler(&nats.Msg{Subject: "frequency.runs", Data: []byte(`{"run_id":"run-1"}`)})
	assert.Equal(t, `{"run_id":"run-1"}`, string(got))
}
