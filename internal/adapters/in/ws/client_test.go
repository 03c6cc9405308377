package ws_test

import (
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
	"time"

	"orderflow/internal/adapters/in/ws"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_JoinsAndConsumesEvents(t *testing.T) {
	fixture := newSessionFixture(t)

	received := make(chan []byte, 16)
	client := ws.NewClient(ws.ClientConfig{
		URL:           "ws" + strings.TrimPrefix(fixture.server.URL, "http") + "/ws",
		ActorID:       fixture.customerID,
		Role:          actor.RoleCustomer,
		MaxReconnects: 3,
		MaxInterval:   100 * time.Millisecond,
		Logger:        discardLogger(),
	}, func(payload []byte) {
		received <- payload
	})

	require.NoError(t, client.Join(fixture.order.ID()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	// First frame is the join acknowledgement.
	select {
	case payload := <-received:
		var frame struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(payload, &frame))
		require.Equal(t, "joined", frame.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for join acknowledgement")
	}

	event, err := order.NewStatusChangedEvent(
		fixture.order.ID(), kernel.NewUUID(), order.Pending, order.Confirmed, time.Now().UTC())
	require.NoError(t, err)
	fixture.distributor.Publish(event)

	select {
	case payload := <-received:
		assert.Contains(t, string(payload), `"type":"status_changed"`)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	select {
	case runErr := <-done:
		assert.ErrorIs(t, runErr, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop after cancellation")
	}
}

func TestClient_GivesUpAfterReconnectCap(t *testing.T) {
	client := ws.NewClient(ws.ClientConfig{
		URL:           "ws://127.0.0.1:1/ws",
		ActorID:       kernel.NewUUID(),
		Role:          actor.RoleCustomer,
		MaxReconnects: 1,
		MaxInterval:   50 * time.Millisecond,
		Logger:        discardLogger(),
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	before := runtime.NumGoroutine()
	err := client.Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, ws.ErrReconnectsExhausted)

	// The context is still live here: the watcher goroutine must have exited
	// with Run, not be left waiting for a cancellation that never comes.
	require.Eventually(t, func() bool { return runtime.NumGoroutine() <= before },
		2*time.Second, 10*time.Millisecond, "goroutines must not outlive Run")
}
