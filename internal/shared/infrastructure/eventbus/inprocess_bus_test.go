package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/curbspot/curbspot/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers payload to subscribed handler", func(t *testing.T) {
		bus := NewInProcessEventBus(nil)
		var got []byte
		bus.Subscribe("availability.checked", func(_ context.Context, _ string, payload []byte) error {
			got = payload
			return nil
		})

		err := bus.Publish(ctx, "availability.checked", []byte(`{"ok":true}`))

		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(got))
	})

	t.Run("routing keys are isolated", func(t *testing.T) {
		bus := NewInProcessEventBus(nil)
		called := false
		bus.Subscribe("availability.checked", func(_ context.Context, _ string, _ []byte) error {
			called = true
			return nil
		})

		require.NoError(t, bus.Publish(ctx, "availability.batch_completed", nil))
		assert.False(t, called)
	})

	t.Run("handler failure never surfaces to the publisher", func(t *testing.T) {
		bus := NewInProcessEventBus(nil)
		delivered := 0
		bus.Subscribe("availability.checked", func(_ context.Context, _ string, _ []byte) error {
			return errors.New("boom")
		})
		bus.Subscribe("availability.checked", func(_ context.Context, _ string, _ []byte) error {
			delivered++
			return nil
		})

		require.NoError(t, bus.Publish(ctx, "availability.checked", nil))
		assert.Equal(t, 1, delivered, "later handlers still run")
	})

	t.Run("publish without subscribers succeeds", func(t *testing.T) {
		bus := NewInProcessEventBus(nil)
		assert.NoError(t, bus.Publish(ctx, "availability.checked", nil))
		assert.NoError(t, bus.Close())
	})
}

type testEvent struct {
	domain.BaseEvent

	Note string `json:"note"`
}

func TestPublishDomainEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("routes under the event routing key", func(t *testing.T) {
		bus := NewInProcessEventBus(nil)
		var got []byte
		bus.Subscribe("test.noted", func(_ context.Context, _ string, payload []byte) error {
			got = payload
			return nil
		})

		event := &testEvent{
			BaseEvent: domain.NewBaseEvent(uuid.New(), "test", "test.noted"),
			Note:      "hello",
		}
		require.NoError(t, PublishDomainEvent(ctx, bus, event))

		var decoded testEvent
		require.NoError(t, json.Unmarshal(got, &decoded))
		assert.Equal(t, "hello", decoded.Note)
	})

	t.Run("nil publisher is a no-op", func(t *testing.T) {
		event := &testEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "test", "test.noted")}
		assert.NoError(t, PublishDomainEvent(ctx, nil, event))
	})
}
