package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_TypedHandlersInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	id := uuid.New()
	for _, name := range []string{"first", "second", "third"} {
		SubscribeTyped[CalendarEventDeleted](bus, CalendarEventDeletedType, func(e EventT[CalendarEventDeleted]) error {
			assert.Equal(t, id, e.Data.ID)
			calls = append(calls, name)
			return nil
		})
	}

	err := bus.Publish(NewEvent(context.Background(), CalendarEventDeletedType, CalendarEventDeleted{ID: id}))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestPublish_SkipsMismatchedPayload(t *testing.T) {
	bus := NewEventBus()
	called := false
	SubscribeTyped[CalendarEventSaved](bus, CalendarEventSavedType, func(e EventT[CalendarEventSaved]) error {
		called = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), CalendarEventSavedType, "not a payload"))

	require.NoError(t, err)
	assert.False(t, called)
}

func TestPublish_CollectsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	reached := false
	bus.Subscribe(NotificationDueType, func(e Event) error { return boom })
	bus.Subscribe(NotificationDueType, func(e Event) error { panic("bad handler") })
	bus.Subscribe(NotificationDueType, func(e Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), NotificationDueType, NotificationDue{}))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "2 handler(s) failed")
	assert.True(t, reached)
}

func TestPublish_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(NotificationDueType, func(e Event) error {
		t.Fatal("handler must not run")
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, NotificationDueType, NotificationDue{}))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0
	unsubscribe := bus.Subscribe(CalendarEventSavedType, func(e Event) error {
		count++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), CalendarEventSavedType, nil)))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), CalendarEventSavedType, nil)))

	assert.Equal(t, 1, count)
}
