package notification

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jobcal/jobcal/internal/event_bus"
	"github.com/jobcal/jobcal/internal/utils"
	"github.com/jobcal/jobcal/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEvents struct {
	events []event.Event
	err    error
}

func (s staticEvents) List(ctx context.Context) ([]event.Event, error) {
	return s.events, s.err
}

func TestDispatcher_RunOnce(t *testing.T) {
	e := weeklyInterview(event.NotificationConfig{Type: event.NotifyBefore10Min, ReferenceTime: event.ReferenceStart})
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2024, 5, 6, 9, 0, 0, 0, tokyo))
	bus := event_bus.NewEventBus()
	var due []event_bus.NotificationDue
	event_bus.SubscribeTyped[event_bus.NotificationDue](bus, event_bus.NotificationDueType,
		func(e event_bus.EventT[event_bus.NotificationDue]) error {
			due = append(due, e.Data)
			return nil
		})
	dispatcher := NewDispatcher(staticEvents{events: []event.Event{e}}, NewPlanner(tokyo), bus, clock)

	clock.SetNow(time.Date(2024, 5, 6, 9, 45, 0, 0, tokyo))
	count, err := dispatcher.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	clock.SetNow(time.Date(2024, 5, 6, 9, 51, 0, 0, tokyo))
	count, err = dispatcher.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, due, 1)
	assert.Equal(t, "Mock interview", due[0].Title)
	assert.Equal(t, time.Date(2024, 5, 6, 9, 50, 0, 0, tokyo), due[0].FireAt)

	t.Run("does not repeat a published reminder", func(t *testing.T) {
		clock.SetNow(time.Date(2024, 5, 6, 9, 55, 0, 0, tokyo))
		count, err := dispatcher.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Len(t, due, 1)
	})
}

func TestDispatcher_RunOnce_ListError(t *testing.T) {
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2024, 5, 6, 9, 0, 0, 0, tokyo))
	dispatcher := NewDispatcher(staticEvents{err: errors.New("db down")}, NewPlanner(tokyo), event_bus.NewEventBus(), clock)
	clock.SetNow(clock.Now().Add(time.Minute))

	_, err := dispatcher.RunOnce(context.Background())

	assert.Error(t, err)
}

func TestDispatcher_Start_InvalidSchedule(t *testing.T) {
	clock := &utils.MockClock{}
	dispatcher := NewDispatcher(staticEvents{}, NewPlanner(tokyo), event_bus.NewEventBus(), clock)

	err := dispatcher.Start("every now and then", tokyo)

	assert.Error(t, err)
}

func TestDispatcher_StartStop(t *testing.T) {
	dispatcher := NewDispatcher(staticEvents{}, NewPlanner(tokyo), event_bus.NewEventBus(), utils.SystemClock{})

	require.NoError(t, dispatcher.Start("@every 1h", tokyo))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	dispatcher.Stop(ctx)
}

type blockingEvents struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingEvents) List(ctx context.Context) ([]event.Event, error) {
	b.calls.Add(1)
	b.entered <- struct{}{}
	<-b.release
	return nil, nil
}

func TestDispatcher_Job_SkipsOverlappingTick(t *testing.T) {
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2024, 5, 6, 9, 0, 0, 0, tokyo))
	events := &blockingEvents{entered: make(chan struct{}, 2), release: make(chan struct{})}
	dispatcher := NewDispatcher(events, NewPlanner(tokyo), event_bus.NewEventBus(), clock)
	clock.SetNow(time.Date(2024, 5, 6, 9, 1, 0, 0, tokyo))
	job := dispatcher.job()

	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	<-events.entered

	// returns at once while the first tick is still listing events
	job.Run()
	assert.Equal(t, int32(1), events.calls.Load())

	close(events.release)
	<-done
	assert.Equal(t, int32(1), events.calls.Load())
}
