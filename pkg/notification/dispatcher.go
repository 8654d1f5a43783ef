package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jobcal/jobcal/internal/event_bus"
	"github.com/jobcal/jobcal/internal/utils"
	"github.com/jobcal/jobcal/pkg/event"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type EventLister interface {
	List(ctx context.Context) ([]event.Event, error)
}

// Dispatcher periodically publishes reminders that became due since its previous run.
type Dispatcher struct {
	events  EventLister
	planner *Planner
	bus     *event_bus.EventBus
	clock   utils.Clock

	mu      sync.Mutex
	lastRun time.Time
	cron    *cron.Cron
}

func NewDispatcher(events EventLister, planner *Planner, bus *event_bus.EventBus, clock utils.Clock) *Dispatcher {
	return &Dispatcher{
		events:  events,
		planner: planner,
		bus:     bus,
		clock:   clock,
		lastRun: clock.Now(),
	}
}

// RunOnce publishes a notification.due event for every reminder firing in (lastRun, now].
// It returns the number of reminders published.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	if !now.After(d.lastRun) {
		return 0, nil
	}
	events, err := d.events.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list events: %w", err)
	}

	due := d.planner.Upcoming(d.lastRun, now.Sub(d.lastRun), events)
	var errs []error
	for _, r := range due {
		err := d.bus.Publish(event_bus.NewEvent(ctx, event_bus.NotificationDueType, event_bus.NotificationDue{
			EventID:         r.EventID,
			OccurrenceID:    r.OccurrenceID,
			Title:           r.Title,
			OccurrenceStart: r.OccurrenceStart,
			FireAt:          r.FireAt,
		}))
		if err != nil {
			errs = append(errs, err)
		}
	}
	d.lastRun = now
	return len(due), errors.Join(errs...)
}

// Start schedules RunOnce on spec, a cron expression or descriptor such as "@every 1m".
func (d *Dispatcher) Start(spec string, loc *time.Location) error {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddJob(spec, d.job())
	if err != nil {
		return fmt.Errorf("invalid notification schedule %q: %w", spec, err)
	}
	d.cron = c
	c.Start()
	log.Infof("notification dispatcher started with schedule %q", spec)
	return nil
}

// job is the scheduled unit. A tick still running when the next one is due makes that next
// one a no-op instead of queueing behind it.
func (d *Dispatcher) job() cron.Job {
	return cron.NewChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.StandardLogger()))).Then(cron.FuncJob(d.tick))
}

func (d *Dispatcher) tick() {
	count, err := d.RunOnce(context.Background())
	if err != nil {
		log.Errorf("notification dispatch failed: %v", err)
		return
	}
	if count > 0 {
		log.Debugf("dispatched %d reminders", count)
	}
}

// Stop halts the schedule and waits for a running dispatch to finish or ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) {
	if d.cron == nil {
		return
	}
	select {
	case <-d.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn("notification dispatcher did not stop in time")
	}
}

// LogDelivery subscribes a handler that writes due reminders to the log.
func LogDelivery(bus *event_bus.EventBus, loc *time.Location) (unsubscribe func()) {
	return event_bus.SubscribeTyped[event_bus.NotificationDue](
		bus,
		event_bus.NotificationDueType,
		func(e event_bus.EventT[event_bus.NotificationDue]) error {
			log.WithFields(log.Fields{
				"event":      e.Data.EventID,
				"occurrence": e.Data.OccurrenceID,
				"start":      e.Data.OccurrenceStart.In(loc).Format(time.RFC3339),
			}).Infof("reminder: %s", e.Data.Title)
			return nil
		},
	)
}
