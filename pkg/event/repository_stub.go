package event

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	events map[uuid.UUID]Event
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{events: make(map[uuid.UUID]Event)}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	snapshot := make(map[uuid.UUID]Event, len(r.events))
	for k, v := range r.events {
		snapshot[k] = v
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.events = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) Create(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.PreparationDates = withPreparationIDs(event.ID, event.PreparationDates)
	r.events[event.ID] = event
	return event, nil
}

func (r *RepositoryStub) Update(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return Event{}, ErrEventNotFound
	}
	event.PreparationDates = withPreparationIDs(event.ID, event.PreparationDates)
	r.events[event.ID] = event
	return event, nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return false, nil
	}
	delete(r.events, id)
	return true, nil
}

func (r *RepositoryStub) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return event, nil
}

func (r *RepositoryStub) List(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartAt.Equal(events[j].StartAt) {
			return events[i].ID.String() < events[j].ID.String()
		}
		return events[i].StartAt.Before(events[j].StartAt)
	})
	return events, nil
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = make(map[uuid.UUID]Event)
}

func withPreparationIDs(eventID uuid.UUID, preps []PreparationDate) []PreparationDate {
	if preps == nil {
		return nil
	}
	out := make([]PreparationDate, len(preps))
	for i, p := range preps {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.EventID = eventID
		out[i] = p
	}
	return out
}
