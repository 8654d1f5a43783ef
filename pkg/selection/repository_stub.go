package selection

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu       sync.RWMutex
	events   map[uuid.UUID]Event
	progress map[uuid.UUID]Progress
	clock    time.Time
}

func NewRepositoryStub() *RepositoryStub {
	r := &RepositoryStub{}
	r.Reset()
	return r
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = make(map[uuid.UUID]Event)
	r.progress = make(map[uuid.UUID]Progress)
	r.clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (r *RepositoryStub) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *RepositoryStub) ListEvents(ctx context.Context, noteID uuid.UUID) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]Event, 0)
	for _, e := range r.events {
		if e.NoteID == noteID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		a, b := sortDate(events[i]), sortDate(events[j])
		switch {
		case a == nil && b == nil:
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func sortDate(e Event) *time.Time {
	if e.DeadlineDate != nil {
		return e.DeadlineDate
	}
	return e.StartDate
}

func (r *RepositoryStub) GetEvent(ctx context.Context, noteID, id uuid.UUID) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok || e.NoteID != noteID {
		return Event{}, ErrSelectionEventNotFound
	}
	return e, nil
}

func (r *RepositoryStub) CreateEvent(ctx context.Context, e Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := r.tick()
	e.CreatedAt, e.UpdatedAt = now, now
	r.events[e.ID] = e
	return e, nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, e Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.events[e.ID]
	if !ok || existing.NoteID != e.NoteID {
		return Event{}, ErrSelectionEventNotFound
	}
	e.CalendarEventID = existing.CalendarEventID
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = r.tick()
	r.events[e.ID] = e
	return e, nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, noteID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.NoteID != noteID {
		return false, nil
	}
	delete(r.events, id)
	return true, nil
}

func (r *RepositoryStub) SetCalendarEvent(ctx context.Context, id uuid.UUID, calendarEventID uuid.NullUUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return ErrSelectionEventNotFound
	}
	e.CalendarEventID = calendarEventID
	e.UpdatedAt = r.tick()
	r.events[id] = e
	return nil
}

func (r *RepositoryStub) UnlinkCalendarEvent(ctx context.Context, calendarEventID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, e := range r.events {
		if e.CalendarEventID.Valid && e.CalendarEventID.UUID == calendarEventID {
			e.CalendarEventID = uuid.NullUUID{}
			e.UpdatedAt = r.tick()
			r.events[id] = e
			count++
		}
	}
	return count, nil
}

func (r *RepositoryStub) ListProgress(ctx context.Context, noteID uuid.UUID) ([]Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	progress := make([]Progress, 0)
	for _, p := range r.progress {
		if p.NoteID == noteID {
			progress = append(progress, p)
		}
	}
	sort.Slice(progress, func(i, j int) bool {
		if !progress[i].PassedDate.Equal(progress[j].PassedDate) {
			return progress[i].PassedDate.After(progress[j].PassedDate)
		}
		return progress[i].CreatedAt.After(progress[j].CreatedAt)
	})
	return progress, nil
}

func (r *RepositoryStub) CreateProgress(ctx context.Context, p Progress) (Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := r.tick()
	p.CreatedAt, p.UpdatedAt = now, now
	r.progress[p.ID] = p
	return p, nil
}

func (r *RepositoryStub) UpdateProgress(ctx context.Context, p Progress) (Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.progress[p.ID]
	if !ok || existing.NoteID != p.NoteID {
		return Progress{}, ErrProgressNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.tick()
	r.progress[p.ID] = p
	return p, nil
}

func (r *RepositoryStub) DeleteProgress(ctx context.Context, noteID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.progress[id]
	if !ok || p.NoteID != noteID {
		return false, nil
	}
	delete(r.progress, id)
	return true, nil
}
