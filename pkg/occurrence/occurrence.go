// Package occurrence projects stored events onto calendar days.
//
// Everything here is a pure function of its inputs: recurrence evaluation, the per-day merge
// of normal, preparation and deadline entries, and the month grid budget. Times are compared
// as calendar dates in the location each time.Time carries, so callers convert events and
// query dates into the display location first.
package occurrence

import (
	"time"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/pkg/event"
)

// Kind tells what an occurrence stands for on its day.
type Kind string

const (
	KindNormal      Kind = "normal"
	KindPreparation Kind = "preparation"
	KindDeadline    Kind = "deadline"
)

// Occurrence is one event projected onto one calendar date.
// Preparation is set only for KindPreparation.
type Occurrence struct {
	ID      string
	Kind    Kind
	EventID uuid.UUID
	Title   string
	Start   time.Time
	End     time.Time
	AllDay  bool
	ColorID uuid.NullUUID

	Preparation *Preparation
}

// Preparation links a preparation occurrence back to its entry on the event.
type Preparation struct {
	ID      uuid.UUID
	EndDate *time.Time
}

const (
	preparationIDPrefix = "prep-"
	deadlineIDPrefix    = "deadline-"
)

func normalOccurrence(e event.Event, date time.Time) Occurrence {
	start, end := projectOnto(e, date)
	return Occurrence{
		ID:      e.ID.String(),
		Kind:    KindNormal,
		EventID: e.ID,
		Title:   e.Title,
		Start:   start,
		End:     end,
		AllDay:  e.AllDay,
		ColorID: e.ColorID,
	}
}

func preparationOccurrence(e event.Event, p event.PreparationDate) Occurrence {
	title := p.Title
	if title == "" {
		title = e.Title
	}
	return Occurrence{
		ID:      preparationIDPrefix + p.ID.String(),
		Kind:    KindPreparation,
		EventID: e.ID,
		Title:   title,
		Start:   p.Date,
		End:     p.Date,
		AllDay:  false,
		ColorID: e.ColorID,
		Preparation: &Preparation{
			ID:      p.ID,
			EndDate: p.EndDate,
		},
	}
}

func deadlineOccurrence(e event.Event) Occurrence {
	return Occurrence{
		ID:      deadlineIDPrefix + e.ID.String(),
		Kind:    KindDeadline,
		EventID: e.ID,
		Title:   e.Title,
		Start:   *e.DeadlineAt,
		End:     *e.DeadlineAt,
		AllDay:  true,
		ColorID: e.ColorID,
	}
}

// projectOnto moves the event's start onto date, keeping its time of day and duration.
func projectOnto(e event.Event, date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	loc := e.StartAt.Location()
	var start time.Time
	if e.AllDay {
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	} else {
		start = time.Date(y, m, d, e.StartAt.Hour(), e.StartAt.Minute(), e.StartAt.Second(), e.StartAt.Nanosecond(), loc)
	}
	duration := e.EndAt.Sub(e.StartAt)
	if duration < 0 {
		duration = 0
	}
	return start, start.Add(duration)
}
