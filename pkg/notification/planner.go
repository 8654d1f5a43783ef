package notification

import (
	"sort"
	"time"

	"github.com/jobcal/jobcal/pkg/event"
	"github.com/jobcal/jobcal/pkg/occurrence"
)

type Planner struct {
	loc *time.Location
}

func NewPlanner(loc *time.Location) *Planner {
	if loc == nil {
		loc = time.Local
	}
	return &Planner{loc: loc}
}

// Upcoming lists reminders firing in (now, now+window], earliest first. Recurring events
// are expanded through the calendar occurrence rules, so a reminder belongs to the same
// instances the calendar shows. Only normal occurrences carry reminders.
//
// Each reminder setting is checked only on the dates it could fire from: the window moved
// forward by the setting's offset. The cost of a call grows with the window, not with how
// far ahead reminders are set.
func (p *Planner) Upcoming(now time.Time, window time.Duration, events []event.Event) []Reminder {
	reminders := make([]Reminder, 0)
	if window <= 0 {
		return reminders
	}
	now = now.In(p.loc)
	until := now.Add(window)

	for _, e := range events {
		if len(e.Notifications) == 0 || e.StartAt.IsZero() {
			continue
		}
		e = e.In(p.loc)
		single := []event.Event{e}
		duration := max(e.EndAt.Sub(e.StartAt), 0)
		for _, cfg := range e.Notifications {
			from, to := referenceWindow(now, until, cfg)
			if cfg.ReferenceTime == event.ReferenceEnd {
				// the end falls in the window, so the start may be up to one duration earlier
				from = from.Add(-duration)
			}
			for _, day := range occurrence.Between(from, to, single) {
				for _, occ := range day.Occurrences {
					if occ.Kind != occurrence.KindNormal {
						continue
					}
					reference := occ.Start
					if cfg.ReferenceTime == event.ReferenceEnd {
						reference = occ.End
					}
					fireAt := TriggerTime(reference, cfg)
					if !fireAt.After(now) || fireAt.After(until) {
						continue
					}
					reminders = append(reminders, Reminder{
						EventID:         occ.EventID,
						OccurrenceID:    occ.ID + "@" + occ.Start.Format(time.DateOnly),
						Title:           occ.Title,
						OccurrenceStart: occ.Start,
						OccurrenceEnd:   occ.End,
						FireAt:          fireAt,
						Config:          cfg,
					})
				}
			}
		}
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].FireAt.Before(reminders[j].FireAt)
	})
	return reminders
}
