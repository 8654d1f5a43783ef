package occurrence

import (
	"sort"
	"time"

	"github.com/jobcal/jobcal/pkg/event"
)

// OccurrencesFor returns everything shown on the calendar date of date: normal event
// instances, preparation entries and deadlines, all-day entries first and then by start time.
// Events with missing dates are skipped.
func OccurrencesFor(date time.Time, events []event.Event) []Occurrence {
	if date.IsZero() {
		return []Occurrence{}
	}

	var normal, preparation, deadline []Occurrence
	for _, e := range events {
		if occursOnDate(e, date) {
			normal = append(normal, normalOccurrence(e, date))
		}
		for _, p := range e.PreparationDates {
			if !p.Date.IsZero() && sameDate(p.Date, date) {
				preparation = append(preparation, preparationOccurrence(e, p))
			}
		}
		if e.DeadlineAt != nil && !e.DeadlineAt.IsZero() && sameDate(*e.DeadlineAt, date) {
			deadline = append(deadline, deadlineOccurrence(e))
		}
	}

	result := make([]Occurrence, 0, len(normal)+len(preparation)+len(deadline))
	result = append(result, normal...)
	result = append(result, preparation...)
	result = append(result, deadline...)
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		return a.Start.Before(b.Start)
	})
	return result
}

// occursOnDate is the single normal-occurrence predicate: a direct start-date match or a
// recurrence hit. Checking both in one place keeps an event from being listed twice.
func occursOnDate(e event.Event, date time.Time) bool {
	if e.StartAt.IsZero() {
		return false
	}
	if sameDate(e.StartAt, date) {
		return true
	}
	return OccursOn(e, date)
}

// DayOccurrences groups the occurrences of a single calendar date.
type DayOccurrences struct {
	Date        time.Time
	Occurrences []Occurrence
}

// Between resolves every calendar date from the date of from to the date of to, inclusive,
// in from's location.
func Between(from, to time.Time, events []event.Event) []DayOccurrences {
	if from.IsZero() || to.IsZero() {
		return []DayOccurrences{}
	}
	loc := from.Location()
	y, m, d := from.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	last := civilDate(to.In(loc))

	days := make([]DayOccurrences, 0)
	for !civilDate(day).After(last) {
		days = append(days, DayOccurrences{
			Date:        day,
			Occurrences: OccurrencesFor(day, events),
		})
		day = day.AddDate(0, 0, 1)
	}
	return days
}
