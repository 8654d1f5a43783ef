package occurrence

import (
	"time"

	"github.com/jobcal/jobcal/pkg/event"
)

// OccursOn reports whether a recurring event has an occurrence on the calendar date of date.
// Non-recurring events never occur here; matching them by start date is the caller's job.
func OccursOn(e event.Event, date time.Time) bool {
	rule := e.Recurrence
	if !rule.IsRecurring() || e.StartAt.IsZero() || date.IsZero() {
		return false
	}

	start := civilDate(e.StartAt)
	check := civilDate(date)
	if check.Before(start) {
		return false
	}
	if !withinEnd(rule, start, check) {
		return false
	}

	interval := rule.Step()
	daysDiff := daysBetween(start, check)

	switch rule.Type {
	case event.RecurrenceDaily:
		return daysDiff%interval == 0
	case event.RecurrenceWeekly:
		weeksDiff := daysDiff / 7
		if weeksDiff%interval != 0 {
			return false
		}
		return check.Weekday() == start.Weekday()
	case event.RecurrenceMonthly:
		monthsDiff := (check.Year()-start.Year())*12 + int(check.Month()) - int(start.Month())
		if monthsDiff%interval != 0 {
			return false
		}
		return check.Day() == start.Day()
	case event.RecurrenceYearly:
		yearsDiff := check.Year() - start.Year()
		if yearsDiff%interval != 0 {
			return false
		}
		return check.Month() == start.Month() && check.Day() == start.Day()
	default:
		// custom rules are stored but not expanded
		return false
	}
}

// withinEnd applies the end-by-date and end-by-count conditions.
//
// The count condition walks a cursor forward in whole rule units and counts every advance as
// an occurrence, without checking that the advanced date itself matches the rule. For weekly
// and monthly rules that can differ from the number of real matches.
func withinEnd(rule event.Recurrence, start, check time.Time) bool {
	switch rule.End() {
	case event.EndDate:
		if rule.EndDate != nil && !rule.EndDate.IsZero() && check.After(civilDate(*rule.EndDate)) {
			return false
		}
	case event.EndCount:
		if rule.EndCount <= 0 {
			return true
		}
		interval := rule.Step()
		cursor := start
		count := 0
		for !cursor.After(check) && count < rule.EndCount {
			count++
			next, ok := advance(rule.Type, cursor, interval)
			if !ok {
				return false
			}
			cursor = next
		}
		if count >= rule.EndCount && !check.Before(cursor) {
			return false
		}
	}
	return true
}

func advance(t event.RecurrenceType, cursor time.Time, interval int) (time.Time, bool) {
	switch t {
	case event.RecurrenceDaily:
		return cursor.AddDate(0, 0, interval), true
	case event.RecurrenceWeekly:
		return cursor.AddDate(0, 0, 7*interval), true
	case event.RecurrenceMonthly:
		return cursor.AddDate(0, interval, 0), true
	case event.RecurrenceYearly:
		return cursor.AddDate(interval, 0, 0), true
	default:
		return cursor, false
	}
}

// civilDate strips the time of day, keeping the date as seen in t's own location.
// The result is in UTC so day arithmetic is free of DST shifts.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days between two civil dates. It works on Unix seconds because
// time.Sub saturates for dates more than about 292 years apart.
func daysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / (24 * 60 * 60))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
