package occurrence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/pkg/event"
	"github.com/stretchr/testify/assert"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, tokyo)
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, tokyo)
}

func recurringEvent(start time.Time, rule event.Recurrence) event.Event {
	return event.Event{
		ID:         uuid.New(),
		Title:      "Recurring",
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
		Recurrence: rule,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestOccursOn(t *testing.T) {
	testCases := []struct {
		name  string
		start time.Time
		rule  event.Recurrence
		dates map[time.Time]bool
	}{
		{
			name:  "daily every 3 days",
			start: at(2024, 1, 1, 10, 0),
			rule:  event.Recurrence{Type: event.RecurrenceDaily, Interval: 3},
			dates: map[time.Time]bool{
				date(2024, 1, 1): true,
				date(2024, 1, 2): false,
				date(2024, 1, 3): false,
				date(2024, 1, 4): true,
				date(2024, 1, 5): false,
				date(2024, 1, 7): true,
			},
		},
		{
			name:  "weekly every other monday",
			start: at(2024, 1, 1, 9, 0), // Monday
			rule:  event.Recurrence{Type: event.RecurrenceWeekly, Interval: 2},
			dates: map[time.Time]bool{
				date(2024, 1, 1):  true,
				date(2024, 1, 8):  false,
				date(2024, 1, 15): true,
				date(2024, 1, 16): false, // Tuesday in a matching week
				date(2024, 1, 29): true,
			},
		},
		{
			name:  "monthly on the 31st skips short months",
			start: at(2024, 1, 31, 18, 0),
			rule:  event.Recurrence{Type: event.RecurrenceMonthly, Interval: 1},
			dates: map[time.Time]bool{
				date(2024, 1, 31): true,
				date(2024, 2, 29): false,
				date(2024, 3, 2):  false,
				date(2024, 3, 31): true,
				date(2024, 4, 30): false,
				date(2024, 5, 31): true,
			},
		},
		{
			name:  "monthly every second month",
			start: at(2024, 1, 15, 12, 0),
			rule:  event.Recurrence{Type: event.RecurrenceMonthly, Interval: 2},
			dates: map[time.Time]bool{
				date(2024, 2, 15): false,
				date(2024, 3, 15): true,
				date(2025, 1, 15): true,
			},
		},
		{
			name:  "yearly on leap day",
			start: at(2024, 2, 29, 0, 0),
			rule:  event.Recurrence{Type: event.RecurrenceYearly},
			dates: map[time.Time]bool{
				date(2025, 2, 28): false,
				date(2025, 3, 1):  false,
				date(2028, 2, 29): true,
			},
		},
		{
			name:  "yearly every two years",
			start: at(2024, 4, 1, 0, 0),
			rule:  event.Recurrence{Type: event.RecurrenceYearly, Interval: 2},
			dates: map[time.Time]bool{
				date(2025, 4, 1): false,
				date(2026, 4, 1): true,
			},
		},
		{
			name:  "never before the first occurrence",
			start: at(2024, 1, 10, 9, 0),
			rule:  event.Recurrence{Type: event.RecurrenceDaily},
			dates: map[time.Time]bool{
				date(2024, 1, 9):  false,
				date(2024, 1, 10): true,
			},
		},
		{
			name:  "ends by date inclusive",
			start: at(2024, 1, 1, 9, 0),
			rule: event.Recurrence{
				Type:    event.RecurrenceDaily,
				EndType: event.EndDate,
				EndDate: ptr(date(2024, 2, 1)),
			},
			dates: map[time.Time]bool{
				date(2024, 2, 1): true,
				date(2024, 2, 2): false,
			},
		},
		{
			name:  "ends by count inclusive",
			start: at(2024, 1, 1, 9, 0),
			rule:  event.Recurrence{Type: event.RecurrenceDaily, EndType: event.EndCount, EndCount: 3},
			dates: map[time.Time]bool{
				date(2024, 1, 1): true,
				date(2024, 1, 2): true,
				date(2024, 1, 3): true,
				date(2024, 1, 4): false,
				date(2024, 2, 1): false,
			},
		},
		{
			name:  "weekly ends by count",
			start: at(2024, 1, 1, 9, 0),
			rule:  event.Recurrence{Type: event.RecurrenceWeekly, EndType: event.EndCount, EndCount: 2},
			dates: map[time.Time]bool{
				date(2024, 1, 8):  true,
				date(2024, 1, 15): false,
			},
		},
		{
			name:  "count gate counts rule advances, not matches",
			start: at(2024, 1, 31, 9, 0),
			rule:  event.Recurrence{Type: event.RecurrenceMonthly, EndType: event.EndCount, EndCount: 3},
			dates: map[time.Time]bool{
				date(2024, 3, 31): true,
				// third real match, but the cursor already moved through Mar 2 and Apr 2
				date(2024, 5, 31): false,
			},
		},
		{
			name:  "zero interval falls back to 1",
			start: at(2024, 1, 1, 9, 0),
			rule:  event.Recurrence{Type: event.RecurrenceDaily, Interval: 0},
			dates: map[time.Time]bool{
				date(2024, 1, 2): true,
			},
		},
		{
			name:  "missing end type means never",
			start: at(2024, 1, 1, 9, 0),
			rule:  event.Recurrence{Type: event.RecurrenceDaily, EndCount: 1, EndDate: ptr(date(2024, 1, 1))},
			dates: map[time.Time]bool{
				date(2030, 1, 1): true,
			},
		},
		{
			name:  "custom rules are not expanded",
			start: at(2024, 1, 1, 9, 0),
			rule:  event.Recurrence{Type: event.RecurrenceCustom, Days: []int{1, 3}},
			dates: map[time.Time]bool{
				date(2024, 1, 1): false,
				date(2024, 1, 3): false,
			},
		},
		{
			name:  "none never recurs",
			start: at(2024, 1, 1, 9, 0),
			rule:  event.Recurrence{Type: event.RecurrenceNone},
			dates: map[time.Time]bool{
				date(2024, 1, 2): false,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := recurringEvent(tc.start, tc.rule)
			for d, want := range tc.dates {
				assert.Equal(t, want, OccursOn(e, d), "date %s", d.Format(time.DateOnly))
			}
		})
	}
}

func TestOccursOn_TimeOfDayIsIgnored(t *testing.T) {
	e := recurringEvent(at(2024, 1, 1, 23, 30), event.Recurrence{Type: event.RecurrenceDaily, Interval: 2})

	assert.True(t, OccursOn(e, at(2024, 1, 3, 0, 5)))
	assert.False(t, OccursOn(e, at(2024, 1, 2, 23, 59)))
}

func TestOccursOn_MissingStart(t *testing.T) {
	e := recurringEvent(time.Time{}, event.Recurrence{Type: event.RecurrenceDaily})

	assert.False(t, OccursOn(e, date(2024, 1, 1)))
}

func TestOccursOn_CenturiesAhead(t *testing.T) {
	e := recurringEvent(at(2024, 1, 1, 9, 30), event.Recurrence{Type: event.RecurrenceDaily, Interval: 7})
	target := date(2024, 1, 1).AddDate(0, 0, 7*16000)

	assert.True(t, OccursOn(e, target))
	assert.False(t, OccursOn(e, target.AddDate(0, 0, 1)))
}
