package occurrence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurrencesFor_MergeOrdering(t *testing.T) {
	// given
	day := date(2024, 3, 12)
	interview := event.Event{
		ID:      uuid.New(),
		Title:   "Interview",
		StartAt: at(2024, 3, 12, 9, 0),
		EndAt:   at(2024, 3, 12, 10, 0),
	}
	prepID := uuid.New()
	practice := event.Event{
		ID:      uuid.New(),
		Title:   "Final interview",
		StartAt: at(2024, 3, 20, 13, 0),
		EndAt:   at(2024, 3, 20, 14, 0),
		PreparationDates: []event.PreparationDate{
			{ID: prepID, Date: at(2024, 3, 12, 14, 0), Title: "Mock interview"},
		},
	}
	entrySheet := event.Event{
		ID:         uuid.New(),
		Title:      "Entry sheet",
		StartAt:    at(2024, 3, 1, 10, 0),
		EndAt:      at(2024, 3, 1, 11, 0),
		DeadlineAt: ptr(at(2024, 3, 12, 23, 59)),
	}

	// when
	result := OccurrencesFor(day, []event.Event{interview, practice, entrySheet})

	// then
	require.Len(t, result, 3)
	assert.Equal(t, KindDeadline, result[0].Kind)
	assert.Equal(t, "deadline-"+entrySheet.ID.String(), result[0].ID)
	assert.True(t, result[0].AllDay)
	assert.Equal(t, KindNormal, result[1].Kind)
	assert.Equal(t, interview.ID.String(), result[1].ID)
	assert.Equal(t, KindPreparation, result[2].Kind)
	assert.Equal(t, "prep-"+prepID.String(), result[2].ID)
	assert.Equal(t, "Mock interview", result[2].Title)
	assert.False(t, result[2].AllDay)
	assert.Equal(t, practice.ID, result[2].EventID)
	require.NotNil(t, result[2].Preparation)
	assert.Equal(t, prepID, result[2].Preparation.ID)
}

func TestOccurrencesFor_PreparationTitleFallsBackToEvent(t *testing.T) {
	e := event.Event{
		ID:      uuid.New(),
		Title:   "Group discussion",
		StartAt: at(2024, 5, 10, 10, 0),
		EndAt:   at(2024, 5, 10, 12, 0),
		PreparationDates: []event.PreparationDate{
			{ID: uuid.New(), Date: at(2024, 5, 8, 20, 0)},
			{ID: uuid.New(), Date: at(2024, 5, 8, 19, 0), Title: "Read the company IR"},
		},
	}

	result := OccurrencesFor(date(2024, 5, 8), []event.Event{e})

	require.Len(t, result, 2)
	assert.Equal(t, "Read the company IR", result[0].Title)
	assert.Equal(t, "Group discussion", result[1].Title)
	for _, o := range result {
		assert.Equal(t, e.ID, o.EventID)
		assert.Equal(t, o.Start, o.End)
	}
}

func TestOccurrencesFor_NoDuplicateForRecurringStartDate(t *testing.T) {
	e := recurringEvent(at(2024, 1, 1, 9, 0), event.Recurrence{Type: event.RecurrenceDaily})

	result := OccurrencesFor(date(2024, 1, 1), []event.Event{e})

	require.Len(t, result, 1)
	assert.Equal(t, KindNormal, result[0].Kind)
}

func TestOccurrencesFor_RecurringInstanceIsProjectedOntoDay(t *testing.T) {
	e := recurringEvent(at(2024, 1, 1, 9, 30), event.Recurrence{Type: event.RecurrenceWeekly})
	e.EndAt = at(2024, 1, 1, 11, 0)

	result := OccurrencesFor(date(2024, 1, 22), []event.Event{e})

	require.Len(t, result, 1)
	assert.Equal(t, at(2024, 1, 22, 9, 30), result[0].Start)
	assert.Equal(t, at(2024, 1, 22, 11, 0), result[0].End)
	assert.Equal(t, e.ID, result[0].EventID)
}

func TestOccurrencesFor_TimedEntriesSortedByTimeOfDay(t *testing.T) {
	early := recurringEvent(at(2024, 1, 2, 8, 0), event.Recurrence{Type: event.RecurrenceDaily})
	late := recurringEvent(at(2024, 1, 1, 18, 0), event.Recurrence{Type: event.RecurrenceDaily})
	allDay := event.Event{ID: uuid.New(), Title: "Info session week", StartAt: date(2024, 1, 5), EndAt: date(2024, 1, 6), AllDay: true}

	result := OccurrencesFor(date(2024, 1, 5), []event.Event{late, early, allDay})

	require.Len(t, result, 3)
	assert.Equal(t, allDay.ID, result[0].EventID)
	assert.Equal(t, early.ID, result[1].EventID)
	assert.Equal(t, late.ID, result[2].EventID)
}

func TestOccurrencesFor_SkipsMissingDates(t *testing.T) {
	events := []event.Event{
		{ID: uuid.New(), Title: "no start"},
		{
			ID:               uuid.New(),
			Title:            "zero prep",
			StartAt:          at(2024, 2, 1, 9, 0),
			PreparationDates: []event.PreparationDate{{ID: uuid.New()}},
			DeadlineAt:       &time.Time{},
		},
	}

	assert.Empty(t, OccurrencesFor(date(2024, 2, 2), events))
	assert.Empty(t, OccurrencesFor(time.Time{}, events))
}

func TestOccurrencesFor_EventCanContributeAllKindsToOneDay(t *testing.T) {
	e := event.Event{
		ID:         uuid.New(),
		Title:      "Internship day",
		StartAt:    at(2024, 7, 1, 10, 0),
		EndAt:      at(2024, 7, 1, 17, 0),
		DeadlineAt: ptr(at(2024, 7, 1, 0, 0)),
		PreparationDates: []event.PreparationDate{
			{ID: uuid.New(), Date: at(2024, 7, 1, 8, 0)},
			{ID: uuid.New(), Date: at(2024, 7, 1, 9, 0)},
		},
	}

	result := OccurrencesFor(date(2024, 7, 1), []event.Event{e})

	require.Len(t, result, 4)
	ids := map[string]bool{}
	for _, o := range result {
		ids[o.ID] = true
	}
	assert.Len(t, ids, 4)
	assert.Equal(t, []Kind{KindDeadline, KindPreparation, KindPreparation, KindNormal},
		[]Kind{result[0].Kind, result[1].Kind, result[2].Kind, result[3].Kind})
}

func TestOccurrencesFor_Idempotent(t *testing.T) {
	events := []event.Event{
		recurringEvent(at(2024, 1, 1, 9, 0), event.Recurrence{Type: event.RecurrenceDaily}),
		{
			ID:         uuid.New(),
			Title:      "ES",
			StartAt:    at(2024, 1, 3, 10, 0),
			DeadlineAt: ptr(at(2024, 1, 3, 12, 0)),
			PreparationDates: []event.PreparationDate{
				{ID: uuid.New(), Date: at(2024, 1, 3, 7, 0)},
			},
		},
	}

	first := OccurrencesFor(date(2024, 1, 3), events)
	second := OccurrencesFor(date(2024, 1, 3), events)

	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestBetween(t *testing.T) {
	e := recurringEvent(at(2024, 1, 1, 9, 0), event.Recurrence{Type: event.RecurrenceDaily, Interval: 2})

	days := Between(at(2024, 1, 1, 15, 0), at(2024, 1, 4, 8, 0), []event.Event{e})

	require.Len(t, days, 4)
	assert.Equal(t, date(2024, 1, 1), days[0].Date)
	assert.Len(t, days[0].Occurrences, 1)
	assert.Empty(t, days[1].Occurrences)
	assert.Len(t, days[2].Occurrences, 1)
	assert.Empty(t, days[3].Occurrences)
}

func TestBetween_EmptyRangesAreEmptySlices(t *testing.T) {
	e := recurringEvent(at(2024, 1, 1, 9, 0), event.Recurrence{Type: event.RecurrenceDaily, Interval: 1})

	for name, days := range map[string][]DayOccurrences{
		"zero from":      Between(time.Time{}, at(2024, 1, 4, 8, 0), []event.Event{e}),
		"zero to":        Between(at(2024, 1, 1, 8, 0), time.Time{}, []event.Event{e}),
		"to before from": Between(at(2024, 1, 4, 8, 0), at(2024, 1, 1, 8, 0), []event.Event{e}),
	} {
		assert.NotNil(t, days, name)
		assert.Empty(t, days, name)
	}
	assert.Equal(t, []Occurrence{}, OccurrencesFor(time.Time{}, []event.Event{e}))
}
