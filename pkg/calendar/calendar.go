// Package calendar serves the day and month views over one snapshot of stored events.
package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/pkg/color_preset"
	"github.com/jobcal/jobcal/pkg/event"
	"github.com/jobcal/jobcal/pkg/occurrence"
)

type EventLister interface {
	List(ctx context.Context) ([]event.Event, error)
}

type ColorLookup interface {
	Lookup(ctx context.Context) (map[uuid.UUID]color_preset.ColorPreset, error)
}

// Entry is an occurrence with its color preset resolved. Color is nil when the event has no
// color or the preset was deleted.
type Entry struct {
	occurrence.Occurrence
	Color *color_preset.ColorPreset
}

type Day struct {
	Date    time.Time
	Entries []Entry
}

type DayCell struct {
	Date     time.Time
	Entries  []Entry
	Overflow int
	Total    int
}

type Month struct {
	Year          int
	Month         time.Month
	WeekStart     time.Weekday
	LeadingBlanks int
	Weeks         int
	MaxPerDay     int
	Days          []DayCell
}
