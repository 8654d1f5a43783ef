package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/internal/utils"
	"github.com/jobcal/jobcal/pkg/color_preset"
	"github.com/jobcal/jobcal/pkg/event"
	"github.com/jobcal/jobcal/pkg/occurrence"
)

type Service struct {
	events    EventLister
	colors    ColorLookup
	clock     utils.Clock
	loc       *time.Location
	weekStart time.Weekday
}

func NewService(events EventLister, colors ColorLookup, clock utils.Clock, loc *time.Location, weekStart time.Weekday) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{events: events, colors: colors, clock: clock, loc: loc, weekStart: weekStart}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

type snapshot struct {
	events []event.Event
	colors map[uuid.UUID]color_preset.ColorPreset
}

// snapshot loads every event once, converted into the display location.
func (s *Service) snapshot(ctx context.Context) (snapshot, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to list events: %w", err)
	}
	converted := make([]event.Event, 0, len(events))
	for _, e := range events {
		converted = append(converted, e.In(s.loc))
	}
	colors := map[uuid.UUID]color_preset.ColorPreset{}
	if s.colors != nil {
		if colors, err = s.colors.Lookup(ctx); err != nil {
			return snapshot{}, fmt.Errorf("failed to load color presets: %w", err)
		}
	}
	return snapshot{events: converted, colors: colors}, nil
}

func (snap snapshot) entries(occurrences []occurrence.Occurrence) []Entry {
	entries := make([]Entry, 0, len(occurrences))
	for _, o := range occurrences {
		entry := Entry{Occurrence: o}
		if o.ColorID.Valid {
			if preset, ok := snap.colors[o.ColorID.UUID]; ok {
				entry.Color = &preset
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Day lists the occurrences on the calendar date of date, read in the display location.
func (s *Service) Day(ctx context.Context, date time.Time) (Day, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Day{}, err
	}
	day := inLocation(date, s.loc)
	return Day{Date: day, Entries: snap.entries(occurrence.OccurrencesFor(day, snap.events))}, nil
}

func (s *Service) Today(ctx context.Context) (Day, error) {
	return s.Day(ctx, utils.Today(s.clock, s.loc))
}

func (s *Service) Month(ctx context.Context, year int, month time.Month) (Month, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Month{}, err
	}
	view := occurrence.Month(year, month, s.weekStart, s.loc, snap.events)
	result := Month{
		Year:          view.Year,
		Month:         view.Month,
		WeekStart:     view.WeekStart,
		LeadingBlanks: view.LeadingBlanks,
		Weeks:         view.Weeks,
		MaxPerDay:     view.MaxPerDay,
		Days:          make([]DayCell, 0, len(view.Days)),
	}
	for _, d := range view.Days {
		result.Days = append(result.Days, DayCell{
			Date:     d.Date,
			Entries:  snap.entries(d.Shown),
			Overflow: d.Overflow,
			Total:    d.Total,
		})
	}
	return result, nil
}

// inLocation keeps the civil date of t and moves it to midnight in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
