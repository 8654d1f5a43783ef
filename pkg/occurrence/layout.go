package occurrence

import (
	"time"

	"github.com/jobcal/jobcal/pkg/event"
)

// LeadingBlanks is the number of grid cells before the 1st of the month when weeks start on
// weekStart.
func LeadingBlanks(year int, month time.Month, weekStart time.Weekday) int {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = time.Sunday
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) - int(weekStart) + 7) % 7
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeeksInMonth is the number of grid rows needed to show the month.
func WeeksInMonth(year int, month time.Month, weekStart time.Weekday) int {
	cells := LeadingBlanks(year, month, weekStart) + DaysInMonth(year, month)
	return (cells + 6) / 7
}

// MaxPerDay is the number of entries a day cell can show. Grids with more rows get fewer
// slots so every cell keeps the same height.
func MaxPerDay(weekCount int) int {
	switch {
	case weekCount >= 6:
		return 4
	case weekCount == 5:
		return 5
	default:
		return 6
	}
}

// Truncate keeps the first maxPerDay occurrences and reports how many were cut.
func Truncate(occurrences []Occurrence, maxPerDay int) ([]Occurrence, int) {
	if maxPerDay < 0 {
		maxPerDay = 0
	}
	if len(occurrences) <= maxPerDay {
		return occurrences, 0
	}
	return occurrences[:maxPerDay:maxPerDay], len(occurrences) - maxPerDay
}

// DayCell is one date of a month grid with its occurrences.
type DayCell struct {
	Date     time.Time
	Shown    []Occurrence
	Overflow int
	Total    int
}

// MonthView is a month grid: leading blanks, then one cell per day of the month.
type MonthView struct {
	Year          int
	Month         time.Month
	WeekStart     time.Weekday
	LeadingBlanks int
	Weeks         int
	MaxPerDay     int
	Days          []DayCell
}

// Month lays out a month grid, one cell per day of the month, with dates at midnight in loc.
func Month(year int, month time.Month, weekStart time.Weekday, loc *time.Location, events []event.Event) MonthView {
	if loc == nil {
		loc = time.Local
	}
	weeks := WeeksInMonth(year, month, weekStart)
	maxPerDay := MaxPerDay(weeks)
	daysInMonth := DaysInMonth(year, month)

	view := MonthView{
		Year:          year,
		Month:         month,
		WeekStart:     weekStart,
		LeadingBlanks: LeadingBlanks(year, month, weekStart),
		Weeks:         weeks,
		MaxPerDay:     maxPerDay,
		Days:          make([]DayCell, 0, daysInMonth),
	}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, loc)
		all := OccurrencesFor(date, events)
		shown, overflow := Truncate(all, maxPerDay)
		view.Days = append(view.Days, DayCell{
			Date:     date,
			Shown:    shown,
			Overflow: overflow,
			Total:    len(all),
		})
	}
	return view
}
