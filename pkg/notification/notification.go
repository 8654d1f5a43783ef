package notification

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/pkg/event"
)

// TriggerTime returns when a reminder configured by cfg fires for an occurrence whose
// reference time (start or end) is reference. A custom reminder without value or unit
// fires at the reference time.
func TriggerTime(reference time.Time, cfg event.NotificationConfig) time.Time {
	if days, ok := calendarDays(cfg); ok {
		return reference.AddDate(0, 0, -days)
	}
	return reference.Add(-lead(cfg))
}

// calendarDays reports the offset of day and week reminders in calendar days. Those move by
// date so the reminder keeps its clock time across DST changes.
func calendarDays(cfg event.NotificationConfig) (int, bool) {
	if cfg.Type != event.NotifyCustom || cfg.CustomValue <= 0 {
		return 0, false
	}
	switch cfg.CustomUnit {
	case event.UnitDay:
		return cfg.CustomValue, true
	case event.UnitWeek:
		return 7 * cfg.CustomValue, true
	}
	return 0, false
}

const maxDuration = time.Duration(math.MaxInt64)

// scaled multiplies v by unit, saturating instead of wrapping.
func scaled(v int, unit time.Duration) time.Duration {
	if v <= 0 {
		return 0
	}
	if int64(v) > int64(maxDuration/unit) {
		return maxDuration
	}
	return time.Duration(v) * unit
}

func withSlack(d time.Duration) time.Duration {
	if d > maxDuration-time.Hour {
		return maxDuration
	}
	return d + time.Hour
}

// lead is an upper bound of how long before its reference time cfg can fire.
func lead(cfg event.NotificationConfig) time.Duration {
	switch cfg.Type {
	case event.NotifyBefore10Min:
		return 10 * time.Minute
	case event.NotifyBefore1Hour:
		return time.Hour
	case event.NotifyCustom:
		switch cfg.CustomUnit {
		case event.UnitMinute:
			return scaled(cfg.CustomValue, time.Minute)
		case event.UnitHour:
			return scaled(cfg.CustomValue, time.Hour)
		case event.UnitDay:
			// one extra hour covers a DST shift
			return withSlack(scaled(cfg.CustomValue, 24*time.Hour))
		case event.UnitWeek:
			return withSlack(scaled(cfg.CustomValue, 7*24*time.Hour))
		}
	}
	return 0
}

// referenceWindow bounds the reference times whose reminder under cfg fires in (from, to].
// It is the firing window moved forward by the reminder's offset, so its width does not
// depend on how far ahead the reminder is.
func referenceWindow(from, to time.Time, cfg event.NotificationConfig) (time.Time, time.Time) {
	if days, ok := calendarDays(cfg); ok {
		return from.AddDate(0, 0, days).Add(-time.Hour), to.AddDate(0, 0, days).Add(time.Hour)
	}
	l := lead(cfg)
	return from.Add(l), to.Add(l)
}

// Reminder is one notification due for one occurrence of an event.
type Reminder struct {
	EventID         uuid.UUID
	OccurrenceID    string
	Title           string
	OccurrenceStart time.Time
	OccurrenceEnd   time.Time
	FireAt          time.Time
	Config          event.NotificationConfig
}
