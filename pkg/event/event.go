package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID      uuid.UUID
	Title   string
	StartAt time.Time
	EndAt   time.Time
	AllDay  bool
	ColorID uuid.NullUUID

	EventType   EventType
	CompanyName string
	MeetingURL  string
	Location    string
	Memo        string

	// DeadlineAt produces a separate all-day "deadline" entry on its date.
	DeadlineAt       *time.Time
	PreparationDates []PreparationDate
	Recurrence       Recurrence
	Notifications    []NotificationConfig
}

type EventType string

const (
	EventTypeNone     EventType = ""
	EventTypeIntern   EventType = "intern"
	EventTypeFulltime EventType = "fulltime"
)

// PreparationDate is a dated reminder to prepare for an event (e.g. ES writing, interview practice).
type PreparationDate struct {
	ID      uuid.UUID
	EventID uuid.UUID
	Date    time.Time
	EndDate *time.Time
	Title   string
}

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
	RecurrenceCustom  RecurrenceType = "custom"
)

type MonthlyType string

const (
	MonthlyDayOfMonth MonthlyType = "day_of_month"
	MonthlyDayOfWeek  MonthlyType = "day_of_week"
)

type EndType string

const (
	EndNever EndType = "never"
	EndCount EndType = "count"
	EndDate  EndType = "date"
)

type Recurrence struct {
	Type     RecurrenceType
	Interval int
	// Days holds weekday indices, 0 = Sunday.
	Days           []int
	MonthlyType    MonthlyType
	MonthlyDay     int
	MonthlyWeekday int
	EndType        EndType
	// EndCount includes the first occurrence.
	EndCount int
	// EndDate is an inclusive cutoff date.
	EndDate *time.Time
}

// IsRecurring reports whether the rule is set to anything other than none.
func (r Recurrence) IsRecurring() bool {
	return r.Type != "" && r.Type != RecurrenceNone
}

// Step returns the interval, defaulting to 1 when unset or invalid.
func (r Recurrence) Step() int {
	if r.Interval <= 0 {
		return 1
	}
	return r.Interval
}

// End returns the end condition, defaulting to never for empty or unknown values.
func (r Recurrence) End() EndType {
	switch r.EndType {
	case EndCount, EndDate:
		return r.EndType
	default:
		return EndNever
	}
}

func ParseRecurrenceType(s string) (RecurrenceType, bool) {
	switch RecurrenceType(s) {
	case "":
		return RecurrenceNone, true
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly, RecurrenceCustom:
		return RecurrenceType(s), true
	}
	return "", false
}

type NotificationType string

const (
	NotifyAtTime      NotificationType = "at_time"
	NotifyBefore10Min NotificationType = "before_10min"
	NotifyBefore1Hour NotificationType = "before_1hour"
	NotifyCustom      NotificationType = "custom"
)

type NotificationUnit string

const (
	UnitMinute NotificationUnit = "minute"
	UnitHour   NotificationUnit = "hour"
	UnitDay    NotificationUnit = "day"
	UnitWeek   NotificationUnit = "week"
)

type ReferenceTime string

const (
	ReferenceStart ReferenceTime = "start"
	ReferenceEnd   ReferenceTime = "end"
)

// MaxCustomValue caps custom reminders at about one year ahead of the event.
var MaxCustomValue = map[NotificationUnit]int{
	UnitMinute: 366 * 24 * 60,
	UnitHour:   366 * 24,
	UnitDay:    366,
	UnitWeek:   52,
}

// NotificationConfig is persisted as JSON alongside the event.
type NotificationConfig struct {
	Type          NotificationType `json:"type"`
	CustomValue   int              `json:"customValue,omitempty"`
	CustomUnit    NotificationUnit `json:"customUnit,omitempty"`
	ReferenceTime ReferenceTime    `json:"referenceTime"`
}

var ErrInvalidEvent = errors.New("invalid event")

// Validate checks the fields a stored event must have.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if e.StartAt.IsZero() || e.EndAt.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidEvent)
	}
	if e.EndAt.Before(e.StartAt) {
		return fmt.Errorf("%w: end is before start", ErrInvalidEvent)
	}
	switch e.EventType {
	case EventTypeNone, EventTypeIntern, EventTypeFulltime:
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, e.EventType)
	}
	if _, ok := ParseRecurrenceType(string(e.Recurrence.Type)); !ok {
		return fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidEvent, e.Recurrence.Type)
	}
	for _, d := range e.Recurrence.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: recurrence weekday %d out of range", ErrInvalidEvent, d)
		}
	}
	for _, p := range e.PreparationDates {
		if p.Date.IsZero() {
			return fmt.Errorf("%w: preparation date is required", ErrInvalidEvent)
		}
	}
	for _, n := range e.Notifications {
		if err := n.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (n NotificationConfig) Validate() error {
	switch n.Type {
	case NotifyAtTime, NotifyBefore10Min, NotifyBefore1Hour:
	case NotifyCustom:
		switch n.CustomUnit {
		case UnitMinute, UnitHour, UnitDay, UnitWeek:
		default:
			return fmt.Errorf("%w: unknown notification unit %q", ErrInvalidEvent, n.CustomUnit)
		}
		if n.CustomValue <= 0 {
			return fmt.Errorf("%w: custom notification needs a positive value", ErrInvalidEvent)
		}
		if limit := MaxCustomValue[n.CustomUnit]; n.CustomValue > limit {
			return fmt.Errorf("%w: custom notification can be at most %d %ss before", ErrInvalidEvent, limit, n.CustomUnit)
		}
	default:
		return fmt.Errorf("%w: unknown notification type %q", ErrInvalidEvent, n.Type)
	}
	switch n.ReferenceTime {
	case ReferenceStart, ReferenceEnd:
		return nil
	default:
		return fmt.Errorf("%w: unknown notification reference %q", ErrInvalidEvent, n.ReferenceTime)
	}
}

// In returns a copy of the event with every timestamp converted to loc.
func (e Event) In(loc *time.Location) Event {
	out := e
	out.StartAt = e.StartAt.In(loc)
	out.EndAt = e.EndAt.In(loc)
	out.DeadlineAt = timeIn(e.DeadlineAt, loc)
	out.Recurrence.EndDate = timeIn(e.Recurrence.EndDate, loc)
	if e.PreparationDates != nil {
		out.PreparationDates = make([]PreparationDate, len(e.PreparationDates))
		for i, p := range e.PreparationDates {
			p.Date = p.Date.In(loc)
			p.EndDate = timeIn(p.EndDate, loc)
			out.PreparationDates[i] = p
		}
	}
	return out
}

func timeIn(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}
