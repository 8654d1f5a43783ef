package selection

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSelectionEventNotFound = errors.New("selection event not found")
	ErrProgressNotFound       = errors.New("selection progress not found")
	ErrInvalidSelection       = errors.New("invalid selection data")
)

type TrackType string

const (
	TrackIntern   TrackType = "intern"
	TrackFulltime TrackType = "fulltime"
)

func (t TrackType) Valid() bool {
	return t == TrackIntern || t == TrackFulltime
}

type DateType string

const (
	DateTypeDeadline DateType = "deadline"
	DateTypeSchedule DateType = "schedule"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Event is one step of a selection process, either a deadline (ES submission, web test)
// or a scheduled appointment (interview, info session).
// Dates are calendar dates stored at UTC midnight; times are "HH:MM" or empty.
type Event struct {
	ID              uuid.UUID
	NoteID          uuid.UUID
	Track           TrackType
	EventType       string
	Title           string
	DateType        DateType
	DeadlineDate    *time.Time
	DeadlineTime    string
	StartDate       *time.Time
	StartTime       string
	EndDate         *time.Time
	EndTime         string
	Memo            string
	CalendarEventID uuid.NullUUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// KeyDate is the date the status depends on: the start date for schedules, the deadline otherwise.
func (e Event) KeyDate() *time.Time {
	if e.DateType == DateTypeSchedule {
		return e.StartDate
	}
	return e.DeadlineDate
}

// StatusOn reports completed once the key date lies before today.
func (e Event) StatusOn(today time.Time) Status {
	key := e.KeyDate()
	if key == nil {
		return StatusPending
	}
	if DateOf(*key).Before(DateOf(today)) {
		return StatusCompleted
	}
	return StatusPending
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSelection)
	}
	if !e.Track.Valid() {
		return fmt.Errorf("%w: unknown track %q", ErrInvalidSelection, e.Track)
	}
	times := []struct{ name, value string }{
		{"deadlineTime", e.DeadlineTime},
		{"startTime", e.StartTime},
		{"endTime", e.EndTime},
	}
	for _, tv := range times {
		if tv.value == "" {
			continue
		}
		if _, err := time.Parse(ClockLayout, tv.value); err != nil {
			return fmt.Errorf("%w: %s must be HH:MM", ErrInvalidSelection, tv.name)
		}
	}
	switch e.DateType {
	case DateTypeDeadline:
		if e.DeadlineDate == nil {
			return fmt.Errorf("%w: deadline date is required", ErrInvalidSelection)
		}
	case DateTypeSchedule:
		if e.StartDate == nil {
			return fmt.Errorf("%w: start date is required", ErrInvalidSelection)
		}
		if e.EndDate != nil && DateOf(*e.EndDate).Before(DateOf(*e.StartDate)) {
			return fmt.Errorf("%w: end date is before start date", ErrInvalidSelection)
		}
	default:
		return fmt.Errorf("%w: unknown date type %q", ErrInvalidSelection, e.DateType)
	}
	return nil
}

// Progress records a passed selection stage.
type Progress struct {
	ID         uuid.UUID
	NoteID     uuid.UUID
	Track      TrackType
	Stage      string
	PassedDate time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p Progress) Validate() error {
	if strings.TrimSpace(p.Stage) == "" {
		return fmt.Errorf("%w: stage is required", ErrInvalidSelection)
	}
	if !p.Track.Valid() {
		return fmt.Errorf("%w: unknown track %q", ErrInvalidSelection, p.Track)
	}
	return nil
}

const ClockLayout = "15:04"

// DateOf drops the clock and zone of t, keeping its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
