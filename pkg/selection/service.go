package selection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/internal/event_bus"
	"github.com/jobcal/jobcal/internal/utils"
	"github.com/jobcal/jobcal/pkg/company"
	"github.com/jobcal/jobcal/pkg/event"
	log "github.com/sirupsen/logrus"
)

// CompanyReader resolves the company and note that own selection data.
type CompanyReader interface {
	Get(ctx context.Context, id uuid.UUID) (company.Company, error)
	GetNote(ctx context.Context, companyID uuid.UUID) (company.Note, error)
}

// CalendarWriter is the part of the events API used to mirror selection events on the calendar.
type CalendarWriter interface {
	Create(ctx context.Context, e event.Event) (event.Event, error)
	Update(ctx context.Context, e event.Event) (event.Event, error)
	Get(ctx context.Context, id uuid.UUID) (event.Event, error)
}

// EventView is a selection event with its status resolved against today.
type EventView struct {
	Event
	Status Status
}

type Service interface {
	ListEvents(ctx context.Context, companyID uuid.UUID) ([]EventView, error)
	CreateEvent(ctx context.Context, companyID uuid.UUID, e Event) (EventView, error)
	UpdateEvent(ctx context.Context, companyID uuid.UUID, e Event) (EventView, error)
	DeleteEvent(ctx context.Context, companyID, id uuid.UUID) error
	// SyncCalendarEvent creates the linked calendar event, or updates it when already linked.
	SyncCalendarEvent(ctx context.Context, companyID, id uuid.UUID) (event.Event, error)

	ListProgress(ctx context.Context, companyID uuid.UUID) ([]Progress, error)
	AddProgress(ctx context.Context, companyID uuid.UUID, p Progress) (Progress, error)
	UpdateProgress(ctx context.Context, companyID uuid.UUID, p Progress) (Progress, error)
	DeleteProgress(ctx context.Context, companyID, id uuid.UUID) error
}

type ServiceImpl struct {
	repo      Repository
	companies CompanyReader
	calendar  CalendarWriter
	clock     utils.Clock
	loc       *time.Location
}

func NewService(
	repo Repository,
	companies CompanyReader,
	calendar CalendarWriter,
	eventBus *event_bus.EventBus,
	clock utils.Clock,
	loc *time.Location,
) *ServiceImpl {
	service := &ServiceImpl{repo: repo, companies: companies, calendar: calendar, clock: clock, loc: loc}
	event_bus.SubscribeTyped[event_bus.CalendarEventDeleted](
		eventBus,
		event_bus.CalendarEventDeletedType,
		func(e event_bus.EventT[event_bus.CalendarEventDeleted]) error {
			log.Debugf("received calendar event deleted event: %v", e.Data.ID)
			count, err := repo.UnlinkCalendarEvent(e.Context(), e.Data.ID)
			if err != nil {
				log.Errorf("failed to unlink calendar event %s: %v", e.Data.ID, err)
				return err
			}
			if count > 0 {
				log.Debugf("unlinked %d selection events from calendar event %s", count, e.Data.ID)
			}
			return nil
		},
	)
	return service
}

func (s *ServiceImpl) noteID(ctx context.Context, companyID uuid.UUID) (uuid.UUID, error) {
	note, err := s.companies.GetNote(ctx, companyID)
	if err != nil {
		return uuid.Nil, err
	}
	return note.ID, nil
}

func (s *ServiceImpl) view(e Event) EventView {
	return EventView{Event: e, Status: e.StatusOn(utils.Today(s.clock, s.loc))}
}

func (s *ServiceImpl) ListEvents(ctx context.Context, companyID uuid.UUID) ([]EventView, error) {
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, noteID)
	if err != nil {
		return nil, err
	}
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, s.view(e))
	}
	return views, nil
}

func (s *ServiceImpl) CreateEvent(ctx context.Context, companyID uuid.UUID, e Event) (EventView, error) {
	if err := e.Validate(); err != nil {
		return EventView{}, err
	}
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return EventView{}, err
	}
	e.NoteID = noteID
	created, err := s.repo.CreateEvent(ctx, e)
	if err != nil {
		return EventView{}, err
	}
	return s.view(created), nil
}

func (s *ServiceImpl) UpdateEvent(ctx context.Context, companyID uuid.UUID, e Event) (EventView, error) {
	if err := e.Validate(); err != nil {
		return EventView{}, err
	}
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return EventView{}, err
	}
	e.NoteID = noteID
	updated, err := s.repo.UpdateEvent(ctx, e)
	if err != nil {
		return EventView{}, err
	}
	return s.view(updated), nil
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, companyID, id uuid.UUID) error {
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteEvent(ctx, noteID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSelectionEventNotFound
	}
	return nil
}

func (s *ServiceImpl) SyncCalendarEvent(ctx context.Context, companyID, id uuid.UUID) (event.Event, error) {
	c, err := s.companies.Get(ctx, companyID)
	if err != nil {
		return event.Event{}, err
	}
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return event.Event{}, err
	}
	sel, err := s.repo.GetEvent(ctx, noteID, id)
	if err != nil {
		return event.Event{}, err
	}

	draft, err := ToCalendarEvent(sel, c.Name, s.loc)
	if err != nil {
		return event.Event{}, err
	}
	if sel.CalendarEventID.Valid {
		existing, err := s.calendar.Get(ctx, sel.CalendarEventID.UUID)
		if err == nil {
			merged := mergeInto(existing, draft)
			return s.calendar.Update(ctx, merged)
		}
		log.Warnf("linked calendar event %s is gone, creating a new one: %v", sel.CalendarEventID.UUID, err)
	}

	created, err := s.calendar.Create(ctx, draft)
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to create calendar event: %w", err)
	}
	if err := s.repo.SetCalendarEvent(ctx, sel.ID, uuid.NullUUID{UUID: created.ID, Valid: true}); err != nil {
		return event.Event{}, err
	}
	log.Debugf("linked selection event %s to calendar event %s", sel.ID, created.ID)
	return created, nil
}

// mergeInto copies the fields a selection event controls onto an existing calendar event,
// keeping its recurrence, color, preparation dates and notifications.
func mergeInto(existing, draft event.Event) event.Event {
	existing.Title = draft.Title
	existing.StartAt = draft.StartAt
	existing.EndAt = draft.EndAt
	existing.AllDay = draft.AllDay
	existing.DeadlineAt = draft.DeadlineAt
	existing.Memo = draft.Memo
	existing.EventType = draft.EventType
	existing.CompanyName = draft.CompanyName
	return existing
}

// ToCalendarEvent builds the calendar event that mirrors a selection event.
// Deadlines become an entry on the deadline date plus a deadline marker. Schedules span
// start to end; a schedule with a start time but no end time lasts one hour.
// Without any time of day the event is all-day.
func ToCalendarEvent(sel Event, companyName string, loc *time.Location) (event.Event, error) {
	e := event.Event{
		Title:       sel.Title,
		EventType:   event.EventType(sel.Track),
		CompanyName: companyName,
		Memo:        sel.Memo,
		Recurrence:  event.Recurrence{Type: event.RecurrenceNone},
	}
	switch sel.DateType {
	case DateTypeDeadline:
		if sel.DeadlineDate == nil {
			return event.Event{}, fmt.Errorf("%w: deadline date is required", ErrInvalidSelection)
		}
		at, err := combine(*sel.DeadlineDate, sel.DeadlineTime, loc)
		if err != nil {
			return event.Event{}, err
		}
		deadline := at
		e.StartAt, e.EndAt = at, at
		e.AllDay = sel.DeadlineTime == ""
		e.DeadlineAt = &deadline
	default:
		if sel.StartDate == nil {
			return event.Event{}, fmt.Errorf("%w: start date is required", ErrInvalidSelection)
		}
		start, err := combine(*sel.StartDate, sel.StartTime, loc)
		if err != nil {
			return event.Event{}, err
		}
		endDate := *sel.StartDate
		if sel.EndDate != nil {
			endDate = *sel.EndDate
		}
		end, err := combine(endDate, sel.EndTime, loc)
		if err != nil {
			return event.Event{}, err
		}
		if sel.EndTime == "" && sel.StartTime != "" {
			end = start.Add(time.Hour)
		}
		e.StartAt, e.EndAt = start, end
		e.AllDay = sel.StartTime == "" && sel.EndTime == ""
	}
	return e, nil
}

func combine(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	y, m, d := date.Date()
	if clock == "" {
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	parsed, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time %q", ErrInvalidSelection, clock)
	}
	return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}

func (s *ServiceImpl) ListProgress(ctx context.Context, companyID uuid.UUID) ([]Progress, error) {
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListProgress(ctx, noteID)
}

func (s *ServiceImpl) AddProgress(ctx context.Context, companyID uuid.UUID, p Progress) (Progress, error) {
	if err := p.Validate(); err != nil {
		return Progress{}, err
	}
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return Progress{}, err
	}
	p.NoteID = noteID
	if p.PassedDate.IsZero() {
		p.PassedDate = DateOf(utils.Today(s.clock, s.loc))
	}
	return s.repo.CreateProgress(ctx, p)
}

func (s *ServiceImpl) UpdateProgress(ctx context.Context, companyID uuid.UUID, p Progress) (Progress, error) {
	if err := p.Validate(); err != nil {
		return Progress{}, err
	}
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return Progress{}, err
	}
	p.NoteID = noteID
	if p.PassedDate.IsZero() {
		p.PassedDate = DateOf(utils.Today(s.clock, s.loc))
	}
	return s.repo.UpdateProgress(ctx, p)
}

func (s *ServiceImpl) DeleteProgress(ctx context.Context, companyID, id uuid.UUID) error {
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteProgress(ctx, noteID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProgressNotFound
	}
	return nil
}
