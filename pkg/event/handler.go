package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jobcal/jobcal/internal/rest"
	"github.com/jobcal/jobcal/internal/utils"
	log "github.com/sirupsen/logrus"
)

type PreparationDateDTO struct {
	ID      string `json:"id,omitempty"`
	Date    string `json:"date"`
	EndDate string `json:"endDate,omitempty"`
	Title   string `json:"title,omitempty"`
}

type RecurrenceDTO struct {
	Type           string `json:"type"`
	Interval       int    `json:"interval,omitempty"`
	Days           []int  `json:"days,omitempty"`
	MonthlyType    string `json:"monthlyType,omitempty"`
	MonthlyDay     int    `json:"monthlyDay,omitempty"`
	MonthlyWeekday int    `json:"monthlyWeekday,omitempty"`
	EndType        string `json:"endType,omitempty"`
	EndCount       int    `json:"endCount,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
}

type EventDTO struct {
	ID               string               `json:"id,omitempty"`
	Title            string               `json:"title"`
	StartAt          string               `json:"startAt"`
	EndAt            string               `json:"endAt"`
	AllDay           bool                 `json:"allDay"`
	ColorID          string               `json:"colorId,omitempty"`
	EventType        string               `json:"eventType,omitempty"`
	CompanyName      string               `json:"companyName,omitempty"`
	MeetingURL       string               `json:"meetingUrl,omitempty"`
	Location         string               `json:"location,omitempty"`
	Memo             string               `json:"memo,omitempty"`
	DeadlineAt       string               `json:"deadlineAt,omitempty"`
	PreparationDates []PreparationDateDTO `json:"preparationDates"`
	Recurrence       RecurrenceDTO        `json:"recurrence"`
	Notifications    []NotificationConfig `json:"notifications"`
}

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, ToDTO(e, h.loc))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIdFromPath(w, r)
	if !ok {
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(e, h.loc))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	log.Trace("Creating calendar event")
	e, ok := h.decodeEvent(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), e)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	log.Debugf("created event %s", created.ID)
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created, h.loc))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIdFromPath(w, r)
	if !ok {
		return
	}
	e, ok := h.decodeEvent(w, r)
	if !ok {
		return
	}
	e.ID = id
	updated, err := h.service.Update(r.Context(), e)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated, h.loc))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIdFromPath(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeEvent(w http.ResponseWriter, r *http.Request) (Event, bool) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return Event{}, false
	}
	e, err := FromDTO(dto, h.loc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
		return Event{}, false
	}
	return e, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidEvent):
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func eventIdFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["eventId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event id", "Event id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// FromDTO parses a request body. Timestamps without an offset are read in loc.
func FromDTO(dto EventDTO, loc *time.Location) (Event, error) {
	e := Event{
		Title:         dto.Title,
		AllDay:        dto.AllDay,
		EventType:     EventType(dto.EventType),
		CompanyName:   dto.CompanyName,
		MeetingURL:    dto.MeetingURL,
		Location:      dto.Location,
		Memo:          dto.Memo,
		Notifications: dto.Notifications,
	}
	var err error
	if e.StartAt, err = utils.ParseTimestamp(dto.StartAt, loc); err != nil {
		return Event{}, fmt.Errorf("startAt: %w", err)
	}
	if e.EndAt, err = utils.ParseTimestamp(dto.EndAt, loc); err != nil {
		return Event{}, fmt.Errorf("endAt: %w", err)
	}
	if e.DeadlineAt, err = utils.ParseOptionalTimestamp(dto.DeadlineAt, loc); err != nil {
		return Event{}, fmt.Errorf("deadlineAt: %w", err)
	}
	if dto.ColorID != "" {
		colorID, err := uuid.Parse(dto.ColorID)
		if err != nil {
			return Event{}, fmt.Errorf("colorId: %w", err)
		}
		e.ColorID = uuid.NullUUID{UUID: colorID, Valid: true}
	}

	for _, p := range dto.PreparationDates {
		prep := PreparationDate{Title: p.Title}
		if p.ID != "" {
			if prep.ID, err = uuid.Parse(p.ID); err != nil {
				return Event{}, fmt.Errorf("preparation id: %w", err)
			}
		}
		if prep.Date, err = utils.ParseTimestamp(p.Date, loc); err != nil {
			return Event{}, fmt.Errorf("preparation date: %w", err)
		}
		if prep.EndDate, err = utils.ParseOptionalTimestamp(p.EndDate, loc); err != nil {
			return Event{}, fmt.Errorf("preparation end date: %w", err)
		}
		e.PreparationDates = append(e.PreparationDates, prep)
	}

	recurrenceType, ok := ParseRecurrenceType(dto.Recurrence.Type)
	if !ok {
		return Event{}, fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidEvent, dto.Recurrence.Type)
	}
	e.Recurrence = Recurrence{
		Type:           recurrenceType,
		Interval:       dto.Recurrence.Interval,
		Days:           dto.Recurrence.Days,
		MonthlyType:    MonthlyType(dto.Recurrence.MonthlyType),
		MonthlyDay:     dto.Recurrence.MonthlyDay,
		MonthlyWeekday: dto.Recurrence.MonthlyWeekday,
		EndType:        EndType(dto.Recurrence.EndType),
		EndCount:       dto.Recurrence.EndCount,
	}
	if e.Recurrence.EndDate, err = utils.ParseOptionalTimestamp(dto.Recurrence.EndDate, loc); err != nil {
		return Event{}, fmt.Errorf("recurrence end date: %w", err)
	}
	return e, nil
}

func ToDTO(e Event, loc *time.Location) EventDTO {
	dto := EventDTO{
		ID:               e.ID.String(),
		Title:            e.Title,
		StartAt:          e.StartAt.In(loc).Format(time.RFC3339),
		EndAt:            e.EndAt.In(loc).Format(time.RFC3339),
		AllDay:           e.AllDay,
		EventType:        string(e.EventType),
		CompanyName:      e.CompanyName,
		MeetingURL:       e.MeetingURL,
		Location:         e.Location,
		Memo:             e.Memo,
		DeadlineAt:       utils.FormatOptional(e.DeadlineAt, loc),
		PreparationDates: make([]PreparationDateDTO, 0, len(e.PreparationDates)),
		Notifications:    e.Notifications,
		Recurrence: RecurrenceDTO{
			Type:           string(e.Recurrence.Type),
			Interval:       e.Recurrence.Step(),
			Days:           e.Recurrence.Days,
			MonthlyType:    string(e.Recurrence.MonthlyType),
			MonthlyDay:     e.Recurrence.MonthlyDay,
			MonthlyWeekday: e.Recurrence.MonthlyWeekday,
			EndType:        string(e.Recurrence.End()),
			EndCount:       e.Recurrence.EndCount,
			EndDate:        utils.FormatOptional(e.Recurrence.EndDate, loc),
		},
	}
	if dto.Recurrence.Type == "" {
		dto.Recurrence.Type = string(RecurrenceNone)
	}
	if e.ColorID.Valid {
		dto.ColorID = e.ColorID.UUID.String()
	}
	if dto.Notifications == nil {
		dto.Notifications = []NotificationConfig{}
	}
	for _, p := range e.PreparationDates {
		dto.PreparationDates = append(dto.PreparationDates, PreparationDateDTO{
			ID:      p.ID.String(),
			Date:    p.Date.In(loc).Format(time.RFC3339),
			EndDate: utils.FormatOptional(p.EndDate, loc),
			Title:   p.Title,
		})
	}
	return dto
}
