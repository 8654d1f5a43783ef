package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jobcal/jobcal/internal/rest"
	"github.com/jobcal/jobcal/pkg/company"
	"github.com/jobcal/jobcal/pkg/event"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID              string `json:"id,omitempty"`
	TrackType       string `json:"trackType"`
	EventType       string `json:"eventType"`
	Title           string `json:"title"`
	DateType        string `json:"dateType"`
	DeadlineDate    string `json:"deadlineDate,omitempty"`
	DeadlineTime    string `json:"deadlineTime,omitempty"`
	StartDate       string `json:"startDate,omitempty"`
	StartTime       string `json:"startTime,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
	Status          string `json:"status,omitempty"`
	Memo            string `json:"memo"`
	CalendarEventID string `json:"calendarEventId,omitempty"`
}

type ProgressDTO struct {
	ID         string `json:"id,omitempty"`
	TrackType  string `json:"trackType"`
	Stage      string `json:"stage"`
	PassedDate string `json:"passedDate,omitempty"`
	Notes      string `json:"notes"`
}

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

// ListEvents godoc
// @Summary List selection events of a company
// @Description Ordered by deadline (or start) date. Status is derived from today's date.
// @Tags Selection
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 200 {array} EventDTO
// @Router /api/companies/{companyId}/selection/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	views, err := h.service.ListEvents(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]EventDTO, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, eventToDTO(v))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	e, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	created, err := h.service.CreateEvent(r.Context(), companyID, e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventToDTO(created))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	id, ok := uuidFromPath(w, r, "selectionEventId")
	if !ok {
		return
	}
	e, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	e.ID = id
	updated, err := h.service.UpdateEvent(r.Context(), companyID, e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(updated))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	id, ok := uuidFromPath(w, r, "selectionEventId")
	if !ok {
		return
	}
	if err := h.service.DeleteEvent(r.Context(), companyID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncCalendarEvent godoc
// @Summary Mirror a selection event on the calendar
// @Description Creates the linked calendar event, or updates the one already linked.
// @Tags Selection
// @Produce json
// @Param companyId path string true "Company ID"
// @Param selectionEventId path string true "Selection event ID"
// @Success 200 {object} event.EventDTO
// @Router /api/companies/{companyId}/selection/events/{selectionEventId}/calendar [post]
func (h *Handler) SyncCalendarEvent(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	id, ok := uuidFromPath(w, r, "selectionEventId")
	if !ok {
		return
	}
	calendarEvent, err := h.service.SyncCalendarEvent(r.Context(), companyID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Debugf("selection event %s mirrored as calendar event %s", id, calendarEvent.ID)
	rest.WriteJSON(w, http.StatusOK, event.ToDTO(calendarEvent, h.loc))
}

func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	progress, err := h.service.ListProgress(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]ProgressDTO, 0, len(progress))
	for _, p := range progress {
		dtos = append(dtos, progressToDTO(p))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) AddProgress(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	p, ok := decodeProgress(w, r)
	if !ok {
		return
	}
	created, err := h.service.AddProgress(r.Context(), companyID, p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, progressToDTO(created))
}

func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	id, ok := uuidFromPath(w, r, "progressId")
	if !ok {
		return
	}
	p, ok := decodeProgress(w, r)
	if !ok {
		return
	}
	p.ID = id
	updated, err := h.service.UpdateProgress(r.Context(), companyID, p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, progressToDTO(updated))
}

func (h *Handler) DeleteProgress(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	id, ok := uuidFromPath(w, r, "progressId")
	if !ok {
		return
	}
	if err := h.service.DeleteProgress(r.Context(), companyID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (Event, bool) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return Event{}, false
	}
	e, err := eventFromDTO(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid selection event", err.Error())
		return Event{}, false
	}
	return e, true
}

func decodeProgress(w http.ResponseWriter, r *http.Request) (Progress, bool) {
	var dto ProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return Progress{}, false
	}
	p := Progress{Track: TrackType(dto.TrackType), Stage: dto.Stage, Notes: dto.Notes}
	if dto.PassedDate != "" {
		passed, err := time.Parse(time.DateOnly, dto.PassedDate)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid selection progress", "passedDate must be YYYY-MM-DD")
			return Progress{}, false
		}
		p.PassedDate = passed
	}
	return p, true
}

func eventFromDTO(dto EventDTO) (Event, error) {
	e := Event{
		Track:        TrackType(dto.TrackType),
		EventType:    dto.EventType,
		Title:        dto.Title,
		DateType:     DateType(dto.DateType),
		DeadlineTime: dto.DeadlineTime,
		StartTime:    dto.StartTime,
		EndTime:      dto.EndTime,
		Memo:         dto.Memo,
	}
	var err error
	if e.DeadlineDate, err = parseDate(dto.DeadlineDate); err != nil {
		return Event{}, fmt.Errorf("deadlineDate: %w", err)
	}
	if e.StartDate, err = parseDate(dto.StartDate); err != nil {
		return Event{}, fmt.Errorf("startDate: %w", err)
	}
	if e.EndDate, err = parseDate(dto.EndDate); err != nil {
		return Event{}, fmt.Errorf("endDate: %w", err)
	}
	return e, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(time.DateOnly)
}

func eventToDTO(v EventView) EventDTO {
	dto := EventDTO{
		ID:           v.ID.String(),
		TrackType:    string(v.Track),
		EventType:    v.EventType,
		Title:        v.Title,
		DateType:     string(v.DateType),
		DeadlineDate: formatDate(v.DeadlineDate),
		DeadlineTime: v.DeadlineTime,
		StartDate:    formatDate(v.StartDate),
		StartTime:    v.StartTime,
		EndDate:      formatDate(v.EndDate),
		EndTime:      v.EndTime,
		Status:       string(v.Status),
		Memo:         v.Memo,
	}
	if v.CalendarEventID.Valid {
		dto.CalendarEventID = v.CalendarEventID.UUID.String()
	}
	return dto
}

func progressToDTO(p Progress) ProgressDTO {
	return ProgressDTO{
		ID:         p.ID.String(),
		TrackType:  string(p.Track),
		Stage:      p.Stage,
		PassedDate: p.PassedDate.Format(time.DateOnly),
		Notes:      p.Notes,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSelectionEventNotFound), errors.Is(err, ErrProgressNotFound),
		errors.Is(err, company.ErrCompanyNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidSelection), errors.Is(err, event.ErrInvalidEvent):
		rest.WriteError(w, http.StatusBadRequest, "Invalid selection data", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func uuidFromPath(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+name, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
