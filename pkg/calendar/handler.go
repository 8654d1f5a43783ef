package calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jobcal/jobcal/internal/rest"
	"github.com/jobcal/jobcal/internal/utils"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	EventID       string `json:"eventId"`
	Title         string `json:"title"`
	Start         string `json:"start"`
	End           string `json:"end"`
	AllDay        bool   `json:"allDay"`
	ColorID       string `json:"colorId,omitempty"`
	Color         string `json:"color,omitempty"`
	ColorLabel    string `json:"colorLabel,omitempty"`
	PreparationID string `json:"preparationId,omitempty"`
}

type DayDTO struct {
	Date    string     `json:"date"`
	Entries []EntryDTO `json:"entries"`
}

type DayCellDTO struct {
	Date     string     `json:"date"`
	Entries  []EntryDTO `json:"entries"`
	Overflow int        `json:"overflow"`
	Total    int        `json:"total"`
}

type MonthDTO struct {
	Year          int          `json:"year"`
	Month         int          `json:"month"`
	WeekStart     int          `json:"weekStart"`
	LeadingBlanks int          `json:"leadingBlanks"`
	Weeks         int          `json:"weeks"`
	MaxPerDay     int          `json:"maxPerDay"`
	Days          []DayCellDTO `json:"days"`
}

type Handler struct {
	calendar *Service
	clock    utils.Clock
}

func NewHandler(s *Service) *Handler {
	return &Handler{calendar: s, clock: s.clock}
}

// GetDay godoc
// @Summary Occurrences on one day
// @Tags Calendar
// @Produce json
// @Param date query string true "Date in YYYY-MM-DD format"
// @Success 200 {object} DayDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/day [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := time.ParseInLocation(time.DateOnly, r.URL.Query().Get("date"), h.calendar.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "'date' must be in YYYY-MM-DD format")
		return
	}
	day, err := h.calendar.Day(r.Context(), date)
	if err != nil {
		log.Errorf("failed to build day view: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, dayToDTO(day))
}

// GetToday godoc
// @Summary Today's agenda
// @Tags Calendar
// @Produce json
// @Success 200 {object} DayDTO
// @Router /api/calendar/today [get]
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	day, err := h.calendar.Today(r.Context())
	if err != nil {
		log.Errorf("failed to build today view: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, dayToDTO(day))
}

// GetMonth godoc
// @Summary Month grid
// @Description Days of the month with at most maxPerDay entries each and the hidden count
// @Tags Calendar
// @Produce json
// @Param year query int false "Year, defaults to the current year"
// @Param month query int false "Month 1-12, defaults to the current month"
// @Success 200 {object} MonthDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/month [get]
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now().In(h.calendar.Location())
	year, month := now.Year(), int(now.Month())
	var err error
	if v := r.URL.Query().Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil || year < 1 || year > 9999 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid year", "'year' must be a number between 1 and 9999")
			return
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil || month < 1 || month > 12 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month", "'month' must be a number between 1 and 12")
			return
		}
	}

	view, err := h.calendar.Month(r.Context(), year, time.Month(month))
	if err != nil {
		log.Errorf("failed to build month view: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, monthToDTO(view))
}

func entryToDTO(e Entry) EntryDTO {
	dto := EntryDTO{
		ID:      e.ID,
		Kind:    string(e.Kind),
		EventID: e.EventID.String(),
		Title:   e.Title,
		Start:   e.Start.Format(time.RFC3339),
		End:     e.End.Format(time.RFC3339),
		AllDay:  e.AllDay,
	}
	if e.ColorID.Valid {
		dto.ColorID = e.ColorID.UUID.String()
	}
	if e.Color != nil {
		dto.Color = e.Color.Color
		dto.ColorLabel = e.Color.Label
	}
	if e.Preparation != nil {
		dto.PreparationID = e.Preparation.ID.String()
	}
	return dto
}

func entriesToDTO(entries []Entry) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, entryToDTO(e))
	}
	return dtos
}

func dayToDTO(d Day) DayDTO {
	return DayDTO{Date: d.Date.Format(time.DateOnly), Entries: entriesToDTO(d.Entries)}
}

func monthToDTO(m Month) MonthDTO {
	dto := MonthDTO{
		Year:          m.Year,
		Month:         int(m.Month),
		WeekStart:     int(m.WeekStart),
		LeadingBlanks: m.LeadingBlanks,
		Weeks:         m.Weeks,
		MaxPerDay:     m.MaxPerDay,
		Days:          make([]DayCellDTO, 0, len(m.Days)),
	}
	for _, d := range m.Days {
		dto.Days = append(dto.Days, DayCellDTO{
			Date:     d.Date.Format(time.DateOnly),
			Entries:  entriesToDTO(d.Entries),
			Overflow: d.Overflow,
			Total:    d.Total,
		})
	}
	return dto
}
