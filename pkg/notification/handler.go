package notification

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jobcal/jobcal/internal/rest"
	"github.com/jobcal/jobcal/internal/utils"
)

const maxWindowHours = 24 * 31

type ReminderDTO struct {
	EventID         string `json:"eventId"`
	OccurrenceID    string `json:"occurrenceId"`
	Title           string `json:"title"`
	OccurrenceStart string `json:"occurrenceStart"`
	FireAt          string `json:"fireAt"`
	Type            string `json:"type"`
	ReferenceTime   string `json:"referenceTime"`
}

type Handler struct {
	events        EventLister
	planner       *Planner
	clock         utils.Clock
	loc           *time.Location
	defaultWindow time.Duration
}

func NewHandler(events EventLister, planner *Planner, clock utils.Clock, loc *time.Location, defaultWindow time.Duration) *Handler {
	return &Handler{events: events, planner: planner, clock: clock, loc: loc, defaultWindow: defaultWindow}
}

// Upcoming godoc
// @Summary Upcoming reminders
// @Description Reminders firing between now and now plus the given number of hours
// @Tags Notification
// @Produce json
// @Param hours query int false "Window length in hours"
// @Success 200 {array} ReminderDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/notifications/upcoming [get]
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	window := h.defaultWindow
	if raw := r.URL.Query().Get("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 || hours > maxWindowHours {
			rest.WriteError(w, http.StatusBadRequest, "Invalid hours", "hours must be between 1 and "+strconv.Itoa(maxWindowHours))
			return
		}
		window = time.Duration(hours) * time.Hour
	}

	events, err := h.events.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	reminders := h.planner.Upcoming(h.clock.Now(), window, events)
	dtos := make([]ReminderDTO, 0, len(reminders))
	for _, rem := range reminders {
		dtos = append(dtos, ReminderDTO{
			EventID:         rem.EventID.String(),
			OccurrenceID:    rem.OccurrenceID,
			Title:           rem.Title,
			OccurrenceStart: rem.OccurrenceStart.In(h.loc).Format(time.RFC3339),
			FireAt:          rem.FireAt.In(h.loc).Format(time.RFC3339),
			Type:            string(rem.Config.Type),
			ReferenceTime:   string(rem.Config.ReferenceTime),
		})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
