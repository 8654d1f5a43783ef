package ics

import (
	"context"
	"net/http"
	"time"

	"github.com/jobcal/jobcal/internal/utils"
	"github.com/jobcal/jobcal/pkg/event"
	log "github.com/sirupsen/logrus"
)

type EventLister interface {
	List(ctx context.Context) ([]event.Event, error)
}

type Handler struct {
	events EventLister
	feed   Feed
	clock  utils.Clock
}

func NewHandler(events EventLister, loc *time.Location, clock utils.Clock) *Handler {
	return &Handler{events: events, feed: Feed{Name: "jobcal", Loc: loc}, clock: clock}
}

// Feed godoc
// @Summary Calendar feed
// @Description All events as an iCalendar document, recurring events as RRULEs
// @Tags Calendar
// @Produce text/calendar
// @Success 200 {string} string "VCALENDAR"
// @Router /api/calendar/feed.ics [get]
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body := h.feed.Render(events, h.clock.Now().UTC())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="jobcal.ics"`)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write ICS feed: %v", err)
	}
}
