package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobcal/jobcal/internal/config"
	"github.com/jobcal/jobcal/internal/database"
	"github.com/jobcal/jobcal/internal/event_bus"
	"github.com/jobcal/jobcal/internal/utils"
	"github.com/jobcal/jobcal/pkg/calendar"
	"github.com/jobcal/jobcal/pkg/color_preset"
	"github.com/jobcal/jobcal/pkg/company"
	"github.com/jobcal/jobcal/pkg/event"
	"github.com/jobcal/jobcal/pkg/ics"
	"github.com/jobcal/jobcal/pkg/memo"
	"github.com/jobcal/jobcal/pkg/notification"
	"github.com/jobcal/jobcal/pkg/selection"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock     utils.Clock
	EventBus  *event_bus.EventBus
	Location  *time.Location
	WeekStart time.Weekday

	EventService *event.ServiceImpl
	EventHandler *event.Handler

	ColorPresetService *color_preset.ServiceImpl
	ColorPresetHandler *color_preset.Handler

	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler
	IcsHandler      *ics.Handler

	CompanyService *company.ServiceImpl
	CompanyHandler *company.Handler
	MemoService    *memo.ServiceImpl
	MemoHandler    *memo.Handler

	SelectionService *selection.ServiceImpl
	SelectionHandler *selection.Handler

	NotificationPlanner    *notification.Planner
	NotificationDispatcher *notification.Dispatcher
	NotificationHandler    *notification.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekStart, err := cfg.FirstDayOfWeek()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Clock:     &utils.SystemClock{},
		EventBus:  event_bus.NewEventBus(),
		Location:  loc,
		WeekStart: weekStart,
	}

	deps.EventService = event.NewService(event.NewRepository(db), deps.EventBus)
	deps.EventHandler = event.NewHandler(deps.EventService, loc)

	deps.ColorPresetService = color_preset.NewService(color_preset.NewRepository(db))
	deps.ColorPresetHandler = color_preset.NewHandler(deps.ColorPresetService)

	deps.CalendarService = calendar.NewService(deps.EventService, deps.ColorPresetService, deps.Clock, loc, weekStart)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)
	deps.IcsHandler = ics.NewHandler(deps.EventService, loc, deps.Clock)

	deps.CompanyService = company.NewService(company.NewRepository(db))
	deps.CompanyHandler = company.NewHandler(deps.CompanyService, loc)
	deps.MemoService = memo.NewService(memo.NewRepository(db), deps.CompanyService)
	deps.MemoHandler = memo.NewHandler(deps.MemoService, loc)

	deps.SelectionService = selection.NewService(
		selection.NewRepository(db),
		deps.CompanyService,
		deps.EventService,
		deps.EventBus,
		deps.Clock,
		loc,
	)
	deps.SelectionHandler = selection.NewHandler(deps.SelectionService, loc)

	lookahead := cfg.Notifications.LookaheadDays
	if lookahead < 1 {
		return nil, fmt.Errorf("notifications lookahead must be at least one day, got %d", lookahead)
	}
	deps.NotificationPlanner = notification.NewPlanner(loc)
	deps.NotificationDispatcher = notification.NewDispatcher(deps.EventService, deps.NotificationPlanner, deps.EventBus, deps.Clock)
	deps.NotificationHandler = notification.NewHandler(deps.EventService, deps.NotificationPlanner, deps.Clock, loc,
		time.Duration(lookahead)*24*time.Hour)
	notification.LogDelivery(deps.EventBus, loc)

	return deps, nil
}

// OpenDependencies connects to the database and builds the services without starting the
// HTTP server. The returned close func releases the connection pool.
func OpenDependencies(ctx context.Context, cfg config.Application) (*Dependencies, func(), error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	deps, err := BuildDependencies(db, cfg)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return deps, db.Close, nil
}
