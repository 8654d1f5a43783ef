package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobcal/jobcal/internal/config"
	"github.com/jobcal/jobcal/internal/database"
	"github.com/jobcal/jobcal/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	db     *pgxpool.Pool
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication connects to the database, applies migrations and builds the router.
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(cfg.Database); err != nil {
		db.Close()
		return nil, err
	}

	deps, err := BuildDependencies(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	if cfg.Frontend.Enabled {
		frontend := rest.NewFrontendHandler("frontend", "index.html")
		r.PathPrefix("/").Handler(frontend)
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, db: db, deps: deps, router: r, srv: srv}, nil
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

// Run serves HTTP and the reminder schedule until ctx is cancelled, then shuts both down.
func (a *Application) Run(ctx context.Context) error {
	defer a.db.Close()

	if a.cfg.Notifications.Enabled {
		if err := a.deps.NotificationDispatcher.Start(a.cfg.Notifications.Schedule, a.deps.Location); err != nil {
			return err
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case runErr = <-serveErr:
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.deps.NotificationDispatcher.Stop(shutdownCtx)
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown failed: %v", err)
		return errors.Join(runErr, err)
	}
	return runErr
}
