package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// ListEvents orders by key date (deadline, else start), undated last.
	ListEvents(ctx context.Context, noteID uuid.UUID) ([]Event, error)
	GetEvent(ctx context.Context, noteID, id uuid.UUID) (Event, error)
	CreateEvent(ctx context.Context, e Event) (Event, error)
	UpdateEvent(ctx context.Context, e Event) (Event, error)
	DeleteEvent(ctx context.Context, noteID, id uuid.UUID) (bool, error)
	SetCalendarEvent(ctx context.Context, id uuid.UUID, calendarEventID uuid.NullUUID) error
	// UnlinkCalendarEvent clears every reference to calendarEventID and returns how many were cleared.
	UnlinkCalendarEvent(ctx context.Context, calendarEventID uuid.UUID) (int64, error)

	// ListProgress orders by passed date, newest first, then by creation time.
	ListProgress(ctx context.Context, noteID uuid.UUID) ([]Progress, error)
	CreateProgress(ctx context.Context, p Progress) (Progress, error)
	UpdateProgress(ctx context.Context, p Progress) (Progress, error)
	DeleteProgress(ctx context.Context, noteID, id uuid.UUID) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const eventColumns = `id, company_note_id, track_type, event_type, title, date_type,
	deadline_date, deadline_time, start_date, start_time, end_date, end_time, memo,
	calendar_event_id, created_at, updated_at`

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	var track, dateType string
	err := row.Scan(
		&e.ID,
		&e.NoteID,
		&track,
		&e.EventType,
		&e.Title,
		&dateType,
		&e.DeadlineDate,
		&e.DeadlineTime,
		&e.StartDate,
		&e.StartTime,
		&e.EndDate,
		&e.EndTime,
		&e.Memo,
		&e.CalendarEventID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	e.Track = TrackType(track)
	e.DateType = DateType(dateType)
	return e, err
}

func (r *RepositoryImpl) ListEvents(ctx context.Context, noteID uuid.UUID) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM selection_events
			  WHERE company_note_id = $1
			  ORDER BY COALESCE(deadline_date, start_date) ASC NULLS LAST, created_at, id`
	rows, err := r.db.Query(ctx, query, noteID)
	if err != nil {
		log.Errorf("failed to list selection events: %v", err)
		return nil, fmt.Errorf("could not list selection events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, noteID, id uuid.UUID) (Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM selection_events WHERE company_note_id = $1 AND id = $2`, noteID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrSelectionEventNotFound
		}
		return Event{}, fmt.Errorf("could not get selection event: %w", err)
	}
	return e, nil
}

func (r *RepositoryImpl) CreateEvent(ctx context.Context, e Event) (Event, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	query := `INSERT INTO selection_events (
				id, company_note_id, track_type, event_type, title, date_type,
				deadline_date, deadline_time, start_date, start_time, end_date, end_time, memo, calendar_event_id
			  ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING ` + eventColumns
	created, err := scanEvent(r.db.QueryRow(ctx, query,
		e.ID, e.NoteID, string(e.Track), e.EventType, e.Title, string(e.DateType),
		e.DeadlineDate, e.DeadlineTime, e.StartDate, e.StartTime, e.EndDate, e.EndTime, e.Memo, e.CalendarEventID,
	))
	if err != nil {
		log.Errorf("failed to create selection event: %v", err)
		return Event{}, fmt.Errorf("could not create selection event: %w", err)
	}
	return created, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, e Event) (Event, error) {
	query := `UPDATE selection_events SET
				track_type = $3, event_type = $4, title = $5, date_type = $6,
				deadline_date = $7, deadline_time = $8, start_date = $9, start_time = $10,
				end_date = $11, end_time = $12, memo = $13, updated_at = now()
			  WHERE company_note_id = $1 AND id = $2
			  RETURNING ` + eventColumns
	updated, err := scanEvent(r.db.QueryRow(ctx, query,
		e.NoteID, e.ID, string(e.Track), e.EventType, e.Title, string(e.DateType),
		e.DeadlineDate, e.DeadlineTime, e.StartDate, e.StartTime, e.EndDate, e.EndTime, e.Memo,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrSelectionEventNotFound
		}
		return Event{}, fmt.Errorf("could not update selection event: %w", err)
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, noteID, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM selection_events WHERE company_note_id = $1 AND id = $2`, noteID, id)
	if err != nil {
		return false, fmt.Errorf("could not delete selection event: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) SetCalendarEvent(ctx context.Context, id uuid.UUID, calendarEventID uuid.NullUUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE selection_events SET calendar_event_id = $2, updated_at = now() WHERE id = $1`, id, calendarEventID)
	if err != nil {
		return fmt.Errorf("could not link calendar event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSelectionEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) UnlinkCalendarEvent(ctx context.Context, calendarEventID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE selection_events SET calendar_event_id = NULL, updated_at = now() WHERE calendar_event_id = $1`,
		calendarEventID)
	if err != nil {
		return 0, fmt.Errorf("could not unlink calendar event: %w", err)
	}
	return result.RowsAffected(), nil
}

const progressColumns = `id, company_note_id, track_type, stage, passed_date, notes, created_at, updated_at`

func scanProgress(row pgx.Row) (Progress, error) {
	var p Progress
	var track string
	err := row.Scan(&p.ID, &p.NoteID, &track, &p.Stage, &p.PassedDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	p.Track = TrackType(track)
	return p, err
}

func (r *RepositoryImpl) ListProgress(ctx context.Context, noteID uuid.UUID) ([]Progress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+progressColumns+` FROM selection_progress WHERE company_note_id = $1
		 ORDER BY passed_date DESC, created_at DESC, id`, noteID)
	if err != nil {
		return nil, fmt.Errorf("could not list selection progress: %w", err)
	}
	defer rows.Close()

	progress := make([]Progress, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

func (r *RepositoryImpl) CreateProgress(ctx context.Context, p Progress) (Progress, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	created, err := scanProgress(r.db.QueryRow(ctx,
		`INSERT INTO selection_progress (id, company_note_id, track_type, stage, passed_date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+progressColumns,
		p.ID, p.NoteID, string(p.Track), p.Stage, p.PassedDate, p.Notes))
	if err != nil {
		return Progress{}, fmt.Errorf("could not create selection progress: %w", err)
	}
	return created, nil
}

func (r *RepositoryImpl) UpdateProgress(ctx context.Context, p Progress) (Progress, error) {
	updated, err := scanProgress(r.db.QueryRow(ctx,
		`UPDATE selection_progress SET track_type = $3, stage = $4, passed_date = $5, notes = $6, updated_at = now()
		 WHERE company_note_id = $1 AND id = $2
		 RETURNING `+progressColumns,
		p.NoteID, p.ID, string(p.Track), p.Stage, p.PassedDate, p.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Progress{}, ErrProgressNotFound
		}
		return Progress{}, fmt.Errorf("could not update selection progress: %w", err)
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteProgress(ctx context.Context, noteID, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM selection_progress WHERE company_note_id = $1 AND id = $2`, noteID, id)
	if err != nil {
		return false, fmt.Errorf("could not delete selection progress: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
