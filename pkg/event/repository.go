package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	Create(ctx context.Context, event Event) (Event, error)
	// Update overwrites the event and replaces all of its preparation dates.
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (Event, error)
	// List returns all events, with preparation dates, ordered by start.
	List(ctx context.Context) ([]Event, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

type queryer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
}

// getQueryer returns the transaction when running inside WithTransaction, the pool otherwise.
func (r *RepositoryImpl) getQueryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if err := fn(&RepositoryImpl{db: r.db, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const eventColumns = `
	e.id,
	e.title,
	e.start_at,
	e.end_at,
	e.all_day,
	e.color_id,
	e.event_type,
	e.company_name,
	e.meeting_url,
	e.location,
	e.memo,
	e.deadline_at,
	e.recurrence_type,
	e.recurrence_interval,
	e.recurrence_days,
	e.recurrence_monthly_type,
	e.recurrence_monthly_day,
	e.recurrence_monthly_weekday,
	e.recurrence_end_type,
	e.recurrence_end_count,
	e.recurrence_end_date,
	e.notifications`

func (r *RepositoryImpl) Create(ctx context.Context, event Event) (Event, error) {
	var created Event
	err := r.WithTransaction(ctx, func(repo Repository) error {
		txRepo := repo.(*RepositoryImpl)
		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		args, err := eventArgs(event)
		if err != nil {
			return err
		}
		query := `INSERT INTO events (
				id, title, start_at, end_at, all_day, color_id, event_type, company_name, meeting_url,
				location, memo, deadline_at, recurrence_type, recurrence_interval, recurrence_days,
				recurrence_monthly_type, recurrence_monthly_day, recurrence_monthly_weekday,
				recurrence_end_type, recurrence_end_count, recurrence_end_date, notifications
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
		if _, err := txRepo.getQueryer().Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("could not insert event: %w", err)
		}
		preps, err := txRepo.insertPreparationDates(ctx, event.ID, event.PreparationDates)
		if err != nil {
			return err
		}
		created = event
		created.PreparationDates = preps
		return nil
	})
	if err != nil {
		log.Errorf("failed to create event: %v", err)
		return Event{}, err
	}
	return created, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, event Event) (Event, error) {
	var updated Event
	err := r.WithTransaction(ctx, func(repo Repository) error {
		txRepo := repo.(*RepositoryImpl)
		args, err := eventArgs(event)
		if err != nil {
			return err
		}
		query := `UPDATE events SET
				title = $2, start_at = $3, end_at = $4, all_day = $5, color_id = $6, event_type = $7,
				company_name = $8, meeting_url = $9, location = $10, memo = $11, deadline_at = $12,
				recurrence_type = $13, recurrence_interval = $14, recurrence_days = $15,
				recurrence_monthly_type = $16, recurrence_monthly_day = $17, recurrence_monthly_weekday = $18,
				recurrence_end_type = $19, recurrence_end_count = $20, recurrence_end_date = $21,
				notifications = $22, updated_at = now()
			WHERE id = $1`
		result, err := txRepo.getQueryer().Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("could not update event: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrEventNotFound
		}
		if _, err := txRepo.getQueryer().Exec(ctx, `DELETE FROM preparation_dates WHERE event_id = $1`, event.ID); err != nil {
			return fmt.Errorf("could not delete preparation dates: %w", err)
		}
		preps, err := txRepo.insertPreparationDates(ctx, event.ID, event.PreparationDates)
		if err != nil {
			return err
		}
		updated = event
		updated.PreparationDates = preps
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEventNotFound) {
			log.Errorf("failed to update event %s: %v", event.ID, err)
		}
		return Event{}, err
	}
	return updated, nil
}

func (r *RepositoryImpl) insertPreparationDates(ctx context.Context, eventID uuid.UUID, preps []PreparationDate) ([]PreparationDate, error) {
	stored := make([]PreparationDate, 0, len(preps))
	query := `INSERT INTO preparation_dates (id, event_id, date, end_date, title) VALUES ($1, $2, $3, $4, $5)`
	for _, p := range preps {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.EventID = eventID
		if _, err := r.getQueryer().Exec(ctx, query, p.ID, p.EventID, p.Date, p.EndDate, p.Title); err != nil {
			return nil, fmt.Errorf("could not insert preparation date: %w", err)
		}
		stored = append(stored, p)
	}
	return stored, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		log.Errorf("failed to delete event %s: %v", id, err)
		return false, fmt.Errorf("could not delete event: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`
	event, err := scanEvent(r.getQueryer().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, fmt.Errorf("could not get event: %w", err)
	}

	preps, err := r.preparationDates(ctx, `WHERE event_id = $1`, id)
	if err != nil {
		return Event{}, err
	}
	event.PreparationDates = preps[id]
	return event, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e ORDER BY e.start_at, e.id`
	rows, err := r.getQueryer().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	preps, err := r.preparationDates(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].PreparationDates = preps[events[i].ID]
	}
	return events, nil
}

// preparationDates loads preparation dates grouped by event id.
func (r *RepositoryImpl) preparationDates(ctx context.Context, where string, args ...any) (map[uuid.UUID][]PreparationDate, error) {
	query := `SELECT id, event_id, date, end_date, title FROM preparation_dates ` + where + ` ORDER BY date, id`
	rows, err := r.getQueryer().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list preparation dates: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]PreparationDate)
	for rows.Next() {
		var p PreparationDate
		if err := rows.Scan(&p.ID, &p.EventID, &p.Date, &p.EndDate, &p.Title); err != nil {
			return nil, fmt.Errorf("could not scan preparation date: %w", err)
		}
		result[p.EventID] = append(result[p.EventID], p)
	}
	return result, rows.Err()
}

func eventArgs(e Event) ([]any, error) {
	notifications := e.Notifications
	if notifications == nil {
		notifications = []NotificationConfig{}
	}
	notificationsJSON, err := json.Marshal(notifications)
	if err != nil {
		return nil, fmt.Errorf("could not encode notifications: %w", err)
	}
	days := make([]int32, 0, len(e.Recurrence.Days))
	for _, d := range e.Recurrence.Days {
		days = append(days, int32(d))
	}
	recurrenceType := e.Recurrence.Type
	if recurrenceType == "" {
		recurrenceType = RecurrenceNone
	}
	return []any{
		e.ID,
		e.Title,
		e.StartAt,
		e.EndAt,
		e.AllDay,
		e.ColorID,
		string(e.EventType),
		e.CompanyName,
		e.MeetingURL,
		e.Location,
		e.Memo,
		e.DeadlineAt,
		string(recurrenceType),
		e.Recurrence.Step(),
		days,
		string(e.Recurrence.MonthlyType),
		e.Recurrence.MonthlyDay,
		e.Recurrence.MonthlyWeekday,
		string(e.Recurrence.End()),
		e.Recurrence.EndCount,
		e.Recurrence.EndDate,
		notificationsJSON,
	}, nil
}

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	var eventType, recurrenceType, monthlyType, endType string
	var days []int32
	var notificationsJSON []byte
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.StartAt,
		&e.EndAt,
		&e.AllDay,
		&e.ColorID,
		&eventType,
		&e.CompanyName,
		&e.MeetingURL,
		&e.Location,
		&e.Memo,
		&e.DeadlineAt,
		&recurrenceType,
		&e.Recurrence.Interval,
		&days,
		&monthlyType,
		&e.Recurrence.MonthlyDay,
		&e.Recurrence.MonthlyWeekday,
		&endType,
		&e.Recurrence.EndCount,
		&e.Recurrence.EndDate,
		&notificationsJSON,
	)
	if err != nil {
		return Event{}, err
	}
	e.EventType = EventType(eventType)
	e.Recurrence.Type = RecurrenceType(recurrenceType)
	e.Recurrence.MonthlyType = MonthlyType(monthlyType)
	e.Recurrence.EndType = EndType(endType)
	for _, d := range days {
		e.Recurrence.Days = append(e.Recurrence.Days, int(d))
	}
	if len(notificationsJSON) > 0 {
		if err := json.Unmarshal(notificationsJSON, &e.Notifications); err != nil {
			return Event{}, fmt.Errorf("could not decode notifications: %w", err)
		}
	}
	return e, nil
}
