package color_preset

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	// List returns presets ordered by order index.
	List(ctx context.Context) ([]ColorPreset, error)
	Get(ctx context.Context, id uuid.UUID) (ColorPreset, error)
	// Create appends the preset after the last one.
	Create(ctx context.Context, preset ColorPreset) (ColorPreset, error)
	Update(ctx context.Context, preset ColorPreset) (ColorPreset, error)
	UpdateOrderIndex(ctx context.Context, id uuid.UUID, orderIndex int) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) getQueryer() interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
} {
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

func (r *RepositoryImpl) List(ctx context.Context) ([]ColorPreset, error) {
	rows, err := r.getQueryer().Query(ctx, `SELECT id, label, color, order_index FROM color_presets ORDER BY order_index, id`)
	if err != nil {
		return nil, fmt.Errorf("could not list color presets: %w", err)
	}
	defer rows.Close()

	presets := make([]ColorPreset, 0)
	for rows.Next() {
		var p ColorPreset
		if err := rows.Scan(&p.ID, &p.Label, &p.Color, &p.OrderIndex); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (ColorPreset, error) {
	var p ColorPreset
	err := r.getQueryer().QueryRow(ctx, `SELECT id, label, color, order_index FROM color_presets WHERE id = $1`, id).
		Scan(&p.ID, &p.Label, &p.Color, &p.OrderIndex)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ColorPreset{}, ErrColorPresetNotFound
		}
		return ColorPreset{}, fmt.Errorf("could not get color preset: %w", err)
	}
	return p, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, preset ColorPreset) (ColorPreset, error) {
	if preset.ID == uuid.Nil {
		preset.ID = uuid.New()
	}
	query := `INSERT INTO color_presets (id, label, color, order_index)
			  VALUES ($1, $2, $3, (SELECT COALESCE(MAX(order_index) + 1, 0) FROM color_presets))
			  RETURNING order_index`
	err := r.getQueryer().QueryRow(ctx, query, preset.ID, preset.Label, preset.Color).Scan(&preset.OrderIndex)
	if err != nil {
		log.Errorf("failed to create color preset: %v", err)
		return ColorPreset{}, fmt.Errorf("could not create color preset: %w", err)
	}
	return preset, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, preset ColorPreset) (ColorPreset, error) {
	query := `UPDATE color_presets SET label = $2, color = $3 WHERE id = $1 RETURNING order_index`
	err := r.getQueryer().QueryRow(ctx, query, preset.ID, preset.Label, preset.Color).Scan(&preset.OrderIndex)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ColorPreset{}, ErrColorPresetNotFound
		}
		return ColorPreset{}, fmt.Errorf("could not update color preset: %w", err)
	}
	return preset, nil
}

func (r *RepositoryImpl) UpdateOrderIndex(ctx context.Context, id uuid.UUID, orderIndex int) (bool, error) {
	result, err := r.getQueryer().Exec(ctx, `UPDATE color_presets SET order_index = $2 WHERE id = $1`, id, orderIndex)
	if err != nil {
		return false, fmt.Errorf("could not update order index: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM color_presets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete color preset: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
