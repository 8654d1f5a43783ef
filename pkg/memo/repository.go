package memo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// List returns the memos of a note, newest first.
	List(ctx context.Context, noteID uuid.UUID, includeDeleted bool) ([]Memo, error)
	Get(ctx context.Context, noteID, id uuid.UUID) (Memo, error)
	Create(ctx context.Context, memo Memo) (Memo, error)
	Update(ctx context.Context, memo Memo) (Memo, error)
	SetDeleted(ctx context.Context, noteID, id uuid.UUID, deleted bool) (Memo, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const memoColumns = `id, company_note_id, category, title, content, is_deleted, created_at, updated_at`

func scanMemo(row pgx.Row) (Memo, error) {
	var m Memo
	var category string
	err := row.Scan(&m.ID, &m.NoteID, &category, &m.Title, &m.Content, &m.Deleted, &m.CreatedAt, &m.UpdatedAt)
	m.Category = Category(category)
	return m, err
}

func (r *RepositoryImpl) List(ctx context.Context, noteID uuid.UUID, includeDeleted bool) ([]Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM company_memos
			  WHERE company_note_id = $1 AND ($2 OR NOT is_deleted)
			  ORDER BY created_at DESC, id`
	rows, err := r.db.Query(ctx, query, noteID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("could not list memos: %w", err)
	}
	defer rows.Close()

	memos := make([]Memo, 0)
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, m)
	}
	return memos, rows.Err()
}

func (r *RepositoryImpl) Get(ctx context.Context, noteID, id uuid.UUID) (Memo, error) {
	m, err := scanMemo(r.db.QueryRow(ctx,
		`SELECT `+memoColumns+` FROM company_memos WHERE company_note_id = $1 AND id = $2`, noteID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Memo{}, ErrMemoNotFound
		}
		return Memo{}, fmt.Errorf("could not get memo: %w", err)
	}
	return m, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, memo Memo) (Memo, error) {
	if memo.ID == uuid.Nil {
		memo.ID = uuid.New()
	}
	created, err := scanMemo(r.db.QueryRow(ctx,
		`INSERT INTO company_memos (id, company_note_id, category, title, content) VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+memoColumns,
		memo.ID, memo.NoteID, string(memo.Category), memo.Title, memo.Content))
	if err != nil {
		return Memo{}, fmt.Errorf("could not create memo: %w", err)
	}
	return created, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, memo Memo) (Memo, error) {
	updated, err := scanMemo(r.db.QueryRow(ctx,
		`UPDATE company_memos SET category = $3, title = $4, content = $5, updated_at = now()
		 WHERE company_note_id = $1 AND id = $2
		 RETURNING `+memoColumns,
		memo.NoteID, memo.ID, string(memo.Category), memo.Title, memo.Content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Memo{}, ErrMemoNotFound
		}
		return Memo{}, fmt.Errorf("could not update memo: %w", err)
	}
	return updated, nil
}

func (r *RepositoryImpl) SetDeleted(ctx context.Context, noteID, id uuid.UUID, deleted bool) (Memo, error) {
	m, err := scanMemo(r.db.QueryRow(ctx,
		`UPDATE company_memos SET is_deleted = $3, updated_at = now()
		 WHERE company_note_id = $1 AND id = $2
		 RETURNING `+memoColumns,
		noteID, id, deleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Memo{}, ErrMemoNotFound
		}
		return Memo{}, fmt.Errorf("could not mark memo deleted=%t: %w", deleted, err)
	}
	return m, nil
}
