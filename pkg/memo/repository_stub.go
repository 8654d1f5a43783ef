package memo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu    sync.RWMutex
	memos map[uuid.UUID]Memo
	clock time.Time
}

func NewRepositoryStub() *RepositoryStub {
	r := &RepositoryStub{}
	r.Reset()
	return r
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memos = make(map[uuid.UUID]Memo)
	r.clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (r *RepositoryStub) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *RepositoryStub) List(ctx context.Context, noteID uuid.UUID, includeDeleted bool) ([]Memo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	memos := make([]Memo, 0)
	for _, m := range r.memos {
		if m.NoteID == noteID && (includeDeleted || !m.Deleted) {
			memos = append(memos, m)
		}
	}
	sort.Slice(memos, func(i, j int) bool {
		return memos[i].CreatedAt.After(memos[j].CreatedAt)
	})
	return memos, nil
}

func (r *RepositoryStub) Get(ctx context.Context, noteID, id uuid.UUID) (Memo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.memos[id]
	if !ok || m.NoteID != noteID {
		return Memo{}, ErrMemoNotFound
	}
	return m, nil
}

func (r *RepositoryStub) Create(ctx context.Context, memo Memo) (Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if memo.ID == uuid.Nil {
		memo.ID = uuid.New()
	}
	now := r.tick()
	memo.CreatedAt, memo.UpdatedAt = now, now
	memo.Deleted = false
	r.memos[memo.ID] = memo
	return memo, nil
}

func (r *RepositoryStub) Update(ctx context.Context, memo Memo) (Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.memos[memo.ID]
	if !ok || existing.NoteID != memo.NoteID {
		return Memo{}, ErrMemoNotFound
	}
	existing.Category = memo.Category
	existing.Title = memo.Title
	existing.Content = memo.Content
	existing.UpdatedAt = r.tick()
	r.memos[memo.ID] = existing
	return existing, nil
}

func (r *RepositoryStub) SetDeleted(ctx context.Context, noteID, id uuid.UUID, deleted bool) (Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.memos[id]
	if !ok || existing.NoteID != noteID {
		return Memo{}, ErrMemoNotFound
	}
	existing.Deleted = deleted
	existing.UpdatedAt = r.tick()
	r.memos[id] = existing
	return existing, nil
}
