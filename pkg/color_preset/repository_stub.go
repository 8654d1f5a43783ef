package color_preset

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu      sync.RWMutex
	presets map[uuid.UUID]ColorPreset
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{presets: make(map[uuid.UUID]ColorPreset)}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	snapshot := make(map[uuid.UUID]ColorPreset, len(r.presets))
	for k, v := range r.presets {
		snapshot[k] = v
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.presets = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) List(ctx context.Context) ([]ColorPreset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	presets := make([]ColorPreset, 0, len(r.presets))
	for _, p := range r.presets {
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool {
		if presets[i].OrderIndex == presets[j].OrderIndex {
			return presets[i].ID.String() < presets[j].ID.String()
		}
		return presets[i].OrderIndex < presets[j].OrderIndex
	})
	return presets, nil
}

func (r *RepositoryStub) Get(ctx context.Context, id uuid.UUID) (ColorPreset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[id]
	if !ok {
		return ColorPreset{}, ErrColorPresetNotFound
	}
	return p, nil
}

func (r *RepositoryStub) Create(ctx context.Context, preset ColorPreset) (ColorPreset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if preset.ID == uuid.Nil {
		preset.ID = uuid.New()
	}
	next := 0
	for _, p := range r.presets {
		if p.OrderIndex >= next {
			next = p.OrderIndex + 1
		}
	}
	preset.OrderIndex = next
	r.presets[preset.ID] = preset
	return preset, nil
}

func (r *RepositoryStub) Update(ctx context.Context, preset ColorPreset) (ColorPreset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.presets[preset.ID]
	if !ok {
		return ColorPreset{}, ErrColorPresetNotFound
	}
	preset.OrderIndex = existing.OrderIndex
	r.presets[preset.ID] = preset
	return preset, nil
}

func (r *RepositoryStub) UpdateOrderIndex(ctx context.Context, id uuid.UUID, orderIndex int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.presets[id]
	if !ok {
		return false, nil
	}
	p.OrderIndex = orderIndex
	r.presets[id] = p
	return true, nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presets[id]; !ok {
		return false, nil
	}
	delete(r.presets, id)
	return true, nil
}
