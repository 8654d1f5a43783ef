package color_preset

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]ColorPreset, error)
	// Lookup returns all presets keyed by id.
	Lookup(ctx context.Context) (map[uuid.UUID]ColorPreset, error)
	Create(ctx context.Context, preset ColorPreset) (ColorPreset, error)
	Update(ctx context.Context, preset ColorPreset) (ColorPreset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Reorder rewrites order indexes to follow ids, which must name every preset once.
	Reorder(ctx context.Context, ids []uuid.UUID) ([]ColorPreset, error)
	// MoveAfter places a preset right after precedingId, or first when precedingId is not valid.
	MoveAfter(ctx context.Context, id uuid.UUID, precedingId uuid.NullUUID) ([]ColorPreset, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) List(ctx context.Context) ([]ColorPreset, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Lookup(ctx context.Context) (map[uuid.UUID]ColorPreset, error) {
	presets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	lookup := make(map[uuid.UUID]ColorPreset, len(presets))
	for _, p := range presets {
		lookup[p.ID] = p
	}
	return lookup, nil
}

func (s *ServiceImpl) Create(ctx context.Context, preset ColorPreset) (ColorPreset, error) {
	if err := preset.Validate(); err != nil {
		return ColorPreset{}, err
	}
	preset.ID = uuid.New()
	return s.repo.Create(ctx, preset)
}

func (s *ServiceImpl) Update(ctx context.Context, preset ColorPreset) (ColorPreset, error) {
	if err := preset.Validate(); err != nil {
		return ColorPreset{}, err
	}
	return s.repo.Update(ctx, preset)
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrColorPresetNotFound
	}
	return nil
}

func (s *ServiceImpl) Reorder(ctx context.Context, ids []uuid.UUID) ([]ColorPreset, error) {
	var reordered []ColorPreset
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		presets, err := repo.List(ctx)
		if err != nil {
			return err
		}
		if len(ids) != len(presets) {
			return ErrInvalidOrder
		}
		byId := make(map[uuid.UUID]ColorPreset, len(presets))
		for _, p := range presets {
			byId[p.ID] = p
		}
		ordered := make([]ColorPreset, 0, len(ids))
		for _, id := range ids {
			p, ok := byId[id]
			if !ok {
				return ErrInvalidOrder
			}
			delete(byId, id)
			ordered = append(ordered, p)
		}
		reordered, err = reorder(ctx, repo, ordered)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

func (s *ServiceImpl) MoveAfter(ctx context.Context, id uuid.UUID, precedingId uuid.NullUUID) ([]ColorPreset, error) {
	var reordered []ColorPreset
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		presets, err := repo.List(ctx)
		if err != nil {
			return err
		}
		idx := findPreset(id, presets)
		if idx == -1 {
			return ErrColorPresetNotFound
		}
		moved := presets[idx]
		rest := append(append([]ColorPreset{}, presets[:idx]...), presets[idx+1:]...)

		insertAt := 0
		if precedingId.Valid {
			prevIdx := findPreset(precedingId.UUID, rest)
			if prevIdx == -1 {
				return ErrColorPresetNotFound
			}
			insertAt = prevIdx + 1
		}
		ordered := make([]ColorPreset, 0, len(presets))
		ordered = append(ordered, rest[:insertAt]...)
		ordered = append(ordered, moved)
		ordered = append(ordered, rest[insertAt:]...)

		reordered, err = reorder(ctx, repo, ordered)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

// reorder writes contiguous order indexes, skipping presets already in place.
func reorder(ctx context.Context, repo Repository, presets []ColorPreset) ([]ColorPreset, error) {
	for i := range presets {
		if presets[i].OrderIndex == i {
			continue
		}
		updated, err := repo.UpdateOrderIndex(ctx, presets[i].ID, i)
		if err != nil {
			return nil, err
		}
		if !updated {
			log.Warnf("color preset %s disappeared while reordering", presets[i].ID)
			return nil, fmt.Errorf("%w: %s", ErrColorPresetNotFound, presets[i].ID)
		}
		presets[i].OrderIndex = i
	}
	return presets, nil
}

func findPreset(id uuid.UUID, presets []ColorPreset) int {
	for idx, p := range presets {
		if p.ID == id {
			return idx
		}
	}
	return -1
}
