package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, event Event) (Event, error)
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (Event, error)
	List(ctx context.Context) ([]Event, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) Create(ctx context.Context, event Event) (Event, error) {
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	event.ID = uuid.New()
	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return Event{}, err
	}
	if err := s.publishSaved(ctx, created, true); err != nil {
		return Event{}, err
	}
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, event Event) (Event, error) {
	if event.ID == uuid.Nil {
		return Event{}, ErrEventNotFound
	}
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return Event{}, err
	}
	if err := s.publishSaved(ctx, updated, false); err != nil {
		return Event{}, err
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEventNotFound
	}

	// subscribers run after the row is gone
	err = s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		event_bus.CalendarEventDeletedType,
		event_bus.CalendarEventDeleted{ID: id},
	))
	if err != nil {
		log.Errorf("failed to publish event deletion: %v", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) publishSaved(ctx context.Context, e Event, created bool) error {
	err := s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		event_bus.CalendarEventSavedType,
		event_bus.CalendarEventSaved{
			ID:      e.ID,
			Title:   e.Title,
			StartAt: e.StartAt,
			EndAt:   e.EndAt,
			Created: created,
		},
	))
	if err != nil {
		log.Errorf("failed to publish event %s save: %v", e.ID, err)
		return fmt.Errorf("event saved but subscribers failed: %w", err)
	}
	return nil
}
