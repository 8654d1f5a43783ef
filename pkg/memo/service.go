package memo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jobcal/jobcal/pkg/company"
	log "github.com/sirupsen/logrus"
)

// NoteProvider resolves the note that owns a company's memos.
type NoteProvider interface {
	GetNote(ctx context.Context, companyID uuid.UUID) (company.Note, error)
}

type Service interface {
	List(ctx context.Context, companyID uuid.UUID, includeDeleted bool) ([]Memo, error)
	Create(ctx context.Context, companyID uuid.UUID, memo Memo) (Memo, error)
	Update(ctx context.Context, companyID uuid.UUID, memo Memo) (Memo, error)
	// Delete hides the memo. It can be brought back with Restore.
	Delete(ctx context.Context, companyID, id uuid.UUID) (Memo, error)
	Restore(ctx context.Context, companyID, id uuid.UUID) (Memo, error)
}

type ServiceImpl struct {
	repo  Repository
	notes NoteProvider
}

func NewService(repo Repository, notes NoteProvider) *ServiceImpl {
	return &ServiceImpl{repo: repo, notes: notes}
}

func (s *ServiceImpl) noteID(ctx context.Context, companyID uuid.UUID) (uuid.UUID, error) {
	note, err := s.notes.GetNote(ctx, companyID)
	if err != nil {
		return uuid.Nil, err
	}
	return note.ID, nil
}

func (s *ServiceImpl) List(ctx context.Context, companyID uuid.UUID, includeDeleted bool) ([]Memo, error) {
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, noteID, includeDeleted)
}

func (s *ServiceImpl) Create(ctx context.Context, companyID uuid.UUID, memo Memo) (Memo, error) {
	if err := validate(memo); err != nil {
		return Memo{}, err
	}
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return Memo{}, err
	}
	memo.NoteID = noteID
	created, err := s.repo.Create(ctx, memo)
	if err != nil {
		return Memo{}, err
	}
	log.Debugf("created %s memo %s for company %s", created.Category, created.ID, companyID)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, companyID uuid.UUID, memo Memo) (Memo, error) {
	if err := validate(memo); err != nil {
		return Memo{}, err
	}
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return Memo{}, err
	}
	memo.NoteID = noteID
	return s.repo.Update(ctx, memo)
}

func (s *ServiceImpl) Delete(ctx context.Context, companyID, id uuid.UUID) (Memo, error) {
	return s.setDeleted(ctx, companyID, id, true)
}

func (s *ServiceImpl) Restore(ctx context.Context, companyID, id uuid.UUID) (Memo, error) {
	return s.setDeleted(ctx, companyID, id, false)
}

func (s *ServiceImpl) setDeleted(ctx context.Context, companyID, id uuid.UUID, deleted bool) (Memo, error) {
	noteID, err := s.noteID(ctx, companyID)
	if err != nil {
		return Memo{}, err
	}
	return s.repo.SetDeleted(ctx, noteID, id, deleted)
}

func validate(memo Memo) error {
	if !memo.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidMemo, memo.Category)
	}
	if strings.TrimSpace(memo.Title) == "" && strings.TrimSpace(memo.Content) == "" {
		return fmt.Errorf("%w: title or content is required", ErrInvalidMemo)
	}
	return nil
}
