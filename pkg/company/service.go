package company

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context, nameFilter string) ([]Company, error)
	Get(ctx context.Context, id uuid.UUID) (Company, error)
	// Create stores the company together with its empty note.
	Create(ctx context.Context, name string) (Company, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (Company, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// GetNote returns the company's note, creating an empty one on first access.
	GetNote(ctx context.Context, companyID uuid.UUID) (Note, error)
	UpdateNote(ctx context.Context, note Note) (Note, error)

	ListReferenceSites(ctx context.Context, companyID uuid.UUID) ([]ReferenceSite, error)
	AddReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error)
	UpdateReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error)
	DeleteReferenceSite(ctx context.Context, companyID, id uuid.UUID) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) List(ctx context.Context, nameFilter string) ([]Company, error) {
	return s.repo.ListCompanies(ctx, strings.TrimSpace(nameFilter))
}

func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, name string) (Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Company{}, fmt.Errorf("%w: name is required", ErrInvalidCompany)
	}
	var created Company
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		var err error
		created, err = repo.CreateCompany(ctx, Company{Name: name})
		if err != nil {
			return err
		}
		_, err = repo.CreateNote(ctx, Note{CompanyID: created.ID})
		return err
	})
	if err != nil {
		return Company{}, err
	}
	log.Debugf("created company %s (%s)", created.Name, created.ID)
	return created, nil
}

func (s *ServiceImpl) Rename(ctx context.Context, id uuid.UUID, name string) (Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Company{}, fmt.Errorf("%w: name is required", ErrInvalidCompany)
	}
	return s.repo.RenameCompany(ctx, id, name)
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteCompany(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCompanyNotFound
	}
	return nil
}

func (s *ServiceImpl) GetNote(ctx context.Context, companyID uuid.UUID) (Note, error) {
	var note Note
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		if _, err := repo.GetCompany(ctx, companyID); err != nil {
			return err
		}
		var err error
		note, err = repo.GetNoteByCompany(ctx, companyID)
		if errors.Is(err, ErrNoteNotFound) {
			log.Debugf("creating missing note for company %s", companyID)
			note, err = repo.CreateNote(ctx, Note{CompanyID: companyID})
		}
		return err
	})
	return note, err
}

func (s *ServiceImpl) UpdateNote(ctx context.Context, note Note) (Note, error) {
	for i, f := range note.CustomFields {
		if strings.TrimSpace(f.Label) == "" {
			return Note{}, fmt.Errorf("%w: custom field %d has no label", ErrInvalidCompany, i)
		}
	}
	var updated Note
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		if _, err := repo.GetCompany(ctx, note.CompanyID); err != nil {
			return err
		}
		if _, err := repo.GetNoteByCompany(ctx, note.CompanyID); errors.Is(err, ErrNoteNotFound) {
			if _, err := repo.CreateNote(ctx, Note{CompanyID: note.CompanyID}); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		var err error
		updated, err = repo.UpdateNote(ctx, note)
		return err
	})
	return updated, err
}

func (s *ServiceImpl) ListReferenceSites(ctx context.Context, companyID uuid.UUID) ([]ReferenceSite, error) {
	if _, err := s.repo.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.repo.ListReferenceSites(ctx, companyID)
}

func (s *ServiceImpl) AddReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error) {
	if err := validateSite(&site); err != nil {
		return ReferenceSite{}, err
	}
	if _, err := s.repo.GetCompany(ctx, site.CompanyID); err != nil {
		return ReferenceSite{}, err
	}
	return s.repo.CreateReferenceSite(ctx, site)
}

func (s *ServiceImpl) UpdateReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error) {
	if err := validateSite(&site); err != nil {
		return ReferenceSite{}, err
	}
	return s.repo.UpdateReferenceSite(ctx, site)
}

func (s *ServiceImpl) DeleteReferenceSite(ctx context.Context, companyID, id uuid.UUID) error {
	deleted, err := s.repo.DeleteReferenceSite(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReferenceSiteNotFound
	}
	return nil
}

func validateSite(site *ReferenceSite) error {
	site.Name = strings.TrimSpace(site.Name)
	site.URL = strings.TrimSpace(site.URL)
	if site.Name == "" {
		return fmt.Errorf("%w: site name is required", ErrInvalidCompany)
	}
	u, err := url.Parse(site.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: site url must be an absolute http(s) url", ErrInvalidCompany)
	}
	return nil
}
