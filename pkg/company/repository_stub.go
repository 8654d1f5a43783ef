package company

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu        sync.RWMutex
	companies map[uuid.UUID]Company
	notes     map[uuid.UUID]Note
	sites     map[uuid.UUID]ReferenceSite
	clock     time.Time
}

func NewRepositoryStub() *RepositoryStub {
	r := &RepositoryStub{}
	r.Reset()
	return r
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies = make(map[uuid.UUID]Company)
	r.notes = make(map[uuid.UUID]Note)
	r.sites = make(map[uuid.UUID]ReferenceSite)
	r.clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

// tick advances the stub clock so that every write gets a distinct timestamp.
func (r *RepositoryStub) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	companies := make(map[uuid.UUID]Company, len(r.companies))
	for k, v := range r.companies {
		companies[k] = v
	}
	notes := make(map[uuid.UUID]Note, len(r.notes))
	for k, v := range r.notes {
		notes[k] = v
	}
	sites := make(map[uuid.UUID]ReferenceSite, len(r.sites))
	for k, v := range r.sites {
		sites[k] = v
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.companies, r.notes, r.sites = companies, notes, sites
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) ListCompanies(ctx context.Context, nameFilter string) ([]Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	filter := strings.ToLower(nameFilter)
	companies := make([]Company, 0, len(r.companies))
	for _, c := range r.companies {
		if filter == "" || strings.Contains(strings.ToLower(c.Name), filter) {
			companies = append(companies, c)
		}
	}
	sort.Slice(companies, func(i, j int) bool {
		return companies[i].UpdatedAt.After(companies[j].UpdatedAt)
	})
	return companies, nil
}

func (r *RepositoryStub) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.companies[id]
	if !ok {
		return Company{}, ErrCompanyNotFound
	}
	return c, nil
}

func (r *RepositoryStub) CreateCompany(ctx context.Context, company Company) (Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	now := r.tick()
	company.CreatedAt, company.UpdatedAt = now, now
	r.companies[company.ID] = company
	return company, nil
}

func (r *RepositoryStub) RenameCompany(ctx context.Context, id uuid.UUID, name string) (Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return Company{}, ErrCompanyNotFound
	}
	c.Name = name
	c.UpdatedAt = r.tick()
	r.companies[id] = c
	return c, nil
}

func (r *RepositoryStub) DeleteCompany(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return false, nil
	}
	delete(r.companies, id)
	delete(r.notes, id)
	for siteID, s := range r.sites {
		if s.CompanyID == id {
			delete(r.sites, siteID)
		}
	}
	return true, nil
}

func (r *RepositoryStub) GetNoteByCompany(ctx context.Context, companyID uuid.UUID) (Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[companyID]
	if !ok {
		return Note{}, ErrNoteNotFound
	}
	return n, nil
}

func (r *RepositoryStub) CreateNote(ctx context.Context, note Note) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.notes[note.CompanyID]; ok {
		return existing, nil
	}
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	if note.CustomFields == nil {
		note.CustomFields = []CustomField{}
	}
	now := r.tick()
	note.CreatedAt, note.UpdatedAt = now, now
	r.notes[note.CompanyID] = note
	return note, nil
}

func (r *RepositoryStub) UpdateNote(ctx context.Context, note Note) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.notes[note.CompanyID]
	if !ok {
		return Note{}, ErrNoteNotFound
	}
	note.ID = existing.ID
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = r.tick()
	if note.CustomFields == nil {
		note.CustomFields = []CustomField{}
	}
	r.notes[note.CompanyID] = note
	return note, nil
}

func (r *RepositoryStub) ListReferenceSites(ctx context.Context, companyID uuid.UUID) ([]ReferenceSite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sites := make([]ReferenceSite, 0)
	for _, s := range r.sites {
		if s.CompanyID == companyID {
			sites = append(sites, s)
		}
	}
	sort.Slice(sites, func(i, j int) bool {
		return sites[i].CreatedAt.After(sites[j].CreatedAt)
	})
	return sites, nil
}

func (r *RepositoryStub) CreateReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	now := r.tick()
	site.CreatedAt, site.UpdatedAt = now, now
	r.sites[site.ID] = site
	return site, nil
}

func (r *RepositoryStub) UpdateReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.sites[site.ID]
	if !ok || existing.CompanyID != site.CompanyID {
		return ReferenceSite{}, ErrReferenceSiteNotFound
	}
	site.CreatedAt = existing.CreatedAt
	site.UpdatedAt = r.tick()
	r.sites[site.ID] = site
	return site, nil
}

func (r *RepositoryStub) DeleteReferenceSite(ctx context.Context, companyID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok || s.CompanyID != companyID {
		return false, nil
	}
	delete(r.sites, id)
	return true, nil
}
