package company

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

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error

	// ListCompanies returns companies whose name contains nameFilter (case-insensitive),
	// most recently updated first. An empty filter matches all.
	ListCompanies(ctx context.Context, nameFilter string) ([]Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (Company, error)
	CreateCompany(ctx context.Context, company Company) (Company, error)
	RenameCompany(ctx context.Context, id uuid.UUID, name string) (Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) (bool, error)

	GetNoteByCompany(ctx context.Context, companyID uuid.UUID) (Note, error)
	CreateNote(ctx context.Context, note Note) (Note, error)
	UpdateNote(ctx context.Context, note Note) (Note, error)

	ListReferenceSites(ctx context.Context, companyID uuid.UUID) ([]ReferenceSite, error)
	CreateReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error)
	UpdateReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error)
	DeleteReferenceSite(ctx context.Context, companyID, id uuid.UUID) (bool, error)
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

func (r *RepositoryImpl) ListCompanies(ctx context.Context, nameFilter string) ([]Company, error) {
	query := `SELECT id, name, created_at, updated_at FROM companies
			  WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
			  ORDER BY updated_at DESC, id`
	rows, err := r.getQueryer().Query(ctx, query, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("could not list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]Company, 0)
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *RepositoryImpl) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	var c Company
	err := r.getQueryer().QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, ErrCompanyNotFound
		}
		return Company{}, fmt.Errorf("could not get company: %w", err)
	}
	return c, nil
}

func (r *RepositoryImpl) CreateCompany(ctx context.Context, company Company) (Company, error) {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	err := r.getQueryer().QueryRow(ctx,
		`INSERT INTO companies (id, name) VALUES ($1, $2) RETURNING created_at, updated_at`,
		company.ID, company.Name,
	).Scan(&company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return Company{}, fmt.Errorf("could not create company: %w", err)
	}
	return company, nil
}

func (r *RepositoryImpl) RenameCompany(ctx context.Context, id uuid.UUID, name string) (Company, error) {
	var c Company
	err := r.getQueryer().QueryRow(ctx,
		`UPDATE companies SET name = $2, updated_at = now() WHERE id = $1 RETURNING id, name, created_at, updated_at`,
		id, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, ErrCompanyNotFound
		}
		return Company{}, fmt.Errorf("could not rename company: %w", err)
	}
	return c, nil
}

func (r *RepositoryImpl) DeleteCompany(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete company: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

const noteColumns = `id, company_id, industry, job_type, location, employee_count, listing_status,
	base_salary, web_test, working_hours, mypage_url, login_id, password, login_notes,
	custom_fields, free_memo, created_at, updated_at`

func scanNote(row pgx.Row) (Note, error) {
	var n Note
	var customFields []byte
	err := row.Scan(
		&n.ID,
		&n.CompanyID,
		&n.Industry,
		&n.JobType,
		&n.Location,
		&n.EmployeeCount,
		&n.ListingStatus,
		&n.BaseSalary,
		&n.WebTest,
		&n.WorkingHours,
		&n.MyPageURL,
		&n.LoginID,
		&n.Password,
		&n.LoginNotes,
		&customFields,
		&n.FreeMemo,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return Note{}, err
	}
	n.CustomFields = []CustomField{}
	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &n.CustomFields); err != nil {
			return Note{}, fmt.Errorf("could not decode custom fields: %w", err)
		}
	}
	return n, nil
}

func encodeCustomFields(fields []CustomField) ([]byte, error) {
	if fields == nil {
		fields = []CustomField{}
	}
	return json.Marshal(fields)
}

func (r *RepositoryImpl) GetNoteByCompany(ctx context.Context, companyID uuid.UUID) (Note, error) {
	n, err := scanNote(r.getQueryer().QueryRow(ctx, `SELECT `+noteColumns+` FROM company_notes WHERE company_id = $1`, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, ErrNoteNotFound
		}
		return Note{}, fmt.Errorf("could not get company note: %w", err)
	}
	return n, nil
}

func (r *RepositoryImpl) CreateNote(ctx context.Context, note Note) (Note, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	customFields, err := encodeCustomFields(note.CustomFields)
	if err != nil {
		return Note{}, err
	}
	query := `INSERT INTO company_notes (
				id, company_id, industry, job_type, location, employee_count, listing_status,
				base_salary, web_test, working_hours, mypage_url, login_id, password, login_notes,
				custom_fields, free_memo
			  ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			  ON CONFLICT (company_id) DO NOTHING
			  RETURNING ` + noteColumns
	created, err := scanNote(r.getQueryer().QueryRow(ctx, query,
		note.ID, note.CompanyID, note.Industry, note.JobType, note.Location, note.EmployeeCount,
		note.ListingStatus, note.BaseSalary, note.WebTest, note.WorkingHours, note.MyPageURL,
		note.LoginID, note.Password, note.LoginNotes, customFields, note.FreeMemo,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// created concurrently
			return r.GetNoteByCompany(ctx, note.CompanyID)
		}
		return Note{}, fmt.Errorf("could not create company note: %w", err)
	}
	return created, nil
}

func (r *RepositoryImpl) UpdateNote(ctx context.Context, note Note) (Note, error) {
	customFields, err := encodeCustomFields(note.CustomFields)
	if err != nil {
		return Note{}, err
	}
	query := `UPDATE company_notes SET
				industry = $2, job_type = $3, location = $4, employee_count = $5, listing_status = $6,
				base_salary = $7, web_test = $8, working_hours = $9, mypage_url = $10, login_id = $11,
				password = $12, login_notes = $13, custom_fields = $14, free_memo = $15, updated_at = now()
			  WHERE company_id = $1
			  RETURNING ` + noteColumns
	updated, err := scanNote(r.getQueryer().QueryRow(ctx, query,
		note.CompanyID, note.Industry, note.JobType, note.Location, note.EmployeeCount,
		note.ListingStatus, note.BaseSalary, note.WebTest, note.WorkingHours, note.MyPageURL,
		note.LoginID, note.Password, note.LoginNotes, customFields, note.FreeMemo,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, ErrNoteNotFound
		}
		return Note{}, fmt.Errorf("could not update company note: %w", err)
	}
	return updated, nil
}

const siteColumns = `id, company_id, memo_id, name, url, created_at, updated_at`

func scanSite(row pgx.Row) (ReferenceSite, error) {
	var s ReferenceSite
	err := row.Scan(&s.ID, &s.CompanyID, &s.MemoID, &s.Name, &s.URL, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *RepositoryImpl) ListReferenceSites(ctx context.Context, companyID uuid.UUID) ([]ReferenceSite, error) {
	rows, err := r.getQueryer().Query(ctx,
		`SELECT `+siteColumns+` FROM company_reference_sites WHERE company_id = $1 ORDER BY created_at DESC, id`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("could not list reference sites: %w", err)
	}
	defer rows.Close()

	sites := make([]ReferenceSite, 0)
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (r *RepositoryImpl) CreateReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error) {
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	created, err := scanSite(r.getQueryer().QueryRow(ctx,
		`INSERT INTO company_reference_sites (id, company_id, memo_id, name, url) VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+siteColumns,
		site.ID, site.CompanyID, site.MemoID, site.Name, site.URL))
	if err != nil {
		return ReferenceSite{}, fmt.Errorf("could not create reference site: %w", err)
	}
	return created, nil
}

func (r *RepositoryImpl) UpdateReferenceSite(ctx context.Context, site ReferenceSite) (ReferenceSite, error) {
	updated, err := scanSite(r.getQueryer().QueryRow(ctx,
		`UPDATE company_reference_sites SET memo_id = $3, name = $4, url = $5, updated_at = now()
		 WHERE company_id = $1 AND id = $2
		 RETURNING `+siteColumns,
		site.CompanyID, site.ID, site.MemoID, site.Name, site.URL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReferenceSite{}, ErrReferenceSiteNotFound
		}
		return ReferenceSite{}, fmt.Errorf("could not update reference site: %w", err)
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteReferenceSite(ctx context.Context, companyID, id uuid.UUID) (bool, error) {
	result, err := r.getQueryer().Exec(ctx, `DELETE FROM company_reference_sites WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return false, fmt.Errorf("could not delete reference site: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
