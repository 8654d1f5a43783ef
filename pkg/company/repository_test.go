package company

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobcal/jobcal/internal/test_utils"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	code := m.Run()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl) {
	ctx := context.Background()
	db := openDb()
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, NewRepository(db)
}

func TestRepositoryImpl_Companies(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	acme, err := repo.CreateCompany(ctx, Company{Name: "Acme"})
	require.NoError(t, err)
	globex, err := repo.CreateCompany(ctx, Company{Name: "Globex"})
	require.NoError(t, err)
	_, err = repo.RenameCompany(ctx, acme.ID, "Acme Holdings")
	require.NoError(t, err)

	companies, err := repo.ListCompanies(ctx, "")
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, acme.ID, companies[0].ID)
	assert.Equal(t, globex.ID, companies[1].ID)

	filtered, err := repo.ListCompanies(ctx, "glo")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, globex.ID, filtered[0].ID)

	_, err = repo.RenameCompany(ctx, uuid.New(), "Nobody")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestRepositoryImpl_Notes(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	c, err := repo.CreateCompany(ctx, Company{Name: "Acme"})
	require.NoError(t, err)

	_, err = repo.GetNoteByCompany(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	created, err := repo.CreateNote(ctx, Note{CompanyID: c.ID})
	require.NoError(t, err)
	assert.Empty(t, created.CustomFields)

	again, err := repo.CreateNote(ctx, Note{CompanyID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID, "second create returns the existing note")

	_, err = repo.UpdateNote(ctx, Note{
		CompanyID:    c.ID,
		JobType:      "Engineer",
		CustomFields: []CustomField{{Label: "Referral", Value: "yes"}},
	})
	require.NoError(t, err)

	stored, err := repo.GetNoteByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", stored.JobType)
	assert.Equal(t, []CustomField{{Label: "Referral", Value: "yes"}}, stored.CustomFields)
}

func TestRepositoryImpl_ReferenceSites(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	c, err := repo.CreateCompany(ctx, Company{Name: "Acme"})
	require.NoError(t, err)

	site, err := repo.CreateReferenceSite(ctx, ReferenceSite{CompanyID: c.ID, Name: "Careers", URL: "https://acme.example.com"})
	require.NoError(t, err)
	assert.False(t, site.MemoID.Valid)

	site.Name = "Jobs"
	_, err = repo.UpdateReferenceSite(ctx, site)
	require.NoError(t, err)

	sites, err := repo.ListReferenceSites(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "Jobs", sites[0].Name)

	deleted, err := repo.DeleteCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	sites, err = repo.ListReferenceSites(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, sites)
}
