package color_preset

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
		require.NoError(t, pgContainer.Restore(ctx))
	})
	repo := NewRepository(db)
	// start from an empty table, the migrations seed default presets
	_, err := db.Exec(ctx, `DELETE FROM color_presets`)
	require.NoError(t, err)
	return ctx, repo
}

func TestRepositoryImpl_CreateAppendsToTheEnd(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	first, err := repo.Create(ctx, ColorPreset{Label: "ES", Color: "#FFA52F"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, ColorPreset{Label: "面接", Color: "#4C9AFF"})
	require.NoError(t, err)

	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)
	presets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, first, presets[0])
}

func TestRepositoryImpl_UpdateAndOrder(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	a, _ := repo.Create(ctx, ColorPreset{Label: "a", Color: "#111111"})
	b, _ := repo.Create(ctx, ColorPreset{Label: "b", Color: "#222222"})

	err := repo.WithTransaction(ctx, func(txRepo Repository) error {
		if _, err := txRepo.UpdateOrderIndex(ctx, a.ID, 1); err != nil {
			return err
		}
		_, err := txRepo.UpdateOrderIndex(ctx, b.ID, 0)
		return err
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, ColorPreset{ID: a.ID, Label: "renamed", Color: "#333333"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.OrderIndex)

	presets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, presets[0].ID)
	assert.Equal(t, "renamed", presets[1].Label)
}

func TestRepositoryImpl_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrColorPresetNotFound)

	_, err = repo.Update(ctx, ColorPreset{ID: uuid.New(), Color: "#000000"})
	assert.ErrorIs(t, err, ErrColorPresetNotFound)

	deleted, err := repo.Delete(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
}
