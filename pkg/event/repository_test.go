package event

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

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

func fullEvent() Event {
	deadline := time.Date(2024, 4, 30, 23, 59, 0, 0, time.UTC)
	endDate := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	prepEnd := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
	return Event{
		ID:          uuid.New(),
		Title:       "Weekly coding test practice",
		StartAt:     time.Date(2024, 4, 1, 1, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2024, 4, 1, 2, 30, 0, 0, time.UTC),
		EventType:   EventTypeIntern,
		CompanyName: "Acme",
		MeetingURL:  "https://meet.example.com/x",
		Location:    "Tokyo",
		Memo:        "bring laptop",
		DeadlineAt:  &deadline,
		PreparationDates: []PreparationDate{
			{ID: uuid.New(), Date: time.Date(2024, 3, 30, 10, 0, 0, 0, time.UTC), Title: "Review"},
			{ID: uuid.New(), Date: time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), EndDate: &prepEnd},
		},
		Recurrence: Recurrence{
			Type:     RecurrenceWeekly,
			Interval: 2,
			Days:     []int{1, 3},
			EndType:  EndDate,
			EndDate:  &endDate,
		},
		Notifications: []NotificationConfig{
			{Type: NotifyBefore10Min, ReferenceTime: ReferenceStart},
			{Type: NotifyCustom, CustomValue: 2, CustomUnit: UnitHour, ReferenceTime: ReferenceEnd},
		},
	}
}

func assertSameEvent(t *testing.T, expected, actual Event) {
	t.Helper()
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Title, actual.Title)
	assert.True(t, expected.StartAt.Equal(actual.StartAt))
	assert.True(t, expected.EndAt.Equal(actual.EndAt))
	assert.Equal(t, expected.AllDay, actual.AllDay)
	assert.Equal(t, expected.ColorID, actual.ColorID)
	assert.Equal(t, expected.EventType, actual.EventType)
	assert.Equal(t, expected.CompanyName, actual.CompanyName)
	assert.Equal(t, expected.MeetingURL, actual.MeetingURL)
	assert.Equal(t, expected.Location, actual.Location)
	assert.Equal(t, expected.Memo, actual.Memo)
	if expected.DeadlineAt == nil {
		assert.Nil(t, actual.DeadlineAt)
	} else {
		require.NotNil(t, actual.DeadlineAt)
		assert.True(t, expected.DeadlineAt.Equal(*actual.DeadlineAt))
	}
	assert.Equal(t, expected.Recurrence.Type, actual.Recurrence.Type)
	assert.Equal(t, expected.Recurrence.Step(), actual.Recurrence.Step())
	assert.Equal(t, expected.Recurrence.Days, actual.Recurrence.Days)
	assert.Equal(t, expected.Recurrence.End(), actual.Recurrence.End())
	assert.Equal(t, expected.Notifications, actual.Notifications)
	require.Len(t, actual.PreparationDates, len(expected.PreparationDates))
	for i := range expected.PreparationDates {
		assert.Equal(t, expected.PreparationDates[i].ID, actual.PreparationDates[i].ID)
		assert.Equal(t, expected.ID, actual.PreparationDates[i].EventID)
		assert.True(t, expected.PreparationDates[i].Date.Equal(actual.PreparationDates[i].Date))
		assert.Equal(t, expected.PreparationDates[i].Title, actual.PreparationDates[i].Title)
	}
}

func TestRepositoryImpl_CreateAndGet(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	e := fullEvent()

	// when
	created, err := repo.Create(ctx, e)
	require.NoError(t, err)

	// then
	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assertSameEvent(t, e, stored)
	require.NotNil(t, stored.Recurrence.EndDate)
	require.NotNil(t, stored.PreparationDates[1].EndDate)
}

func TestRepositoryImpl_Get_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	_, err := repo.Get(ctx, uuid.New())

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepositoryImpl_Update_ReplacesPreparationDates(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	created, err := repo.Create(ctx, fullEvent())
	require.NoError(t, err)

	// when
	created.Title = "Renamed"
	created.Recurrence = Recurrence{Type: RecurrenceNone}
	created.DeadlineAt = nil
	created.PreparationDates = []PreparationDate{
		{Date: time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC), Title: "Only one"},
	}
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	// then
	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, RecurrenceNone, stored.Recurrence.Type)
	assert.Nil(t, stored.DeadlineAt)
	require.Len(t, stored.PreparationDates, 1)
	assert.Equal(t, "Only one", stored.PreparationDates[0].Title)
}

func TestRepositoryImpl_Update_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	e := fullEvent()

	_, err := repo.Update(ctx, e)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepositoryImpl_Delete_CascadesPreparationDates(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	created, err := repo.Create(ctx, fullEvent())
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var count int
	err = repo.db.QueryRow(ctx, `SELECT count(*) FROM preparation_dates WHERE event_id = $1`, created.ID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepositoryImpl_List(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	later := fullEvent()
	earlier := fullEvent()
	earlier.StartAt = later.StartAt.Add(-48 * time.Hour)
	earlier.PreparationDates = nil
	_, err := repo.Create(ctx, later)
	require.NoError(t, err)
	_, err = repo.Create(ctx, earlier)
	require.NoError(t, err)

	events, err := repo.List(ctx)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, earlier.ID, events[0].ID)
	assert.Empty(t, events[0].PreparationDates)
	assert.Len(t, events[1].PreparationDates, 2)
}

func TestRepositoryImpl_WithTransaction_RollsBack(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	e := fullEvent()

	err := repo.WithTransaction(ctx, func(txRepo Repository) error {
		if _, err := txRepo.Create(ctx, e); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = repo.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
