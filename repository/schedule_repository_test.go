package repository

import (
	"context"
	"testing"
	"time"

	"ccloader/models"
	"ccloader/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepository_PriorSchedule(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewScheduleRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no history", func(t *testing.T) {
		prior, err := repo.PriorSchedule(ctx, testutil.Day(2026, 3, 16))
		require.NoError(t, err)
		assert.Empty(t, prior)
	})

	t.Run("selects the most recent prior day only", func(t *testing.T) {
		older := testutil.Day(2026, 3, 12)
		recent := testutil.Day(2026, 3, 13)
		today := testutil.Day(2026, 3, 16)

		// Seed days and history atomically, the way a backfill would.
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			days := newWorkingDayRepositoryWithTx(tx)
			for _, d := range []time.Time{older, recent, today} {
				if _, err := days.EnsureWorkingDay(ctx, d); err != nil {
					return err
				}
			}
			_, err := newScheduleRepositoryWithTx(tx).InsertHistory(ctx, []models.ScheduleRow{
				testutil.NewScheduleRow(older, testutil.WithPeriod(10)),
				testutil.NewScheduleRow(recent, testutil.WithPeriod(12)),
				testutil.NewScheduleRow(recent, testutil.WithPeriod(11)),
				testutil.NewScheduleRow(today, testutil.WithPeriod(13)),
			})
			return err
		})
		require.NoError(t, err)

		prior, err := repo.PriorSchedule(ctx, today)
		require.NoError(t, err)
		require.Len(t, prior, 2)

		// Only the most recent prior day, ordered by period ascending.
		assert.Equal(t, recent, prior[0].WorkingDay)
		assert.Equal(t, 11, prior[0].Period)
		assert.Equal(t, 12, prior[1].Period)
	})
}

func TestScheduleRepository_StagingRoundTrip(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewScheduleRepository(testDB.DB)
	ctx := context.Background()

	day := testutil.Day(2026, 3, 16)
	rows := []models.ScheduleRow{
		testutil.NewScheduleRow(day, testutil.WithPeriod(11), testutil.WithPayments(100, 50, 200)),
		testutil.NewScheduleRow(day, testutil.WithPeriod(12), testutil.WithPayments(120, 60, 300)),
	}

	inserted, err := repo.BulkInsert(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	assert.Equal(t, 2, countRows(t, testDB, "atmp_t18_cc_payment_schedule"))

	require.NoError(t, repo.Clear(ctx, models.ClearDelete))
	assert.Equal(t, 0, countRows(t, testDB, "atmp_t18_cc_payment_schedule"))

	_, err = repo.BulkInsert(ctx, rows)
	require.NoError(t, err)
	require.NoError(t, repo.Clear(ctx, models.ClearTruncate))
	assert.Equal(t, 0, countRows(t, testDB, "atmp_t18_cc_payment_schedule"))
}

func countRows(t *testing.T, testDB *testutil.TestDatabase, table string) int {
	t.Helper()
	var count int
	err := testDB.DB.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&count)
	require.NoError(t, err)
	return count
}
