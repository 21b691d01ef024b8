package repository

import (
	"context"
	"testing"

	"ccloader/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStateRepository_RetryProtocol(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewLoadStateRepository(testDB.DB)
	ctx := context.Background()

	day := testutil.Day(2026, 3, 16)

	t.Run("initially clear", func(t *testing.T) {
		pending, err := repo.Pending(ctx)
		require.NoError(t, err)
		assert.Nil(t, pending)
	})

	t.Run("mark pending records the day", func(t *testing.T) {
		require.NoError(t, repo.MarkPending(ctx, day))

		pending, err := repo.Pending(ctx)
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, day, *pending)
	})

	t.Run("mark done clears flag and day", func(t *testing.T) {
		require.NoError(t, repo.MarkDone(ctx))

		pending, err := repo.Pending(ctx)
		require.NoError(t, err)
		assert.Nil(t, pending)
	})

	t.Run("re-flagging overwrites the day", func(t *testing.T) {
		require.NoError(t, repo.MarkPending(ctx, day))
		later := testutil.Day(2026, 3, 17)
		require.NoError(t, repo.MarkPending(ctx, later))

		pending, err := repo.Pending(ctx)
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, later, *pending)
	})
}
