package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awakzdev/stockfeed/internal/domain/model"
)

func TestRunRepo_BeginAndFinish(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepo(db)
	ctx := context.Background()

	id, err := repo.Begin(ctx, model.Invocation{
		Trigger:   model.TriggerManual,
		Operation: model.OperationAdd,
		Symbol:    "TSLA",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	require.NoError(t, repo.Finish(ctx, id, model.RunSucceeded, ""))

	runs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, model.TriggerManual, runs[0].Trigger)
	assert.Equal(t, model.OperationAdd, runs[0].Operation)
	assert.Equal(t, "TSLA", runs[0].Symbol)
	assert.Equal(t, model.RunSucceeded, runs[0].Status)
	assert.Empty(t, runs[0].Error)
	assert.False(t, runs[0].StartedAt.IsZero())
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestRunRepo_Finish_Failed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepo(db)
	ctx := context.Background()

	id, err := repo.Begin(ctx, model.Invocation{
		Trigger:   model.TriggerScheduled,
		Operation: model.OperationUpdate,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Finish(ctx, id, model.RunFailed, "fetch failed"))

	runs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunFailed, runs[0].Status)
	assert.Equal(t, "fetch failed", runs[0].Error)
}

func TestRunRepo_Finish_NoSuchRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepo(db)

	err := repo.Finish(context.Background(), 999, model.RunSucceeded, "")
	assert.Error(t, err)
}

func TestRunRepo_ListRecent_OrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 6, 30, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Begin(ctx, model.Invocation{
			Trigger:   model.TriggerScheduled,
			Operation: model.OperationUpdate,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	runs, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
}
