package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awakzdev/stockfeed/internal/domain/port/driven"
)

func TestSymbolRepo_Add(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSymbolRepo(db)
	ctx := context.Background()

	inserted, err := repo.Add(ctx, "QLD")
	require.NoError(t, err)
	assert.True(t, inserted)

	symbols, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "QLD", symbols[0].Ticker)
	assert.False(t, symbols[0].AddedAt.IsZero())
}

func TestSymbolRepo_Add_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSymbolRepo(db)
	ctx := context.Background()

	inserted, err := repo.Add(ctx, "TSLA")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Add(ctx, "TSLA")
	require.NoError(t, err)
	assert.False(t, inserted, "re-adding an existing symbol is a no-op")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSymbolRepo_List_Sorted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSymbolRepo(db)
	ctx := context.Background()

	for _, ticker := range []string{"TSLA", "^NDX", "AAPL", "QLD"} {
		_, err := repo.Add(ctx, ticker)
		require.NoError(t, err)
	}

	symbols, err := repo.List(ctx)
	require.NoError(t, err)

	tickers := make([]string, 0, len(symbols))
	for _, s := range symbols {
		tickers = append(tickers, s.Ticker)
	}
	assert.Equal(t, []string{"AAPL", "QLD", "TSLA", "^NDX"}, tickers)
}

func TestSymbolRepo_Remove(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSymbolRepo(db)
	ctx := context.Background()

	_, err := repo.Add(ctx, "QLD")
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, "QLD"))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSymbolRepo_Remove_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSymbolRepo(db)
	ctx := context.Background()

	err := repo.Remove(ctx, "MISSING")
	assert.ErrorIs(t, err, driven.ErrSymbolNotFound)
}
