package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreSaveAndList(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, err = store.Latest(ctx)
	assert.True(t, errors.Is(err, ErrNoSession))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := &RunRecord{
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
			FirstYear:      2025,
			LastYear:       2075 + i,
			FinalNetAssets: decimal.RequireFromString("1234.5").Add(decimal.NewFromInt(int64(i))),
			Document:       []byte(`{"profile":{}}`),
		}
		require.NoError(t, store.SaveRun(ctx, rec))
		assert.Equal(t, int64(i+1), rec.ID)
	}

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), latest.ID)
	assert.Equal(t, 2077, latest.LastYear)
	assert.True(t, latest.FinalNetAssets.Equal(decimal.RequireFromString("1236.5")))
	assert.Equal(t, base.Add(2*time.Hour), latest.CreatedAt)
	assert.Equal(t, `{"profile":{}}`, string(latest.Document))

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(3), runs[0].ID)
	assert.Equal(t, int64(2), runs[1].ID)
	assert.Nil(t, runs[0].Document)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(context.Background(), &RunRecord{CreatedAt: time.Now(), FinalNetAssets: decimal.Zero, Document: []byte("{}")}))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
