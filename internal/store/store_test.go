package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "open %d", i)
		require.NoError(t, s.Close())
	}
	_, err := os.Stat(path)
	assert.NoError(t, err)

	var mode string
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	written, err := s.WriteRun(ctx, Run{
		TapeID:    "tape-1",
		Device:    "default.qubit",
		Method:    "analytic",
		Interface: "autodiff",
		Params:    []float64{0.1, 0.2},
		Results:   []float64{0.97},
		Jacobian:  [][]float64{{-0.09, -0.19}},
		CreatedAt: at,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, written.ID)
	assert.Equal(t, int64(1), written.Seq)

	got, err := s.GetRun(ctx, written.ID)
	require.NoError(t, err)
	assert.True(t, at.Equal(got.CreatedAt))
	got.CreatedAt, written.CreatedAt = time.Time{}, time.Time{}
	assert.Equal(t, written, got)
}

func TestWriteRun_WithoutJacobian(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	r, err := s.WriteRun(ctx, Run{TapeID: "t", Device: "d", Method: "numeric", Interface: "autodiff", Results: []float64{1}})
	require.NoError(t, err)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := s.GetRun(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Jacobian)
	assert.Equal(t, []float64{}, got.Params)
}

func TestListRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.WriteRun(ctx, Run{
			TapeID:    "tape",
			Device:    "default.qubit",
			Method:    "numeric",
			Interface: "autodiff",
			Params:    []float64{float64(i)},
			Results:   []float64{0},
		})
		require.NoError(t, err)
	}

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, r := range all {
		assert.Equal(t, int64(i+1), r.Seq)
	}

	recent, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, []float64{3}, recent[0].Params)
	assert.Equal(t, []float64{4}, recent[1].Params)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)
	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestGetRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
