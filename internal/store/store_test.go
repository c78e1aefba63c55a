package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "shell.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestZoomLevel(t *testing.T) {
	s, path := openTemp(t)

	_, err := s.ZoomLevel()
	assert.ErrorIs(t, err, ErrNotSet)

	require.NoError(t, s.SetZoomLevel(1.5))
	zoom, err := s.ZoomLevel()
	require.NoError(t, err)
	assert.Equal(t, 1.5, zoom)

	// survives reopening
	require.NoError(t, s.Close())
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	zoom, err = s.ZoomLevel()
	require.NoError(t, err)
	assert.Equal(t, 1.5, zoom)
}

func TestRecordLaunchKeepsNewest(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		runID := fmt.Sprintf("run_%02d", i)
		require.NoError(t, s.RecordLaunch(runID, base.Add(time.Duration(i)*time.Hour), 3))
	}

	launches, err := s.Launches()
	require.NoError(t, err)
	require.Len(t, launches, 3)
	assert.Equal(t, "run_02", launches[0].RunID)
	assert.Equal(t, "run_04", launches[2].RunID)
	assert.True(t, launches[2].StartedAt.Equal(base.Add(4*time.Hour)))
}
