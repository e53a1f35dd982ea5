package files

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votestats/internal/config"
	"votestats/pkg/contracts/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	paths, err := config.GetPaths(config.PathsConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	return NewManager(paths)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestManager_WriteReadRemove(t *testing.T) {
	m := newTestManager(t)
	key := domain.FileKey{Year: 2014, Electorate: 12, VoteType: "party"}

	assert.False(t, m.Exists(key))
	assert.Equal(t, "electorate_12_party.csv", filepath.Base(m.Path(key)))

	n, err := m.Write(key, strings.NewReader("a,b,c\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.True(t, m.Exists(key))

	data, err := m.Read(key)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n", string(data))

	// overwrite in place
	_, err = m.Write(key, strings.NewReader("new"))
	require.NoError(t, err)
	data, err = m.Read(key)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	require.NoError(t, m.Remove(key))
	assert.False(t, m.Exists(key))
	assert.NoError(t, m.Remove(key))
}

func TestManager_WriteFailureLeavesNothing(t *testing.T) {
	m := newTestManager(t)
	key := domain.FileKey{Year: 2005, Electorate: 1, VoteType: "party"}

	_, err := m.Write(key, failingReader{})
	require.Error(t, err)
	assert.False(t, m.Exists(key))

	entries, err := os.ReadDir(filepath.Dir(m.Path(key)))
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file should be removed")
}

func TestManager_YearPathIsFile(t *testing.T) {
	m := newTestManager(t)
	key := domain.FileKey{Year: 2008, Electorate: 1, VoteType: "party"}

	yearDir := filepath.Dir(m.Path(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(yearDir), 0755))
	require.NoError(t, os.WriteFile(yearDir, []byte("x"), 0644))

	_, err := m.Write(key, strings.NewReader("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
