package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"votestats/internal/config"
	"votestats/pkg/contracts/domain"
)

// Manager owns the on-disk layout of the results cache.
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// Path returns where the results file for key is cached.
func (m *Manager) Path(key domain.FileKey) string {
	return m.paths.ResultsFile(key.Year, key.Electorate, key.VoteType)
}

// Exists reports whether key is already cached.
func (m *Manager) Exists(key domain.FileKey) bool {
	path := m.Path(key)
	info, err := os.Stat(path)
	exists := err == nil && !info.IsDir()

	slog.Debug("Cache lookup",
		slog.String("file", key.String()),
		slog.String("path", path),
		slog.Bool("exists", exists))

	return exists
}

// Read returns the cached bytes for key.
func (m *Manager) Read(key domain.FileKey) ([]byte, error) {
	return os.ReadFile(m.Path(key))
}

// Write stores r as the cached file for key. The content goes to a
// temporary file in the same directory first and is renamed into place,
// so a concurrent reader never sees a partial file.
func (m *Manager) Write(key domain.FileKey, r io.Reader) (int64, error) {
	path := m.Path(key)
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return 0, fmt.Errorf("'%s' is not a directory", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to move download into place: %w", err)
	}

	slog.Debug("Cached results file",
		slog.String("file", key.String()),
		slog.String("path", path),
		slog.Int64("size_bytes", n))

	return n, nil
}

// Remove deletes the cached file for key; a missing file is not an error.
func (m *Manager) Remove(key domain.FileKey) error {
	if err := os.Remove(m.Path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
