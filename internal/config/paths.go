package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Paths contains the resolved application directories. Every path is
// absolute.
type Paths struct {
	DataDir    string
	ResultsDir string
	ReportsDir string
	LogsDir    string
}

// GetPaths resolves the configured directories. Relative paths are taken
// from the working directory; empty subdirectories default to folders
// under DataDir.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	resolve := func(configured, fallback string) (string, error) {
		if configured == "" {
			return filepath.Join(dataDir, fallback), nil
		}
		return filepath.Abs(configured)
	}

	paths := &Paths{DataDir: dataDir}
	if paths.ResultsDir, err = resolve(cfg.ResultsDir, DefaultResultsDir); err != nil {
		return nil, fmt.Errorf("failed to resolve results directory: %w", err)
	}
	if paths.ReportsDir, err = resolve(cfg.ReportsDir, DefaultReportsDir); err != nil {
		return nil, fmt.Errorf("failed to resolve reports directory: %w", err)
	}
	if paths.LogsDir, err = resolve(cfg.LogsDir, DefaultLogsDir); err != nil {
		return nil, fmt.Errorf("failed to resolve logs directory: %w", err)
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ResultsDir,
		p.ReportsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			return fmt.Errorf("'%s' is not a directory", dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// YearResultsDir returns the cache directory for one election year.
func (p *Paths) YearResultsDir(year int) string {
	return filepath.Join(p.ResultsDir, strconv.Itoa(year))
}

// ResultsFile returns the cache path of one electorate's results file,
// e.g. results/2014/electorate_5_party.csv.
func (p *Paths) ResultsFile(year, electorate int, voteType string) string {
	filename := fmt.Sprintf("electorate_%d_%s.csv", electorate, voteType)
	return filepath.Join(p.YearResultsDir(year), filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved directories at debug level.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("data", p.DataDir),
			slog.String("results", p.ResultsDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
