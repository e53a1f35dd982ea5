package exporter

import (
	"log/slog"
	"path/filepath"

	"votestats/internal/config"
)

// ReportWriter writes report tables to files: CSV (csv.go) and XLSX
// workbooks (xlsx.go).
type ReportWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewReportWriter creates a report writer. Relative file paths are
// resolved under the reports directory.
func NewReportWriter(paths *config.Paths) *ReportWriter {
	return &ReportWriter{
		paths:  paths,
		logger: slog.Default().With(slog.String("component", "exporter")),
	}
}

// resolvePath keeps absolute paths and puts relative ones under the
// reports directory.
func (w *ReportWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
