package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votestats/internal/config"
	"votestats/pkg/contracts/domain"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

func setupTestEnv(t *testing.T) (*ReportWriter, string) {
	t.Helper()
	tempDir := t.TempDir()
	writer := NewReportWriter(&config.Paths{ReportsDir: filepath.Join(tempDir, "reports")})
	return writer, tempDir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, bom))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestReportWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "basic.csv",
			options: WriteOptions{
				Headers: []string{"Party", "Votes"},
				Records: [][]string{{"Red Party", "10"}, {"Blue Party", "20"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Party,Votes\nRed Party,10\nBlue Party,20\n", string(content))
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"Party"},
				Records:   [][]string{{"Māori Party"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, bom))
				assert.Equal(t, "Party\nMāori Party\n", string(content[3:]))
			},
		},
		{
			name:     "quotes special characters",
			filePath: "quoted.csv",
			options: WriteOptions{
				Records: [][]string{{"Party, with comma", `say "hi"`}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "\"Party, with comma\",\"say \"\"hi\"\"\"\n", string(content))
			},
		},
		{
			name:     "nested relative path",
			filePath: filepath.Join("2014", "national.csv"),
			options: WriteOptions{
				Headers: []string{"Party"},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Party\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))

			content, err := os.ReadFile(filepath.Join(tempDir, "reports", tt.filePath))
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestReportWriter_ResolvePath(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	abs := filepath.Join(tempDir, "elsewhere", "out.csv")
	assert.Equal(t, abs, writer.resolvePath(abs))
	assert.Equal(t, filepath.Join(tempDir, "reports", "out.csv"), writer.resolvePath("out.csv"))
}

func TestReportWriter_WriteTableAndAppend(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	table, err := StatsTable("Testville", testStats(t), nil, FormatPercent)
	require.NoError(t, err)

	require.NoError(t, writer.WriteTable("stats.csv", table))
	require.NoError(t, writer.AppendTable("stats.csv", table))

	records := readCSV(t, filepath.Join(tempDir, "reports", "stats.csv"))
	require.Len(t, records, 5)
	assert.Equal(t, table.Headers, records[0])
	assert.Equal(t, []string{"Red Party", "30.00%", "30.00%", "20.00%", "29.09%", "35.00%", "20.00%", "50.00%", "30.83%"}, records[1])
	assert.Equal(t, records[1], records[3])
}

func TestReportWriter_StreamWriter(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"A", "B"})
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, stream.WriteRecord([]string{"x", strings.Repeat("y", i%5)}))
	}
	require.NoError(t, stream.Close())

	records := readCSV(t, filepath.Join(tempDir, "reports", "stream.csv"))
	assert.Len(t, records, 101)
	assert.Equal(t, []string{"A", "B"}, records[0])
}

func TestReportWriter_WritePollingPlaces(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	stats := testStats(t)
	places := []domain.PollingPlace{
		{ID: 1, Suburb: "Northtown", Location: "Northtown School", Votes: vector(t, 10, 20)},
		{ID: 2, Suburb: "Northtown", Location: "Northtown Hall", Votes: vector(t, 20, 50)},
	}
	record, err := domain.NewElectorateRecord(2014, 5, "Testville", stats, places, nil)
	require.NoError(t, err)

	require.NoError(t, writer.WritePollingPlaces("places.csv", record))

	records := readCSV(t, filepath.Join(tempDir, "reports", "places.csv"))
	assert.Equal(t, [][]string{
		{"ID", "Suburb", "Location", "Red Party", "Blue Party", "Total"},
		{"1", "Northtown", "Northtown School", "10", "20", "30"},
		{"2", "Northtown", "Northtown Hall", "20", "50", "70"},
	}, records)
}

func TestReportWriter_ErrorScenarios(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// reports dir is a regular file
	writer := NewReportWriter(&config.Paths{ReportsDir: blocker})

	err := writer.WriteCSV("out.csv", WriteOptions{Headers: []string{"A"}})
	assert.Error(t, err)

	_, err = writer.CreateStreamWriter("out.csv", nil)
	assert.Error(t, err)
}

func BenchmarkReportWriter_WriteTable(b *testing.B) {
	writer := NewReportWriter(&config.Paths{ReportsDir: b.TempDir()})
	table := &Table{Headers: []string{"Party", "Votes"}, Format: FormatVotes}
	for i := 0; i < 1000; i++ {
		table.Rows = append(table.Rows, []any{"Party", int64(i)})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := writer.WriteTable("bench.csv", table); err != nil {
			b.Fatal(err)
		}
	}
}
