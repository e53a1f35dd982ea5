package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"votestats/pkg/contracts/domain"
)

var cachedNamePattern = regexp.MustCompile(`^electorate_(\d+)_([a-z]+)\.csv$`)

// FileInfo represents a cached results file found on disk
type FileInfo struct {
	Key     domain.FileKey
	Path    string
	Size    int64
	ModTime time.Time
}

// Discovery finds results files already in the cache.
type Discovery struct {
	resultsDir string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(resultsDir string) *Discovery {
	return &Discovery{resultsDir: resultsDir}
}

// FindResultsFiles lists the cached files for year, ordered by electorate
// then vote type. A year with no cache directory yields no files.
func (d *Discovery) FindResultsFiles(year int) ([]FileInfo, error) {
	dir := filepath.Join(d.resultsDir, strconv.Itoa(year))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m := cachedNamePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Key:     domain.FileKey{Year: year, Electorate: id, VoteType: m[2]},
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Key.Electorate != files[j].Key.Electorate {
			return files[i].Key.Electorate < files[j].Key.Electorate
		}
		return files[i].Key.VoteType < files[j].Key.VoteType
	})

	return files, nil
}

// Missing returns the electorate ids in 1..count with no cached file of
// voteType.
func (d *Discovery) Missing(year, count int, voteType string) ([]int, error) {
	files, err := d.FindResultsFiles(year)
	if err != nil {
		return nil, err
	}

	have := make(map[int]bool, len(files))
	for _, f := range files {
		if f.Key.VoteType == voteType {
			have[f.Key.Electorate] = true
		}
	}

	var missing []int
	for id := 1; id <= count; id++ {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CachedYears lists the years that have a cache directory.
func (d *Discovery) CachedYears() ([]int, error) {
	entries, err := os.ReadDir(d.resultsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", d.resultsDir, err)
	}

	var years []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if year, err := strconv.Atoi(entry.Name()); err == nil {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years, nil
}
