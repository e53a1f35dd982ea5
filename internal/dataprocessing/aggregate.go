package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"votestats/internal/errors"
	"votestats/pkg/contracts/domain"
)

// Combine adds every basic category of a and b. The result keeps a's scope.
// Records must share the same party ordering.
func Combine(a, b *domain.Statistics) (*domain.Statistics, error) {
	return a.Add(b)
}

// Sum combines records left to right and labels the result with scope.
func Sum(scope string, records ...*domain.Statistics) (*domain.Statistics, error) {
	if len(records) == 0 {
		return nil, errors.NewAppValidationError("nothing to sum")
	}
	total := records[0]
	for _, r := range records[1:] {
		var err error
		if total, err = Combine(total, r); err != nil {
			return nil, err
		}
	}
	return total.WithScope(scope), nil
}

// NationalScope labels a year's national aggregate.
func NationalScope(year int) string {
	return fmt.Sprintf("national %d", year)
}

// NationalOptions controls LoadNational.
type NationalOptions struct {
	// Workers bounds concurrent electorate loads; zero or less means one.
	Workers int
	// ContinueOnError skips electorates that fail instead of aborting.
	ContinueOnError bool
}

// ElectorateFailure records an electorate skipped by LoadNational.
type ElectorateFailure struct {
	Electorate int
	Err        error
}

// NationalResult is the outcome of loading every electorate of a year.
type NationalResult struct {
	Year        int
	Statistics  *domain.Statistics
	Electorates []*domain.ElectorateRecord
	Failed      []ElectorateFailure
}

// LoadNational loads electorates 1..count of year concurrently and combines
// them into a national aggregate.
func (l *Loader) LoadNational(ctx context.Context, year, count int, opts NationalOptions) (*NationalResult, error) {
	if count <= 0 {
		return nil, errors.NewAppValidationError(fmt.Sprintf("no electorates for %d", year))
	}
	workers := max(opts.Workers, 1)
	start := time.Now()

	l.logger.InfoContext(ctx, "Loading national results",
		slog.Int("year", year),
		slog.Int("electorates", count),
		slog.Int("workers", workers))

	records := make([]*domain.ElectorateRecord, count)
	var (
		mu     sync.Mutex
		failed []ElectorateFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for id := 1; id <= count; id++ {
		g.Go(func() error {
			record, err := l.LoadElectorate(gctx, year, id)
			if err != nil {
				if !opts.ContinueOnError {
					return err
				}
				l.logger.WarnContext(gctx, "Skipping electorate",
					slog.Int("year", year),
					slog.Int("electorate_id", id),
					slog.String("error", err.Error()))
				mu.Lock()
				failed = append(failed, ElectorateFailure{Electorate: id, Err: err})
				mu.Unlock()
				return nil
			}
			records[id-1] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &NationalResult{Year: year, Failed: failed}
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Electorate < result.Failed[j].Electorate
	})
	stats := make([]*domain.Statistics, 0, count)
	for _, r := range records {
		if r == nil {
			continue
		}
		result.Electorates = append(result.Electorates, r)
		stats = append(stats, r.Statistics)
	}
	if len(stats) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("results for any electorate in %d", year))
	}

	total, err := Sum(NationalScope(year), stats...)
	if err != nil {
		return nil, err
	}
	result.Statistics = total

	l.logger.InfoContext(ctx, "Loaded national results",
		slog.Int("year", year),
		slog.Int("loaded", len(result.Electorates)),
		slog.Int("failed", len(result.Failed)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}
