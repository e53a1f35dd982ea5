package dataprocessing

import (
	"context"
	"log/slog"

	"votestats/internal/errors"
	"votestats/pkg/contracts/domain"
)

// Fetcher supplies the raw bytes of a results file. Implementations cache
// by key and must be safe for concurrent fetches of distinct keys.
type Fetcher interface {
	Fetch(ctx context.Context, key domain.FileKey) ([]byte, error)
}

// Loader fetches and parses electorate results.
type Loader struct {
	fetcher  Fetcher
	parser   *Parser
	voteType string
	format   Format
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithVoteType selects which published file is loaded per electorate.
func WithVoteType(voteType string) LoaderOption {
	return func(l *Loader) { l.voteType = voteType }
}

// WithFormat forces the results file format instead of sniffing it.
func WithFormat(f Format) LoaderOption {
	return func(l *Loader) { l.format = f }
}

func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader. A nil parser gets NewParser().
func NewLoader(fetcher Fetcher, parser *Parser, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:  fetcher,
		parser:   parser,
		voteType: domain.DefaultVoteType,
		format:   FormatAuto,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.parser == nil {
		l.parser = NewParser()
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	l.logger = l.logger.With(slog.String("component", "loader"))
	return l
}

// LoadElectorate fetches and parses one electorate's results. Fetch errors
// are returned unchanged.
func (l *Loader) LoadElectorate(ctx context.Context, year, electorate int) (*domain.ElectorateRecord, error) {
	key := domain.FileKey{Year: year, Electorate: electorate, VoteType: l.voteType}
	data, err := l.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	record, err := l.parser.ParseBytes(ctx, year, data, l.format)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			appErr.WithContext("file", key.String())
		}
		return nil, err
	}
	if record.ID() != electorate {
		l.logger.WarnContext(ctx, "Electorate id in file differs from requested id",
			slog.String("file", key.String()),
			slog.Int("file_id", record.ID()))
	}
	return record, nil
}
