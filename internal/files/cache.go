package files

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"text/template"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"votestats/internal/config"
	"votestats/internal/errors"
	"votestats/internal/infrastructure"
	"votestats/pkg/contracts/domain"
)

const tracerName = "votestats/files"

// urlData is the value URL templates are executed against.
type urlData struct {
	Year       int
	Electorate int
	VoteType   string
	Name       string
	Initial    string
}

// Cache fetches results files over HTTP and keeps a copy on disk, so each
// (year, electorate, vote type) is downloaded at most once unless forced.
// It is safe for concurrent use on distinct keys.
type Cache struct {
	store    *Manager
	client   *http.Client
	limiter  *rate.Limiter
	general  *template.Template
	earliest *template.Template

	userAgent   string
	concurrency int
	force       bool

	logger  *slog.Logger
	metrics *infrastructure.Metrics
	tracer  trace.Tracer
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) CacheOption {
	return func(c *Cache) { c.client = client }
}

// WithForce makes every fetch download again, replacing cached copies.
func WithForce(force bool) CacheOption {
	return func(c *Cache) { c.force = force }
}

// WithCacheLogger sets the logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

// WithCacheMetrics records fetch outcomes on m.
func WithCacheMetrics(m *infrastructure.Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

// NewCache creates a fetcher caching under paths.ResultsDir.
func NewCache(paths *config.Paths, cfg config.FetchConfig, opts ...CacheOption) (*Cache, error) {
	general, err := template.New("url").Option("missingkey=error").Parse(cfg.URLTemplate)
	if err != nil {
		return nil, errors.NewConfigError("invalid url_template", err)
	}
	earliest, err := template.New("url_1999").Option("missingkey=error").Parse(cfg.URLTemplate1999)
	if err != nil {
		return nil, errors.NewConfigError("invalid url_template_1999", err)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := max(cfg.Burst, 1)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}

	c := &Cache{
		store:       NewManager(paths),
		client:      &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(limit, burst),
		general:     general,
		earliest:    earliest,
		userAgent:   cfg.UserAgent,
		concurrency: max(cfg.MaxConcurrentFetches, 1),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With(slog.String("component", "fetcher"))

	return c, nil
}

// URL returns the download address of key.
func (c *Cache) URL(key domain.FileKey) (string, error) {
	data := urlData{
		Year:       key.Year,
		Electorate: key.Electorate,
		VoteType:   key.VoteType,
	}
	if key.VoteType != "" {
		data.Initial = key.VoteType[:1]
	}

	tmpl := c.general
	if key.Year == 1999 {
		name, err := config.ElectorateName1999(key.Electorate)
		if err != nil {
			return "", err
		}
		data.Name = url.PathEscape(name)
		tmpl = c.earliest
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render url: %w", err)
	}
	return b.String(), nil
}

// Path returns where key is cached.
func (c *Cache) Path(key domain.FileKey) string {
	return c.store.Path(key)
}

// Fetch returns the bytes of the results file for key, downloading it
// first when it is not cached. Failures are *errors.FetchError.
func (c *Cache) Fetch(ctx context.Context, key domain.FileKey) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "files.Fetch",
		trace.WithAttributes(
			attribute.Int("election.year", key.Year),
			attribute.Int("election.electorate", key.Electorate),
			attribute.String("election.vote_type", key.VoteType),
		))
	defer span.End()

	hit, err := c.ensure(ctx, key)
	var data []byte
	if err == nil {
		data, err = c.store.Read(key)
		if err != nil {
			err = &errors.FetchError{Year: key.Year, Electorate: key.Electorate, VoteType: key.VoteType, Err: err}
		}
	}

	span.SetAttributes(attribute.Bool("cache.hit", hit))
	c.metrics.RecordFetch(ctx, key.Year, hit, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return data, nil
}

// Download makes sure key is cached and returns its path.
func (c *Cache) Download(ctx context.Context, key domain.FileKey) (string, error) {
	hit, err := c.ensure(ctx, key)
	c.metrics.RecordFetch(ctx, key.Year, hit, err)
	if err != nil {
		return "", err
	}
	return c.store.Path(key), nil
}

// FetchAll downloads every electorate of year for each vote type and
// returns the cached paths in electorate order.
func (c *Cache) FetchAll(ctx context.Context, year int, voteTypes []string) ([]string, error) {
	count, err := config.ElectorateCount(year)
	if err != nil {
		return nil, errors.NewAppValidationError(err.Error())
	}
	if len(voteTypes) == 0 {
		voteTypes = []string{domain.DefaultVoteType}
	}

	keys := make([]domain.FileKey, 0, count*len(voteTypes))
	for id := 1; id <= count; id++ {
		for _, vt := range voteTypes {
			keys = append(keys, domain.FileKey{Year: year, Electorate: id, VoteType: vt})
		}
	}

	paths := make([]string, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			path, err := c.Download(gctx, key)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "Fetched all electorates",
		slog.Int("year", year),
		slog.Int("files", len(paths)))

	return paths, nil
}

// ensure downloads key unless it is cached; hit reports a cache hit.
func (c *Cache) ensure(ctx context.Context, key domain.FileKey) (hit bool, err error) {
	if !c.force && c.store.Exists(key) {
		c.logger.DebugContext(ctx, "Already cached, not downloading",
			slog.String("file", key.String()),
			slog.String("path", c.store.Path(key)))
		return true, nil
	}
	return false, c.download(ctx, key)
}

func (c *Cache) download(ctx context.Context, key domain.FileKey) error {
	fail := func(u string, err error) error {
		return &errors.FetchError{Year: key.Year, Electorate: key.Electorate, VoteType: key.VoteType, URL: u, Err: err}
	}

	u, err := c.URL(key)
	if err != nil {
		return fail("", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(u, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fail(u, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fail(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(u, fmt.Errorf("unexpected status %s", resp.Status))
	}

	n, err := c.store.Write(key, resp.Body)
	if err != nil {
		return fail(u, err)
	}

	c.logger.InfoContext(ctx, "Downloaded results file",
		slog.String("file", key.String()),
		slog.String("url", u),
		slog.Int64("size_bytes", n),
		slog.Duration("duration", time.Since(start)))

	return nil
}
