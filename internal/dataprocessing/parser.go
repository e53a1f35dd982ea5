package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"votestats/internal/errors"
	"votestats/internal/infrastructure"
	"votestats/pkg/contracts/domain"
)

const tracerName = "votestats/dataprocessing"

// parseState is the position of the parser within a results file.
type parseState int

const (
	stateExpectHeader parseState = iota
	stateExpectElectorateName
	stateExpectPartyHeader
	stateConsumingRows
	stateDone
)

func (s parseState) String() string {
	switch s {
	case stateExpectHeader:
		return "expect_header"
	case stateExpectElectorateName:
		return "expect_electorate_name"
	case stateExpectPartyHeader:
		return "expect_party_header"
	case stateConsumingRows:
		return "consuming_rows"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Parser turns the rows of one electorate's results file into an
// ElectorateRecord. A Parser holds no per-file state and is safe for
// concurrent use.
type Parser struct {
	layouts    *LayoutTable
	classifier *RowClassifier
	logger     *slog.Logger
	metrics    *infrastructure.Metrics
	tracer     trace.Tracer
}

// Option configures a Parser.
type Option func(*Parser)

// WithLayouts replaces the default layout table.
func WithLayouts(t *LayoutTable) Option {
	return func(p *Parser) { p.layouts = t }
}

// WithClassifier replaces the default row classifier.
func WithClassifier(c *RowClassifier) Option {
	return func(p *Parser) { p.classifier = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

func WithMetrics(m *infrastructure.Metrics) Option {
	return func(p *Parser) { p.metrics = m }
}

// default layouts always validate
var defaultLayoutTable = mustLayoutTable()

func mustLayoutTable(extra ...Layout) *LayoutTable {
	t, err := NewLayoutTable(extra...)
	if err != nil {
		panic(fmt.Sprintf("invalid layout table: %v", err))
	}
	return t
}

// NewParser creates a parser with the default layouts and label table.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.layouts == nil {
		p.layouts = defaultLayoutTable
	}
	if p.classifier == nil {
		p.classifier = NewRowClassifier(nil)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With(slog.String("component", "parser"))
	p.tracer = otel.Tracer(tracerName)
	return p
}

// ParseBytes decodes raw file contents and parses them.
func (p *Parser) ParseBytes(ctx context.Context, year int, data []byte, format Format) (*domain.ElectorateRecord, error) {
	rows, err := ReadRows(data, format)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, year, rows)
}

// Parse builds the record for one electorate in year. It fails when the rows
// end before the electorate totals row; no partial record is returned.
func (p *Parser) Parse(ctx context.Context, year int, rows [][]string) (*domain.ElectorateRecord, error) {
	ctx, span := p.tracer.Start(ctx, "dataprocessing.Parse",
		trace.WithAttributes(attribute.Int("year", year), attribute.Int("rows", len(rows))))
	defer span.End()

	start := time.Now()
	run := &parseRun{
		parser:     p,
		layout:     p.layouts.Lookup(year),
		year:       year,
		categories: make(map[domain.Category]domain.VoteVector),
	}
	record, err := run.parse(ctx, rows)
	p.metrics.RecordParse(ctx, year, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.ErrorContext(ctx, "Failed to parse results file",
			slog.Int("year", year),
			slog.String("electorate", run.name),
			slog.String("state", run.state.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("electorate", record.Name()),
		attribute.Int("polling_places", len(run.places)),
		attribute.Int("warnings", len(record.Warnings())))
	p.logger.DebugContext(ctx, "Parsed results file",
		slog.Int("year", year),
		slog.Int("electorate_id", record.ID()),
		slog.String("electorate", record.Name()),
		slog.Int("polling_places", len(run.places)),
		slog.Int("warnings", len(record.Warnings())))
	return record, nil
}

// parseRun carries the mutable state of a single parse.
type parseRun struct {
	parser *Parser
	layout Layout
	year   int
	state  parseState

	name    string
	id      int
	parties []string

	categories map[domain.Category]domain.VoteVector
	places     []domain.PollingPlace
	warnings   []domain.Warning
	suburb     string
	seq        int
}

func (r *parseRun) parse(ctx context.Context, rows [][]string) (*domain.ElectorateRecord, error) {
	r.state = stateExpectElectorateName
	if r.layout.HasHeader {
		r.state = stateExpectHeader
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.state == stateDone {
			break
		}
		// the header line is discarded whatever it holds
		if r.state != stateConsumingRows && r.state != stateExpectHeader && blankCells(row) {
			continue
		}
		line := i + 1

		var err error
		switch r.state {
		case stateExpectHeader:
			r.state = stateExpectElectorateName
		case stateExpectElectorateName:
			err = r.readElectorateName(line, row)
		case stateExpectPartyHeader:
			err = r.readParties(line, row)
		case stateConsumingRows:
			err = r.consumeRow(line, row)
		}
		if err != nil {
			return nil, err
		}
	}

	if r.state != stateDone {
		return nil, errors.NewMissingTotalsError(r.year, r.name)
	}
	return r.finish(ctx)
}

func (r *parseRun) readElectorateName(line int, row []string) error {
	fields := strings.Fields(cell(row, 0))
	k := r.layout.NameTrailingTokens
	if len(fields) <= k {
		return errors.NewRowError(line, fmt.Sprintf("electorate name line %q", cell(row, 0)), nil)
	}
	id, err := strconv.Atoi(fields[len(fields)-k])
	if err != nil {
		return errors.NewRowError(line, fmt.Sprintf("electorate id %q", fields[len(fields)-k]), err)
	}
	r.id = id
	r.name = strings.Join(fields[:len(fields)-k], " ")
	if r.layout.TitleCaseName {
		r.name = cases.Title(language.English).String(r.name)
	}

	if r.layout.PartiesOnNameLine {
		return r.readParties(line, row)
	}
	r.state = stateExpectPartyHeader
	return nil
}

func (r *parseRun) readParties(line int, row []string) error {
	end := len(row) - r.layout.TrailingColumns
	if end <= 2 {
		return errors.NewRowError(line, fmt.Sprintf("party header has %d cells, no party columns", len(row)), nil)
	}
	parties := make([]string, 0, end-2)
	for _, name := range row[2:end] {
		parties = append(parties, strings.TrimSpace(name))
	}
	r.parties = parties
	r.state = stateConsumingRows
	return nil
}

func (r *parseRun) consumeRow(line int, row []string) error {
	r.seq++
	if len(row) <= 2 || blankCells(row[2:]) {
		return nil
	}

	if suburb := strings.TrimSpace(cell(row, 0)); suburb != "" {
		r.suburb = suburb
	}
	location := strings.TrimSpace(cell(row, 1))

	counts := make([]int64, len(r.parties))
	for j := range counts {
		n, err := parseCount(cell(row, 2+j))
		if err != nil {
			return errors.NewRowError(line, fmt.Sprintf("%s votes for %q", r.parties[j], location), err)
		}
		counts[j] = n
	}
	votes, err := domain.NewVoteVector(r.parties, counts)
	if err != nil {
		return errors.NewRowError(line, location, err)
	}

	switch category := r.parser.classifier.Classify(location, r.name); category {
	case domain.CategoryTotals:
		r.categories[domain.CategoryTotals] = votes
		r.state = stateDone
	case domain.CategoryNone:
		r.places = append(r.places, domain.PollingPlace{
			ID:       r.seq,
			Suburb:   r.suburb,
			Location: location,
			Votes:    votes,
		})
	default:
		// some years split one category over several rows
		if prev, ok := r.categories[category]; ok {
			if votes, err = prev.Add(votes); err != nil {
				return err
			}
		}
		r.categories[category] = votes
	}
	return nil
}

func (r *parseRun) finish(ctx context.Context) (*domain.ElectorateRecord, error) {
	for _, c := range domain.RowCategories {
		if _, ok := r.categories[c]; ok {
			continue
		}
		r.categories[c] = domain.BlankVoteVector(r.parties)
		if r.layout.absent(c) {
			continue
		}
		r.warn(ctx, domain.Warning{
			Kind:    domain.WarningMissingCategoryRow,
			Field:   c,
			Message: fmt.Sprintf("no row found for %s", c),
		})
	}

	opp := r.categories[domain.CategoryLessThan6]
	for _, place := range r.places {
		var err error
		if opp, err = opp.Add(place.Votes); err != nil {
			return nil, err
		}
	}
	r.categories[domain.CategoryOrdinaryPollingPlaces] = opp

	stats, err := domain.NewStatistics(r.name, r.parties, r.categories)
	if err != nil {
		return nil, err
	}
	if computed, reported, ok := stats.Reconcile(); !ok {
		r.warn(ctx, domain.Warning{
			Kind:     domain.WarningTotalsMismatch,
			Message:  "ordinary plus specials does not match the totals row",
			Computed: computed.Votes(),
			Reported: reported.Votes(),
		})
	}

	return domain.NewElectorateRecord(r.year, r.id, r.name, stats, r.places, r.warnings)
}

func (r *parseRun) warn(ctx context.Context, w domain.Warning) {
	w.Year = r.year
	w.Electorate = r.name
	r.warnings = append(r.warnings, w)
	r.parser.metrics.RecordWarning(ctx, r.year, string(w.Kind))

	attrs := []any{
		slog.String("kind", string(w.Kind)),
		slog.Int("year", r.year),
		slog.Int("electorate_id", r.id),
		slog.String("electorate", r.name),
	}
	if w.Field != domain.CategoryNone {
		attrs = append(attrs, slog.String("field", string(w.Field)))
	}
	if w.Computed != nil {
		attrs = append(attrs, slog.Any("computed", w.Computed), slog.Any("reported", w.Reported))
	}
	r.parser.logger.WarnContext(ctx, w.Message, attrs...)
}

// parseCount reads a vote cell. Blank cells count as zero and thousands
// separators are ignored.
func parseCount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative vote count %d", n)
	}
	return n, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blankCells(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
