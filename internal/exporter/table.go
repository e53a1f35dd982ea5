package exporter

import (
	"fmt"
	"math"
	"slices"

	"votestats/internal/dataprocessing"
	"votestats/pkg/contracts/domain"
)

// ValueFormat says how the numeric cells of a table are presented.
type ValueFormat string

const (
	FormatVotes         ValueFormat = "votes"
	FormatPercent       ValueFormat = "percent"
	FormatRatio         ValueFormat = "ratio"
	FormatSignedPercent ValueFormat = "signed_percent"
)

// Table is a report: a header row and body rows whose first cell is a
// label and whose remaining cells are numbers (int64 or float64).
// Percentages are kept as fractions; sinks decide how to show them.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]any
	Format  ValueFormat
}

// StatsCategories are the columns of a statistics table.
var StatsCategories = []domain.Category{
	domain.CategoryOrdinary,
	domain.CategoryOrdinaryPollingPlaces,
	domain.CategoryAdvance,
	domain.CategoryDomestic,
	domain.CategorySpecials,
	domain.CategorySpecialsDomestic,
	domain.CategoryOverseas,
	domain.CategoryTotals,
}

var statsHeadings = []string{"Ordinary", "Polling", "Advance", "Domestic", "Specials", "DomSpecs", "Overseas", "Total"}

// StatsTable tabulates each party's share (FormatPercent) or raw count
// (FormatVotes) across StatsCategories. A nil parties lists every party
// of stats; parties that stats does not have are left out.
func StatsTable(title string, stats *domain.Statistics, parties []string, format ValueFormat) (*Table, error) {
	if format != FormatPercent && format != FormatVotes {
		return nil, fmt.Errorf("unsupported statistics format %q", format)
	}
	if parties == nil {
		parties = stats.Parties()
	}

	vectors := make([]domain.VoteVector, len(StatsCategories))
	for i, c := range StatsCategories {
		v, err := stats.Get(c)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}

	t := &Table{
		Title:   title,
		Headers: append([]string{"Party"}, statsHeadings...),
		Format:  format,
	}
	for _, party := range parties {
		if !slices.Contains(stats.Parties(), party) {
			continue
		}
		row := make([]any, 0, len(vectors)+1)
		row = append(row, party)
		for _, v := range vectors {
			if format == FormatVotes {
				row = append(row, v.Count(party))
			} else {
				row = append(row, v.Percentage(party))
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

var comparisonHeadings = []string{"Ovs/Dom", "Ovs/DS", "Ovs/Ord", "DS/Ord", "Spec/Ord"}

// ComparisonTable lays comparison rows out one line per scope, with a
// column group per party in the order of parties.
func ComparisonTable(title, scopeHeading string, rows []dataprocessing.ComparisonRow, parties []string, mode dataprocessing.CompareMode) *Table {
	format := FormatRatio
	if mode == dataprocessing.CompareDiff {
		format = FormatSignedPercent
	}

	t := &Table{Title: title, Headers: []string{scopeHeading}, Format: format}
	for _, party := range parties {
		for _, h := range comparisonHeadings {
			if mode == dataprocessing.CompareDiff {
				h = replaceSlash(h)
			}
			t.Headers = append(t.Headers, party+" "+h)
		}
	}

	var scopes []string
	byScope := make(map[string]map[string][]float64)
	for _, r := range rows {
		if _, ok := byScope[r.Scope]; !ok {
			scopes = append(scopes, r.Scope)
			byScope[r.Scope] = make(map[string][]float64)
		}
		byScope[r.Scope][r.Party] = r.Values
	}

	for _, scope := range scopes {
		line := []any{scope}
		for _, party := range parties {
			values, ok := byScope[scope][party]
			for i := range comparisonHeadings {
				if !ok || i >= len(values) {
					line = append(line, math.NaN())
					continue
				}
				line = append(line, values[i])
			}
		}
		t.Rows = append(t.Rows, line)
	}
	return t
}

func replaceSlash(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == '/' {
			b[i] = '-'
		}
	}
	return string(b)
}

// Strings renders every body cell as text.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = t.formatCell(v)
		}
		out[i] = cells
	}
	return out
}

func (t *Table) formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return formatInt(x)
	case int:
		return formatInt(int64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "n/a"
		}
		switch t.Format {
		case FormatPercent:
			return formatPercent(x)
		case FormatSignedPercent:
			return formatSignedPercent(x)
		case FormatRatio:
			return formatRatio(x)
		default:
			return formatFloat(x)
		}
	default:
		return fmt.Sprint(v)
	}
}
