package dataprocessing

import (
	"strings"

	"votestats/pkg/contracts/domain"
)

// defaultLabels maps normalized row labels to the category they carry. It
// holds every spelling seen across the published years.
var defaultLabels = map[string]domain.Category{
	"ordinary votes before polling day":                 domain.CategoryOrdinaryAdvance,
	"special votes before polling day":                  domain.CategorySpecialAdvance,
	"special votes on polling day":                      domain.CategorySpecialOn,
	"voting places where less than 6 votes were taken":  domain.CategoryLessThan6,
	"polling places where less than 6 votes were taken": domain.CategoryLessThan6,
	"voting place where less than 6 votes were taken":   domain.CategoryLessThan6,
	"polling place where less than 6 votes were taken":  domain.CategoryLessThan6,
	"overseas special votes including defence force":    domain.CategoryOverseas,
	"overseas special votes including defence forces":   domain.CategoryOverseas,
	"votes allowed for party only":                      domain.CategoryPartyOnly,
	"special votes allowed for party only":              domain.CategoryPartyOnly,
}

// RowClassifier decides which category a results row belongs to from its
// label cell.
type RowClassifier struct {
	labels map[string]domain.Category
}

// NewRowClassifier returns a classifier using the built-in label table plus
// extra. Extra labels are normalized before they are added.
func NewRowClassifier(extra map[string]domain.Category) *RowClassifier {
	labels := make(map[string]domain.Category, len(defaultLabels)+len(extra))
	for label, c := range defaultLabels {
		labels[label] = c
	}
	for label, c := range extra {
		labels[NormalizeLabel(label)] = c
	}
	return &RowClassifier{labels: labels}
}

// Classify returns CategoryTotals for the electorate totals row, the
// category of a known special row, or CategoryNone for a polling place.
func (c *RowClassifier) Classify(label, electorate string) domain.Category {
	if IsTotalsLabel(label, electorate) {
		return domain.CategoryTotals
	}
	key := NormalizeLabel(label)
	if key == "" {
		return domain.CategoryNone
	}
	if cat, ok := c.labels[key]; ok {
		return cat
	}
	return domain.CategoryNone
}

// IsTotalsLabel reports whether label reads "<electorate> Total", ignoring
// case and spacing.
func IsTotalsLabel(label, electorate string) bool {
	fields := strings.Fields(strings.ToLower(label))
	if len(fields) < 2 || fields[len(fields)-1] != "total" {
		return false
	}
	name := strings.Join(strings.Fields(strings.ToLower(electorate)), " ")
	return name != "" && strings.Join(fields[:len(fields)-1], " ") == name
}

// NormalizeLabel lowercases a label, drops everything from the first hyphen
// or dash onwards and collapses whitespace.
func NormalizeLabel(label string) string {
	label = strings.ToLower(label)
	if i := strings.IndexAny(label, "-–—"); i >= 0 {
		label = label[:i]
	}
	return strings.Join(strings.Fields(label), " ")
}
