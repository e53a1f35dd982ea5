package dataprocessing

import (
	"fmt"
	"math"

	"votestats/internal/errors"
	"votestats/pkg/contracts/domain"
)

// CompareMode selects how two category shares are compared.
type CompareMode string

const (
	CompareRatio CompareMode = "ratio"
	CompareDiff  CompareMode = "diff"
)

// ParseCompareMode validates a mode name.
func ParseCompareMode(s string) (CompareMode, error) {
	switch m := CompareMode(s); m {
	case CompareRatio, CompareDiff:
		return m, nil
	}
	return "", errors.NewAppValidationError(fmt.Sprintf("unknown comparison mode %q", s))
}

// Comparison pairs two categories whose party shares are compared.
type Comparison struct {
	Numerator   domain.Category
	Denominator domain.Category
}

// Label is the short column heading, e.g. "overseas/ordinary".
func (c Comparison) Label(mode CompareMode) string {
	sep := "/"
	if mode == CompareDiff {
		sep = "-"
	}
	return string(c.Numerator) + sep + string(c.Denominator)
}

// SpecialComparisons are the special-vote comparisons reported per party.
var SpecialComparisons = []Comparison{
	{domain.CategoryOverseas, domain.CategoryDomestic},
	{domain.CategoryOverseas, domain.CategorySpecialsDomestic},
	{domain.CategoryOverseas, domain.CategoryOrdinary},
	{domain.CategorySpecialsDomestic, domain.CategoryOrdinary},
	{domain.CategorySpecials, domain.CategoryOrdinary},
}

// ComparisonRow holds one party's comparison values for one scope, in
// SpecialComparisons order.
type ComparisonRow struct {
	Scope  string
	Party  string
	Values []float64
}

// CompareSpecials compares each party's share of special-vote categories
// with its share of the reference categories. A ratio with a zero
// denominator share is NaN.
func CompareSpecials(stats *domain.Statistics, parties []string, mode CompareMode) ([]ComparisonRow, error) {
	if _, err := ParseCompareMode(string(mode)); err != nil {
		return nil, err
	}
	shares := make(map[domain.Category]map[string]float64)
	for _, c := range SpecialComparisons {
		for _, cat := range []domain.Category{c.Numerator, c.Denominator} {
			if _, ok := shares[cat]; ok {
				continue
			}
			p, err := stats.Percentages(cat)
			if err != nil {
				return nil, err
			}
			shares[cat] = p
		}
	}

	rows := make([]ComparisonRow, 0, len(parties))
	for _, party := range parties {
		if _, ok := shares[domain.CategoryOrdinary][party]; !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("party %q in %s", party, stats.Scope()))
		}
		row := ComparisonRow{Scope: stats.Scope(), Party: party, Values: make([]float64, len(SpecialComparisons))}
		for i, c := range SpecialComparisons {
			row.Values[i] = compareShares(shares[c.Numerator][party], shares[c.Denominator][party], mode)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func compareShares(num, den float64, mode CompareMode) float64 {
	if mode == CompareDiff {
		return num - den
	}
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
