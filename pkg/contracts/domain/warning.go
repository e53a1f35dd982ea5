package domain

import "fmt"

// WarningKind classifies a recoverable data-quality problem found while
// parsing a results file.
type WarningKind string

const (
	// WarningMissingCategoryRow: a required category row was absent and
	// has been synthesized as blank.
	WarningMissingCategoryRow WarningKind = "MISSING_CATEGORY_ROW"
	// WarningTotalsMismatch: ordinary plus specials differs from the
	// reported totals row.
	WarningTotalsMismatch WarningKind = "TOTALS_RECONCILIATION_MISMATCH"
)

// Warning is recorded on an ElectorateRecord. It never aborts a parse.
type Warning struct {
	Kind       WarningKind      `json:"kind"`
	Year       int              `json:"year"`
	Electorate string           `json:"electorate"`
	Field      Category         `json:"field,omitempty"`
	Message    string           `json:"message"`
	Computed   map[string]int64 `json:"computed,omitempty"`
	Reported   map[string]int64 `json:"reported,omitempty"`
}

func (w Warning) String() string {
	if w.Field != CategoryNone {
		return fmt.Sprintf("%s %d %s [%s]: %s", w.Kind, w.Year, w.Electorate, w.Field, w.Message)
	}
	return fmt.Sprintf("%s %d %s: %s", w.Kind, w.Year, w.Electorate, w.Message)
}
