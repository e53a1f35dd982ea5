package dataprocessing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"

	"votestats/internal/config"
	"votestats/internal/errors"
	"votestats/pkg/contracts/domain"
)

// Layout describes how one election year's results files are arranged.
type Layout struct {
	// Year is the first election year the layout applies to.
	Year int `validate:"min=0"`
	// HasHeader is true when a free-text header line precedes the
	// electorate-name line.
	HasHeader bool
	// TrailingColumns is the number of aggregate columns (total, majority
	// and so on) after the party columns.
	TrailingColumns int `validate:"min=0,max=16"`
	// NameTrailingTokens is how many whitespace-separated tokens follow the
	// electorate name in the first cell of the name line. The first of them
	// is the electorate id.
	NameTrailingTokens int `validate:"min=1,max=16"`
	// PartiesOnNameLine is true when the party headings share the
	// electorate-name line.
	PartiesOnNameLine bool
	TitleCaseName     bool
	// AbsentCategories are never published in this layout and are filled
	// with blank vectors without a warning.
	AbsentCategories []domain.Category `validate:"dive,required"`
}

// Validate checks the layout's structural fields.
func (l Layout) Validate() error {
	if err := layoutValidator().Struct(l); err != nil {
		return errors.NewAppValidationError(fmt.Sprintf("layout %d: %v", l.Year, err))
	}
	for _, c := range l.AbsentCategories {
		if !c.IsBasic() || c == domain.CategoryTotals || c == domain.CategoryOrdinaryPollingPlaces {
			return errors.NewAppValidationError(fmt.Sprintf("layout %d: %s cannot be absent", l.Year, c))
		}
	}
	return nil
}

func (l Layout) absent(c domain.Category) bool {
	for _, a := range l.AbsentCategories {
		if a == c {
			return true
		}
	}
	return false
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func layoutValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// GeneralLayout is used for every year without a more specific entry.
var GeneralLayout = Layout{
	HasHeader:          true,
	TrailingColumns:    2,
	NameTrailingTokens: 1,
}

// DefaultLayouts are the layouts of the published results archive.
func DefaultLayouts() []Layout {
	return []Layout{
		{
			// 1999 files have no header line, print the party headings on the
			// name line and carry two extra aggregate columns.
			Year:               1999,
			HasHeader:          false,
			TrailingColumns:    4,
			NameTrailingTokens: 4,
			PartiesOnNameLine:  true,
			TitleCaseName:      true,
			AbsentCategories:   []domain.Category{domain.CategoryLessThan6, domain.CategoryPartyOnly},
		},
		func() Layout { l := GeneralLayout; l.Year = 2002; return l }(),
	}
}

// LayoutTable maps election years to layouts.
type LayoutTable struct {
	mu      sync.RWMutex
	layouts map[int]Layout
	years   []int
}

// NewLayoutTable returns a table holding DefaultLayouts plus extra. Extra
// entries replace defaults for the same year.
func NewLayoutTable(extra ...Layout) (*LayoutTable, error) {
	t := &LayoutTable{layouts: make(map[int]Layout)}
	for _, l := range append(DefaultLayouts(), extra...) {
		if err := t.Register(l); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Register adds or replaces the layout for l.Year.
func (t *LayoutTable) Register(l Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.layouts[l.Year]; !exists {
		t.years = append(t.years, l.Year)
		sort.Ints(t.years)
	}
	t.layouts[l.Year] = l
	return nil
}

// Lookup returns the layout for year: an exact entry, else the latest entry
// before year, else GeneralLayout.
func (t *LayoutTable) Lookup(year int) Layout {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if l, ok := t.layouts[year]; ok {
		return l
	}
	i := sort.SearchInts(t.years, year)
	if i > 0 {
		return t.layouts[t.years[i-1]]
	}
	l := GeneralLayout
	l.Year = year
	return l
}

// Years lists the years with explicit entries in ascending order.
func (t *LayoutTable) Years() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]int(nil), t.years...)
}

// LayoutsFromConfig converts configured layout entries.
func LayoutsFromConfig(entries []config.LayoutConfig) ([]Layout, error) {
	out := make([]Layout, 0, len(entries))
	for _, e := range entries {
		l := Layout{
			Year:               e.Year,
			HasHeader:          e.HasHeader,
			TrailingColumns:    e.TrailingColumns,
			NameTrailingTokens: e.NameTrailingTokens,
			PartiesOnNameLine:  e.PartiesOnNameLine,
			TitleCaseName:      e.TitleCaseName,
		}
		if l.NameTrailingTokens == 0 {
			l.NameTrailingTokens = 1
		}
		for _, name := range e.AbsentCategories {
			c, err := domain.ParseCategory(name)
			if err != nil {
				return nil, errors.NewConfigError(fmt.Sprintf("layout %d", e.Year), err)
			}
			l.AbsentCategories = append(l.AbsentCategories, c)
		}
		out = append(out, l)
	}
	return out, nil
}
