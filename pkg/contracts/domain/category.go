package domain

import "fmt"

// Category names a vote category. Basic categories are read directly from a
// results file; derived categories are roll-ups computed from them.
type Category string

// Basic categories
const (
	CategoryOrdinaryPollingPlaces Category = "ordinary_polling_places"
	CategoryOrdinaryAdvance       Category = "ordinary_advance"
	CategorySpecialAdvance        Category = "special_advance"
	CategoryLessThan6             Category = "less_than_6"
	CategorySpecialOn             Category = "special_on"
	CategoryOverseas              Category = "overseas"
	CategoryPartyOnly             Category = "party_only"
	CategoryTotals                Category = "totals"
)

// Derived categories
const (
	CategoryOrdinary         Category = "ordinary"
	CategoryAdvance          Category = "advance"
	CategorySpecials         Category = "specials"
	CategorySpecialsDomestic Category = "specials_domestic"
	CategoryDomestic         Category = "domestic"
)

// CategoryNone marks a row label that is not a special category, i.e. a
// polling place.
const CategoryNone Category = ""

// BasicCategories lists every basic category in canonical order.
var BasicCategories = []Category{
	CategoryOrdinaryPollingPlaces,
	CategoryOrdinaryAdvance,
	CategorySpecialAdvance,
	CategoryLessThan6,
	CategorySpecialOn,
	CategoryOverseas,
	CategoryPartyOnly,
	CategoryTotals,
}

// DerivedCategories lists every roll-up category.
var DerivedCategories = []Category{
	CategoryOrdinary,
	CategoryAdvance,
	CategorySpecials,
	CategorySpecialsDomestic,
	CategoryDomestic,
}

// RowCategories are the basic categories that appear as labelled rows in a
// results file, excluding the totals row and the polling-place roll-up.
var RowCategories = []Category{
	CategoryOrdinaryAdvance,
	CategorySpecialAdvance,
	CategoryLessThan6,
	CategorySpecialOn,
	CategoryOverseas,
	CategoryPartyOnly,
}

// IsBasic reports whether c is stored on a record.
func (c Category) IsBasic() bool {
	for _, b := range BasicCategories {
		if c == b {
			return true
		}
	}
	return false
}

// IsDerived reports whether c is a roll-up.
func (c Category) IsDerived() bool {
	for _, d := range DerivedCategories {
		if c == d {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	if c == CategoryNone {
		return "none"
	}
	return string(c)
}

// ParseCategory maps a category name to its Category.
func ParseCategory(name string) (Category, error) {
	c := Category(name)
	if c.IsBasic() || c.IsDerived() {
		return c, nil
	}
	return CategoryNone, fmt.Errorf("unknown vote category %q", name)
}
