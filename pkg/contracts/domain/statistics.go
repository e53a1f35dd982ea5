package domain

import (
	"fmt"

	"votestats/internal/errors"
)

// Statistics holds the basic category vote vectors for one scope: a single
// electorate, or a combination of several (an aggregate record). Every basic
// category is always present; derived categories are computed on access.
type Statistics struct {
	scope   string
	parties []string

	ordinaryPollingPlaces VoteVector
	ordinaryAdvance       VoteVector
	specialAdvance        VoteVector
	lessThan6             VoteVector
	specialOn             VoteVector
	overseas              VoteVector
	partyOnly             VoteVector
	totals                VoteVector
}

// NewStatistics builds a Statistics value. Categories missing from vectors
// are filled with blank vectors. Every supplied vector must use the same
// party ordering as parties.
func NewStatistics(scope string, parties []string, vectors map[Category]VoteVector) (*Statistics, error) {
	s := &Statistics{scope: scope, parties: parties}
	for _, c := range BasicCategories {
		*s.field(c) = BlankVoteVector(parties)
	}
	for c, v := range vectors {
		if !c.IsBasic() {
			return nil, errors.NewAppValidationError(fmt.Sprintf("%s is not a basic category", c))
		}
		if !SameParties(parties, v.parties) {
			return nil, errors.NewShapeMismatchError(parties, v.parties).WithContext("category", string(c))
		}
		*s.field(c) = v.withParties(parties)
	}
	return s, nil
}

func (s *Statistics) field(c Category) *VoteVector {
	switch c {
	case CategoryOrdinaryPollingPlaces:
		return &s.ordinaryPollingPlaces
	case CategoryOrdinaryAdvance:
		return &s.ordinaryAdvance
	case CategorySpecialAdvance:
		return &s.specialAdvance
	case CategoryLessThan6:
		return &s.lessThan6
	case CategorySpecialOn:
		return &s.specialOn
	case CategoryOverseas:
		return &s.overseas
	case CategoryPartyOnly:
		return &s.partyOnly
	case CategoryTotals:
		return &s.totals
	}
	return nil
}

// Scope names what the statistics cover, e.g. "Testville" or "national 2014".
func (s *Statistics) Scope() string { return s.scope }

// Parties returns the party list shared by every vector.
func (s *Statistics) Parties() []string { return s.parties }

func (s *Statistics) OrdinaryPollingPlaces() VoteVector { return s.ordinaryPollingPlaces }
func (s *Statistics) OrdinaryAdvance() VoteVector       { return s.ordinaryAdvance }
func (s *Statistics) SpecialAdvance() VoteVector        { return s.specialAdvance }
func (s *Statistics) LessThan6() VoteVector             { return s.lessThan6 }
func (s *Statistics) SpecialOn() VoteVector             { return s.specialOn }
func (s *Statistics) Overseas() VoteVector              { return s.overseas }
func (s *Statistics) PartyOnly() VoteVector             { return s.partyOnly }
func (s *Statistics) Totals() VoteVector                { return s.totals }

// Ordinary is polling-place votes plus ordinary advance votes.
func (s *Statistics) Ordinary() VoteVector {
	return s.ordinaryPollingPlaces.plus(s.ordinaryAdvance)
}

// Advance is every vote cast before polling day.
func (s *Statistics) Advance() VoteVector {
	return s.ordinaryAdvance.plus(s.specialAdvance)
}

// Specials is every special vote, overseas included.
func (s *Statistics) Specials() VoteVector {
	return s.SpecialsDomestic().plus(s.overseas)
}

// SpecialsDomestic is every special vote cast in the country.
func (s *Statistics) SpecialsDomestic() VoteVector {
	return s.specialAdvance.plus(s.specialOn).plus(s.partyOnly)
}

// Domestic is every vote except overseas specials.
func (s *Statistics) Domestic() VoteVector {
	return s.Ordinary().plus(s.SpecialsDomestic())
}

// Get returns the vector for a basic or derived category.
func (s *Statistics) Get(c Category) (VoteVector, error) {
	switch c {
	case CategoryOrdinary:
		return s.Ordinary(), nil
	case CategoryAdvance:
		return s.Advance(), nil
	case CategorySpecials:
		return s.Specials(), nil
	case CategorySpecialsDomestic:
		return s.SpecialsDomestic(), nil
	case CategoryDomestic:
		return s.Domestic(), nil
	}
	if f := s.field(c); f != nil {
		return *f, nil
	}
	return VoteVector{}, errors.NewNotFoundError(fmt.Sprintf("vote category %q", string(c)))
}

// Votes returns party counts for a category.
func (s *Statistics) Votes(c Category) (map[string]int64, error) {
	v, err := s.Get(c)
	if err != nil {
		return nil, err
	}
	return v.Votes(), nil
}

// Percentages returns party shares for a category.
func (s *Statistics) Percentages(c Category) (map[string]float64, error) {
	v, err := s.Get(c)
	if err != nil {
		return nil, err
	}
	return v.Percentages(), nil
}

// Add sums every basic category pairwise. The result keeps the receiver's
// scope and party list.
func (s *Statistics) Add(other *Statistics) (*Statistics, error) {
	if !SameParties(s.parties, other.parties) {
		return nil, errors.NewShapeMismatchError(s.parties, other.parties).
			WithContext("left_scope", s.scope).
			WithContext("right_scope", other.scope)
	}
	out := &Statistics{scope: s.scope, parties: s.parties}
	for _, c := range BasicCategories {
		*out.field(c) = s.field(c).plus(*other.field(c))
	}
	return out, nil
}

// WithScope returns a copy labelled with a different scope.
func (s *Statistics) WithScope(scope string) *Statistics {
	out := *s
	out.scope = scope
	return &out
}

// Reconcile compares ordinary plus specials against the reported totals.
func (s *Statistics) Reconcile() (computed, reported VoteVector, ok bool) {
	computed = s.Ordinary().plus(s.Specials())
	return computed, s.totals, computed.Equal(s.totals)
}
