package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votestats/internal/errors"
)

func sampleStatistics(t *testing.T, scope string, base int64) *Statistics {
	t.Helper()
	parties := []string{"Red Party", "Blue Party"}
	vectors := map[Category]VoteVector{
		CategoryOrdinaryPollingPlaces: mustVector(t, parties, base+10, base+20),
		CategoryOrdinaryAdvance:       mustVector(t, parties, 1, 2),
		CategorySpecialAdvance:        mustVector(t, parties, 3, 4),
		CategoryLessThan6:             mustVector(t, parties, 0, 1),
		CategorySpecialOn:             mustVector(t, parties, 5, 6),
		CategoryOverseas:              mustVector(t, parties, 7, 8),
		CategoryPartyOnly:             mustVector(t, parties, 9, 10),
	}
	s, err := NewStatistics(scope, parties, vectors)
	require.NoError(t, err)
	return s
}

func TestNewStatistics_FillsMissingWithBlank(t *testing.T) {
	parties := []string{"Red Party", "Blue Party"}
	s, err := NewStatistics("Testville", parties, map[Category]VoteVector{
		CategoryTotals: mustVector(t, parties, 5, 6),
	})
	require.NoError(t, err)

	for _, c := range BasicCategories {
		v, err := s.Get(c)
		require.NoError(t, err, c)
		assert.Equal(t, 2, v.Len(), c)
		assert.Same(t, &parties[0], &v.Parties()[0], "vector %s must share the record's party list", c)
	}
	assert.Equal(t, int64(0), s.Overseas().Total())
	assert.Equal(t, int64(11), s.Totals().Total())
}

func TestNewStatistics_Errors(t *testing.T) {
	parties := []string{"Red Party", "Blue Party"}

	_, err := NewStatistics("x", parties, map[Category]VoteVector{
		CategoryOverseas: mustVector(t, []string{"Red Party"}, 1),
	})
	assert.ErrorIs(t, err, errors.ErrShapeMismatch)

	_, err = NewStatistics("x", parties, map[Category]VoteVector{
		CategoryOrdinary: mustVector(t, parties, 1, 1),
	})
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestStatistics_DerivedCategories(t *testing.T) {
	s := sampleStatistics(t, "Testville", 0)

	tests := []struct {
		category Category
		want     map[string]int64
	}{
		// ordinary_polling_places + ordinary_advance
		{CategoryOrdinary, map[string]int64{"Red Party": 11, "Blue Party": 22}},
		// ordinary_advance + special_advance
		{CategoryAdvance, map[string]int64{"Red Party": 4, "Blue Party": 6}},
		// special_advance + special_on + overseas + party_only
		{CategorySpecials, map[string]int64{"Red Party": 24, "Blue Party": 28}},
		// special_advance + special_on + party_only
		{CategorySpecialsDomestic, map[string]int64{"Red Party": 17, "Blue Party": 20}},
		// ordinary + specials_domestic
		{CategoryDomestic, map[string]int64{"Red Party": 28, "Blue Party": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			got, err := s.Votes(tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatistics_GetUnknown(t *testing.T) {
	s := sampleStatistics(t, "Testville", 0)

	_, err := s.Get(CategoryNone)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))

	_, err = s.Percentages(Category("bogus"))
	assert.Error(t, err)
}

func TestStatistics_Percentages(t *testing.T) {
	s := sampleStatistics(t, "Testville", 0)

	p, err := s.Percentages(CategoryAdvance)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, p["Red Party"], 1e-9)
	assert.InDelta(t, 0.6, p["Blue Party"], 1e-9)
}

func TestStatistics_Add(t *testing.T) {
	a := sampleStatistics(t, "A", 0)
	b := sampleStatistics(t, "B", 100)

	sum, err := a.Add(b)
	require.NoError(t, err)

	assert.Equal(t, "A", sum.Scope())
	assert.Equal(t, map[string]int64{"Red Party": 120, "Blue Party": 140}, sum.OrdinaryPollingPlaces().Votes())
	assert.Equal(t, map[string]int64{"Red Party": 14, "Blue Party": 16}, sum.Overseas().Votes())

	// operands untouched
	assert.Equal(t, map[string]int64{"Red Party": 10, "Blue Party": 20}, a.OrdinaryPollingPlaces().Votes())
}

func TestStatistics_AddShapeMismatch(t *testing.T) {
	a := sampleStatistics(t, "A", 0)
	b, err := NewStatistics("B", []string{"Blue Party", "Red Party"}, nil)
	require.NoError(t, err)

	_, err = a.Add(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrShapeMismatch)
}

func TestStatistics_WithScope(t *testing.T) {
	a := sampleStatistics(t, "A", 0)
	b := a.WithScope("national 2014")

	assert.Equal(t, "A", a.Scope())
	assert.Equal(t, "national 2014", b.Scope())
	assert.True(t, a.Overseas().Equal(b.Overseas()))
}

func TestStatistics_Reconcile(t *testing.T) {
	parties := []string{"Red Party", "Blue Party"}

	consistent, err := NewStatistics("ok", parties, map[Category]VoteVector{
		CategoryOrdinaryPollingPlaces: mustVector(t, parties, 15, 35),
		CategorySpecialAdvance:        mustVector(t, parties, 1, 2),
		CategoryTotals:                mustVector(t, parties, 16, 37),
	})
	require.NoError(t, err)

	computed, reported, ok := consistent.Reconcile()
	assert.True(t, ok)
	assert.True(t, computed.Equal(reported))

	inconsistent, err := NewStatistics("bad", parties, map[Category]VoteVector{
		CategoryOrdinaryPollingPlaces: mustVector(t, parties, 15, 35),
		CategoryTotals:                mustVector(t, parties, 16, 37),
	})
	require.NoError(t, err)

	computed, reported, ok = inconsistent.Reconcile()
	assert.False(t, ok)
	assert.Equal(t, map[string]int64{"Red Party": 15, "Blue Party": 35}, computed.Votes())
	assert.Equal(t, map[string]int64{"Red Party": 16, "Blue Party": 37}, reported.Votes())
}
