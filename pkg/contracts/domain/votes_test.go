package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votestats/internal/errors"
)

var testParties = []string{"Red Party", "Blue Party", "Green Party"}

func mustVector(t *testing.T, parties []string, counts ...int64) VoteVector {
	t.Helper()
	v, err := NewVoteVector(parties, counts)
	require.NoError(t, err)
	return v
}

func TestNewVoteVector(t *testing.T) {
	tests := []struct {
		name    string
		counts  []int64
		wantErr bool
	}{
		{name: "valid", counts: []int64{1, 2, 3}},
		{name: "all zero", counts: []int64{0, 0, 0}},
		{name: "too few counts", counts: []int64{1, 2}, wantErr: true},
		{name: "too many counts", counts: []int64{1, 2, 3, 4}, wantErr: true},
		{name: "negative count", counts: []int64{1, -2, 3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVoteVector(testParties, tt.counts)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.counts, v.Counts())
			assert.Equal(t, len(testParties), v.Len())
		})
	}
}

func TestNewVoteVector_CopiesCounts(t *testing.T) {
	counts := []int64{1, 2, 3}
	v := mustVector(t, testParties, counts...)
	counts[0] = 100

	assert.Equal(t, int64(1), v.Count("Red Party"))

	out := v.Counts()
	out[1] = 100
	assert.Equal(t, int64(2), v.Count("Blue Party"))
}

func TestBlankVoteVector(t *testing.T) {
	v := BlankVoteVector(testParties)

	assert.Equal(t, 3, v.Len())
	assert.Equal(t, int64(0), v.Total())
	assert.Equal(t, map[string]int64{"Red Party": 0, "Blue Party": 0, "Green Party": 0}, v.Votes())
}

func TestVoteVector_Add(t *testing.T) {
	a := mustVector(t, testParties, 1, 2, 3)
	b := mustVector(t, testParties, 10, 20, 30)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 22, 33}, sum.Counts())

	// operands unchanged
	assert.Equal(t, []int64{1, 2, 3}, a.Counts())
	assert.Equal(t, []int64{10, 20, 30}, b.Counts())
}

func TestVoteVector_AddEqualCopyOfParties(t *testing.T) {
	other := []string{"Red Party", "Blue Party", "Green Party"}
	a := mustVector(t, testParties, 1, 2, 3)
	b := mustVector(t, other, 1, 1, 1)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, sum.Counts())
}

func TestVoteVector_AddShapeMismatch(t *testing.T) {
	tests := []struct {
		name    string
		parties []string
		counts  []int64
	}{
		{name: "fewer parties", parties: []string{"Red Party", "Blue Party"}, counts: []int64{1, 2}},
		{name: "different order", parties: []string{"Blue Party", "Red Party", "Green Party"}, counts: []int64{1, 2, 3}},
		{name: "different names", parties: []string{"Red Party", "Blue Party", "Yellow Party"}, counts: []int64{1, 2, 3}},
	}

	a := mustVector(t, testParties, 1, 2, 3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustVector(t, tt.parties, tt.counts...)
			_, err := a.Add(b)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrShapeMismatch)
		})
	}
}

func TestVoteVector_AddAlgebra(t *testing.T) {
	a := mustVector(t, testParties, 1, 2, 3)
	b := mustVector(t, testParties, 7, 0, 11)
	c := mustVector(t, testParties, 100, 200, 300)

	t.Run("commutative", func(t *testing.T) {
		ab, err := a.Add(b)
		require.NoError(t, err)
		ba, err := b.Add(a)
		require.NoError(t, err)
		assert.True(t, ab.Equal(ba))
	})

	t.Run("associative", func(t *testing.T) {
		ab, err := a.Add(b)
		require.NoError(t, err)
		left, err := ab.Add(c)
		require.NoError(t, err)

		bc, err := b.Add(c)
		require.NoError(t, err)
		right, err := a.Add(bc)
		require.NoError(t, err)

		assert.True(t, left.Equal(right))
	})

	t.Run("blank is identity", func(t *testing.T) {
		got, err := a.Add(BlankVoteVector(a.Parties()))
		require.NoError(t, err)
		assert.True(t, got.Equal(a))
	})
}

func TestVoteVector_Percentages(t *testing.T) {
	v := mustVector(t, testParties, 25, 75, 0)

	p := v.Percentages()
	assert.InDelta(t, 0.25, p["Red Party"], 1e-9)
	assert.InDelta(t, 0.75, p["Blue Party"], 1e-9)
	assert.InDelta(t, 0.0, p["Green Party"], 1e-9)
	assert.InDelta(t, 0.75, v.Percentage("Blue Party"), 1e-9)
	assert.Zero(t, v.Percentage("Yellow Party"))
}

func TestVoteVector_PercentagesOfBlank(t *testing.T) {
	v := BlankVoteVector(testParties)

	p := v.Percentages()
	require.Len(t, p, len(testParties))
	for _, party := range testParties {
		assert.Zero(t, p[party], party)
	}
	assert.Zero(t, v.Percentage("Red Party"))
}

func TestVoteVector_Equal(t *testing.T) {
	a := mustVector(t, testParties, 1, 2, 3)

	assert.True(t, a.Equal(mustVector(t, testParties, 1, 2, 3)))
	assert.False(t, a.Equal(mustVector(t, testParties, 1, 2, 4)))
	assert.False(t, a.Equal(mustVector(t, []string{"A", "B", "C"}, 1, 2, 3)))
}

func TestVoteVector_MarshalJSON(t *testing.T) {
	v := mustVector(t, []string{"Red Party", "Blue Party"}, 3, 4)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"parties":["Red Party","Blue Party"],"votes":[3,4]}`, string(data))
}

func TestSameParties(t *testing.T) {
	assert.True(t, SameParties(nil, nil))
	assert.True(t, SameParties(testParties, testParties))
	assert.True(t, SameParties(testParties, []string{"Red Party", "Blue Party", "Green Party"}))
	assert.False(t, SameParties(testParties, testParties[:2]))
}
