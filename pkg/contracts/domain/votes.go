package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	"votestats/internal/errors"
)

// VoteVector holds one vote count per party. The party slice is shared with
// the record that owns the vector and must not be modified.
//
// Vectors are values: Add returns a new vector and never touches either
// operand.
type VoteVector struct {
	parties []string
	counts  []int64
}

// BlankVoteVector returns a zero count for every party.
func BlankVoteVector(parties []string) VoteVector {
	return VoteVector{parties: parties, counts: make([]int64, len(parties))}
}

// NewVoteVector pairs counts with parties. The counts slice is copied.
func NewVoteVector(parties []string, counts []int64) (VoteVector, error) {
	if len(parties) != len(counts) {
		return VoteVector{}, errors.NewAppValidationError(
			fmt.Sprintf("%d vote counts for %d parties", len(counts), len(parties)))
	}
	for i, n := range counts {
		if n < 0 {
			return VoteVector{}, errors.NewAppValidationError(
				fmt.Sprintf("negative vote count %d for %q", n, parties[i]))
		}
	}
	return VoteVector{parties: parties, counts: slices.Clone(counts)}, nil
}

// Parties returns the shared party list.
func (v VoteVector) Parties() []string {
	return v.parties
}

// Len is the number of parties.
func (v VoteVector) Len() int {
	return len(v.counts)
}

// Counts returns a copy of the counts in party order.
func (v VoteVector) Counts() []int64 {
	return slices.Clone(v.counts)
}

// Count returns the votes for one party, or 0 if the party is not listed.
func (v VoteVector) Count(party string) int64 {
	if i := slices.Index(v.parties, party); i >= 0 {
		return v.counts[i]
	}
	return 0
}

// Total is the sum over all parties.
func (v VoteVector) Total() int64 {
	var total int64
	for _, n := range v.counts {
		total += n
	}
	return total
}

// Add returns the elementwise sum. Both vectors must carry the same party
// ordering.
func (v VoteVector) Add(other VoteVector) (VoteVector, error) {
	if !SameParties(v.parties, other.parties) {
		return VoteVector{}, errors.NewShapeMismatchError(v.parties, other.parties)
	}
	return v.plus(other), nil
}

// plus adds without checking shapes; callers guarantee equal party lists.
func (v VoteVector) plus(other VoteVector) VoteVector {
	counts := make([]int64, len(v.counts))
	for i := range counts {
		counts[i] = v.counts[i] + other.counts[i]
	}
	return VoteVector{parties: v.parties, counts: counts}
}

// Votes maps each party to its count.
func (v VoteVector) Votes() map[string]int64 {
	out := make(map[string]int64, len(v.parties))
	for i, p := range v.parties {
		out[p] = v.counts[i]
	}
	return out
}

// Percentages maps each party to its share of the vector total, as a
// fraction in [0, 1]. An all-zero vector yields 0 for every party.
func (v VoteVector) Percentages() map[string]float64 {
	out := make(map[string]float64, len(v.parties))
	total := v.Total()
	for i, p := range v.parties {
		if total == 0 {
			out[p] = 0
			continue
		}
		out[p] = float64(v.counts[i]) / float64(total)
	}
	return out
}

// Percentage returns one party's share, 0 when unknown or the vector is empty.
func (v VoteVector) Percentage(party string) float64 {
	total := v.Total()
	if total == 0 {
		return 0
	}
	return float64(v.Count(party)) / float64(total)
}

// Equal reports whether both party lists and counts match.
func (v VoteVector) Equal(other VoteVector) bool {
	return SameParties(v.parties, other.parties) && slices.Equal(v.counts, other.counts)
}

// withParties rebinds the vector to an equal party slice so that all
// vectors of a record share one list.
func (v VoteVector) withParties(parties []string) VoteVector {
	return VoteVector{parties: parties, counts: v.counts}
}

func (v VoteVector) String() string {
	return fmt.Sprint(v.Votes())
}

// MarshalJSON writes the vector as parallel party and vote arrays so that
// party order survives the round trip.
func (v VoteVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Parties []string `json:"parties"`
		Votes   []int64  `json:"votes"`
	}{Parties: v.parties, Votes: v.counts})
}

// SameParties reports whether two party lists have the same ordering.
func SameParties(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 || &a[0] == &b[0] {
		return true
	}
	return slices.Equal(a, b)
}
