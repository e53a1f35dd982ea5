package domain

import (
	"fmt"
	"slices"

	"votestats/internal/errors"
)

// DefaultVoteType is the results file published per electorate with party
// vote counts.
const DefaultVoteType = "party"

// FileKey identifies one published results file.
type FileKey struct {
	Year       int    `json:"year"`
	Electorate int    `json:"electorate"`
	VoteType   string `json:"vote_type"`
}

func (k FileKey) String() string {
	return fmt.Sprintf("%d/%d/%s", k.Year, k.Electorate, k.VoteType)
}

// PollingPlace is one polling-place row of a results file. Its votes share
// the owning record's party list.
type PollingPlace struct {
	ID       int        `json:"id"`
	Suburb   string     `json:"suburb"`
	Location string     `json:"location"`
	Votes    VoteVector `json:"votes"`
}

// ElectorateRecord is the parsed result for one electorate in one year.
type ElectorateRecord struct {
	*Statistics

	year          int
	id            int
	name          string
	pollingPlaces []PollingPlace
	warnings      []Warning
}

// NewElectorateRecord wraps parsed statistics with the electorate identity.
// Polling-place vectors are rebound to the statistics' party list.
func NewElectorateRecord(year, id int, name string, stats *Statistics, places []PollingPlace, warnings []Warning) (*ElectorateRecord, error) {
	bound := make([]PollingPlace, len(places))
	for i, p := range places {
		if !SameParties(stats.parties, p.Votes.parties) {
			return nil, errors.NewShapeMismatchError(stats.parties, p.Votes.parties).
				WithContext("polling_place", p.Location)
		}
		p.Votes = p.Votes.withParties(stats.parties)
		bound[i] = p
	}
	return &ElectorateRecord{
		Statistics:    stats,
		year:          year,
		id:            id,
		name:          name,
		pollingPlaces: bound,
		warnings:      slices.Clone(warnings),
	}, nil
}

func (r *ElectorateRecord) Year() int    { return r.year }
func (r *ElectorateRecord) ID() int      { return r.id }
func (r *ElectorateRecord) Name() string { return r.name }

// PollingPlaces returns the polling-place rows in file order.
func (r *ElectorateRecord) PollingPlaces() []PollingPlace {
	return slices.Clone(r.pollingPlaces)
}

// Warnings returns the data-quality warnings raised while parsing.
func (r *ElectorateRecord) Warnings() []Warning {
	return slices.Clone(r.warnings)
}

// HasWarning reports whether a warning of kind was recorded.
func (r *ElectorateRecord) HasWarning(kind WarningKind) bool {
	return slices.ContainsFunc(r.warnings, func(w Warning) bool { return w.Kind == kind })
}

func (r *ElectorateRecord) String() string {
	return fmt.Sprintf("%s (%d, #%d)", r.name, r.year, r.id)
}
