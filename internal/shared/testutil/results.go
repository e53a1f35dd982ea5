package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// ResultsFile builds a results file in the published per-electorate layout:
// a header line, the "<name> <id>" line, the party heading line, then one
// row per polling place or special category. Each data row carries the two
// trailing aggregate cells (total and majority).
type ResultsFile struct {
	Name    string
	ID      int
	Parties []string
	rows    [][]string
}

// NewResultsFile starts a file for electorate name with the given parties.
func NewResultsFile(name string, id int, parties ...string) *ResultsFile {
	return &ResultsFile{Name: name, ID: id, Parties: parties}
}

// Row appends a data row.
func (f *ResultsFile) Row(suburb, location string, votes ...int64) *ResultsFile {
	row := []string{suburb, location}
	var total int64
	for _, v := range votes {
		row = append(row, strconv.FormatInt(v, 10))
		total += v
	}
	row = append(row, strconv.FormatInt(total, 10), "")
	f.rows = append(f.rows, row)
	return f
}

// Raw appends a row verbatim.
func (f *ResultsFile) Raw(cells ...string) *ResultsFile {
	f.rows = append(f.rows, cells)
	return f
}

// Totals appends the "<name> Total" row.
func (f *ResultsFile) Totals(votes ...int64) *ResultsFile {
	return f.Row("", f.Name+" Total", votes...)
}

// Rows returns the file as a grid of cells.
func (f *ResultsFile) Rows() [][]string {
	heading := append([]string{"", ""}, f.Parties...)
	heading = append(heading, "Total Valid Party Votes", "Majority")
	out := [][]string{
		{fmt.Sprintf("%s - Party Votes by Polling Place", f.Name)},
		{fmt.Sprintf("%s %d", f.Name, f.ID)},
		heading,
	}
	return append(out, f.rows...)
}

// CSV renders the file as CSV bytes.
func (f *ResultsFile) CSV() []byte {
	return RowsToCSV(f.Rows())
}

// RowsToCSV renders rows as CSV bytes.
func RowsToCSV(rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// WriteAll only fails on writer errors, which bytes.Buffer never returns
	_ = w.WriteAll(rows)
	return buf.Bytes()
}

// Testville is the two-party reference electorate: two polling places, one
// special-votes-before-polling-day row and a consistent totals row.
func Testville() *ResultsFile {
	return NewResultsFile("Testville", 5, "Red Party", "Blue Party").
		Row("Northtown", "Northtown School", 10, 20).
		Row("", "Northtown Hall", 5, 15).
		Row("", "Special Votes before polling day", 1, 2).
		Totals(16, 37)
}

// TestvilleCSV is Testville rendered as CSV.
func TestvilleCSV() []byte {
	return Testville().CSV()
}
