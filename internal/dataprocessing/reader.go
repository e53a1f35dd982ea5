package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"votestats/internal/errors"
)

// Format is the container format of a results file.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// DetectFormat sniffs data: zip archives are workbooks, anything else CSV.
func DetectFormat(data []byte) Format {
	if bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) Format {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		return FormatXLSX
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return FormatCSV
	}
	return FormatAuto
}

// ReadRows splits a results file into rows of cells.
func ReadRows(data []byte, format Format) ([][]string, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(data)
	}
	switch format {
	case FormatCSV:
		return readCSV(data)
	case FormatXLSX:
		return readXLSX(data)
	}
	return nil, errors.NewAppValidationError(fmt.Sprintf("unsupported results format %q", format))
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	// older files are Windows-1252 encoded
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, errors.NewParsingError("failed to decode results file", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV results", err)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}

	// GetRows drops trailing empty cells. Rows are left ragged as in the
	// CSV path: the parser reads vote cells from the left and treats
	// missing ones as 0.
	return rows, nil
}
