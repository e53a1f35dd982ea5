package exporter

import (
	"fmt"
	"strconv"
)

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatPercent shows a fraction as a percentage, e.g. 0.4213 -> "42.13%".
func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}

// formatSignedPercent is formatPercent with an explicit sign.
func formatSignedPercent(f float64) string {
	return fmt.Sprintf("%+.2f%%", f*100)
}

func formatRatio(f float64) string {
	return fmt.Sprintf("%.4f", f)
}
