package exporter

import (
	"strconv"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// 3 prints as 3.00 so the column lines up in spreadsheets
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats a count for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
