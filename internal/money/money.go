// Package money formats whole-peso amounts the way the restaurant prints
// them: dot-grouped thousands, no decimals.
package money

import "github.com/dustin/go-humanize"

const groupedNoDecimals = "#.###,"

func Format(amount int64) string {
	return humanize.FormatInteger(groupedNoDecimals, int(amount))
}

// Display prefixes the formatted amount with the peso sign.
func Display(amount int64) string {
	return "$" + Format(amount)
}
