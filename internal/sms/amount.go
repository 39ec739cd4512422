package sms

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches a currency token (Rs, Rs., INR, ₹) followed by a
// grouped amount with an optional two-digit paise part.
var amountPattern = regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([0-9,]+(?:\.[0-9]{2})?)`)

// ParseAmount extracts the first currency-tagged amount from text. A missing
// amount is not a failure: the second return is false and the amount is 0.
func ParseAmount(text string) (float64, bool) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return ParseDecimal(m[1]), true
}

// ParseDecimal parses a statement-style decimal, tolerating thousands
// separators ("1,23,450.00" and "1,234.50" both parse). Unparseable input
// degrades to 0.
func ParseDecimal(s string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
