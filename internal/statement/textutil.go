package statement

import (
	"regexp"
	"strings"
	"time"

	"github.com/dvloznov/spendscan/internal/sms"
)

// findLabeledAmount applies a label regex whose first capture group is a
// statement-style decimal and parses it. Missing labels are reported, not
// defaulted, so parsers can distinguish malformed statements.
func findLabeledAmount(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return sms.ParseDecimal(m[1]), true
}

// findLabeledDate applies a label regex whose first capture group is a date in
// the given layout. The raw display string is returned alongside the parsed
// time so billing cycles can carry the date exactly as printed.
func findLabeledDate(re *regexp.Regexp, layout, text string) (time.Time, string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, "", false
	}
	t, err := time.Parse(layout, m[1])
	if err != nil {
		return time.Time{}, "", false
	}
	return t, m[1], true
}

// findLabeled applies a label regex and returns its first capture group.
func findLabeled(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseLineDate parses a ledger line date in the given layout.
func parseLineDate(layout, s string) (time.Time, error) {
	return time.Parse(layout, s)
}

// collapseSpaces normalizes runs of whitespace inside masked card numbers.
func collapseSpaces(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

var spaceRun = regexp.MustCompile(`\s+`)

// monthKey renders the statement month as YYYY-MM.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// deriveCycleWindow approximates the [start, end) billing window for
// statements that do not print their period explicitly: one month ending on
// the statement date.
func deriveCycleWindow(statementDate time.Time) (time.Time, time.Time) {
	return statementDate.AddDate(0, -1, 0), statementDate
}
