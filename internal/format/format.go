// Package format provides display formatting helpers for the console
// views. Rather than repeating the same rendering rules (date layout,
// "Not graded", "N/A") in every view, we centralise them here so the
// presentation stays consistent.
package format

import "time"

// dateLayout renders dates as dd/mm/yyyy.
const dateLayout = "02/01/2006"

// Date renders a date for display; the zero date renders as "N/A".
func Date(d time.Time) string {
	if d.IsZero() {
		return "N/A"
	}
	return d.Format(dateLayout)
}

// ParseDate parses a dd/mm/yyyy string; the second return value is
// false when the input is not a valid date.
func ParseDate(s string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Grade renders a grade for display; empty means not yet graded.
func Grade(g string) string {
	if g == "" {
		return "Not graded"
	}
	return g
}

// CurriculumID renders a curriculum reference; the admin account has
// none.
func CurriculumID(id string) string {
	if id == "" {
		return "N/A"
	}
	return id
}
