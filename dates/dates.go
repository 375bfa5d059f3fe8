// Package dates parses the loosely formatted dates found in portfolio data and
// post front matter, and formats employment durations.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var reYearMonth = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// naturalLayouts are tried before falling back to dateparse.
var naturalLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"Jan 2006",
	"January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// isPresent reports whether s stands for "now".
func isPresent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "present")
}

// parse returns the parsed time and whether s was understood.
func parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if m := reYearMonth.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
	}
	for _, layout := range naturalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseLoose parses "YYYY-MM", natural date strings or "Present".
// Empty, "Present" and unparseable input all resolve to now.
func ParseLoose(s string, now time.Time) time.Time {
	if isPresent(s) {
		return now
	}
	if t, ok := parse(s); ok {
		return t
	}
	return now
}

// CalcDuration formats the span between start and end (or "Present") as
// "1 yr 2 mo", "3 yrs", "6 mo" and so on.
func CalcDuration(start, end string) string {
	return DurationAt(start, end, time.Now())
}

// DurationAt is CalcDuration with an explicit clock.
// "mo" is never pluralised and non-positive spans floor to "0 mo".
func DurationAt(start, end string, now time.Time) string {
	s := ParseLoose(start, now)
	e := ParseLoose(end, now)

	months := (e.Year()-s.Year())*12 + (int(e.Month()) - int(s.Month()))
	if months <= 0 {
		return "0 mo"
	}
	years := months / 12
	rem := months % 12
	switch {
	case years > 0 && rem > 0:
		return fmt.Sprintf("%d %s %d mo", years, yearUnit(years), rem)
	case years > 0:
		return fmt.Sprintf("%d %s", years, yearUnit(years))
	default:
		return fmt.Sprintf("%d mo", rem)
	}
}

func yearUnit(years int) string {
	if years > 1 {
		return "yrs"
	}
	return "yr"
}

// Timestamp converts a post date to Unix milliseconds. Unparseable dates
// map to 0 so that date ordering stays total.
func Timestamp(s string) int64 {
	t, ok := parse(s)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

// Display formats a post date as "Jan 2, 2006", returning s unchanged when
// it cannot be parsed.
func Display(s string) string {
	t, ok := parse(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}
