package format

import (
	"fmt"
	"strings"
	"time"
)

// DateStyle selects how FormatDate renders a date.
type DateStyle string

const (
	// DateShort renders dd/mm/yyyy.
	DateShort DateStyle = "short"
	// DateLong renders "2 janvier 2006".
	DateLong DateStyle = "long"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"02/01/2006",
}

// ParseDate parses the date formats accepted in form data.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// FormatDate renders an ISO date string in French. Empty or invalid input
// yields an empty string.
func FormatDate(input string, style DateStyle) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	t, err := ParseDate(input)
	if err != nil {
		return ""
	}

	return FormatTime(t, style)
}

// FormatTime renders t in French using style.
func FormatTime(t time.Time, style DateStyle) string {
	if t.IsZero() {
		return ""
	}

	if style == DateLong {
		return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
	}

	return t.Format("02/01/2006")
}
