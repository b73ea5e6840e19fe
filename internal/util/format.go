package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const isoDate = "2006-01-02"

// FormatDate formats a date string (YYYY-MM-DD) for display.
func FormatDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return "—"
	}
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 02, 2006")
}

// FormatSavedAt renders a save time relative to now, e.g. "3 days ago".
func FormatSavedAt(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return humanize.Time(t)
}

// ParseTripDateInput parses flexible user input and normalizes to ISO
// (YYYY-MM-DD). Dates before today are rejected.
func ParseTripDateInput(input string, now time.Time) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("date is required")
	}

	layouts := []string{
		isoDate,
		"January 2, 2006",
		"Jan 2, 2006",
		"2/1/2006",
		"02/01/2006",
	}

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if t.Before(today) {
			return "", fmt.Errorf("date cannot be in the past")
		}
		return t.Format(isoDate), nil
	}

	return "", fmt.Errorf("invalid date format, use YYYY-MM-DD")
}

// FirstLines returns the first n non-blank lines of s.
func FirstLines(s string, n int) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if len(out) == n {
			break
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
