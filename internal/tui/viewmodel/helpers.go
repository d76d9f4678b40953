package viewmodel

import (
	"strings"
	"time"

	"github.com/Veraticus/carepoint/internal/model"
)

// FormatDate formats a date for consistent display.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(model.DateLayout)
}

// FormatDateLong formats a date the way cards show it, e.g. "Mon Nov 02 2026".
func FormatDateLong(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon Jan 02 2006")
}

// TruncateString shortens s to maxLen runes, ending in an ellipsis when cut.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-3]) + "..."
}

// SanitizeForDisplay removes potentially problematic characters for terminal display.
func SanitizeForDisplay(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// Bar draws a horizontal bar of width cells, filled cells first.
func Bar(filled, width int) string {
	if width <= 0 {
		return ""
	}
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Plural picks the singular or plural form of a noun.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
