package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// formatSize renders a byte count the way the dashboard table shows it.
func formatSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	case n < 1<<30:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	}
}

// stampLayouts covers the timestamp shapes the server has emitted across
// versions: RFC3339 with and without fractional seconds, and naive ISO-8601.
var stampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// formatStamp renders a server timestamp as a relative age, falling back to
// the raw string when it doesn't parse.
func formatStamp(s string) string {
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return formatAge(t)
		}
	}
	return s
}

// formatAge renders a relative timestamp.
func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// truncateToHeight keeps at most h lines of s.
func truncateToHeight(s string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= h {
		return s
	}
	return strings.Join(lines[:h], "\n")
}

// maskKey renders a fixed-width placeholder for a hidden license key.
func maskKey() string {
	return strings.Repeat("•", 24)
}
