package ui

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lakshaymaurya-felt/cachemole/internal/core"
)

// FormatSize renders a byte count for display.
func FormatSize(bytes int64) string {
	return core.FormatSize(bytes)
}

// FormatAge renders how long ago t was, e.g. "3 days ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.Time(t)
}

// DisplayPath shortens paths below home to "~/...".
func DisplayPath(path, home string) string {
	if home == "" {
		return path
	}
	home = filepath.Clean(home)
	if path == home {
		return "~"
	}
	if rel, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rel
	}
	return path
}

// InsideHome reports whether path is home or below it. An unknown home
// counts as inside.
func InsideHome(path, home string) bool {
	return home == "" || DisplayPath(path, home) != path
}

// TruncateLeft keeps the last limit runes of s, prefixing an ellipsis when
// anything was dropped. Paths stay recognisable by their tail.
func TruncateLeft(s string, limit int) string {
	limit = max(limit, 2)
	n := utf8.RuneCountInString(s)
	if n <= limit {
		return s
	}
	runes := []rune(s)
	return "…" + string(runes[n-limit+1:])
}

// GradientBar draws a proportional bar pct (0-100) wide over width cells.
func GradientBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = min(max(pct, 0), 100)
	filled := int(pct / 100 * float64(width))
	if pct > 0 && filled == 0 {
		filled = 1
	}

	color := ColorSuccess
	switch {
	case pct >= 50:
		color = ColorError
	case pct >= 20:
		color = ColorWarning
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return bar + rest
}

// Percentage returns part as a percentage of whole.
func Percentage(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
