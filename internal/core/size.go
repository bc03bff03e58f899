package core

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count in IEC units (e.g. "1.2 GiB").
// Negative values are clamped to zero.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// ParseSize parses a human size such as "100MB", "1.5GiB" or "4096".
// Decimal suffixes (MB) and binary suffixes (MiB) are both accepted, as
// humanize defines them.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > uint64(1<<63-1) {
		return 0, fmt.Errorf("size %q out of range", s)
	}
	return int64(n), nil
}

// FormatCount formats n with thousands separators ("1,234,567").
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
