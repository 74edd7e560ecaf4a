package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimestampLayout is used when no layout is configured.
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// FormatUnixSeconds renders an epoch-seconds value in loc using layout.
func FormatUnixSeconds(seconds int64, layout string, loc *time.Location) string {
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(seconds, 0).In(loc).Format(layout)
}

// ParseUnixSeconds parses the decimal epoch-seconds strings returned by explorers.
func ParseUnixSeconds(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return v, nil
}
