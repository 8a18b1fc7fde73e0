package metadata

import (
	"fmt"
	"time"
)

// TimestampLayout is the fixed EXIF date-time layout ("YYYY:MM:DD HH:MM:SS").
const TimestampLayout = "2006:01:02 15:04:05"

// ParseTimestamp parses an EXIF date-time into a naive wall-clock value.
// No zone is inferred; the result carries time.UTC as a placeholder.
// Fractional seconds are rejected.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) != len(TimestampLayout) {
		return time.Time{}, fmt.Errorf("timestamp %q: want layout %s", s, TimestampLayout)
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return t, nil
}
