package gtfs

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseGTFSTime converts an HH:MM:SS string to seconds since midnight of
// the service day. Hour values of 24 and above are legitimate: they mark
// trips that run past midnight ("25:10:00" is 01:10 the next morning).
func ParseGTFSTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}

	return h*3600 + m*60 + sec, nil
}

// FormatSeconds renders seconds since midnight as a wall-clock HH:MM:SS
// string, wrapping past-midnight values back into 0-23 hours.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := (seconds / 3600) % 24
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDuration renders a duration in seconds as "X h Y min" for the
// station board.
func FormatDuration(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60

	var b strings.Builder
	if hours > 0 {
		fmt.Fprintf(&b, "%d h ", hours)
	}
	if minutes > 0 || hours == 0 {
		fmt.Fprintf(&b, "%d min", minutes)
	}
	return strings.TrimSpace(b.String())
}
