package shared

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationRe = regexp.MustCompile(`^(\d+)\s*(d|h|m|s)$`)

// shared.ParseDuration parses a duration string with support for days
// (e.g., "30d", "24h") into a time.Duration. If you dont need support for "d", you can
// just use time.ParseDuration .
// A special value of "0" is allowed and returns 0 duration (disabling the check).
func ParseDuration(durationStr string) (time.Duration, error) {
	trimmedStr := strings.TrimSpace(durationStr)
	// Handle "0" as a special case for "disabled"
	if trimmedStr == "0" {
		return 0, nil
	}

	matches := durationRe.FindStringSubmatch(trimmedStr)
	if len(matches) < 3 {
		return 0, fmt.Errorf("invalid duration format: %s", durationStr)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration number: %s", matches[1])
	}

	switch matches[2] {
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "s":
		return time.Duration(value) * time.Second, nil
	default:
		return 0, fmt.Errorf("unsupported duration unit: %s", matches[2])
	}
}

// ParseDate parses a calendar date for report and visit requests.
// Accepts "YYYY-MM-DD", "today" and "" (both meaning the date of now)
// and "tomorrow". The result is midnight in now's location.
func ParseDate(dateStr string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(strings.TrimSpace(dateStr)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(dateStr), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s", dateStr)
	}
	return d, nil
}
