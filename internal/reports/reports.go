// Package reports derives read-only statistics from a snapshot of records.
// Nothing here touches the store.
package reports

import (
	"strings"
	"time"

	"intakehub/internal/models"
	"intakehub/internal/phone"
)

// Summary combines the standard report figures for one date.
type Summary struct {
	Date               string         `json:"date"`
	CountOnDate        int            `json:"count_on_date"`
	Weekday            string         `json:"weekday,omitempty"`
	CountsByWeekday    map[string]int `json:"counts_by_weekday,omitempty"`
	ArrivalModes       map[string]int `json:"arrival_modes"`
	TotalRecords       int            `json:"total_records"`
	DistinctHouseholds int            `json:"distinct_households"`
}

// CountOn returns the number of records stamped on date.
func CountOn(records []models.IntakeRecord, date time.Time) int {
	day := date.Format(models.DateLayout)
	n := 0
	for _, r := range records {
		if r.Date() == day {
			n++
		}
	}
	return n
}

// CountByWeekday groups records by calendar date, keeping only dates that
// fall on the named weekday (matched case-insensitively, "monday" or
// "Mon"). An unknown name yields an empty map.
func CountByWeekday(records []models.IntakeRecord, weekdayName string) map[string]int {
	out := map[string]int{}
	wd, ok := ParseWeekday(weekdayName)
	if !ok {
		return out
	}

	for _, r := range records {
		d, err := time.Parse(models.DateLayout, r.Date())
		if err != nil {
			continue // legacy rows without a timestamp
		}
		if d.Weekday() == wd {
			out[r.Date()]++
		}
	}
	return out
}

// ArrivalModeBreakdown is a frequency table of the raw arrival-mode values.
// Matching is case-sensitive; both canonical modes are always present.
func ArrivalModeBreakdown(records []models.IntakeRecord) map[string]int {
	out := map[string]int{
		string(models.Walking): 0,
		string(models.Driving): 0,
	}
	for _, r := range records {
		out[string(r.ArrivalMode)]++
	}
	return out
}

// DistinctHouseholds counts distinct non-blank normalized phones.
func DistinctHouseholds(records []models.IntakeRecord) int {
	seen := map[string]struct{}{}
	for _, r := range records {
		if p := phone.Normalize(r.Phone); p != "" {
			seen[p] = struct{}{}
		}
	}
	return len(seen)
}

// Summarize builds a Summary for date. The weekday table is only filled
// when weekdayName is set.
func Summarize(records []models.IntakeRecord, date time.Time, weekdayName string) Summary {
	s := Summary{
		Date:               date.Format(models.DateLayout),
		CountOnDate:        CountOn(records, date),
		ArrivalModes:       ArrivalModeBreakdown(records),
		TotalRecords:       len(records),
		DistinctHouseholds: DistinctHouseholds(records),
	}
	if weekdayName != "" {
		s.Weekday = weekdayName
		s.CountsByWeekday = CountByWeekday(records, weekdayName)
	}
	return s
}

// ParseWeekday accepts full and three-letter English weekday names.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, true
		}
	}
	return 0, false
}
