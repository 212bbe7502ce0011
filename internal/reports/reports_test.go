package reports

import (
	"testing"
	"time"

	"intakehub/internal/models"

	"github.com/stretchr/testify/assert"
)

func rec(ts, phone string, mode models.ArrivalMode) models.IntakeRecord {
	return models.IntakeRecord{
		Timestamp:    ts,
		IntakeFields: models.IntakeFields{Phone: phone, ArrivalMode: mode},
	}
}

// 2024-03-02 and 2024-03-09 are Saturdays, 2024-03-04 is a Monday.
var sample = []models.IntakeRecord{
	rec("2024-03-02 09:00:00", "555-555-0001", models.Walking),
	rec("2024-03-02 09:30:00", "555-555-0002", models.Driving),
	rec("2024-03-04 10:00:00", "(555) 555-0001", models.Driving),
	rec("2024-03-09 11:00:00", "555-555-0003", models.Walking),
	rec("", "", "walking"),
}

func day(s string) time.Time {
	d, _ := time.Parse(models.DateLayout, s)
	return d
}

func TestCountOn(t *testing.T) {
	assert.Equal(t, 2, CountOn(sample, day("2024-03-02")))
	assert.Equal(t, 1, CountOn(sample, day("2024-03-04")))
	assert.Equal(t, 0, CountOn(sample, day("2024-03-05")))
	assert.Equal(t, 0, CountOn(nil, day("2024-03-02")))
}

func TestCountByWeekday(t *testing.T) {
	want := map[string]int{"2024-03-02": 2, "2024-03-09": 1}
	assert.Equal(t, want, CountByWeekday(sample, "Saturday"))
	assert.Equal(t, want, CountByWeekday(sample, "sat"))
	assert.Equal(t, map[string]int{"2024-03-04": 1}, CountByWeekday(sample, "MONDAY"))
	assert.Empty(t, CountByWeekday(sample, "Funday"))
	assert.Empty(t, CountByWeekday(sample, ""))
}

func TestArrivalModeBreakdown(t *testing.T) {
	got := ArrivalModeBreakdown(sample)
	assert.Equal(t, map[string]int{"Walking": 2, "Driving": 2, "walking": 1}, got)

	assert.Equal(t, map[string]int{"Walking": 0, "Driving": 0}, ArrivalModeBreakdown(nil))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample, day("2024-03-02"), "Saturday")
	assert.Equal(t, "2024-03-02", s.Date)
	assert.Equal(t, 2, s.CountOnDate)
	assert.Equal(t, 5, s.TotalRecords)
	assert.Equal(t, 3, s.DistinctHouseholds)
	assert.Equal(t, 2, s.CountsByWeekday["2024-03-02"])

	s = Summarize(sample, day("2024-03-02"), "")
	assert.Nil(t, s.CountsByWeekday)
}

func TestAggregatesDoNotMutate(t *testing.T) {
	before := append([]models.IntakeRecord(nil), sample...)
	Summarize(sample, day("2024-03-02"), "Saturday")
	assert.Equal(t, before, sample)
}
