package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"intakehub/internal/models"
)

// Header returns the header row written for Current files and exports.
func Header() []string {
	return Columns(Current)
}

// FromRecord renders r as a Current row.
func FromRecord(r models.IntakeRecord) []string {
	return []string{
		strconv.FormatInt(int64(r.Key), 10),
		r.Timestamp,
		strconv.Itoa(r.HouseholdSize),
		strconv.Itoa(r.MaleAdultCount),
		strconv.Itoa(r.FemaleAdultCount),
		r.MaleAdultAges,
		r.FemaleAdultAges,
		r.ChildAges,
		strconv.Itoa(r.ChildCount),
		r.SchoolLevels,
		r.Zip,
		r.ReferralSource,
		r.Phone,
		r.Email,
		r.Name,
		string(r.ArrivalMode),
	}
}

// ToRecord parses a Current row. The row must have exactly Width(Current)
// fields. Blank numeric cells read as zero; spreadsheet-style decimals
// such as "3.0" are accepted.
func ToRecord(row []string) (models.IntakeRecord, error) {
	if len(row) != Width(Current) {
		return models.IntakeRecord{}, fmt.Errorf("row has %d fields, want %d", len(row), Width(Current))
	}

	var (
		rec  models.IntakeRecord
		errs []string
	)
	num := func(col string, s string) int {
		n, err := atoi(s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", col, err))
		}
		return n
	}

	key := num(ColID, row[0])
	rec.Key = models.StoreKey(key)
	rec.Timestamp = strings.TrimSpace(row[1])
	rec.HouseholdSize = num(ColHousehold, row[2])
	rec.MaleAdultCount = num(ColMaleAdults, row[3])
	rec.FemaleAdultCount = num(ColFemaleAdult, row[4])
	rec.MaleAdultAges = row[5]
	rec.FemaleAdultAges = row[6]
	rec.ChildAges = row[7]
	rec.ChildCount = num(ColChildCount, row[8])
	rec.SchoolLevels = row[9]
	rec.Zip = row[10]
	rec.ReferralSource = row[11]
	rec.Phone = row[12]
	rec.Email = row[13]
	rec.Name = row[14]
	rec.ArrivalMode = models.ArrivalMode(strings.TrimSpace(row[15]))

	if len(errs) > 0 {
		return rec, fmt.Errorf("invalid row: %s", strings.Join(errs, "; "))
	}
	return rec, nil
}

func atoi(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return int(f), nil
}
