// Package schema describes the delimited-table layouts the intake log has
// used over time and converts rows between them.
package schema

import (
	"fmt"
	"strings"
)

// Version identifies a column layout.
type Version int

const (
	V1 Version = iota + 1 // headerless original
	V2                    // timestamp added
	V3                    // name and arrival mode added
	V4                    // reordered to the canonical field order
	V5                    // surrogate ID column
)

// Current is the layout every write uses.
const Current = V5

const (
	ColID          = "ID"
	ColTimestamp   = "Timestamp"
	ColHousehold   = "Household"
	ColMaleAdults  = "Male Adults"
	ColFemaleAdult = "Female Adults"
	ColMaleAges    = "Male Ages"
	ColFemaleAges  = "Female Ages"
	ColKidsAges    = "Kids Ages"
	ColChildCount  = "Child Count"
	ColKidsSchool  = "Kids School"
	ColZip         = "Zip"
	ColReferral    = "Referral"
	ColPhone       = "Phone"
	ColEmail       = "Email"
	ColName        = "Name"
	ColArrivalMode = "Arrival Mode"
)

var v1Columns = []string{
	ColHousehold, ColMaleAdults, ColMaleAges, ColFemaleAdult, ColFemaleAges,
	ColKidsSchool, ColKidsAges, ColZip, ColReferral, ColPhone, ColEmail,
}

var v4Columns = []string{
	ColTimestamp, ColHousehold, ColMaleAdults, ColFemaleAdult, ColMaleAges,
	ColFemaleAges, ColKidsAges, ColChildCount, ColKidsSchool, ColZip,
	ColReferral, ColPhone, ColEmail, ColName, ColArrivalMode,
}

var layouts = map[Version][]string{
	V1: v1Columns,
	V2: concat([]string{ColTimestamp}, v1Columns),
	V3: concat([]string{ColTimestamp}, v1Columns, []string{ColName, ColArrivalMode}),
	V4: v4Columns,
	V5: concat([]string{ColID}, v4Columns),
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Valid reports whether v is a known layout.
func (v Version) Valid() bool {
	_, ok := layouts[v]
	return ok
}

// ParseVersion validates an integer from configuration or flags.
func ParseVersion(n int) (Version, error) {
	v := Version(n)
	if !v.Valid() {
		return 0, fmt.Errorf("unknown schema version: %d", n)
	}
	return v, nil
}

// Columns returns a copy of the column names of v.
func Columns(v Version) []string {
	return append([]string(nil), layouts[v]...)
}

// Width returns the number of fields of v.
func Width(v Version) int {
	return len(layouts[v])
}

// HasHeader reports whether files of version v carry a header row.
func HasHeader(v Version) bool {
	return v != V1
}

// DetectVersion matches row against every known header.
func DetectVersion(row []string) (Version, bool) {
	for v := V2; v <= Current; v++ {
		if headerEqual(row, layouts[v]) {
			return v, true
		}
	}
	return 0, false
}

func headerEqual(row, cols []string) bool {
	if len(row) != len(cols) {
		return false
	}
	for i := range row {
		cell := strings.TrimSpace(strings.TrimPrefix(row[i], "\ufeff"))
		if !strings.EqualFold(cell, cols[i]) {
			return false
		}
	}
	return true
}
