package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Align pads row with empty strings or truncates it to width.
// The second result reports whether anything changed.
func Align(row []string, width int) ([]string, bool) {
	switch {
	case len(row) == width:
		return row, false
	case len(row) > width:
		return append([]string(nil), row[:width]...), true
	default:
		out := make([]string, width)
		copy(out, row)
		return out, true
	}
}

// RepairAlignment aligns every row to width and returns the corrected rows
// together with the number of rows that had to change. Rows that already
// have the right width are returned as they are, so a second pass reports 0.
// Information lost by truncation cannot be recovered.
func RepairAlignment(rows [][]string, width int) ([][]string, int) {
	out := make([][]string, len(rows))
	fixed := 0
	for i, row := range rows {
		aligned, changed := Align(row, width)
		if changed {
			fixed++
		}
		out[i] = aligned
	}
	return out, fixed
}

// Migrate converts rows of version from into Current rows, mapping columns
// by name. Source rows are aligned to the source width first. Columns the
// source lacks are left empty, then missing IDs are assigned.
func Migrate(rows [][]string, from Version) ([][]string, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("unknown schema version: %d", from)
	}

	src := layouts[from]
	index := make(map[string]int, len(src))
	for i, c := range src {
		index[c] = i
	}
	dst := layouts[Current]

	out := make([][]string, len(rows))
	for r, row := range rows {
		aligned, _ := Align(row, len(src))
		if from == Current {
			out[r] = aligned
			continue
		}
		converted := make([]string, len(dst))
		for i, c := range dst {
			if j, ok := index[c]; ok {
				converted[i] = aligned[j]
			}
		}
		out[r] = converted
	}

	AssignMissingIDs(out)
	return out, nil
}

// AssignMissingIDs fills blank or non-numeric ID cells of Current rows with
// sequential values after the highest valid ID. It returns how many it set.
func AssignMissingIDs(rows [][]string) int {
	var maxID int64
	for _, row := range rows {
		if id, ok := ParseID(row); ok && id > maxID {
			maxID = id
		}
	}

	assigned := 0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if _, ok := ParseID(row); ok {
			continue
		}
		maxID++
		row[0] = strconv.FormatInt(maxID, 10)
		assigned++
	}
	return assigned
}

// ParseID reads the ID cell of a Current row. Blank, non-numeric and
// non-positive values are not IDs.
func ParseID(row []string) (int64, bool) {
	if len(row) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
