package schema

import (
	"testing"

	"intakehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidths(t *testing.T) {
	assert.Equal(t, 11, Width(V1))
	assert.Equal(t, 12, Width(V2))
	assert.Equal(t, 14, Width(V3))
	assert.Equal(t, 15, Width(V4))
	assert.Equal(t, 16, Width(V5))
	assert.Equal(t, V5, Current)
}

func TestDetectVersion(t *testing.T) {
	for v := V2; v <= Current; v++ {
		got, ok := DetectVersion(Columns(v))
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}

	bom := Columns(V4)
	bom[0] = "\ufeff" + bom[0]
	got, ok := DetectVersion(bom)
	assert.True(t, ok)
	assert.Equal(t, V4, got)

	_, ok = DetectVersion([]string{"3", "1", "40", "1", "38", "", "", "75001", "Church", "555-555-1234", "a@b.com"})
	assert.False(t, ok, "a headerless data row is not a header")

	_, err := ParseVersion(9)
	assert.Error(t, err)
}

func TestRepairAlignment(t *testing.T) {
	rows := [][]string{
		{"a", "b", "c"},
		{"a", "b"},
		{"a", "b", "c", "d"},
		{},
	}

	fixed, n := RepairAlignment(rows, 3)
	assert.Equal(t, 3, n)
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"a", "b", ""},
		{"a", "b", "c"},
		{"", "", ""},
	}, fixed)

	again, n := RepairAlignment(fixed, 3)
	assert.Equal(t, 0, n, "second pass must be a no-op")
	assert.Equal(t, fixed, again)
}

func TestMigrateFromV1(t *testing.T) {
	rows := [][]string{
		{"3", "1", "40", "1", "38", "Elementary", "7", "75001", "Church", "555-555-1234", "a@b.com"},
		{"2", "1", "60", "1", "59", "", "", "75002", "Friend", "555-555-9999"},
	}

	out, err := Migrate(rows, V1)
	require.NoError(t, err)
	require.Len(t, out, 2)

	rec, err := ToRecord(out[0])
	require.NoError(t, err)
	assert.Equal(t, models.StoreKey(1), rec.Key)
	assert.Equal(t, "", rec.Timestamp)
	assert.Equal(t, 3, rec.HouseholdSize)
	assert.Equal(t, 1, rec.MaleAdultCount)
	assert.Equal(t, "40", rec.MaleAdultAges)
	assert.Equal(t, "38", rec.FemaleAdultAges)
	assert.Equal(t, "Elementary", rec.SchoolLevels)
	assert.Equal(t, "7", rec.ChildAges)
	assert.Equal(t, "75001", rec.Zip)
	assert.Equal(t, "Church", rec.ReferralSource)
	assert.Equal(t, "555-555-1234", rec.Phone)
	assert.Equal(t, "a@b.com", rec.Email)
	assert.Equal(t, models.ArrivalMode(""), rec.ArrivalMode)

	rec, err = ToRecord(out[1])
	require.NoError(t, err)
	assert.Equal(t, models.StoreKey(2), rec.Key)
	assert.Equal(t, "", rec.Email, "short legacy rows are padded")
}

func TestMigrateFromV3(t *testing.T) {
	row := []string{"2024-01-05 10:00:00", "4", "1", "40", "1", "38", "High", "15", "75001", "Web", "555-555-1234", "a@b.com", "Lopez", "Driving"}
	out, err := Migrate([][]string{row}, V3)
	require.NoError(t, err)

	rec, err := ToRecord(out[0])
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05 10:00:00", rec.Timestamp)
	assert.Equal(t, "Lopez", rec.Name)
	assert.Equal(t, models.Driving, rec.ArrivalMode)
	assert.Equal(t, 0, rec.ChildCount)
}

func TestAssignMissingIDs(t *testing.T) {
	rows := [][]string{{"4"}, {""}, {"x"}, {"2"}}
	assert.Equal(t, 2, AssignMissingIDs(rows))
	assert.Equal(t, [][]string{{"4"}, {"5"}, {"6"}, {"2"}}, rows)
}

func TestRecordRoundTrip(t *testing.T) {
	rec := models.IntakeRecord{
		Key:       7,
		Timestamp: "2024-02-01 09:30:00",
		IntakeFields: models.IntakeFields{
			HouseholdSize: 3, MaleAdultCount: 1, FemaleAdultCount: 1, ChildCount: 1,
			MaleAdultAges: "40", FemaleAdultAges: "38", ChildAges: "7",
			SchoolLevels: "Elementary", Zip: "75001", ReferralSource: "Church",
			Phone: "555-555-1234", Email: "a@b.com", Name: "Lopez", ArrivalMode: models.Walking,
		},
	}
	row := FromRecord(rec)
	assert.Len(t, row, Width(Current))

	back, err := ToRecord(row)
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestToRecordRejectsGarbageNumbers(t *testing.T) {
	row := FromRecord(models.IntakeRecord{Key: 1})
	row[2] = "three"
	_, err := ToRecord(row)
	assert.Error(t, err)

	row[2] = "3.0"
	rec, err := ToRecord(row)
	assert.NoError(t, err)
	assert.Equal(t, 3, rec.HouseholdSize)

	_, err = ToRecord(row[:5])
	assert.Error(t, err)
}
