package csvlog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"intakehub/internal/models"
	"intakehub/internal/repository"
	"intakehub/internal/repository/storetest"
	"intakehub/internal/schema"
	"intakehub/internal/shared"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

func openTestLog(t *testing.T, path string, opts Options) *CSVLog {
	t.Helper()
	l, err := Open(context.Background(), path, opts, quietLogger())
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

const (
	currentHeader = "ID,Timestamp,Household,Male Adults,Female Adults,Male Ages,Female Ages,Kids Ages,Child Count,Kids School,Zip,Referral,Phone,Email,Name,Arrival Mode"
	goodRow1      = "1,2024-03-04 09:00:00,3,1,1,40,38,7,1,Elementary,75001,Church,555-555-1234,a@b.com,Lopez,Walking"
	goodRow2      = "2,2024-03-04 09:05:00,2,1,1,60,59,,0,,75002,Friend,555-555-9999,c@d.com,Smith,Driving"
)

func TestStoreBehaviour(t *testing.T) {
	storetest.Run(t, func(t *testing.T, clock repository.Clock) repository.Store {
		l := openTestLog(t, filepath.Join(t.TempDir(), "submissions.csv"), Options{AutoRepair: true})
		l.Now = clock
		return l
	})
}

func TestMissingFileIsEmptyAndFirstAppendWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	l := openTestLog(t, path, Options{AutoRepair: true})

	all, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "reading must not create the file")

	_, err = l.Append(context.Background(), models.IntakeRecord{IntakeFields: storetest.Fields("555-555-1234")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(readFile(t, path)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, currentHeader, lines[0])
}

func TestAppendAddsOneLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	writeFile(t, path, currentHeader, goodRow1, goodRow2)
	l := openTestLog(t, path, Options{})

	key, err := l.Append(context.Background(), models.IntakeRecord{IntakeFields: storetest.Fields("555-555-0000")})
	require.NoError(t, err)
	assert.Equal(t, models.StoreKey(3), key)

	content := readFile(t, path)
	assert.True(t, strings.HasPrefix(content, currentHeader+"\n"+goodRow1+"\n"+goodRow2+"\n"), "existing lines are untouched")
	assert.Equal(t, 4, strings.Count(content, "\n"))
}

func TestDriftIsReportedNotDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	writeFile(t, path, currentHeader, goodRow1, "3,2024-03-04 10:00:00,4,1,1")
	l := openTestLog(t, path, Options{})

	_, err := l.LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrSchemaDrift)

	var drift *shared.SchemaDriftError
	require.ErrorAs(t, err, &drift)
	assert.Equal(t, 3, drift.Line)
	assert.Equal(t, 5, drift.Width)
	assert.Equal(t, 16, drift.Want)

	_, err = l.Append(context.Background(), models.IntakeRecord{IntakeFields: storetest.Fields("555-555-0000")})
	assert.ErrorIs(t, err, shared.ErrSchemaDrift, "writes refuse to build on a drifted file")
}

func TestRepairIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	long := goodRow2 + ",extra,fields"
	writeFile(t, path, currentHeader, goodRow1, "3,2024-03-04 10:00:00,4", long)
	l := openTestLog(t, path, Options{})
	ctx := context.Background()

	n, err := l.Repair(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, readFile(t, path), ",extra,fields", "dry run leaves the file alone")

	n, err = l.Repair(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	first := readFile(t, path)

	n, err = l.Repair(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, first, readFile(t, path))

	lines := strings.Split(strings.TrimSpace(first), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, goodRow1, lines[1], "aligned rows are never changed")
	assert.Equal(t, goodRow2, lines[3])

	all, err := l.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.StoreKey(3), all[1].Key)
	assert.Equal(t, 4, all[1].HouseholdSize)
}

func TestRepairAssignsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	writeFile(t, path, currentHeader, goodRow1, ",2024-03-04 10:00:00,4")
	l := openTestLog(t, path, Options{AutoRepair: true})

	all, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.StoreKey(2), all[1].Key)
}

func TestLegacyHeaderlessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	writeFile(t, path,
		"3,1,40,1,38,Elementary,7,75001,Church,555-555-1234,a@b.com",
		"2,1,60,1,59,,,75002,Friend,555-555-9999,c@d.com",
	)
	ctx := context.Background()

	t.Run("ReadWithoutRepair", func(t *testing.T) {
		l := openTestLog(t, path, Options{LegacyVersion: schema.V1})
		all, err := l.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, models.StoreKey(1), all[0].Key)
		assert.Equal(t, "555-555-1234", all[0].Phone)
		assert.Equal(t, "Elementary", all[0].SchoolLevels)
		assert.Equal(t, models.StoreKey(2), all[1].Key)
		assert.Equal(t, "", all[1].Timestamp)
	})

	t.Run("RepairMigrates", func(t *testing.T) {
		l := openTestLog(t, path, Options{LegacyVersion: schema.V1})
		n, err := l.Repair(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		content := readFile(t, path)
		assert.True(t, strings.HasPrefix(content, currentHeader+"\n"))
		assert.Contains(t, content, "1,,3,1,1,40,38,7,,Elementary,75001,Church,555-555-1234,a@b.com,,\n")

		n, err = l.Repair(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestAppendUpgradesLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	writeFile(t, path,
		"Timestamp,Household,Male Adults,Female Adults,Male Ages,Female Ages,Kids Ages,Child Count,Kids School,Zip,Referral,Phone,Email,Name,Arrival Mode",
		"2024-01-02 09:00:00,3,1,1,40,38,7,1,Elementary,75001,Church,555-555-1234,a@b.com,Lopez,Walking",
	)
	l := openTestLog(t, path, Options{})

	key, err := l.Append(context.Background(), models.IntakeRecord{IntakeFields: storetest.Fields("555-555-0000")})
	require.NoError(t, err)
	assert.Equal(t, models.StoreKey(2), key)

	content := readFile(t, path)
	assert.True(t, strings.HasPrefix(content, currentHeader+"\n"))
	assert.Contains(t, content, "1,2024-01-02 09:00:00,3,")
}

func TestUnknownLegacyVersion(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.csv"), Options{LegacyVersion: 42}, quietLogger())
	assert.Error(t, err)
}

func TestUnwritableLocationIsStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "submissions.csv")
	l := openTestLog(t, path, Options{})

	_, err := l.Append(context.Background(), models.IntakeRecord{IntakeFields: storetest.Fields("555-555-1234")})
	var se *shared.StorageError
	assert.ErrorAs(t, err, &se)
}

func TestKeySequenceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	ctx := context.Background()

	l := openTestLog(t, path, Options{})
	_, err := l.Append(ctx, models.IntakeRecord{IntakeFields: storetest.Fields("555-555-0001")})
	require.NoError(t, err)
	k2, err := l.Append(ctx, models.IntakeRecord{IntakeFields: storetest.Fields("555-555-0002")})
	require.NoError(t, err)
	require.NoError(t, l.DeleteByKey(ctx, k2))
	assert.Equal(t, "2\n", readFile(t, path+SeqSuffix))

	reopened := openTestLog(t, path, Options{AutoRepair: true})
	k3, err := reopened.Append(ctx, models.IntakeRecord{IntakeFields: storetest.Fields("555-555-0003")})
	require.NoError(t, err)
	assert.Equal(t, models.StoreKey(3), k3)
	assert.Equal(t, "3\n", readFile(t, path+SeqSuffix))
}

func TestDeleteRecordsHighWaterOfImportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	writeFile(t, path, currentHeader, goodRow1, goodRow2)
	l := openTestLog(t, path, Options{})
	ctx := context.Background()

	require.NoError(t, l.DeleteByKey(ctx, 2))
	key, err := l.Append(ctx, models.IntakeRecord{IntakeFields: storetest.Fields("555-555-0000")})
	require.NoError(t, err)
	assert.Equal(t, models.StoreKey(3), key)
}

func TestRepairDoesNotReuseDeletedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	require.NoError(t, os.WriteFile(path+SeqSuffix, []byte("5\n"), 0644))
	writeFile(t, path, currentHeader, goodRow1, ",2024-03-04 10:00:00,4")

	l := openTestLog(t, path, Options{AutoRepair: true})
	all, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.StoreKey(6), all[1].Key)
}

func TestCorruptKeySequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.csv")
	require.NoError(t, os.WriteFile(path+SeqSuffix, []byte("abc"), 0644))
	l := openTestLog(t, path, Options{})

	_, err := l.Append(context.Background(), models.IntakeRecord{IntakeFields: storetest.Fields("555-555-0000")})
	assert.Error(t, err)
}
