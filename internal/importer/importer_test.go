package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"intakehub/internal/models"
	"intakehub/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) Import(ctx context.Context, records []models.IntakeRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func captureImport(m *MockImporter, got *[]models.IntakeRecord) {
	m.On("Import", mock.Anything, mock.Anything).Return(0, nil).Run(func(args mock.Arguments) {
		*got = args.Get(1).([]models.IntakeRecord)
	}).Once()
}

func TestHeaderlessV1(t *testing.T) {
	src := strings.Join([]string{
		"3,1,40,1,38,Elementary,7,75001,Church,555-555-1234,a@b.com",
		"",
		"2,1,60,1,59,,,75002,Friend,555-555-9999",
	}, "\n")

	m := new(MockImporter)
	var got []models.IntakeRecord
	captureImport(m, &got)

	res, err := Run(context.Background(), m, strings.NewReader(src), Options{})
	require.NoError(t, err)
	assert.Equal(t, schema.V1, res.Version)
	assert.Equal(t, 1, res.Realigned, "the short row is padded")

	require.Len(t, got, 2)
	assert.Equal(t, models.StoreKey(0), got[0].Key, "keys come from the store")
	assert.Equal(t, 3, got[0].HouseholdSize)
	assert.Equal(t, "38", got[0].FemaleAdultAges)
	assert.Equal(t, "Elementary", got[0].SchoolLevels)
	assert.Equal(t, "7", got[0].ChildAges)
	assert.Equal(t, "", got[0].Timestamp)
	assert.Equal(t, "555-555-9999", got[1].Phone)
	assert.Equal(t, "", got[1].Email)
	m.AssertExpectations(t)
}

func TestHeaderDetectedV4KeepsTimestamps(t *testing.T) {
	src := "\ufeffTimestamp,Household,Male Adults,Female Adults,Male Ages,Female Ages,Kids Ages,Child Count,Kids School,Zip,Referral,Phone,Email,Name,Arrival Mode\n" +
		"2023-11-01 10:00:00,3,1,1,40,38,7,1,Elementary,75001,Church,555-555-1234,a@b.com,Lopez,Driving\n"

	m := new(MockImporter)
	var got []models.IntakeRecord
	captureImport(m, &got)

	res, err := Run(context.Background(), m, strings.NewReader(src), Options{})
	require.NoError(t, err)
	assert.Equal(t, schema.V4, res.Version)
	require.Len(t, got, 1)
	assert.Equal(t, "2023-11-01 10:00:00", got[0].Timestamp)
	assert.Equal(t, models.Driving, got[0].ArrivalMode)
	assert.Equal(t, "Lopez", got[0].Name)
}

func TestDeclaredVersionConflictsWithHeader(t *testing.T) {
	src := "Timestamp,Household,Male Adults,Female Adults,Male Ages,Female Ages,Kids Ages,Child Count,Kids School,Zip,Referral,Phone,Email,Name,Arrival Mode\n"
	_, err := Run(context.Background(), new(MockImporter), strings.NewReader(src), Options{FromVersion: schema.V2})
	assert.Error(t, err)
}

func TestUnknownDeclaredVersion(t *testing.T) {
	_, err := Run(context.Background(), new(MockImporter), strings.NewReader("a,b\n"), Options{FromVersion: 9})
	assert.Error(t, err)
}

func TestGarbageNumberIsReported(t *testing.T) {
	src := "many,1,40,1,38,Elementary,7,75001,Church,555-555-1234,a@b.com\n"
	m := new(MockImporter)
	_, err := Run(context.Background(), m, strings.NewReader(src), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data row 1")
	m.AssertNotCalled(t, "Import", mock.Anything, mock.Anything)
}

func TestImportErrorReturnsPartialResult(t *testing.T) {
	src := "3,1,40,1,38,Elementary,7,75001,Church,555-555-1234,a@b.com\n"
	m := new(MockImporter)
	m.On("Import", mock.Anything, mock.Anything).Return(0, errors.New("disk full")).Once()

	res, err := Run(context.Background(), m, strings.NewReader(src), Options{})
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Zero(t, res.Imported)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.csv")
	require.NoError(t, os.WriteFile(path, []byte("3,1,40,1,38,Elementary,7,75001,Church,555-555-1234,a@b.com\n"), 0644))

	m := new(MockImporter)
	m.On("Import", mock.Anything, mock.Anything).Return(1, nil).Once()

	res, err := RunFile(context.Background(), m, path, Options{FromVersion: schema.V1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	_, err = RunFile(context.Background(), m, filepath.Join(t.TempDir(), "nope.csv"), Options{})
	assert.Error(t, err)
}
