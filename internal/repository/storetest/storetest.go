// Package storetest holds behaviour tests every repository.Store backend
// must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"intakehub/internal/models"
	"intakehub/internal/repository"
	"intakehub/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store reading time from clock.
type Factory func(t *testing.T, clock repository.Clock) repository.Store

// FakeClock is a settable clock.
type FakeClock struct{ T time.Time }

func (c *FakeClock) Now() time.Time { return c.T }

// Fields returns a valid intake for phone.
func Fields(phone string) models.IntakeFields {
	return models.IntakeFields{
		HouseholdSize:    3,
		MaleAdultCount:   1,
		FemaleAdultCount: 1,
		MaleAdultAges:    "40",
		FemaleAdultAges:  "38",
		ChildAges:        "7",
		ChildCount:       1,
		SchoolLevels:     "Elementary",
		Zip:              "75001",
		ReferralSource:   "Church",
		Phone:            phone,
		Email:            "a@b.com",
		Name:             "Lopez",
		ArrivalMode:      models.Walking,
	}
}

// Run executes the shared suite against newStore.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)

	t.Run("EmptyStore", func(t *testing.T) {
		s := newStore(t, (&FakeClock{T: start}).Now)
		all, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.NotNil(t, all)
	})

	t.Run("AppendAssignsKeysAndTimestamps", func(t *testing.T) {
		clock := &FakeClock{T: start}
		s := newStore(t, clock.Now)

		k1, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-1234")})
		require.NoError(t, err)
		clock.T = start.Add(time.Minute)
		k2, err := s.Append(ctx, models.IntakeRecord{Key: 99, IntakeFields: Fields("555-555-9999")})
		require.NoError(t, err)

		assert.Equal(t, models.StoreKey(1), k1)
		assert.Equal(t, models.StoreKey(2), k2, "caller supplied keys are ignored")

		rec, err := s.Get(ctx, k2)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-04 09:01:00", rec.Timestamp)
		assert.Equal(t, Fields("555-555-9999"), rec.IntakeFields)
	})

	t.Run("TimestampsNeverDecrease", func(t *testing.T) {
		clock := &FakeClock{T: start}
		s := newStore(t, clock.Now)

		_, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-1234")})
		require.NoError(t, err)

		clock.T = start.Add(-time.Hour)
		k, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-9999")})
		require.NoError(t, err)

		rec, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-04 09:00:00", rec.Timestamp)
	})

	t.Run("AppendKeepsGivenTimestamp", func(t *testing.T) {
		s := newStore(t, (&FakeClock{T: start}).Now)
		k, err := s.Append(ctx, models.IntakeRecord{Timestamp: "2024-03-05 08:15:00", IntakeFields: Fields("555-555-1234")})
		require.NoError(t, err)

		rec, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05 08:15:00", rec.Timestamp)
	})

	t.Run("UpdateByKey", func(t *testing.T) {
		clock := &FakeClock{T: start}
		s := newStore(t, clock.Now)

		k, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-1234")})
		require.NoError(t, err)

		clock.T = start.Add(2 * time.Hour)
		size := 5
		email := "new@b.com"
		require.NoError(t, s.UpdateByKey(ctx, k, models.IntakeUpdate{HouseholdSize: &size, Email: &email}))

		rec, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, 5, rec.HouseholdSize)
		assert.Equal(t, "new@b.com", rec.Email)
		assert.Equal(t, "555-555-1234", rec.Phone, "unnamed fields are untouched")
		assert.Equal(t, "2024-03-04 11:00:00", rec.Timestamp)

		err = s.UpdateByKey(ctx, 42, models.IntakeUpdate{HouseholdSize: &size})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("DeleteByKey", func(t *testing.T) {
		s := newStore(t, (&FakeClock{T: start}).Now)

		k1, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-0001")})
		require.NoError(t, err)
		k2, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-0002")})
		require.NoError(t, err)
		k3, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-0003")})
		require.NoError(t, err)

		require.NoError(t, s.DeleteByKey(ctx, k2))

		_, err = s.Get(ctx, k2)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		// Keys of the remaining records do not shift
		rec, err := s.Get(ctx, k3)
		require.NoError(t, err)
		assert.Equal(t, "555-555-0003", rec.Phone)

		assert.ErrorIs(t, s.DeleteByKey(ctx, k2), shared.ErrNotFound)
		assert.ErrorIs(t, s.DeleteByKey(ctx, 1000), shared.ErrNotFound)

		all, err := s.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, k1, all[0].Key)
		assert.Equal(t, k3, all[1].Key)
	})

	t.Run("DeletedKeysAreNotReissued", func(t *testing.T) {
		s := newStore(t, (&FakeClock{T: start}).Now)

		_, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-0001")})
		require.NoError(t, err)
		k2, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-0002")})
		require.NoError(t, err)
		require.NoError(t, s.DeleteByKey(ctx, k2))

		k3, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields("555-555-0003")})
		require.NoError(t, err)
		assert.Greater(t, k3, k2)

		_, err = s.Get(ctx, k2)
		assert.ErrorIs(t, err, shared.ErrNotFound, "a stale key must not reach the new record")
	})

	t.Run("Scan", func(t *testing.T) {
		s := newStore(t, (&FakeClock{T: start}).Now)
		for _, p := range []string{"555-555-1234", "555-555-9999", "(555) 555-1234"} {
			_, err := s.Append(ctx, models.IntakeRecord{IntakeFields: Fields(p)})
			require.NoError(t, err)
		}

		matches, err := repository.Collect(s.Scan(ctx, func(r models.IntakeRecord) bool {
			return r.Phone != "555-555-9999"
		}))
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, models.StoreKey(1), matches[0].Key)
		assert.Equal(t, models.StoreKey(3), matches[1].Key)

		// Stopping early must not fail
		n := 0
		for _, err := range s.Scan(ctx, nil) {
			require.NoError(t, err)
			n++
			break
		}
		assert.Equal(t, 1, n)
	})
}
