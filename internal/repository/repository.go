// Package repository defines the record store contract shared by the
// relational and delimited-file backends.
package repository

import (
	"context"
	"iter"
	"time"

	"intakehub/internal/models"
)

// Store is a durable ordered collection of intake records.
//
// Keys are opaque surrogates assigned by Append. Absence of the backing
// file or database on first use is not an error; the store starts empty.
// Persistence failures are reported as *shared.StorageError and unknown
// keys as shared.ErrNotFound.
type Store interface {
	// LoadAll returns every record in write order.
	LoadAll(ctx context.Context) ([]models.IntakeRecord, error)
	Get(ctx context.Context, key models.StoreKey) (models.IntakeRecord, error)
	// Append writes rec as the new last entry. An empty Timestamp is
	// assigned by the store. rec.Key is ignored.
	Append(ctx context.Context, rec models.IntakeRecord) (models.StoreKey, error)
	// UpdateByKey overwrites the named fields and refreshes the timestamp.
	UpdateByKey(ctx context.Context, key models.StoreKey, upd models.IntakeUpdate) error
	DeleteByKey(ctx context.Context, key models.StoreKey) error
	// Scan lazily yields the records accepted by match. A nil match
	// accepts everything. There is no index; every call is a linear pass.
	Scan(ctx context.Context, match func(models.IntakeRecord) bool) iter.Seq2[models.IntakeRecord, error]
	// Repair brings persisted rows back to the current schema and returns
	// how many rows were (or, for a dry run, would be) fixed.
	Repair(ctx context.Context, dryRun bool) (int, error)
	Close() error
}

// Clock returns the current time. Stores take one so tests can pin it.
type Clock func() time.Time

// NextTimestamp formats now, clamped so it never sorts before last.
// This keeps timestamps non-decreasing in write order even if the wall
// clock steps backwards.
func NextTimestamp(now time.Time, last string) string {
	ts := now.Format(models.TimestampLayout)
	if last > ts {
		return last
	}
	return ts
}

// Collect drains a Scan sequence into a slice.
func Collect(seq iter.Seq2[models.IntakeRecord, error]) ([]models.IntakeRecord, error) {
	var out []models.IntakeRecord
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
