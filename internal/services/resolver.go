// filepath: internal/services/resolver.go
package services

import (
	"context"
	"time"

	"intakehub/internal/models"
	"intakehub/internal/phone"
	"intakehub/internal/repository"
)

// Kind is the outcome of classifying a phone against the store.
type Kind int

const (
	NoMatch Kind = iota
	SameDayDuplicate
	RepeatVisit
)

func (k Kind) String() string {
	switch k {
	case SameDayDuplicate:
		return "same_day_duplicate"
	case RepeatVisit:
		return "repeat_visit"
	default:
		return "no_match"
	}
}

// Classification is the result of Resolver.Classify. Latest is the most
// recent matching record and is only set when Kind is not NoMatch.
// SameDay is the most recent match dated asOf, set for SameDayDuplicate.
type Classification struct {
	Kind    Kind
	Latest  models.IntakeRecord
	SameDay models.IntakeRecord
	Matches int
}

// Resolver decides whether a household is new, already seen today, or
// returning on a later day.
type Resolver struct {
	Store repository.Store
}

// NewResolver creates a Resolver over store.
func NewResolver(store repository.Store) *Resolver {
	return &Resolver{Store: store}
}

// Classify scans the store for records whose phone normalizes to
// normalizedPhone. A blank phone never matches. Any match dated asOf makes
// the household a same-day duplicate, wherever it sits in the log.
func (r *Resolver) Classify(ctx context.Context, normalizedPhone string, asOf time.Time) (Classification, error) {
	normalizedPhone = phone.Normalize(normalizedPhone)
	if normalizedPhone == "" {
		return Classification{Kind: NoMatch}, nil
	}

	day := asOf.Format(models.DateLayout)
	var (
		c         Classification
		seenToday bool
	)
	for rec, err := range r.Store.Scan(ctx, samePhone(normalizedPhone)) {
		if err != nil {
			return Classification{}, err
		}
		if c.Matches == 0 || newer(rec, c.Latest) {
			c.Latest = rec
		}
		if rec.Date() == day && (!seenToday || newer(rec, c.SameDay)) {
			c.SameDay = rec
			seenToday = true
		}
		c.Matches++
	}

	switch {
	case c.Matches == 0:
		c.Kind = NoMatch
	case seenToday:
		c.Kind = SameDayDuplicate
	default:
		c.Kind = RepeatVisit
	}
	return c, nil
}

// samePhone matches records whose phone has the given digits.
func samePhone(normalized string) func(models.IntakeRecord) bool {
	return func(rec models.IntakeRecord) bool {
		return phone.SameContact(rec.Phone, normalized)
	}
}

// newer orders by timestamp, then by key.
func newer(a, b models.IntakeRecord) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp > b.Timestamp
	}
	return a.Key > b.Key
}
