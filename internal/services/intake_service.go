// filepath: internal/services/intake_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"intakehub/internal/logging"
	"intakehub/internal/metrics"
	"intakehub/internal/models"
	"intakehub/internal/phone"
	"intakehub/internal/reports"
	"intakehub/internal/repository"
	"intakehub/internal/services/auth"
	"intakehub/internal/shared"
	"intakehub/internal/validation"
)

var _ IntakeService = (*intakeService)(nil)

// intakeService holds the business rules around the record store.
// Export helpers live in intake_export.go.
type intakeService struct {
	Store     repository.Store
	Resolver  *Resolver
	Validator *validation.Validator
	Auditor   Auditor
	Metrics   *metrics.Metrics
	Now       repository.Clock

	// mu serializes mutations. Handlers run concurrently and the
	// duplicate check must see every earlier append.
	mu sync.Mutex
}

// NewIntakeService creates a new IntakeService.
func NewIntakeService(store repository.Store, v *validation.Validator, auditor Auditor, m *metrics.Metrics) *intakeService {
	if m == nil {
		m = metrics.New(nil)
	}
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &intakeService{
		Store:     store,
		Resolver:  NewResolver(store),
		Validator: v,
		Auditor:   auditor,
		Metrics:   m,
		Now:       time.Now,
	}
}

// Lookup returns every record of the household whose phone normalizes like
// rawPhone. No match is an empty result, not an error.
func (s *intakeService) Lookup(ctx context.Context, rawPhone string, today time.Time) (models.LookupResult, error) {
	result := models.LookupResult{Records: []models.IntakeRecord{}}
	normalized := phone.Normalize(rawPhone)
	if normalized == "" {
		return result, nil
	}

	day := today.Format(models.DateLayout)
	for rec, err := range s.Store.Scan(ctx, samePhone(normalized)) {
		if err != nil {
			return models.LookupResult{}, err
		}
		result.Records = append(result.Records, rec)
		if rec.Date() == day {
			result.VisitedToday = true
		}
	}
	result.VisitCount = len(result.Records)
	return result, nil
}

// SubmitNewIntake validates fields and appends them as a first-time
// household. A household whose phone is already on file is refused with a
// *DuplicateError; an email seen on another household only adds a warning.
func (s *intakeService) SubmitNewIntake(ctx context.Context, fields models.IntakeFields) (models.SubmitResult, error) {
	fields = trimFields(fields)
	if msgs := s.Validator.ValidateFields(fields); len(msgs) > 0 {
		s.Metrics.ValidationFailures.Inc()
		return models.SubmitResult{}, &ValidationError{Messages: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		matches  []models.IntakeRecord
		warnings []string
	)
	normalized := phone.Normalize(fields.Phone)
	emailSeen := false
	for rec, err := range s.Store.Scan(ctx, nil) {
		if err != nil {
			return models.SubmitResult{}, err
		}
		if phone.SameContact(rec.Phone, normalized) {
			matches = append(matches, rec)
			continue
		}
		if !emailSeen && sameEmail(rec.Email, fields.Email) {
			emailSeen = true
			warnings = append(warnings, fmt.Sprintf("Email %s is already registered to another household", fields.Email))
		}
	}
	if len(matches) > 0 {
		s.Metrics.IncrementDuplicate(metrics.KindPhone)
		logging.FromContext(ctx).Warnf("IntakeService: Refused intake for phone %s: %d existing records", normalized, len(matches))
		return models.SubmitResult{}, &DuplicateError{Records: matches}
	}

	key, err := s.Store.Append(ctx, models.IntakeRecord{IntakeFields: fields})
	if err != nil {
		logging.FromContext(ctx).Errorf("IntakeService: Failed to append intake: %v", err)
		return models.SubmitResult{}, fmt.Errorf("failed to record intake: %w", err)
	}
	rec, err := s.Store.Get(ctx, key)
	if err != nil {
		return models.SubmitResult{}, fmt.Errorf("failed to read back record %d: %w", key, err)
	}

	s.Metrics.IntakesCreated.Inc()
	logging.FromContext(ctx).Infof("IntakeService: New household recorded as %d", key)
	return models.SubmitResult{Key: key, Record: rec, Warnings: warnings}, nil
}

// LogRepeatVisit appends a copy of the household's most recent record with
// the new arrival mode. At most one visit is logged per calendar day, and
// only for the clock's current day; the store stamps the record.
func (s *intakeService) LogRepeatVisit(ctx context.Context, normalizedPhone string, mode models.ArrivalMode, today time.Time) (models.IntakeRecord, error) {
	if !mode.Valid() {
		s.Metrics.ValidationFailures.Inc()
		return models.IntakeRecord{}, &ValidationError{Messages: []string{"Arrival mode must be Walking or Driving"}}
	}
	if current := s.Now().Format(models.DateLayout); today.Format(models.DateLayout) != current {
		s.Metrics.ValidationFailures.Inc()
		return models.IntakeRecord{}, &ValidationError{Messages: []string{
			fmt.Sprintf("Visits can only be logged for today (%s), not %s", current, today.Format(models.DateLayout)),
		}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Resolver.Classify(ctx, normalizedPhone, today)
	if err != nil {
		return models.IntakeRecord{}, err
	}

	switch c.Kind {
	case NoMatch:
		return models.IntakeRecord{}, fmt.Errorf("no household with phone %q: %w", normalizedPhone, ErrNotFound)
	case SameDayDuplicate:
		s.Metrics.IncrementDuplicate(metrics.KindSameDay)
		return models.IntakeRecord{}, fmt.Errorf("record %d is dated %s: %w", c.SameDay.Key, c.SameDay.Date(), ErrAlreadyLoggedToday)
	}

	rec := models.IntakeRecord{IntakeFields: c.Latest.IntakeFields}
	rec.ArrivalMode = mode

	key, err := s.Store.Append(ctx, rec)
	if err != nil {
		logging.FromContext(ctx).Errorf("IntakeService: Failed to append repeat visit: %v", err)
		return models.IntakeRecord{}, fmt.Errorf("failed to log visit: %w", err)
	}
	if rec, err = s.Store.Get(ctx, key); err != nil {
		return models.IntakeRecord{}, fmt.Errorf("failed to read back visit %d: %w", key, err)
	}

	s.Metrics.RepeatVisits.Inc()
	logging.FromContext(ctx).Infof("IntakeService: Repeat visit %d logged from record %d", key, c.Latest.Key)
	return rec, nil
}

// UpdateRecord merges upd into the record at key. Only the fields upd names
// are validated and trimmed, so legacy rows can be corrected one field at a
// time. Changing the phone to one that belongs to another household needs
// confirm.
func (s *intakeService) UpdateRecord(ctx context.Context, key models.StoreKey, upd models.IntakeUpdate, confirm bool) (models.IntakeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.get(ctx, key)
	if err != nil {
		return models.IntakeRecord{}, err
	}
	if upd.IsEmpty() {
		return existing, nil
	}

	merged := upd.Apply(existing.IntakeFields)
	if msgs := s.Validator.ValidateChanged(trimFields(merged), upd.Changed()); len(msgs) > 0 {
		s.Metrics.ValidationFailures.Inc()
		return models.IntakeRecord{}, &ValidationError{Messages: msgs}
	}

	if upd.Phone != nil && !phone.SameContact(existing.Phone, merged.Phone) && !confirm {
		others, err := s.householdRecords(ctx, merged.Phone, key)
		if err != nil {
			return models.IntakeRecord{}, err
		}
		if len(others) > 0 {
			s.Metrics.IncrementDuplicate(metrics.KindOnUpdate)
			return models.IntakeRecord{}, &DuplicateError{Records: others}
		}
	}

	if err := s.Store.UpdateByKey(ctx, key, trimUpdate(upd)); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return models.IntakeRecord{}, fmt.Errorf("record %d: %w", key, ErrNotFound)
		}
		logging.FromContext(ctx).Errorf("IntakeService: Failed to update record %d: %v", key, err)
		return models.IntakeRecord{}, fmt.Errorf("failed to update record: %w", err)
	}

	updated, err := s.get(ctx, key)
	if err != nil {
		return models.IntakeRecord{}, err
	}

	s.Metrics.RecordsUpdated.Inc()
	s.audit(ctx, "record.update", key, map[string]interface{}{"confirmed": confirm})
	logging.FromContext(ctx).Infof("IntakeService: Record %d updated", key)
	return updated, nil
}

// DeleteRecord physically removes the record at key.
func (s *intakeService) DeleteRecord(ctx context.Context, key models.StoreKey, capability auth.Capability) error {
	if !capability.Valid() {
		return ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.DeleteByKey(ctx, key); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("record %d: %w", key, ErrNotFound)
		}
		logging.FromContext(ctx).Errorf("IntakeService: Failed to delete record %d: %v", key, err)
		return fmt.Errorf("failed to delete record: %w", err)
	}

	s.Metrics.RecordsDeleted.Inc()
	s.auditAs(ctx, capability.Subject(), "record.delete", key, nil)
	logging.FromContext(ctx).Infof("IntakeService: Record %d deleted by %s", key, capability.Subject())
	return nil
}

// Repair realigns drifted rows in the store. With dryRun it only counts them.
func (s *intakeService) Repair(ctx context.Context, capability auth.Capability, dryRun bool) (int, error) {
	if !capability.Valid() {
		return 0, ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.Store.Repair(ctx, dryRun)
	if err != nil {
		logging.FromContext(ctx).Errorf("IntakeService: Repair failed: %v", err)
		return 0, fmt.Errorf("repair failed: %w", err)
	}
	if !dryRun {
		s.Metrics.RowsRepaired.Add(float64(n))
	}

	s.Auditor.Log(ctx, "records.repair", capability.Subject(), "Records", map[string]interface{}{
		"dry_run": dryRun,
		"rows":    n,
	})
	return n, nil
}

// Report summarizes the store for date and, if given, a weekday name.
func (s *intakeService) Report(ctx context.Context, date time.Time, weekday string) (reports.Summary, error) {
	records, err := s.Store.LoadAll(ctx)
	if err != nil {
		return reports.Summary{}, err
	}
	return reports.Summarize(records, date, weekday), nil
}

// Import appends already migrated legacy records as they are. There is no
// duplicate check: legacy files legitimately hold one row per visit.
func (s *intakeService) Import(ctx context.Context, records []models.IntakeRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, err := s.Store.Append(ctx, rec); err != nil {
			logging.FromContext(ctx).Errorf("IntakeService: Import stopped after %d rows: %v", n, err)
			return n, fmt.Errorf("import stopped after %d rows: %w", n, err)
		}
		n++
	}

	s.Metrics.RecordsImported.Add(float64(n))
	s.Auditor.Log(ctx, "records.import", actor(ctx), "Records", map[string]interface{}{"rows": n})
	logging.FromContext(ctx).Infof("IntakeService: Imported %d legacy records", n)
	return n, nil
}

// get maps the store's not-found error to the service one.
func (s *intakeService) get(ctx context.Context, key models.StoreKey) (models.IntakeRecord, error) {
	rec, err := s.Store.Get(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return models.IntakeRecord{}, fmt.Errorf("record %d: %w", key, ErrNotFound)
	}
	return rec, err
}

// householdRecords returns the records with rawPhone's digits, other than skip.
func (s *intakeService) householdRecords(ctx context.Context, rawPhone string, skip models.StoreKey) ([]models.IntakeRecord, error) {
	var out []models.IntakeRecord
	for rec, err := range s.Store.Scan(ctx, samePhone(phone.Normalize(rawPhone))) {
		if err != nil {
			return nil, err
		}
		if rec.Key != skip {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *intakeService) audit(ctx context.Context, action string, key models.StoreKey, details map[string]interface{}) {
	s.auditAs(ctx, actor(ctx), action, key, details)
}

func (s *intakeService) auditAs(ctx context.Context, who, action string, key models.StoreKey, details map[string]interface{}) {
	s.Auditor.Log(ctx, action, who, fmt.Sprintf("Record:%d", key), details)
}

type nopAuditor struct{}

func (nopAuditor) Log(context.Context, string, string, string, map[string]interface{}) {}

// actor names the caller for audit entries.
func actor(ctx context.Context) string {
	if c := auth.CapabilityFrom(ctx); c.Valid() {
		return c.Subject()
	}
	return "kiosk"
}

func sameEmail(a, b string) bool {
	a = strings.TrimSpace(a)
	return a != "" && strings.EqualFold(a, strings.TrimSpace(b))
}

func trimFields(f models.IntakeFields) models.IntakeFields {
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.Zip = strings.TrimSpace(f.Zip)
	f.Name = strings.TrimSpace(f.Name)
	return f
}

// trimUpdate trims the free-text contact fields the update sets.
func trimUpdate(u models.IntakeUpdate) models.IntakeUpdate {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	u.Phone = trim(u.Phone)
	u.Email = trim(u.Email)
	u.Zip = trim(u.Zip)
	u.Name = trim(u.Name)
	return u
}
