// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import (
	"time"
)

// TimestampLayout is the persisted form of IntakeRecord.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the calendar-date prefix of a timestamp.
const DateLayout = "2006-01-02"

// Info represents general information about the service.
type Info struct {
	ServiceName   string    `json:"service_name"`
	Version       string    `json:"version"`
	UptimeSince   time.Time `json:"uptime_since"`
	Backend       string    `json:"backend"`
	SchemaVersion int       `json:"schema_version"`
}

// StoreKey is the immutable surrogate identifier of a stored record.
// It is assigned once at creation and never derived from row position.
type StoreKey int64

// ArrivalMode describes how a household arrived at the distribution.
type ArrivalMode string

const (
	Walking ArrivalMode = "Walking"
	Driving ArrivalMode = "Driving"
)

// Valid reports whether m is one of the canonical modes.
func (m ArrivalMode) Valid() bool {
	return m == Walking || m == Driving
}

// IntakeFields holds every user-supplied field of an intake.
type IntakeFields struct {
	HouseholdSize    int         `json:"household_size" validate:"min=1"`
	MaleAdultCount   int         `json:"male_adult_count" validate:"min=0"`
	FemaleAdultCount int         `json:"female_adult_count" validate:"min=0"`
	MaleAdultAges    string      `json:"male_adult_ages"`
	FemaleAdultAges  string      `json:"female_adult_ages"`
	ChildAges        string      `json:"child_ages"`
	ChildCount       int         `json:"child_count" validate:"min=0"`
	SchoolLevels     string      `json:"school_levels"`
	Zip              string      `json:"zip"`
	ReferralSource   string      `json:"referral_source"`
	Phone            string      `json:"phone"`
	Email            string      `json:"email"`
	Name             string      `json:"name"`
	ArrivalMode      ArrivalMode `json:"arrival_mode" validate:"oneof=Walking Driving"`
}

// IntakeRecord is one row of the store.
type IntakeRecord struct {
	Key       StoreKey `json:"key"`
	Timestamp string   `json:"timestamp"`
	IntakeFields
}

// Date returns the calendar-date component of the record's timestamp,
// or "" when the record carries no timestamp (legacy rows).
func (r IntakeRecord) Date() string {
	if len(r.Timestamp) < len(DateLayout) {
		return ""
	}
	return r.Timestamp[:len(DateLayout)]
}

// IntakeUpdate is a partial update. A nil field leaves the stored value unchanged.
type IntakeUpdate struct {
	HouseholdSize    *int         `json:"household_size,omitempty"`
	MaleAdultCount   *int         `json:"male_adult_count,omitempty"`
	FemaleAdultCount *int         `json:"female_adult_count,omitempty"`
	MaleAdultAges    *string      `json:"male_adult_ages,omitempty"`
	FemaleAdultAges  *string      `json:"female_adult_ages,omitempty"`
	ChildAges        *string      `json:"child_ages,omitempty"`
	ChildCount       *int         `json:"child_count,omitempty"`
	SchoolLevels     *string      `json:"school_levels,omitempty"`
	Zip              *string      `json:"zip,omitempty"`
	ReferralSource   *string      `json:"referral_source,omitempty"`
	Phone            *string      `json:"phone,omitempty"`
	Email            *string      `json:"email,omitempty"`
	Name             *string      `json:"name,omitempty"`
	ArrivalMode      *ArrivalMode `json:"arrival_mode,omitempty"`
}

// IsEmpty reports whether the update names no field at all.
func (u IntakeUpdate) IsEmpty() bool {
	return u == IntakeUpdate{}
}

// Apply overwrites the named fields of f and returns the result.
func (u IntakeUpdate) Apply(f IntakeFields) IntakeFields {
	if u.HouseholdSize != nil {
		f.HouseholdSize = *u.HouseholdSize
	}
	if u.MaleAdultCount != nil {
		f.MaleAdultCount = *u.MaleAdultCount
	}
	if u.FemaleAdultCount != nil {
		f.FemaleAdultCount = *u.FemaleAdultCount
	}
	if u.MaleAdultAges != nil {
		f.MaleAdultAges = *u.MaleAdultAges
	}
	if u.FemaleAdultAges != nil {
		f.FemaleAdultAges = *u.FemaleAdultAges
	}
	if u.ChildAges != nil {
		f.ChildAges = *u.ChildAges
	}
	if u.ChildCount != nil {
		f.ChildCount = *u.ChildCount
	}
	if u.SchoolLevels != nil {
		f.SchoolLevels = *u.SchoolLevels
	}
	if u.Zip != nil {
		f.Zip = *u.Zip
	}
	if u.ReferralSource != nil {
		f.ReferralSource = *u.ReferralSource
	}
	if u.Phone != nil {
		f.Phone = *u.Phone
	}
	if u.Email != nil {
		f.Email = *u.Email
	}
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.ArrivalMode != nil {
		f.ArrivalMode = *u.ArrivalMode
	}
	return f
}

// Changed lists the IntakeFields field names the update sets, in
// declaration order.
func (u IntakeUpdate) Changed() []string {
	var names []string
	add := func(set bool, name string) {
		if set {
			names = append(names, name)
		}
	}
	add(u.HouseholdSize != nil, "HouseholdSize")
	add(u.MaleAdultCount != nil, "MaleAdultCount")
	add(u.FemaleAdultCount != nil, "FemaleAdultCount")
	add(u.MaleAdultAges != nil, "MaleAdultAges")
	add(u.FemaleAdultAges != nil, "FemaleAdultAges")
	add(u.ChildAges != nil, "ChildAges")
	add(u.ChildCount != nil, "ChildCount")
	add(u.SchoolLevels != nil, "SchoolLevels")
	add(u.Zip != nil, "Zip")
	add(u.ReferralSource != nil, "ReferralSource")
	add(u.Phone != nil, "Phone")
	add(u.Email != nil, "Email")
	add(u.Name != nil, "Name")
	add(u.ArrivalMode != nil, "ArrivalMode")
	return names
}

// LookupResult is the answer to a phone lookup. An empty Records slice is a
// valid "no match" result.
type LookupResult struct {
	Records      []IntakeRecord `json:"records"`
	VisitCount   int            `json:"visit_count"`
	VisitedToday bool           `json:"visited_today"`
}

// SubmitResult is returned by a successful new intake.
type SubmitResult struct {
	Key      StoreKey     `json:"key"`
	Record   IntakeRecord `json:"record"`
	Warnings []string     `json:"warnings,omitempty"`
}

// DriftReport summarizes one schema-drift check of the store.
type DriftReport struct {
	CheckedAt    time.Time `json:"checked_at"`
	RowsAffected int       `json:"rows_affected"`
	Repaired     bool      `json:"repaired"`
	Message      string    `json:"message"`
}
