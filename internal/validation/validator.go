// Package validation checks intake fields before they reach the store.
// It never fails on malformed input; problems come back as messages.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"intakehub/internal/models"
	"intakehub/internal/phone"

	"github.com/go-playground/validator/v10"
)

// Mode selects the contact-field rule set.
type Mode string

const (
	Strict  Mode = "strict"
	Lenient Mode = "lenient"
)

// ParseMode maps a configuration value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Strict, "":
		return Strict, nil
	case Lenient:
		return Lenient, nil
	default:
		return "", fmt.Errorf("unknown validation mode: %s", s)
	}
}

var (
	strictPhoneRe = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	zipRe         = regexp.MustCompile(`^\d{5}$`)
	emailRe       = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s.]+$`)
)

type strictContact struct {
	Phone string `validate:"phone_strict"`
	Email string `validate:"email_simple"`
	Zip   string `validate:"zip5"`
}

type lenientContact struct {
	Phone string `validate:"phone_lenient"`
	Email string `validate:"omitempty,contains=@"`
	Zip   string `validate:"omitempty,zip5"`
}

// Validator is safe for concurrent use.
type Validator struct {
	mode     Mode
	validate *validator.Validate
}

// New builds a Validator for the given mode.
func New(mode Mode) *Validator {
	v := validator.New()
	_ = v.RegisterValidation("phone_strict", func(fl validator.FieldLevel) bool {
		return strictPhoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_lenient", func(fl validator.FieldLevel) bool {
		return len(phone.Normalize(fl.Field().String())) >= 10
	})
	_ = v.RegisterValidation("zip5", func(fl validator.FieldLevel) bool {
		return zipRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("email_simple", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})

	if mode != Lenient {
		mode = Strict
	}
	return &Validator{mode: mode, validate: v}
}

// Mode returns the active rule set.
func (v *Validator) Mode() Mode { return v.mode }

// Validate checks the contact fields. An empty result means valid.
func (v *Validator) Validate(phoneNumber, email, zip string) []string {
	return v.messages(v.validate.Struct(v.contact(phoneNumber, email, zip)))
}

// ValidateFields checks the contact fields and the numeric and
// enumerated rules of a full intake.
func (v *Validator) ValidateFields(f models.IntakeFields) []string {
	msgs := v.Validate(f.Phone, f.Email, f.Zip)
	return append(msgs, v.messages(v.validate.Struct(f))...)
}

// ValidateChanged applies the same rules as ValidateFields, but only to the
// IntakeFields fields named in changed. Values the caller left alone, such
// as blanks carried over from a legacy import, are not judged.
func (v *Validator) ValidateChanged(f models.IntakeFields, changed []string) []string {
	if len(changed) == 0 {
		return nil
	}

	var contact []string
	for _, name := range changed {
		switch name {
		case "Phone", "Email", "Zip":
			contact = append(contact, name)
		}
	}

	var msgs []string
	if len(contact) > 0 {
		msgs = v.messages(v.validate.StructPartial(v.contact(f.Phone, f.Email, f.Zip), contact...))
	}
	return append(msgs, v.messages(v.validate.StructPartial(f, changed...))...)
}

func (v *Validator) contact(phoneNumber, email, zip string) interface{} {
	if v.mode == Lenient {
		return lenientContact{
			Phone: strings.TrimSpace(phoneNumber),
			Email: strings.TrimSpace(email),
			Zip:   strings.TrimSpace(zip),
		}
	}
	return strictContact{
		Phone: strings.TrimSpace(phoneNumber),
		Email: strings.TrimSpace(email),
		Zip:   strings.TrimSpace(zip),
	}
}

func (v *Validator) messages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, v.describe(fe))
	}
	return msgs
}

func (v *Validator) describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "phone_strict":
		return "Phone must be in the format NNN-NNN-NNNN"
	case "phone_lenient":
		return "Phone must contain at least 10 digits"
	case "zip5":
		return "Zip code must be exactly 5 digits"
	case "email_simple":
		return "Email must look like name@example.com"
	case "contains":
		return "Email must contain '@'"
	case "oneof":
		return "Arrival mode must be Walking or Driving"
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s must be at least 1", label(fe.StructField()))
		}
		return fmt.Sprintf("%s cannot be negative", label(fe.StructField()))
	default:
		return fmt.Sprintf("%s is invalid", label(fe.StructField()))
	}
}

func label(field string) string {
	switch field {
	case "HouseholdSize":
		return "Household size"
	case "MaleAdultCount":
		return "Male adult count"
	case "FemaleAdultCount":
		return "Female adult count"
	case "ChildCount":
		return "Child count"
	case "ArrivalMode":
		return "Arrival mode"
	default:
		return field
	}
}
