package member

import (
	"strings"
	"time"
)

// Normalize trims free text, turns blank optionals into absent values, reduces
// dates to YYYY-MM-DD and fills the default status.
func Normalize(f Fields) Fields {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.PhoneNumber = trimOptional(f.PhoneNumber)
	f.Gender = trimOptional(f.Gender)
	f.MembershipType = trimOptional(f.MembershipType)
	f.TrainingLevel = trimOptional(f.TrainingLevel)
	f.MembershipStartDate = NormalizeDate(f.MembershipStartDate)
	f.MembershipEndDate = NormalizeDate(f.MembershipEndDate)
	f.Status = strings.TrimSpace(f.Status)
	if f.Status == "" {
		f.Status = DefaultStatus
	}
	return f
}

// Validate checks the invariants every persisted record must hold.
func Validate(f Fields) error {
	if strings.TrimSpace(f.FullName) == "" {
		return newValidationError("full_name", "full name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		return newValidationError("email", "email is required")
	}
	if f.Age != nil && *f.Age < 0 {
		return newValidationError("age", "age must be a non-negative integer")
	}
	if !IsKnownStatus(f.Status) {
		return newValidationError("status", "status must be one of %s", strings.Join(Statuses, ", "))
	}
	if err := validateDate("membership_start_date", f.MembershipStartDate); err != nil {
		return err
	}
	return validateDate("membership_end_date", f.MembershipEndDate)
}

// IsKnownStatus reports whether status belongs to the closed set, ignoring case.
// Blank is accepted and means DefaultStatus.
func IsKnownStatus(status string) bool {
	status = strings.TrimSpace(status)
	if status == "" {
		return true
	}
	for _, known := range Statuses {
		if strings.EqualFold(status, known) {
			return true
		}
	}
	return false
}

// Optional returns nil for blank input and a pointer to the trimmed value otherwise.
func Optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	return Optional(*value)
}

func validateDate(field string, value *string) error {
	if value == nil {
		return nil
	}
	if _, err := time.Parse(dateLayout, *value); err != nil {
		return newValidationError(field, "%s must be a date in YYYY-MM-DD format", strings.ReplaceAll(field, "_", " "))
	}
	return nil
}
