package member

import (
	"strings"
	"time"
)

const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"

	// DefaultStatus is stored when a record arrives without a status.
	DefaultStatus = "Active"

	dateLayout = "2006-01-02"
)

// Statuses is the closed set of membership states, lower-cased.
var Statuses = []string{StatusActive, StatusExpired, StatusSuspended, StatusCancelled}

// Member is one stored membership record. Pointer fields are optional; nil means absent.
type Member struct {
	ID                  string `gorm:"type:uuid;primaryKey"`
	FullName            string `gorm:"not null"`
	Email               string `gorm:"not null"`
	PhoneNumber         *string
	Age                 *int
	Gender              *string
	MembershipType      *string
	Status              string  `gorm:"not null;default:Active"`
	MembershipStartDate *string `gorm:"type:date"`
	MembershipEndDate   *string `gorm:"type:date"`
	TrainingLevel       *string
	CreatedAt           time.Time `gorm:"autoCreateTime"`
}

// Fields is the replaceable part of a record: everything except identity and creation time.
type Fields struct {
	FullName            string
	Email               string
	PhoneNumber         *string
	Age                 *int
	Gender              *string
	MembershipType      *string
	Status              string
	MembershipStartDate *string
	MembershipEndDate   *string
	TrainingLevel       *string
}

// Fields returns the replaceable attributes of m.
func (m Member) Fields() Fields {
	return Fields{
		FullName:            m.FullName,
		Email:               m.Email,
		PhoneNumber:         m.PhoneNumber,
		Age:                 m.Age,
		Gender:              m.Gender,
		MembershipType:      m.MembershipType,
		Status:              m.Status,
		MembershipStartDate: m.MembershipStartDate,
		MembershipEndDate:   m.MembershipEndDate,
		TrainingLevel:       m.TrainingLevel,
	}
}

// Apply overwrites every replaceable attribute of m with f.
func (m *Member) Apply(f Fields) {
	m.FullName = f.FullName
	m.Email = f.Email
	m.PhoneNumber = f.PhoneNumber
	m.Age = f.Age
	m.Gender = f.Gender
	m.MembershipType = f.MembershipType
	m.Status = f.Status
	m.MembershipStartDate = f.MembershipStartDate
	m.MembershipEndDate = f.MembershipEndDate
	m.TrainingLevel = f.TrainingLevel
}

// StatusOrDefault returns the stored status, or DefaultStatus when it is blank.
func (m Member) StatusOrDefault() string {
	if strings.TrimSpace(m.Status) == "" {
		return DefaultStatus
	}
	return m.Status
}

// FirstName is the part of FullName before the first space.
func (m Member) FirstName() string {
	first, _ := splitName(m.FullName)
	return first
}

// LastName is everything after the first space of FullName.
func (m Member) LastName() string {
	_, last := splitName(m.FullName)
	return last
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	first, last, _ := strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}

// NormalizeDate reduces a stored date or timestamp to its YYYY-MM-DD prefix.
// Values that do not start with a calendar date are returned unchanged.
func NormalizeDate(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	if len(v) >= len(dateLayout) {
		if _, err := time.Parse(dateLayout, v[:len(dateLayout)]); err == nil {
			v = v[:len(dateLayout)]
		}
	}
	return &v
}

// JoinName builds a full name from separate parts, skipping blanks.
func JoinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// Stats are the headline counters shown above the table.
type Stats struct {
	Total     int
	Active    int
	Expired   int
	Suspended int
	Cancelled int
}

// ComputeStats counts records per status, case-insensitively. Blank status counts as active.
func ComputeStats(members []Member) Stats {
	stats := Stats{Total: len(members)}
	for _, m := range members {
		switch strings.ToLower(m.StatusOrDefault()) {
		case StatusActive:
			stats.Active++
		case StatusExpired:
			stats.Expired++
		case StatusSuspended:
			stats.Suspended++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
