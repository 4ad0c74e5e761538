package member

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical column names.
const (
	ColumnID                  = "id"
	ColumnFullName            = "full_name"
	ColumnFirstName           = "first_name"
	ColumnLastName            = "last_name"
	ColumnEmail               = "email"
	ColumnPhoneNumber         = "phone_number"
	ColumnAge                 = "age"
	ColumnGender              = "gender"
	ColumnMembershipType      = "membership_type"
	ColumnStatus              = "status"
	ColumnMembershipStartDate = "membership_start_date"
	ColumnMembershipEndDate   = "membership_end_date"
	ColumnTrainingLevel       = "training_level"
	ColumnCreatedAt           = "created_at"
)

// Schema maps canonical column names onto a remote table layout.
type Schema struct {
	Name string
	// SplitName stores the name as first_name + last_name instead of full_name.
	SplitName bool
	// Renames maps canonical column -> remote column. Unlisted columns keep their name.
	Renames map[string]string
	// Omit lists canonical columns the remote table does not have.
	Omit []string
}

var (
	CanonicalSchema = Schema{Name: "canonical"}
	LegacySchema    = Schema{
		Name:      "legacy",
		SplitName: true,
		Renames: map[string]string{
			ColumnStatus:              "membership_status",
			ColumnMembershipStartDate: "join_date",
			ColumnMembershipEndDate:   "expiry_date",
		},
		Omit: []string{ColumnTrainingLevel},
	}
)

func SchemaByName(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CanonicalSchema.Name:
		return CanonicalSchema, nil
	case LegacySchema.Name:
		return LegacySchema, nil
	default:
		return Schema{}, fmt.Errorf("unknown member schema %q", name)
	}
}

// Column returns the remote name of a canonical column.
func (s Schema) Column(canonical string) string {
	if remote, ok := s.Renames[canonical]; ok {
		return remote
	}
	return canonical
}

func (s Schema) omitted(canonical string) bool {
	for _, column := range s.Omit {
		if column == canonical {
			return true
		}
	}
	return false
}

// Encode builds a row payload. Absent optionals are sent as explicit nulls.
func (s Schema) Encode(f Fields) map[string]any {
	row := make(map[string]any, 12)
	put := func(column string, value any) {
		if s.omitted(column) {
			return
		}
		row[s.Column(column)] = value
	}

	if s.SplitName {
		first, last := splitName(f.FullName)
		row[ColumnFirstName] = first
		row[ColumnLastName] = last
	} else {
		put(ColumnFullName, f.FullName)
	}
	put(ColumnEmail, f.Email)
	put(ColumnPhoneNumber, stringOrNil(f.PhoneNumber))
	put(ColumnAge, intOrNil(f.Age))
	put(ColumnGender, stringOrNil(f.Gender))
	put(ColumnMembershipType, stringOrNil(f.MembershipType))
	put(ColumnStatus, f.Status)
	put(ColumnMembershipStartDate, stringOrNil(f.MembershipStartDate))
	put(ColumnMembershipEndDate, stringOrNil(f.MembershipEndDate))
	put(ColumnTrainingLevel, stringOrNil(f.TrainingLevel))
	return row
}

// Decode reads one remote row. Numbers may arrive as float64 or json.Number.
func (s Schema) Decode(row map[string]any) (Member, error) {
	var m Member
	m.ID = stringValue(row[ColumnID])
	if m.ID == "" {
		return Member{}, fmt.Errorf("row has no %s", ColumnID)
	}

	if s.SplitName {
		m.FullName = JoinName(stringValue(row[ColumnFirstName]), stringValue(row[ColumnLastName]))
	} else {
		m.FullName = stringValue(row[ColumnFullName])
	}
	m.Email = stringValue(row[s.Column(ColumnEmail)])
	m.PhoneNumber = optionalValue(row[s.Column(ColumnPhoneNumber)])
	m.Gender = optionalValue(row[s.Column(ColumnGender)])
	m.MembershipType = optionalValue(row[s.Column(ColumnMembershipType)])
	m.Status = stringValue(row[s.Column(ColumnStatus)])
	m.MembershipStartDate = NormalizeDate(optionalValue(row[s.Column(ColumnMembershipStartDate)]))
	m.MembershipEndDate = NormalizeDate(optionalValue(row[s.Column(ColumnMembershipEndDate)]))
	if !s.omitted(ColumnTrainingLevel) {
		m.TrainingLevel = optionalValue(row[ColumnTrainingLevel])
	}

	age, err := intValue(row[s.Column(ColumnAge)])
	if err != nil {
		return Member{}, fmt.Errorf("decode %s: %w", ColumnAge, err)
	}
	m.Age = age

	if created := stringValue(row[ColumnCreatedAt]); created != "" {
		parsed, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return Member{}, fmt.Errorf("decode %s: %w", ColumnCreatedAt, err)
		}
		m.CreatedAt = parsed
	}
	return m, nil
}

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func intOrNil(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func optionalValue(value any) *string {
	return Optional(stringValue(value))
}

func intValue(value any) (*int, error) {
	var n int
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("not an integer: %v", v)
		}
		n = int(v)
	case json.Number:
		parsed, err := strconv.Atoi(v.String())
		if err != nil {
			return nil, err
		}
		n = parsed
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		n = parsed
	case int:
		n = v
	default:
		return nil, fmt.Errorf("unexpected type %T", value)
	}
	return &n, nil
}
