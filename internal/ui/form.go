package ui

import (
	"strconv"
	"strings"

	memberdomain "membership-admin/internal/domain/member"
)

type Mode int

const (
	Creating Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "creating"
}

// FormController tracks whether the form creates a record or edits one, and moves
// values between the binding and the record shape.
type FormController struct {
	binding   Binding
	mode      Mode
	editingID string
}

func NewFormController(binding Binding) *FormController {
	f := &FormController{binding: binding}
	f.Reset()
	return f
}

func (f *FormController) Mode() Mode {
	return f.mode
}

func (f *FormController) EditingID() (string, bool) {
	return f.editingID, f.mode == Editing
}

// Reset clears every field and returns to creating.
func (f *FormController) Reset() {
	for _, field := range FormFields {
		f.binding.SetValue(field, "")
	}
	f.mode = Creating
	f.editingID = ""
}

// Populate fills the form from m and switches to editing it.
func (f *FormController) Populate(m memberdomain.Member) {
	age := ""
	if m.Age != nil {
		age = strconv.Itoa(*m.Age)
	}

	f.binding.SetValue(FieldFullName, m.FullName)
	f.binding.SetValue(FieldAge, age)
	f.binding.SetValue(FieldGender, valueOrEmpty(m.Gender))
	f.binding.SetValue(FieldPhoneNumber, valueOrEmpty(m.PhoneNumber))
	f.binding.SetValue(FieldEmail, m.Email)
	f.binding.SetValue(FieldMembershipType, valueOrEmpty(m.MembershipType))
	f.binding.SetValue(FieldMembershipStartDate, valueOrEmpty(memberdomain.NormalizeDate(m.MembershipStartDate)))
	f.binding.SetValue(FieldMembershipEndDate, valueOrEmpty(memberdomain.NormalizeDate(m.MembershipEndDate)))
	f.binding.SetValue(FieldTrainingLevel, valueOrEmpty(m.TrainingLevel))
	f.binding.SetValue(FieldStatus, m.StatusOrDefault())

	f.mode = Editing
	f.editingID = m.ID
}

// Read turns the bound values into a field set. Empty name or email, or an age
// that is not a whole number, is rejected before anything is sent.
func (f *FormController) Read() (memberdomain.Fields, error) {
	fields := memberdomain.Fields{
		FullName:            strings.TrimSpace(f.binding.Value(FieldFullName)),
		Email:               strings.TrimSpace(f.binding.Value(FieldEmail)),
		PhoneNumber:         memberdomain.Optional(f.binding.Value(FieldPhoneNumber)),
		Gender:              memberdomain.Optional(f.binding.Value(FieldGender)),
		MembershipType:      memberdomain.Optional(f.binding.Value(FieldMembershipType)),
		MembershipStartDate: memberdomain.Optional(f.binding.Value(FieldMembershipStartDate)),
		MembershipEndDate:   memberdomain.Optional(f.binding.Value(FieldMembershipEndDate)),
		TrainingLevel:       memberdomain.Optional(f.binding.Value(FieldTrainingLevel)),
		Status:              strings.TrimSpace(f.binding.Value(FieldStatus)),
	}
	if fields.Status == "" {
		fields.Status = memberdomain.DefaultStatus
	}

	if raw := strings.TrimSpace(f.binding.Value(FieldAge)); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return memberdomain.Fields{}, &memberdomain.ValidationError{Field: string(FieldAge), Message: "Age must be a whole number of years."}
		}
		fields.Age = &age
	}

	if fields.FullName == "" || fields.Email == "" {
		return memberdomain.Fields{}, &memberdomain.ValidationError{Field: requiredField(fields), Message: "Please fill in the required fields: full name and email."}
	}
	return fields, nil
}

func (f *FormController) Title() string {
	if f.mode == Editing {
		return "Edit Member"
	}
	return "Add New Member"
}

func (f *FormController) SubmitLabel() string {
	if f.mode == Editing {
		return "Update Member"
	}
	return "Add Member"
}

// Values snapshots the bound fields.
func (f *FormController) Values() map[Field]string {
	values := make(map[Field]string, len(FormFields))
	for _, field := range FormFields {
		values[field] = f.binding.Value(field)
	}
	return values
}

func requiredField(fields memberdomain.Fields) string {
	if fields.FullName == "" {
		return string(FieldFullName)
	}
	return string(FieldEmail)
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
