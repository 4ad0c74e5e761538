package ui

import "net/url"

// Field is the logical name of one form input.
type Field string

const (
	FieldFullName            Field = "full_name"
	FieldAge                 Field = "age"
	FieldGender              Field = "gender"
	FieldPhoneNumber         Field = "phone_number"
	FieldEmail               Field = "email"
	FieldMembershipType      Field = "membership_type"
	FieldMembershipStartDate Field = "membership_start_date"
	FieldMembershipEndDate   Field = "membership_end_date"
	FieldTrainingLevel       Field = "training_level"
	FieldStatus              Field = "status"
)

// FormFields lists every bound input in display order.
var FormFields = []Field{
	FieldFullName,
	FieldAge,
	FieldGender,
	FieldPhoneNumber,
	FieldEmail,
	FieldMembershipType,
	FieldMembershipStartDate,
	FieldMembershipEndDate,
	FieldTrainingLevel,
	FieldStatus,
}

// Binding is the presentation boundary: named values the core reads and writes.
type Binding interface {
	Value(field Field) string
	SetValue(field Field, value string)
}

// MapBinding keeps field values in memory. The zero value is not usable; use NewMapBinding.
type MapBinding map[Field]string

func NewMapBinding() MapBinding {
	return make(MapBinding, len(FormFields))
}

// BindValues copies the known form fields out of submitted form values.
func BindValues(values url.Values) MapBinding {
	b := NewMapBinding()
	for _, field := range FormFields {
		b[field] = values.Get(string(field))
	}
	return b
}

func (b MapBinding) Value(field Field) string {
	return b[field]
}

func (b MapBinding) SetValue(field Field, value string) {
	b[field] = value
}

func copyBinding(dst, src Binding) {
	for _, field := range FormFields {
		dst.SetValue(field, src.Value(field))
	}
}
