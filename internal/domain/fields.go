package domain

// FieldKey identifies one of the twelve structured fields extracted from a
// scanned document.
type FieldKey string

const (
	FieldFirstName    FieldKey = "first_name"
	FieldMiddleName   FieldKey = "middle_name"
	FieldLastName     FieldKey = "last_name"
	FieldGender       FieldKey = "gender"
	FieldDateOfBirth  FieldKey = "date_of_birth"
	FieldAddressLine1 FieldKey = "address_line_1"
	FieldAddressLine2 FieldKey = "address_line_2"
	FieldCity         FieldKey = "city"
	FieldState        FieldKey = "state"
	FieldPinCode      FieldKey = "pin_code"
	FieldPhoneNumber  FieldKey = "phone_number"
	FieldEmailID      FieldKey = "email_id"
)

// AllFieldKeys lists every FieldKey in stable display order.
var AllFieldKeys = []FieldKey{
	FieldFirstName,
	FieldMiddleName,
	FieldLastName,
	FieldGender,
	FieldDateOfBirth,
	FieldAddressLine1,
	FieldAddressLine2,
	FieldCity,
	FieldState,
	FieldPinCode,
	FieldPhoneNumber,
	FieldEmailID,
}

// ValidFieldKeys maps every known FieldKey to true, for request validation.
var ValidFieldKeys = func() map[FieldKey]bool {
	m := make(map[FieldKey]bool, len(AllFieldKeys))
	for _, k := range AllFieldKeys {
		m[k] = true
	}
	return m
}()

// FormRecord maps every FieldKey to its current string value. A complete
// record always carries all twelve keys; a value the extraction could not
// supply is the empty string, never a missing key.
type FormRecord map[FieldKey]string

// EmptyRecord returns a FormRecord with all twelve keys set to "".
func EmptyRecord() FormRecord {
	r := make(FormRecord, len(AllFieldKeys))
	for _, k := range AllFieldKeys {
		r[k] = ""
	}
	return r
}

// Clone returns an independent copy of the record.
func (r FormRecord) Clone() FormRecord {
	out := make(FormRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
