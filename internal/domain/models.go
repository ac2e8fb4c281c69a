package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is the handle for the currently selected scanned document.
// Identity (ID) is what response handling compares to detect stale results
// after the user selects a replacement document.
type Document struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	FileType     FileType  `json:"file_type"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Data         []byte    `json:"-"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ExtractionPayload is the raw response shape of the external extraction
// service: twelve optionally-null fields, the full OCR text, and an optional
// base64-encoded annotated image.
type ExtractionPayload struct {
	FirstName    *string `json:"first_name"`
	MiddleName   *string `json:"middle_name"`
	LastName     *string `json:"last_name"`
	Gender       *string `json:"gender"`
	DateOfBirth  *string `json:"date_of_birth"`
	AddressLine1 *string `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PinCode      *string `json:"pin_code"`
	PhoneNumber  *string `json:"phone_number"`
	EmailID      *string `json:"email_id"`
	RawText      string  `json:"raw_text"`
	AnnotatedImg string  `json:"annotated_image,omitempty"`
}

// Field returns the payload value for the given key, with ok reporting
// whether the service supplied a non-null value. The switch is exhaustive
// over AllFieldKeys; an unknown key behaves like a null value.
func (p *ExtractionPayload) Field(key FieldKey) (string, bool) {
	var v *string
	switch key {
	case FieldFirstName:
		v = p.FirstName
	case FieldMiddleName:
		v = p.MiddleName
	case FieldLastName:
		v = p.LastName
	case FieldGender:
		v = p.Gender
	case FieldDateOfBirth:
		v = p.DateOfBirth
	case FieldAddressLine1:
		v = p.AddressLine1
	case FieldAddressLine2:
		v = p.AddressLine2
	case FieldCity:
		v = p.City
	case FieldState:
		v = p.State
	case FieldPinCode:
		v = p.PinCode
	case FieldPhoneNumber:
		v = p.PhoneNumber
	case FieldEmailID:
		v = p.EmailID
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

// VerificationOutcome scores one field against the source document.
type VerificationOutcome struct {
	Field      FieldKey           `json:"field"`
	Status     VerificationStatus `json:"status"`
	Confidence float64            `json:"confidence"`
}

// VerificationReport is an ordered collection of outcomes with at most one
// outcome per field.
type VerificationReport []VerificationOutcome

// Dedupe collapses duplicate outcomes for the same field. The later outcome
// wins; the field keeps its first-seen position.
func (r VerificationReport) Dedupe() VerificationReport {
	if len(r) == 0 {
		return VerificationReport{}
	}
	pos := make(map[FieldKey]int, len(r))
	out := make(VerificationReport, 0, len(r))
	for _, o := range r {
		if i, seen := pos[o.Field]; seen {
			out[i] = o
			continue
		}
		pos[o.Field] = len(out)
		out = append(out, o)
	}
	return out
}

// Outcome returns the outcome for the given field, if present.
func (r VerificationReport) Outcome(key FieldKey) (VerificationOutcome, bool) {
	for _, o := range r {
		if o.Field == key {
			return o, true
		}
	}
	return VerificationOutcome{}, false
}
