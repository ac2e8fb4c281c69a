package reconcile

import (
	"strings"

	"scanform/internal/domain"
)

// Sanitize coerces a partial, possibly-null extraction payload into a
// complete FormRecord. Every FieldKey is present in the output; a null or
// omitted value becomes the empty string. The email field additionally has
// all whitespace removed, since OCR output tends to split addresses with
// spurious spaces. Sanitize is total: it never fails, whatever shape the
// external service returned.
func Sanitize(payload *domain.ExtractionPayload) domain.FormRecord {
	record := domain.EmptyRecord()
	if payload == nil {
		return record
	}
	for _, key := range domain.AllFieldKeys {
		v, ok := payload.Field(key)
		if !ok {
			continue
		}
		if key == domain.FieldEmailID {
			v = stripWhitespace(v)
		}
		record[key] = v
	}
	return record
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
