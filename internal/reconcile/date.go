package reconcile

import (
	"fmt"
	"strings"

	"scanform/internal/domain"
)

// NormalizeDate canonicalizes a free-form date string into YYYY-MM-DD.
// Two patterns are recognized, tried in order, first match wins:
//
//	YYYY-MM-DD / YYYY/MM/DD  (leading 4-digit year)  -> kept, parts zero-padded
//	DD-MM-YYYY / DD/MM/YYYY  (trailing 4-digit year) -> reordered to YYYY-MM-DD
//
// The separator must be uniformly "-" or "/". Anything unrecognized (mixed
// separators, 2-digit years in both outer positions, non-numeric parts) is
// returned unchanged: normalization is best-effort, never validating, so a
// garbled value stays visible for manual correction instead of being
// discarded. No calendar validity check is performed.
func NormalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	parts, ok := splitDate(raw)
	if !ok {
		return raw
	}

	p1, p2, p3 := parts[0], parts[1], parts[2]
	switch {
	case len(p1) == 4:
		return fmt.Sprintf("%s-%s-%s", p1, pad2(p2), pad2(p3))
	case len(p3) == 4:
		return fmt.Sprintf("%s-%s-%s", p3, pad2(p2), pad2(p1))
	default:
		// Ambiguous year position (e.g. "12-12-12"): pass through.
		return raw
	}
}

// splitDate splits raw into exactly three all-digit parts on a uniform
// "-" or "/" separator.
func splitDate(raw string) ([]string, bool) {
	for _, sep := range []string{"-", "/"} {
		if !strings.Contains(raw, sep) {
			continue
		}
		parts := strings.Split(raw, sep)
		if len(parts) != 3 {
			continue
		}
		if allDigits(parts[0]) && allDigits(parts[1]) && allDigits(parts[2]) {
			return parts, true
		}
	}
	return nil, false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return "0" + s
}

// NormalizeRecordDates applies NormalizeDate to the date field of a record,
// leaving every other field untouched.
func NormalizeRecordDates(record domain.FormRecord) domain.FormRecord {
	record[domain.FieldDateOfBirth] = NormalizeDate(record[domain.FieldDateOfBirth])
	return record
}
