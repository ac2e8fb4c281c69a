package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scanform/internal/domain"
)

func TestNormalizeDate_DayFirst(t *testing.T) {
	assert.Equal(t, "2020-03-15", NormalizeDate("15-03-2020"))
	assert.Equal(t, "1990-01-31", NormalizeDate("31-01-1990"))
	assert.Equal(t, "1990-01-31", NormalizeDate("31/01/1990"))
}

func TestNormalizeDate_YearFirst(t *testing.T) {
	assert.Equal(t, "2020-03-15", NormalizeDate("2020-03-15"))
	assert.Equal(t, "2020-03-15", NormalizeDate("2020/03/15"))
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	once := NormalizeDate("15-03-2020")
	assert.Equal(t, once, NormalizeDate(once))
}

func TestNormalizeDate_ZeroPadding(t *testing.T) {
	assert.Equal(t, "2020-03-05", NormalizeDate("2020-3-5"))
	assert.Equal(t, "2020-03-05", NormalizeDate("5/3/2020"))
}

func TestNormalizeDate_EmptyInput(t *testing.T) {
	assert.Equal(t, "", NormalizeDate(""))
}

func TestNormalizeDate_PassThrough(t *testing.T) {
	cases := []string{
		"not-a-date",
		"15.03.2020",    // unsupported separator
		"12-12-12",      // no 4-digit year in either outer position
		"15-03",         // too few parts
		"15-03-20-20",   // too many parts
		"2020-03/15",    // mixed separators
		"March 15 2020", // prose
	}
	for _, in := range cases {
		assert.Equal(t, in, NormalizeDate(in), "input %q", in)
	}
}

func TestNormalizeDate_NoCalendarValidation(t *testing.T) {
	// Day 31 in a 30-day month is accepted as-is.
	assert.Equal(t, "2020-04-31", NormalizeDate("31-04-2020"))
}

func TestNormalizeRecordDates_OnlyDateFieldTouched(t *testing.T) {
	record := domain.EmptyRecord()
	record[domain.FieldDateOfBirth] = "31-01-1990"
	record[domain.FieldPinCode] = "11-11-1111"

	record = NormalizeRecordDates(record)

	assert.Equal(t, "1990-01-31", record[domain.FieldDateOfBirth])
	assert.Equal(t, "11-11-1111", record[domain.FieldPinCode])
}
