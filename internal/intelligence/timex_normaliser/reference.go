package timex_normaliser

import (
	"fmt"
	"strconv"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/pkg/errors"
)

// ReferenceDate is the document creation time relative expressions resolve
// against.  It is immutable for the duration of one normalisation.
type ReferenceDate struct {
	Year    int
	Month   int
	Day     int
	HasTime bool
	Hour    int
	Minute  int
	Second  int
}

// ParseReferenceDate accepts "YYYYMMDD" or "YYYYMMDDThhmmss".  Anything else
// is rejected with ErrCodeInvalidReferenceDate; there is no fallback to the
// system clock.
func ParseReferenceDate(s string) (ReferenceDate, error) {
	var ref ReferenceDate
	switch len(s) {
	case 8:
	case 15:
		if s[8] != 'T' && s[8] != 't' {
			return ref, invalidReference(s, "expected 'T' separator at position 9")
		}
	default:
		return ref, invalidReference(s, fmt.Sprintf("expected 8 or 15 characters, got %d", len(s)))
	}

	digits := s[:8]
	if len(s) == 15 {
		digits += s[9:]
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ref, invalidReference(s, "non-digit character")
		}
	}

	ref.Year, _ = strconv.Atoi(s[0:4])
	ref.Month, _ = strconv.Atoi(s[4:6])
	ref.Day, _ = strconv.Atoi(s[6:8])
	if !common.IsValidDate(ref.Day, ref.Month, ref.Year) {
		return ReferenceDate{}, invalidReference(s, "not a calendar date")
	}

	if len(s) == 15 {
		ref.HasTime = true
		ref.Hour, _ = strconv.Atoi(s[9:11])
		ref.Minute, _ = strconv.Atoi(s[11:13])
		ref.Second, _ = strconv.Atoi(s[13:15])
		if ref.Hour > 23 || ref.Minute > 59 || ref.Second > 59 {
			return ReferenceDate{}, invalidReference(s, "time of day out of range")
		}
	}
	return ref, nil
}

// MustParseReferenceDate is ParseReferenceDate for literals known to be valid.
func MustParseReferenceDate(s string) ReferenceDate {
	ref, err := ParseReferenceDate(s)
	if err != nil {
		panic(err)
	}
	return ref
}

func invalidReference(raw, reason string) error {
	return errors.New(errors.ErrCodeInvalidReferenceDate, "invalid reference date").
		WithDetail(fmt.Sprintf("%q: %s", raw, reason))
}

// IsInvalidReferenceDate reports whether err was caused by a malformed
// reference date.
func IsInvalidReferenceDate(err error) bool {
	return errors.IsCode(err, errors.ErrCodeInvalidReferenceDate)
}

// referenceFromDate builds a date-only reference.
func referenceFromDate(year, month, day int) ReferenceDate {
	return ReferenceDate{Year: year, Month: month, Day: day}
}

// String renders the reference in its input form.
func (r ReferenceDate) String() string {
	if r.HasTime {
		return fmt.Sprintf("%04d%02d%02dT%02d%02d%02d", r.Year, r.Month, r.Day, r.Hour, r.Minute, r.Second)
	}
	return fmt.Sprintf("%04d%02d%02d", r.Year, r.Month, r.Day)
}

// Date renders YYYY-MM-DD.
func (r ReferenceDate) Date() string {
	return common.FormatDate(r.Year, r.Month, r.Day)
}

// Shift returns the date delta days away as YYYY-MM-DD.
func (r ReferenceDate) Shift(delta int) string {
	y, m, d := common.AddDays(r.Day, r.Month, r.Year, delta)
	return common.FormatDate(y, m, d)
}

// Weekday returns 0 (Sunday) .. 6 (Saturday).
func (r ReferenceDate) Weekday() int {
	return common.DayOfWeek(r.Day, r.Month, r.Year)
}

// Week returns the seven-day bucket week of the year.
func (r ReferenceDate) Week() int {
	return common.WeekOfYearYMD(r.Year, r.Month, r.Day)
}

// Quarter returns 1..4.
func (r ReferenceDate) Quarter() int {
	return common.QuarterOfMonth(r.Month)
}

//Personal.AI order the ending
