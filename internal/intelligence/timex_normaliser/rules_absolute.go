package timex_normaliser

import (
	"fmt"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
)

// absoluteRules resolve numeric date and time literals.  They ignore the
// reference date except to supply a missing year.
func absoluteRules() []rule {
	return []rule{
		{
			name:    "yyyymmdd",
			pattern: compile(`^(\d{4})(\d{2})(\d{2})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return literalDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
			},
		},
		{
			name:    "iso-datetime",
			pattern: compile(`^(\d{4})-(\d{2})-(\d{2})(?:t|\s+)(\d{1,2}):(\d{2})(?::(\d{2}))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return literalDateTime(atoi(m[1]), atoi(m[2]), atoi(m[3]), m[4], m[5], m[6])
			},
		},
		{
			name:    "iso-date",
			pattern: compile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return literalDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
			},
		},
		{
			name:    "slash-datetime",
			pattern: compile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})\s+(\d{1,2}):(\d{2})(?::(\d{2}))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, day := byMagnitude(atoi(m[1]), atoi(m[2]))
				return literalDateTime(atoi(m[3]), month, day, m[4], m[5], m[6])
			},
		},
		{
			name:    "slash-date",
			pattern: compile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, day := byMagnitude(atoi(m[1]), atoi(m[2]))
				return literalDate(atoi(m[3]), month, day)
			},
		},
		{
			name:    "slash-date-short-year",
			pattern: compile(`^(\d{1,2})/(\d{1,2})/'?(\d{2})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, day := byMagnitude(atoi(m[1]), atoi(m[2]))
				return literalDate(common.PivotTwoDigitYear(atoi(m[3])), month, day)
			},
		},
		{
			name:    "month-slash-year",
			pattern: compile(`^(\d{1,2})/(\d{4})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month := atoi(m[1])
				if month < 1 || month > 12 {
					return outcome{}, false
				}
				return date(common.FormatMonth(atoi(m[2]), month)), true
			},
		},
		{
			name:    "year-month",
			pattern: compile(`^(\d{4})-(\d{2})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month := atoi(m[2])
				if month < 1 || month > 12 {
					return outcome{}, false
				}
				return date(common.FormatMonth(atoi(m[1]), month)), true
			},
		},
		{
			name:    "slash-month-day",
			pattern: compile(`^(\d{1,2})/(\d{1,2})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, day := byMagnitude(atoi(m[1]), atoi(m[2]))
				return literalDate(c.ref.Year, month, day)
			},
		},
	}
}

// byMagnitude orders an ambiguous pair of numerals: when the first exceeds
// 12 it can only be a day, otherwise the month comes first.
func byMagnitude(first, second int) (month, day int) {
	if first > 12 {
		return second, first
	}
	return first, second
}

func literalDate(year, month, day int) (outcome, bool) {
	if !common.IsValidDate(day, month, year) {
		return outcome{}, false
	}
	return date(common.FormatDate(year, month, day)), true
}

func literalDateTime(year, month, day int, hh, mm, ss string) (outcome, bool) {
	if !common.IsValidDate(day, month, year) {
		return outcome{}, false
	}
	hour, minute := atoi(hh), atoi(mm)
	if !validClock(hour, minute, atoi(ss)) {
		return outcome{}, false
	}
	value := fmt.Sprintf("%sT%02d:%02d", common.FormatDate(year, month, day), hour, minute)
	if ss != "" {
		value += ":" + ss
	}
	return clock(value), true
}

//Personal.AI order the ending
