package timex_normaliser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
)

const (
	dayOfMonth   = `(\d{1,2}(?:st|nd|rd|th)?|{ORD})`
	yearFragment = `(\d{4}|'\d{2})`
	weekdayLead  = `(?:{WD}\.?,?\s+)?`
	monthPrefix  = `(?:(?:early|mid|late|the end of|end of|the beginning of|beginning of|the middle of|middle of)[\s-]+)?`
	seasonPrefix = `(?:(this|last|next|past|coming|previous|following)\s+)?(?:(?:early|mid|late)[\s-]+)?`
)

// monthRules resolve expressions anchored on a named month, season or
// half-year, with or without an explicit year.
func monthRules() []rule {
	return []rule{
		{
			name:    "month-relative-year",
			pattern: compile(`^` + monthPrefix + `({MONTH})\s+(?:of\s+)?(this|last|next|previous|following|current|the previous|the following|the current|the same)\s+year$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, ok := common.MonthIndex(m[1])
				if !ok {
					return outcome{}, false
				}
				return date(common.FormatMonth(c.ref.Year+relativeStep(m[2]), month)), true
			},
		},
		{
			name:    "month-relative",
			pattern: compile(`^(last|past|previous|this|next|coming|following)\s+({MONTH})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, ok := common.MonthIndex(m[2])
				if !ok {
					return outcome{}, false
				}
				year := c.ref.Year
				switch relativeStep(m[1]) {
				case -1:
					if month >= c.ref.Month {
						year--
					}
				case 1:
					if month <= c.ref.Month {
						year++
					}
				}
				return date(common.FormatMonth(year, month)), true
			},
		},
		{
			name:    "month-day-year",
			pattern: compile(`^` + weekdayLead + `({MONTH})\s+(?:the\s+)?` + dayOfMonth + `,?\s+(?:of\s+)?` + yearFragment + `$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return namedDate(m[1], m[2], parseYear(m[3]))
			},
		},
		{
			name:    "day-month-year",
			pattern: compile(`^` + weekdayLead + `(?:the\s+)?` + dayOfMonth + `\s+(?:of\s+)?({MONTH}),?\s+` + yearFragment + `$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return namedDate(m[2], m[1], parseYear(m[3]))
			},
		},
		{
			name:    "month-day",
			pattern: compile(`^` + weekdayLead + `({MONTH})\s+(?:the\s+)?` + dayOfMonth + `$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return namedDate(m[1], m[2], c.ref.Year)
			},
		},
		{
			name:    "day-month",
			pattern: compile(`^` + weekdayLead + `(?:the\s+)?` + dayOfMonth + `\s+(?:of\s+)?({MONTH})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return namedDate(m[2], m[1], c.ref.Year)
			},
		},
		{
			name:    "month-year",
			pattern: compile(`^` + monthPrefix + `(?:in\s+)?({MONTH}),?\s+(?:of\s+)?` + yearFragment + `$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, ok := common.MonthIndex(m[1])
				if !ok {
					return outcome{}, false
				}
				return date(common.FormatMonth(parseYear(m[2]), month)), true
			},
		},
		{
			name:    "month-only",
			pattern: compile(`^` + monthPrefix + `(?:in\s+|during\s+|since\s+|until\s+|by\s+)?({MONTH})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, ok := common.MonthIndex(m[1])
				if !ok {
					return outcome{}, false
				}
				return date(common.FormatMonth(c.ref.Year, month)), true
			},
		},
		{
			name:    "season",
			pattern: compile(`^` + seasonPrefix + `(spring|summer|fall|autumn|winter)(?:\s+(?:of\s+)?` + yearFragment + `)?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				code, ok := common.SeasonCode(m[2])
				if !ok {
					return outcome{}, false
				}
				if m[3] != "" {
					return date(fmt.Sprintf("%04d-%s", parseYear(m[3]), code)), true
				}
				year := c.ref.Year
				target, current := seasonIndex(code), seasonIndex(common.SeasonOfMonth(c.ref.Month))
				switch relativeStep(m[1]) {
				case -1:
					if target >= current {
						year--
					}
				case 1:
					if target <= current {
						year++
					}
				}
				return date(fmt.Sprintf("%04d-%s", year, code)), true
			},
		},
		{
			name:    "half-year",
			pattern: compile(`^(first|second|1st|2nd|latter|back|front)\s+half(?:\s+of)?(?:\s+(?:the\s+)?(?:(this|last|next|previous|current)\s+)?(?:year|fiscal year|` + yearFragment + `))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				half := 1
				switch m[1] {
				case "second", "2nd", "latter", "back":
					half = 2
				}
				year := c.ref.Year + relativeStep(m[2])
				if m[3] != "" {
					year = parseYear(m[3])
				}
				return date(fmt.Sprintf("%04d-H%d", year, half)), true
			},
		},
	}
}

// namedDate combines a month name, a day-of-month capture and a year.
func namedDate(monthName, dayText string, year int) (outcome, bool) {
	month, ok := common.MonthIndex(monthName)
	if !ok {
		return outcome{}, false
	}
	day, ok := parseDayOfMonth(dayText)
	if !ok {
		return outcome{}, false
	}
	return literalDate(year, month, day)
}

func parseDayOfMonth(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	return common.ParseOrdinal(s)
}

// parseYear reads a four-digit year or an apostrophe two-digit year.
func parseYear(s string) int {
	if strings.HasPrefix(s, "'") {
		return common.PivotTwoDigitYear(atoi(s[1:]))
	}
	return atoi(s)
}

func seasonIndex(code string) int {
	switch code {
	case "SP":
		return 0
	case "SU":
		return 1
	case "FA":
		return 2
	}
	return 3
}

//Personal.AI order the ending
