package timex_normaliser

import (
	"fmt"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
)

const quarterOrdinal = `(first|second|third|fourth|final|1st|2nd|3rd|4th)`

var quarterOrdinals = map[string]int{
	"first": 1, "1st": 1,
	"second": 2, "2nd": 2,
	"third": 3, "3rd": 3,
	"fourth": 4, "4th": 4, "final": 4,
}

// quarterRules resolve fiscal and calendar quarters to YYYY-Qn.  Quarter
// arithmetic rolls Q4+1 into Q1 of the next year and Q1-1 into Q4 of the
// previous one.
func quarterRules() []rule {
	return []rule{
		{
			name:    "quarter-possessive-year",
			pattern: compile(`^(this|last|next|previous|the previous|following|the following|current|the current)\s+year's\s+` + quarterOrdinal + `(?:[\s-]+(?:fiscal|calendar))?\s+quarter$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(common.FormatQuarter(c.ref.Year+relativeStep(m[1]), quarterOrdinals[m[2]])), true
			},
		},
		{
			name:    "quarter-ordinal",
			pattern: compile(`^` + quarterOrdinal + `(?:[\s-]+(?:fiscal|calendar))?[\s-]+quarter(?:\s+(?:of|in|for))?(?:\s+(?:the\s+)?(?:(this|last|next|previous|current|following)\s+)?(?:fiscal\s+|calendar\s+)?(?:year|(\d{4}|'\d{2})))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				year := c.ref.Year + relativeStep(m[2])
				if m[3] != "" {
					year = parseYear(m[3])
				}
				return date(common.FormatQuarter(year, quarterOrdinals[m[1]])), true
			},
		},
		{
			name:    "quarter-code",
			pattern: compile(`^(?:(?:fiscal|fy)\s*)?q([1-4])(?:[\s-]*(?:of\s+)?(?:fiscal\s+|fy\s*)?(\d{4}|'?\d{2}))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				year := c.ref.Year
				if m[2] != "" {
					year = quarterYear(m[2])
				}
				return date(common.FormatQuarter(year, atoi(m[1]))), true
			},
		},
		{
			name:    "quarter-year-code",
			pattern: compile(`^(?:fy\s*)?(\d{4})[\s-]*q([1-4])$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(common.FormatQuarter(atoi(m[1]), atoi(m[2]))), true
			},
		},
		{
			name:    "quarter-year-ago",
			pattern: compile(`^(?:year[\s-]ago|year[\s-]earlier|prior[\s-]year|last[\s-]year's|year[\s-]before)(?:'s)?\s+(?:same\s+)?(?:quarter|period)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				y, q := common.ShiftQuarter(c.ref.Year, c.ref.Quarter(), -4)
				return date(common.FormatQuarter(y, q)), true
			},
		},
		{
			name:    "quarter-relative",
			pattern: compile(`^(last|past|previous|prior|latest|recent|most recent|this|current|same|next|coming|following)\s+(?:fiscal\s+|calendar\s+)?(?:quarter|period)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				y, q := common.ShiftQuarter(c.ref.Year, c.ref.Quarter(), relativeStep(m[1]))
				return date(common.FormatQuarter(y, q)), true
			},
		},
		{
			name:    "quarter-bare",
			pattern: compile(`^(?:quarter|period|fiscal quarter)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(common.FormatQuarter(c.ref.Year, c.ref.Quarter())), true
			},
		},
		{
			name:    "quarter-count",
			pattern: compile(`^(?:(?:last|past|previous|next|coming|first|following)\s+)?({COUNT})\s+(?:consecutive\s+|straight\s+|fiscal\s+)?quarters?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := parseCount(m[1])
				if !ok || n < 1 {
					return outcome{}, false
				}
				return duration(fmt.Sprintf("P%dQ", n)), true
			},
		},
	}
}

// quarterYear reads the year of a quarter code, accepting "2011", "'11"
// and "11".
func quarterYear(s string) int {
	if len(s) == 4 {
		return atoi(s)
	}
	if s[0] == '\'' {
		s = s[1:]
	}
	return common.PivotTwoDigitYear(atoi(s))
}

//Personal.AI order the ending
