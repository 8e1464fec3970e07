package timex_normaliser

import (
	"fmt"
)

// fallbackRules extract a bare year or decade from anywhere in the
// expression, and a bare part of day.  They run last, before the default.
func fallbackRules() []rule {
	return []rule{
		{
			name:    "year-decade-literal",
			pattern: compile(`(?:^|[^\d])([12]\d{2})0'?s(?:$|[^\d\w])`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(fmt.Sprintf("%03d", atoi(m[1]))), true
			},
		},
		{
			name:    "year-literal",
			pattern: compile(`(?:^|[^\d])([12]\d{3})(?:$|[^\d])`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(m[1]), true
			},
		},
		{
			name:    "part-of-day",
			pattern: compile(`^(?:in\s+|during\s+|at\s+|by\s+)?(?:the\s+)?(?:early\s+|late\s+)?({PART}|nighttime|daytime)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				part := m[1]
				switch part {
				case "nighttime":
					part = "night"
				case "daytime":
					part = "afternoon"
				}
				return partOfDay(c, c.ref.Date(), part), true
			},
		},
	}
}

//Personal.AI order the ending
