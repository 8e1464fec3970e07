package timex_normaliser

import (
	"fmt"
	"strings"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
)

var frequencyAdverbs = map[string]string{
	"daily":       "RP1D",
	"nightly":     "RP1D",
	"weekly":      "RP1W",
	"biweekly":    "RP2W",
	"fortnightly": "RP2W",
	"monthly":     "RP1M",
	"bimonthly":   "RP2M",
	"quarterly":   "RP3M",
	"yearly":      "RP1Y",
	"annually":    "RP1Y",
	"annual":      "RP1Y",
	"hourly":      "RPT1H",
}

// frequencyRules resolve generic recurrences to RPn... values.
func frequencyRules() []rule {
	return []rule{
		{
			name:    "frequency-adverb",
			pattern: compile(`^(?:once\s+|on\s+an?\s+)?(daily|nightly|weekly|biweekly|fortnightly|monthly|bimonthly|quarterly|yearly|annually|annual|hourly)(?:\s+basis)?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return frequency(frequencyAdverbs[m[1]]), true
			},
		},
		{
			name:    "frequency-every",
			pattern: compile(`^(?:once\s+)?(?:every|each|per|once\s+a|once\s+an)\s+(?:(other|{NUM})\s+)?({UNIT})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n := 1
				switch {
				case m[1] == "other":
					n = 2
				case m[1] != "":
					v, ok := common.ParseCardinal(m[1])
					if !ok || v < 1 {
						return outcome{}, false
					}
					n = v
				}
				v := durationValue(n, canonicalUnit(m[2]))
				if v == "" {
					return outcome{}, false
				}
				return frequency("R" + v), true
			},
		},
		{
			name:    "frequency-times",
			pattern: compile(`^(once|twice|thrice|{NUM}\s+times|{NUM}x)\s+(?:a|an|per|every|each|/)?\s*(day|week|month|year|hour|daily|weekly|monthly|yearly|hourly)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := timesCount(m[1])
				if !ok {
					return outcome{}, false
				}
				unit, ok := adverbUnits[m[2]]
				if !ok {
					unit = m[2]
				}
				return frequency(timesPer(n, unit)), true
			},
		},
		{
			name:    "frequency-weekday",
			pattern: compile(`^(?:(?:every|each|on)\s+)({WD})s?$|^({WD})s$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				name := m[1]
				if name == "" {
					name = m[2]
				}
				idx, ok := common.WeekdayIndex(name)
				if !ok {
					return outcome{}, false
				}
				iso := idx
				if iso == 0 {
					iso = 7
				}
				return frequency(fmt.Sprintf("XXXX-WXX-%d", iso)), true
			},
		},
	}
}

var adverbUnits = map[string]string{
	"daily": "day", "weekly": "week", "monthly": "month", "yearly": "year", "hourly": "hour",
}

func timesCount(s string) (int, bool) {
	switch s {
	case "once":
		return 1, true
	case "twice":
		return 2, true
	case "thrice":
		return 3, true
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, " times"), "x")
	n, ok := common.ParseCardinal(s)
	return n, ok && n > 0
}

// timesPer renders n occurrences per unit.  When the unit divides evenly
// into a smaller unit the interval form is used ("three times a day" is
// RPT8H); otherwise the count is carried explicitly (R5P1W).
func timesPer(n int, unit string) string {
	if n == 1 {
		return "R" + durationValue(1, unit)
	}
	switch unit {
	case "day":
		if 24%n == 0 {
			return fmt.Sprintf("RPT%dH", 24/n)
		}
	case "hour":
		if 60%n == 0 {
			return fmt.Sprintf("RPT%dM", 60/n)
		}
	case "week":
		if n == 7 {
			return "RP1D"
		}
	case "year":
		if 12%n == 0 {
			return fmt.Sprintf("RP%dM", 12/n)
		}
	}
	return fmt.Sprintf("R%d%s", n, durationValue(1, unit))
}

//Personal.AI order the ending
