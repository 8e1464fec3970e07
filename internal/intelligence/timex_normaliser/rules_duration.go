package timex_normaliser

import (
	"fmt"
	"strings"

	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// durationLead covers the prepositions and range words that may precede a
// counted duration.  Cue words among them are left to the modifier pass.
const durationLead = `^(?:(?:for|over|during|within|in|after|about|around|nearly|almost|approximately|roughly|some|at least|more than|less than|fewer than|up to|under|only|just|another|an additional|additional|the|last|past|next|first|previous|coming|following|entire|whole|full|period of|span of|course of|of)\s+)*`

// durationRules resolve spans of time to ISO-8601 durations.  Vague counts
// default to 3 ("several days" is P3D), clinical text reads "few" as 2, and
// unspecified counts ("many years") render with an X.
func durationRules() []rule {
	return []rule{
		{
			name:    "duration-half-unit",
			pattern: compile(durationLead + `(?:a\s+|one\s+)?half(?:[\s-]+an?)?[\s-]+(hour|day|year|minute)$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				switch m[1] {
				case "hour":
					return duration("PT30M"), true
				case "day":
					return duration("PT12H"), true
				case "year":
					return duration("P6M"), true
				}
				return duration("PT30S"), true
			},
		},
		{
			name:    "duration-and-a-half",
			pattern: compile(durationLead + `(?:({COUNT})\s+)?(?:and\s+a\s+half\s+({UNIT})|({UNIT})\s+and\s+a\s+half)$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := 1, true
				if m[1] != "" {
					n, ok = parseCount(m[1])
				}
				if !ok {
					return outcome{}, false
				}
				unit := m[2]
				if unit == "" {
					unit = m[3]
				}
				return halfDuration(n, canonicalUnit(unit))
			},
		},
		{
			name:    "duration-overnight",
			pattern: compile(`^overnight$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return duration("PT12H"), true
			},
		},
		{
			name:    "duration-compound",
			pattern: compile(durationLead + `({COUNT})[\s-]+({UNIT}),?\s+(?:and\s+)?({COUNT})[\s-]+({UNIT})$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n1, ok1 := parseCount(m[1])
				n2, ok2 := parseCount(m[3])
				if !ok1 || !ok2 {
					return outcome{}, false
				}
				return compoundDuration(n1, canonicalUnit(m[2]), n2, canonicalUnit(m[4]))
			},
		},
		{
			name:    "duration-vague",
			pattern: compile(durationLead + `(?:a\s+)?(couple(?:\s+of)?|few|several|many|some|number\s+of|matter\s+of|handful\s+of)\s+(?:more\s+|additional\s+|long\s+)?({UNIT})$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				unit := canonicalUnit(m[2])
				quantifier := strings.Fields(m[1])[0]
				switch quantifier {
				case "couple":
					return duration(durationValue(2, unit)), true
				case "few":
					if c.clinical() {
						return duration(durationValue(2, unit)).withMod(timex.ModApprox), true
					}
					return duration(durationValue(3, unit)).withMod(timex.ModApprox), true
				case "several":
					return duration(durationValue(3, unit)).withMod(timex.ModApprox), true
				}
				return duration(vagueDurationValue(unit)), true
			},
		},
		{
			name:    "duration-recent",
			pattern: compile(`^(?:in\s+|over\s+|during\s+)?(?:the\s+)?recent\s+({UNIT})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return duration(vagueDurationValue(canonicalUnit(m[1]))).withMod(timex.ModApprox), true
			},
		},
		{
			name:    "duration-numeric",
			pattern: compile(durationLead + `({COUNT})[\s-]+({UNIT})(?:[\s-]+(?:long|old|period|span|stretch|time|run|window))?$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := parseCount(m[1])
				if !ok {
					return outcome{}, false
				}
				v := durationValue(n, canonicalUnit(m[2]))
				if v == "" {
					return outcome{}, false
				}
				return duration(v), true
			},
		},
		{
			name:    "duration-bare-unit",
			pattern: compile(`^(?:for|over|in|during|within)?\s*(?:the\s+)?(?:last|past|next|coming)?\s*({UNIT})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				unit := canonicalUnit(m[1])
				if !strings.HasSuffix(m[1], "s") {
					return outcome{}, false
				}
				return duration(vagueDurationValue(unit)), true
			},
		},
	}
}

// halfDuration renders n and a half units by stepping down to the next
// smaller unit.
func halfDuration(n int, unit string) (outcome, bool) {
	switch unit {
	case "year":
		return duration(fmt.Sprintf("P%dM", 12*n+6)), true
	case "month":
		return duration(fmt.Sprintf("P%dD", 30*n+15)), true
	case "week":
		return duration(fmt.Sprintf("PT%dH", 168*n+84)), true
	case "day":
		return duration(fmt.Sprintf("PT%dH", 24*n+12)), true
	case "hour":
		return duration(fmt.Sprintf("PT%dM", 60*n+30)), true
	case "minute":
		return duration(fmt.Sprintf("PT%dS", 60*n+30)), true
	case "decade":
		return duration(fmt.Sprintf("P%dY", 10*n+5)), true
	case "century":
		return duration(fmt.Sprintf("P%dY", 100*n+50)), true
	}
	return outcome{}, false
}

var designators = map[string]string{
	"year": "Y", "month": "M", "week": "W", "day": "D",
	"hour": "H", "minute": "M", "second": "S",
}

// unitRank orders units from largest to smallest.
var unitRank = map[string]int{
	"year": 0, "month": 1, "week": 2, "day": 3, "hour": 4, "minute": 5, "second": 6,
}

// compoundDuration renders two counted units as one duration, larger unit
// first, with the T separator before the first clock unit.
func compoundDuration(n1 int, u1 string, n2 int, u2 string) (outcome, bool) {
	r1, ok1 := unitRank[u1]
	r2, ok2 := unitRank[u2]
	if !ok1 || !ok2 || r1 == r2 {
		return outcome{}, false
	}
	if r1 > r2 {
		n1, u1, n2, u2 = n2, u2, n1, u1
	}
	var sb strings.Builder
	sb.WriteString("P")
	inTime := false
	for _, part := range []struct {
		n    int
		unit string
	}{{n1, u1}, {n2, u2}} {
		if isTimeUnit(part.unit) && !inTime {
			sb.WriteString("T")
			inTime = true
		}
		fmt.Fprintf(&sb, "%d%s", part.n, designators[part.unit])
	}
	return duration(sb.String()), true
}

//Personal.AI order the ending
