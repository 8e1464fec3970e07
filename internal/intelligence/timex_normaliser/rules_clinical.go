package timex_normaliser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
)

// ---------------------------------------------------------------------------
// Clinical jargon
// ---------------------------------------------------------------------------

const (
	routeLead      = `^(?:(?:po|p\.o\.|iv|i\.v\.|im|i\.m\.|sq|sc|s\.c\.|sl|pr|inh|top|neb)\s+)?`
	prnTail        = `(?:\s+(?:prn|p\.r\.n\.|as needed))?$`
	ordinalOrDigit = `({ORD}|\d{1,2}(?:st|nd|rd|th))`
	dayNumber      = `#?\s*(\d{1,3}|{NUM})`
)

// latinCodes maps dotless dosing abbreviations to their recurrence.
var latinCodes = map[string]string{
	"qd":    "RP1D",
	"qday":  "RP1D",
	"qam":   "RP1D",
	"qpm":   "RP1D",
	"qhs":   "RP1D",
	"hs":    "RP1D",
	"qnoon": "RP1D",
	"bid":   "RPT12H",
	"tid":   "RPT8H",
	"qid":   "RPT6H",
	"qod":   "RP2D",
	"qw":    "RP1W",
	"qwk":   "RP1W",
	"qmo":   "RP1M",
	"qh":    "RPT1H",
}

// dotted builds a pattern for an abbreviation written with or without
// periods between its letters ("q.i.d.", "qid", "q i d").
func dotted(code string) string {
	var sb strings.Builder
	for i, r := range code {
		if i > 0 {
			sb.WriteString(`\.?\s?`)
		}
		sb.WriteString(regexp.QuoteMeta(string(r)))
	}
	sb.WriteString(`\.?`)
	return sb.String()
}

func latinAlternation() string {
	codes := make([]string, 0, len(latinCodes))
	for code := range latinCodes {
		codes = append(codes, code)
	}
	// Longest first so "qhs" is tried before "qh".
	sort.Slice(codes, func(i, j int) bool {
		if len(codes[i]) != len(codes[j]) {
			return len(codes[i]) > len(codes[j])
		}
		return codes[i] < codes[j]
	})
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = dotted(code)
	}
	return `(` + strings.Join(parts, "|") + `)`
}

func undot(s string) string {
	return strings.NewReplacer(".", "", " ", "").Replace(s)
}

// clinicalRules are inserted between the shared tiers and the generic
// frequency and fallback rules.
func clinicalRules() []rule {
	return []rule{
		{
			name:    "clinical-frequency-code",
			pattern: compile(routeLead + latinAlternation() + prnTail),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				v, ok := latinCodes[undot(m[1])]
				if !ok {
					return outcome{}, false
				}
				return frequency(v), true
			},
		},
		{
			name:    "clinical-frequency-interval",
			pattern: compile(routeLead + `q\.?\s*(\d{1,2})(?:\s*(?:-|to)\s*(\d{1,2}))?\s*(h|hr|hrs|hours?|d|days?|wk|wks|weeks?|min|mins|minutes?|mo|mos|months?)\.?` + prnTail),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n := atoi(m[1])
				if n < 1 {
					return outcome{}, false
				}
				v := durationValue(n, canonicalUnit(m[3]))
				if v == "" {
					return outcome{}, false
				}
				return frequency("R" + v), true
			},
		},
		{
			name:    "clinical-as-needed",
			pattern: compile(`^(?:prn|p\.r\.n\.|as needed|as required|when needed|if needed|ad lib|ad libitum|on demand)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return frequency("R"), true
			},
		},
		{
			name:    "clinical-stat",
			pattern: compile(`^(?:stat|statim)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return frequency("R1"), true
			},
		},
		{
			name:    "clinical-course-count",
			pattern: compile(`^(?:x|×|times|for\s+a\s+total\s+of|total\s+of)\s*({COUNT})\s*({UNIT}|d|w|h)\.?$`),
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
			name:    "clinical-hospital-course",
			pattern: compile(`^(?:during\s+|over\s+|throughout\s+)?(?:the\s+|her\s+|his\s+|their\s+)?(?:hospital|hospitalization|inpatient|icu|postoperative|post-?op)?\s*(?:course|stay)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return duration("PXD"), true
			},
		},
		{
			name:    "clinical-postop-day",
			pattern: compile(`^(?:pod|post[\s-]?op(?:erative)?\s+day)\s*` + dayNumber + `$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := clinicalDayNumber(m[1])
				if !ok {
					return outcome{}, false
				}
				return offsetFromReference(c, n, "day")
			},
		},
		{
			name:    "clinical-postop-ordinal",
			pattern: compile(`^` + ordinalOrDigit + `\s+(?:post[\s-]?op(?:erative)?|postop)\s+day$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := common.ParseOrdinal(m[1])
				if !ok {
					return outcome{}, false
				}
				return offsetFromReference(c, n, "day")
			},
		},
		{
			name:    "clinical-hospital-ordinal",
			pattern: compile(`^` + ordinalOrDigit + `\s+(?:hospital|hospitalization|inpatient)\s+day$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := common.ParseOrdinal(m[1])
				if !ok || n < 1 {
					return outcome{}, false
				}
				return offsetFromReference(c, n-1, "day")
			},
		},
		{
			name:    "clinical-day-of-life",
			pattern: compile(`^(?:day\s+of\s+life|dol|hospital\s+day|hd)\s*` + dayNumber + `$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := clinicalDayNumber(m[1])
				if !ok || n < 1 {
					return outcome{}, false
				}
				return offsetFromReference(c, n-1, "day")
			},
		},
		{
			name:    "clinical-day-of-stay",
			pattern: compile(`^day\s+` + dayNumber + `\s+of\s+(?:life|hospitalization|admission|stay)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := clinicalDayNumber(m[1])
				if !ok || n < 1 {
					return outcome{}, false
				}
				return offsetFromReference(c, n-1, "day")
			},
		},
		{
			name:    "clinical-event-anchor",
			pattern: compile(`^(?:(?:on|at|upon|since|after|before|prior to|following|until|by)\s+)?(?:the\s+)?(?:(?:day|date|time)\s+of\s+)?(?:(?:her|his|their|this)\s+)?(admission|admit|discharge|transfer|surgery|operation|procedure|presentation)(?:\s+(?:day|date))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(c.ref.Date()), true
			},
		},
		{
			name:    "clinical-festivity",
			pattern: compile(`^(?:(next|this|last|past|previous|coming)\s+)?(` + festivityAlternation() + `)(?:'s)?(?:\s+(?:day\s+)?(?:of\s+)?(\d{4}))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return festivityDate(c, m[1], m[2], m[3])
			},
		},
	}
}

func clinicalDayNumber(s string) (int, bool) {
	return parseCount(strings.TrimSpace(s))
}

// ---------------------------------------------------------------------------
// Festivities
// ---------------------------------------------------------------------------

type festivity struct {
	pattern *regexp.Regexp
	// resolve returns the month and day of the festivity in year.
	resolve func(year int) (int, int)
}

func fixedDay(month, day int) func(int) (int, int) {
	return func(int) (int, int) { return month, day }
}

func nthWeekday(month, weekday, n int) func(int) (int, int) {
	return func(year int) (int, int) {
		return month, common.NthWeekdayOfMonth(year, month, weekday, n)
	}
}

func lastWeekday(month, weekday int) func(int) (int, int) {
	return func(year int) (int, int) {
		return month, common.LastWeekdayOfMonth(year, month, weekday)
	}
}

var festivityNames = []string{
	`thanksgiving(?:\s+day)?`,
	`new\s+year'?s\s+eve`,
	`new\s+year'?s(?:\s+day)?|new\s+year`,
	`christmas\s+eve`,
	`christmas(?:\s+day)?|xmas`,
	`labou?r\s+day`,
	`columbus\s+day`,
	`(?:martin\s+luther\s+king(?:\s+jr\.?)?|mlk)(?:\s+jr\.?)?(?:\s+day)?`,
	`memorial\s+day`,
	`independence\s+day|fourth\s+of\s+july|july\s+4th`,
	`valentine'?s(?:\s+day)?`,
	`halloween`,
	`veterans'?\s+day`,
	`presidents'?\s+day`,
}

var festivities = []festivity{
	{regexp.MustCompile(`^` + festivityNames[0] + `$`), nthWeekday(11, 4, 4)},
	{regexp.MustCompile(`^` + festivityNames[1] + `$`), fixedDay(12, 31)},
	{regexp.MustCompile(`^(?:` + festivityNames[2] + `)$`), fixedDay(1, 1)},
	{regexp.MustCompile(`^` + festivityNames[3] + `$`), fixedDay(12, 24)},
	{regexp.MustCompile(`^(?:` + festivityNames[4] + `)$`), fixedDay(12, 25)},
	{regexp.MustCompile(`^` + festivityNames[5] + `$`), nthWeekday(9, 1, 1)},
	{regexp.MustCompile(`^` + festivityNames[6] + `$`), nthWeekday(10, 1, 2)},
	{regexp.MustCompile(`^` + festivityNames[7] + `$`), nthWeekday(1, 1, 3)},
	{regexp.MustCompile(`^` + festivityNames[8] + `$`), lastWeekday(5, 1)},
	{regexp.MustCompile(`^(?:` + festivityNames[9] + `)$`), fixedDay(7, 4)},
	{regexp.MustCompile(`^` + festivityNames[10] + `$`), fixedDay(2, 14)},
	{regexp.MustCompile(`^` + festivityNames[11] + `$`), fixedDay(10, 31)},
	{regexp.MustCompile(`^` + festivityNames[12] + `$`), fixedDay(11, 11)},
	{regexp.MustCompile(`^` + festivityNames[13] + `$`), nthWeekday(2, 1, 3)},
}

func festivityAlternation() string {
	return `(?:` + strings.Join(festivityNames, "|") + `)`
}

// festivityDate resolves a festivity name.  Without an explicit year or a
// forward qualifier, a festivity falling after the reference date is taken
// from the previous year.
func festivityDate(c *matchContext, qualifier, name, yearText string) (outcome, bool) {
	var f *festivity
	for i := range festivities {
		if festivities[i].pattern.MatchString(name) {
			f = &festivities[i]
			break
		}
	}
	if f == nil {
		return outcome{}, false
	}
	if yearText != "" {
		year := atoi(yearText)
		month, day := f.resolve(year)
		return date(common.FormatDate(year, month, day)), true
	}
	year := c.ref.Year
	month, day := f.resolve(year)
	value := common.FormatDate(year, month, day)
	ref := c.ref.Date()
	switch qualifier {
	case "next", "coming":
		if value <= ref {
			year++
		}
	case "this":
	case "last", "past", "previous":
		if value >= ref {
			year--
		}
	default:
		if value > ref {
			year--
		}
	}
	month, day = f.resolve(year)
	return date(common.FormatDate(year, month, day)), true
}

//Personal.AI order the ending
