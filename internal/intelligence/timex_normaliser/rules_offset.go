package timex_normaliser

import (
	"fmt"
	"strconv"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// offsetRules resolve counted offsets from the reference date ("three weeks
// ago", "in two days"), the adjacent calendar periods ("last month") and
// period boundaries ("the end of this year").
func offsetRules() []rule {
	return []rule{
		{
			name:    "offset-ago",
			pattern: compile(`(?:^|\s)({COUNT})[\s-]+({UNIT})\s+(?:ago|back|earlier|before|previously|prior)$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := parseCount(m[1])
				if !ok {
					return outcome{}, false
				}
				return offsetFromReference(c, -n, canonicalUnit(m[2]))
			},
		},
		{
			name:    "offset-ago-bare-unit",
			pattern: compile(`^({UNIT})\s+(?:ago|earlier)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return offsetFromReference(c, -1, canonicalUnit(m[1]))
			},
		},
		{
			name:    "offset-ago-vague",
			pattern: compile(`(?:^|\s)(?:a\s+)?(?:few|several|many|some|number of|couple of)\s+({UNIT})\s+(?:ago|back|earlier)$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				if isTimeUnit(canonicalUnit(m[1])) {
					return clock(timex.ValuePastRef), true
				}
				return date(timex.ValuePastRef), true
			},
		},
		{
			name:    "offset-in",
			pattern: compile(`^(?:in|within|after)\s+({COUNT})[\s-]+({UNIT})(?:'s?)?(?:\s+time)?$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := parseCount(m[1])
				if !ok {
					return outcome{}, false
				}
				return offsetFromReference(c, n, canonicalUnit(m[2]))
			},
		},
		{
			name:    "offset-from-now",
			pattern: compile(`(?:^|\s)({COUNT})[\s-]+({UNIT})\s+(?:from now|from today|hence|later|after now|away|ahead)$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := parseCount(m[1])
				if !ok {
					return outcome{}, false
				}
				return offsetFromReference(c, n, canonicalUnit(m[2]))
			},
		},
		{
			name:    "period-relative",
			pattern: compile(`^(last|past|previous|prior|this|current|next|coming|following|the following|the previous)\s+(week|month|year)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return adjacentPeriod(c, m[2], relativeStep(m[1]))
			},
		},
		{
			name:    "period-boundary",
			pattern: compile(`^(?:the\s+)?(?:very\s+)?(end|ending|beginning|start|middle|close|turn|rest|remainder)\s+of\s+(?:the\s+)?(?:(last|past|previous|this|current|next|coming|following)\s+)?(week|month|year|quarter|decade|century)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				step := relativeStep(m[2])
				switch m[3] {
				case "quarter":
					y, q := common.ShiftQuarter(c.ref.Year, c.ref.Quarter(), step)
					return date(common.FormatQuarter(y, q)), true
				case "decade":
					return date(fmt.Sprintf("%03d", c.ref.Year/10+step)), true
				case "century":
					return centuryPrefix(c.ref.Year/100 + step)
				}
				return adjacentPeriod(c, m[3], step)
			},
		},
		{
			name:    "period-boundary-year",
			pattern: compile(`^(?:the\s+)?(?:end|beginning|start|middle|close|turn)\s+of\s+(?:the\s+)?(?:year\s+)?(\d{4})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(m[1]), true
			},
		},
		{
			name:    "period-boundary-month",
			pattern: compile(`^(?:the\s+)?(?:end|beginning|start|middle|close)\s+of\s+({MONTH})(?:,?\s+(\d{4}))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				month, ok := common.MonthIndex(m[1])
				if !ok {
					return outcome{}, false
				}
				year := c.ref.Year
				if m[2] != "" {
					year = atoi(m[2])
				}
				return date(common.FormatMonth(year, month)), true
			},
		},
	}
}

// maxOffset is the largest count accepted for any unit: the seconds in ten
// thousand years.
const maxOffset = 10000 * 366 * 86400

// validYear reports whether a resolved year fits the four-digit value forms.
func validYear(y int) bool {
	return y >= 1 && y <= 9999
}

// offsetFromReference moves n units (negative is the past) from the
// reference date and renders the result at the granularity of the unit.
// Offsets that leave years 1..9999 fall through.
func offsetFromReference(c *matchContext, n int, unit string) (outcome, bool) {
	if n > maxOffset || n < -maxOffset {
		return outcome{}, false
	}
	ref := c.ref
	switch unit {
	case "day":
		y, m, d := common.AddDays(ref.Day, ref.Month, ref.Year, n)
		if !validYear(y) {
			return outcome{}, false
		}
		return date(common.FormatDate(y, m, d)), true
	case "week", "fortnight":
		if unit == "fortnight" {
			n *= 2
		}
		y, w := common.ShiftWeek(ref.Year, ref.Week(), n)
		if !validYear(y) {
			return outcome{}, false
		}
		return date(common.FormatWeek(y, w)), true
	case "month":
		y, mo := common.ShiftMonth(ref.Year, ref.Month, n)
		if !validYear(y) {
			return outcome{}, false
		}
		return date(common.FormatMonth(y, mo)), true
	case "quarter":
		y, q := common.ShiftQuarter(ref.Year, ref.Quarter(), n)
		if !validYear(y) {
			return outcome{}, false
		}
		return date(common.FormatQuarter(y, q)), true
	case "year":
		if !validYear(ref.Year + n) {
			return outcome{}, false
		}
		return date(fmt.Sprintf("%04d", ref.Year+n)), true
	case "decade":
		if !validYear(ref.Year + 10*n) {
			return outcome{}, false
		}
		if n < 0 {
			return decadeAgo(c, -n), true
		}
		return date(fmt.Sprintf("%03d", (ref.Year+10*n)/10)), true
	case "century":
		return centuryPrefix(ref.Year/100 + n)
	case "hour", "minute", "second":
		if !ref.HasTime {
			if n < 0 {
				return clock(timex.ValuePastRef), true
			}
			return clock(timex.ValueFutureRef), true
		}
		return shiftClock(ref, n, unit)
	}
	return outcome{}, false
}

// shiftClock moves a reference that carries a time of day by n clock units.
func shiftClock(ref ReferenceDate, n int, unit string) (outcome, bool) {
	seconds := ref.Hour*3600 + ref.Minute*60 + ref.Second
	switch unit {
	case "hour":
		seconds += n * 3600
	case "minute":
		seconds += n * 60
	default:
		seconds += n
	}
	days := seconds / 86400
	seconds %= 86400
	if seconds < 0 {
		seconds += 86400
		days--
	}
	y, m, d := common.AddDays(ref.Day, ref.Month, ref.Year, days)
	if !validYear(y) {
		return outcome{}, false
	}
	value := fmt.Sprintf("%sT%02d:%02d", common.FormatDate(y, m, d), seconds/3600, seconds%3600/60)
	if unit == "second" {
		value += fmt.Sprintf(":%02d", seconds%60)
	}
	return clock(value), true
}

// adjacentPeriod renders the week, month or year step periods away.
func adjacentPeriod(c *matchContext, period string, step int) (outcome, bool) {
	ref := c.ref
	switch period {
	case "week":
		y, w := common.ShiftWeek(ref.Year, ref.Week(), step)
		return date(common.FormatWeek(y, w)), true
	case "month":
		y, m := common.ShiftMonth(ref.Year, ref.Month, step)
		return date(common.FormatMonth(y, m)), true
	case "year":
		return date(strconv.Itoa(ref.Year + step)), true
	}
	return outcome{}, false
}

//Personal.AI order the ending
