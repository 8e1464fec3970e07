package timex_normaliser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// ---------------------------------------------------------------------------
// Rule model
// ---------------------------------------------------------------------------

// outcome is what a handler produces.  The cascade adds the surface text and
// the name of the rule that fired.
type outcome struct {
	typ   timex.Type
	value string
	mod   timex.Modifier
}

func date(v string) outcome      { return outcome{typ: timex.TypeDate, value: v} }
func clock(v string) outcome     { return outcome{typ: timex.TypeTime, value: v} }
func duration(v string) outcome  { return outcome{typ: timex.TypeDuration, value: v} }
func frequency(v string) outcome { return outcome{typ: timex.TypeFrequency, value: v} }

func (o outcome) withMod(m timex.Modifier) outcome {
	o.mod = m
	return o
}

// matchContext is the per-call input every handler sees.
type matchContext struct {
	forms
	ref    ReferenceDate
	domain timex.Domain
}

func (c *matchContext) clinical() bool {
	return c.domain == timex.DomainClinical
}

// handlerFunc turns the submatches of a rule's pattern into an outcome.
// Returning false hands the expression on to the next rule.
type handlerFunc func(c *matchContext, m []string) (outcome, bool)

type rule struct {
	name    string
	pattern *regexp.Regexp
	// full matches against the article-bearing form instead of the bare one.
	full   bool
	handle handlerFunc
}

func (r rule) apply(c *matchContext) (outcome, bool) {
	input := c.bare
	if r.full {
		input = c.expr
	}
	m := r.pattern.FindStringSubmatch(input)
	if m == nil {
		return outcome{}, false
	}
	return r.handle(c, m)
}

// ---------------------------------------------------------------------------
// Cascade assembly
// ---------------------------------------------------------------------------

// sharedHead is the rule prefix both domains share, tiers in order.
func sharedHead() []rule {
	var rules []rule
	for _, tier := range [][]rule{
		absoluteRules(),
		deicticRules(),
		clockRules(),
		decadeRules(),
		weekdayRules(),
		offsetRules(),
		monthRules(),
		quarterRules(),
		durationRules(),
		centuryRules(),
	} {
		rules = append(rules, tier...)
	}
	return rules
}

// sharedTail closes the cascade for both domains.  Clinical jargon is
// inserted between the head and the tail so that frequency codes win over
// the generic "every/daily" shapes.
func sharedTail() []rule {
	return append(frequencyRules(), fallbackRules()...)
}

func buildCascade(domain timex.Domain) []rule {
	rules := sharedHead()
	if domain == timex.DomainClinical {
		rules = append(rules, clinicalRules()...)
	}
	return append(rules, sharedTail()...)
}

// ---------------------------------------------------------------------------
// Pattern vocabulary
// ---------------------------------------------------------------------------

const (
	unitFragment = `(?:seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|nights?|weeks?|wks?|fortnights?|months?|mos?|quarters?|years?|yrs?|decades?|centur(?:y|ies))`
	partFragment = `(?:morning|afternoon|evening|night)`
	ampmFragment = `(?:a\.?m\.?|p\.?m\.?)`
)

var placeholders = strings.NewReplacer(
	"{NUM}", common.CardinalPattern(),
	"{ORD}", common.OrdinalPattern(),
	"{COUNT}", `(?:`+common.CardinalPattern()+`|an?|(?:a\s+)?couple(?:\s+of)?|(?:a\s+)?dozen)`,
	"{MONTH}", common.MonthPattern(),
	"{WD}", common.WeekdayPattern(),
	"{UNIT}", unitFragment,
	"{PART}", partFragment,
	"{AMPM}", ampmFragment,
)

// compile expands the vocabulary placeholders and compiles the pattern.
func compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(placeholders.Replace(pattern))
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// parseCount reads a count word: digits, spelled-out cardinals, "a"/"an",
// "couple" and "dozen".
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "a", "an", "one", "single", "a single":
		return 1, true
	case "couple", "a couple", "couple of", "a couple of":
		return 2, true
	case "dozen", "a dozen":
		return 12, true
	}
	return common.ParseCardinal(s)
}

// canonicalUnit folds plural, abbreviated and clinical unit spellings.
func canonicalUnit(u string) string {
	u = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), ".")
	switch u {
	case "s", "sec", "secs", "second", "seconds":
		return "second"
	case "m", "min", "mins", "minute", "minutes":
		return "minute"
	case "h", "hr", "hrs", "hour", "hours":
		return "hour"
	case "d", "day", "days", "night", "nights":
		return "day"
	case "w", "wk", "wks", "week", "weeks":
		return "week"
	case "fortnight", "fortnights":
		return "fortnight"
	case "mo", "mos", "month", "months":
		return "month"
	case "quarter", "quarters":
		return "quarter"
	case "y", "yr", "yrs", "year", "years":
		return "year"
	case "decade", "decades":
		return "decade"
	case "century", "centuries":
		return "century"
	}
	return u
}

// isTimeUnit reports whether unit takes the PT prefix.
func isTimeUnit(unit string) bool {
	switch unit {
	case "hour", "minute", "second":
		return true
	}
	return false
}

// durationValue renders n units as an ISO-8601 duration.
func durationValue(n int, unit string) string {
	switch unit {
	case "second":
		return fmt.Sprintf("PT%dS", n)
	case "minute":
		return fmt.Sprintf("PT%dM", n)
	case "hour":
		return fmt.Sprintf("PT%dH", n)
	case "day":
		return fmt.Sprintf("P%dD", n)
	case "week":
		return fmt.Sprintf("P%dW", n)
	case "fortnight":
		return fmt.Sprintf("P%dW", 2*n)
	case "month":
		return fmt.Sprintf("P%dM", n)
	case "quarter":
		return fmt.Sprintf("P%dQ", n)
	case "year":
		return fmt.Sprintf("P%dY", n)
	case "decade":
		return fmt.Sprintf("P%dY", 10*n)
	case "century":
		return fmt.Sprintf("P%dY", 100*n)
	}
	return ""
}

// vagueDurationValue renders an unspecified count of unit ("PXY").
func vagueDurationValue(unit string) string {
	switch unit {
	case "second":
		return "PTXS"
	case "minute":
		return "PTXM"
	case "hour":
		return "PTXH"
	case "week", "fortnight":
		return "PXW"
	case "month":
		return "PXM"
	case "quarter":
		return "PXQ"
	case "year":
		return "PXY"
	case "decade":
		return "PXDE"
	case "century":
		return "PXCE"
	}
	return "PXD"
}

// partOfDayCode maps a part-of-day word to its TIMEX3 suffix.
func partOfDayCode(part string) string {
	switch part {
	case "morning":
		return "MO"
	case "afternoon":
		return "AF"
	case "evening":
		return "EV"
	}
	return "NI"
}

// partOfDay anchors a part of day to a date.  Clinical text has no
// part-of-day codes and resolves to the date itself.
func partOfDay(c *matchContext, day, part string) outcome {
	if c.clinical() {
		return date(day)
	}
	return clock(day + "T" + partOfDayCode(part))
}

// to24Hour converts a 12-hour clock reading.  pm adds 12 unless the hour is
// already 12 or more; 12am is midnight.
func to24Hour(hour int, meridiem string) int {
	m := strings.ReplaceAll(meridiem, ".", "")
	switch m {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

// validClock accepts 00:00:00 through 23:59:59, plus 24:00 as the end of
// the day.
func validClock(hour, minute, second int) bool {
	if hour == 24 {
		return minute == 0 && second == 0
	}
	return hour >= 0 && hour < 24 && minute >= 0 && minute <= 59 && second >= 0 && second <= 59
}

// atoi reads a capture already constrained to digits by its pattern.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// relativeStep maps a relative qualifier to -1, 0 or +1.
func relativeStep(q string) int {
	switch strings.TrimSpace(q) {
	case "last", "past", "previous", "the previous", "prior", "the past", "the last", "preceding", "latest", "recent", "most recent":
		return -1
	case "next", "coming", "the coming", "following", "the following", "the next", "upcoming", "subsequent":
		return 1
	}
	return 0
}

// shiftedDate resolves delta days from the reference.
func (c *matchContext) shiftedDate(delta int) string {
	return c.ref.Shift(delta)
}

//Personal.AI order the ending
