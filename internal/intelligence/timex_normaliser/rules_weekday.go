package timex_normaliser

import (
	"fmt"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
)

const weekdayQualifier = `(?:(last|next|this|that|coming|past|previous|on|following|the following|the previous|the coming)\s+)?`

// weekdayRules resolve weekday names against the reference date.  "next"
// looks 1..7 days ahead, "last" 1..7 days back, and a bare or "this" weekday
// is the most recent occurrence including the reference day.
func weekdayRules() []rule {
	return []rule{
		{
			name:    "weekday-part-of-day",
			pattern: compile(`^` + weekdayQualifier + `({WD})\.?\s+(?:early\s+|late\s+)?({PART})$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				day, ok := resolveWeekday(c, m[1], m[2])
				if !ok {
					return outcome{}, false
				}
				return partOfDay(c, day, m[3]), true
			},
		},
		{
			name:    "weekday-clock",
			pattern: compile(`^` + weekdayQualifier + `({WD})\.?,?\s+(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*({AMPM})?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				day, ok := resolveWeekday(c, m[1], m[2])
				if !ok {
					return outcome{}, false
				}
				hour, minute := atoi(m[3]), atoi(m[4])
				if m[4] == "" && m[5] == "" {
					return outcome{}, false
				}
				if m[5] != "" {
					if hour < 1 || hour > 12 {
						return outcome{}, false
					}
					hour = to24Hour(hour, m[5])
				}
				if !validClock(hour, minute, 0) {
					return outcome{}, false
				}
				return clock(fmt.Sprintf("%sT%02d:%02d", day, hour, minute)), true
			},
		},
		{
			name:    "weekday",
			pattern: compile(`^` + weekdayQualifier + `({WD})\.?(?:'s)?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				day, ok := resolveWeekday(c, m[1], m[2])
				if !ok {
					return outcome{}, false
				}
				return date(day), true
			},
		},
		{
			name:    "weekend",
			pattern: compile(`^(?:(last|past|previous|this|next|coming|following)\s+)?weekend$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				y, w := common.ShiftWeek(c.ref.Year, c.ref.Week(), relativeStep(m[1]))
				return date(common.FormatWeek(y, w) + "-WE"), true
			},
		},
	}
}

// resolveWeekday applies the qualifier to a weekday name.
func resolveWeekday(c *matchContext, qualifier, name string) (string, bool) {
	target, ok := common.WeekdayIndex(name)
	if !ok {
		return "", false
	}
	switch relativeStep(qualifier) {
	case 1:
		return common.NextOrPreviousWeekday(target, c.ref.Day, c.ref.Month, c.ref.Year, common.Next), true
	case -1:
		return common.NextOrPreviousWeekday(target, c.ref.Day, c.ref.Month, c.ref.Year, common.Previous), true
	}
	return common.MostRecentWeekday(target, c.ref.Day, c.ref.Month, c.ref.Year), true
}

//Personal.AI order the ending
