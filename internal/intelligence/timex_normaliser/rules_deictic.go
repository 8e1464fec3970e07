package timex_normaliser

import (
	"strconv"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// deicticRules resolve words anchored directly on the reference date,
// including the anaphoric forms a session re-anchors on the last date.
func deicticRules() []rule {
	return []rule{
		{
			name:    "today",
			pattern: compile(`^(?:today|today's|todays|this day|this date)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(c.ref.Date()), true
			},
		},
		{
			name:    "tonight",
			pattern: compile(`^tonight(?:'s)?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return partOfDay(c, c.ref.Date(), "night"), true
			},
		},
		{
			name:    "present",
			pattern: compile(`^(?:now|right now|just now|currently|current|present|presently|at present|at the moment|at this time|nowadays|these days|so far|to date|for now|by now)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				if c.clinical() {
					return date(c.ref.Date()), true
				}
				return date(timex.ValuePresentRef), true
			},
		},
		{
			name:    "day-after-tomorrow",
			pattern: compile(`^day after tomorrow$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(c.shiftedDate(2)), true
			},
		},
		{
			name:    "day-before-yesterday",
			pattern: compile(`^day before yesterday$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(c.shiftedDate(-2)), true
			},
		},
		{
			name:    "tomorrow",
			pattern: compile(`^tomorrow(?:'s)?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(c.shiftedDate(1)), true
			},
		},
		{
			name:    "yesterday",
			pattern: compile(`^yesterday(?:'s)?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(c.shiftedDate(-1)), true
			},
		},
		{
			name:    "future",
			pattern: compile(`^(?:in\s+)?(?:the\s+)?(?:(?:near|distant|foreseeable|immediate)\s+)?(?:future|coming|upcoming|forthcoming|hereafter)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(timex.ValueFutureRef), true
			},
		},
		{
			name:    "past",
			pattern: compile(`^(?:in\s+)?(?:the\s+)?(?:(?:recent|distant)\s+)?(?:past|previous|previously|recently|recent|lately|earlier|formerly)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(timex.ValuePastRef), true
			},
		},
		{
			name:    "anaphoric-period",
			pattern: compile(`^(?:on\s+|in\s+|during\s+)?(?:that|the same|the very|this very)\s+(day|date|week|month|year)$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				switch m[1] {
				case "week":
					return date(formatWeekOf(c.ref)), true
				case "month":
					return date(c.ref.Date()[:7]), true
				case "year":
					return date(strconv.Itoa(c.ref.Year)), true
				}
				return date(c.ref.Date()), true
			},
		},
		{
			name:    "anaphoric-time",
			pattern: compile(`^(?:at\s+)?(?:that|the|the same)\s+time$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(c.ref.Date()), true
			},
		},
		{
			name:    "last-night",
			pattern: compile(`^last night$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return partOfDay(c, c.shiftedDate(-1), "night"), true
			},
		},
		{
			name:    "anchored-part-of-day",
			pattern: compile(`^(?:early\s+|late\s+)?(today|tomorrow|yesterday|this|that|the same|same)\s+(?:early\s+|late\s+)?({PART})$`),
			full:    true,
			handle: func(c *matchContext, m []string) (outcome, bool) {
				day := c.ref.Date()
				switch m[1] {
				case "tomorrow":
					day = c.shiftedDate(1)
				case "yesterday":
					day = c.shiftedDate(-1)
				}
				return partOfDay(c, day, m[2]), true
			},
		},
		{
			name:    "part-of-day-anchored-after",
			pattern: compile(`^({PART})\s+(?:of\s+)?(today|tomorrow|yesterday)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				day := c.ref.Date()
				switch m[2] {
				case "tomorrow":
					day = c.shiftedDate(1)
				case "yesterday":
					day = c.shiftedDate(-1)
				}
				return partOfDay(c, day, m[1]), true
			},
		},
	}
}

func formatWeekOf(ref ReferenceDate) string {
	return common.FormatWeek(ref.Year, ref.Week())
}

//Personal.AI order the ending
