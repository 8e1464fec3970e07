package timex_normaliser

import (
	"fmt"
)

// clockRules resolve clock readings to TIME values on the reference date,
// or on a neighbouring day when a deictic word follows the reading.
func clockRules() []rule {
	return []rule{
		{
			name:    "clock-hh-mm",
			pattern: compile(`^(?:at\s+|around\s+|about\s+|by\s+|before\s+|after\s+|until\s+)?(\d{1,2}):(\d{2})(?::(\d{2}))?\s*({AMPM})?(?:\s+(?:hrs|hours|h))?(?:\s+(today|tonight|tomorrow|yesterday|this morning|this afternoon|this evening|last night))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return clockReading(c, m[1], m[2], m[3], m[4], m[5])
			},
		},
		{
			name:    "clock-hour",
			pattern: compile(`^(?:at\s+|around\s+|about\s+|by\s+|before\s+|after\s+|until\s+)?(\d{1,2})\s*({AMPM}|o'clock)(?:\s+(today|tonight|tomorrow|yesterday|this morning|this afternoon|this evening|last night))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				meridiem := m[2]
				if meridiem == "o'clock" {
					meridiem = ""
				}
				return clockReading(c, m[1], "00", "", meridiem, m[3])
			},
		},
		{
			name:    "clock-military",
			pattern: compile(`^(?:at\s+)?([01]\d|2[0-3])([0-5]\d)\s+(?:hrs|hours|h)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return clockReading(c, m[1], m[2], "", "", "")
			},
		},
		{
			name:    "noon-midnight",
			pattern: compile(`^(?:at\s+|around\s+|about\s+|by\s+)?(noon|midday|midnight)(?:\s+(today|tonight|tomorrow|yesterday))?$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				day := anchorDay(c, m[2])
				if m[1] == "midnight" {
					return clock(day + "T24:00"), true
				}
				return clock(day + "T12:00"), true
			},
		},
	}
}

// clockReading validates and renders a clock capture.
func clockReading(c *matchContext, hh, mm, ss, meridiem, anchor string) (outcome, bool) {
	hour, minute := atoi(hh), atoi(mm)
	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return outcome{}, false
		}
		hour = to24Hour(hour, meridiem)
	}
	if !validClock(hour, minute, atoi(ss)) {
		return outcome{}, false
	}
	value := fmt.Sprintf("%sT%02d:%02d", anchorDay(c, anchor), hour, minute)
	if ss != "" {
		value += ":" + ss
	}
	return clock(value), true
}

// anchorDay picks the day a trailing deictic word points at.
func anchorDay(c *matchContext, anchor string) string {
	switch anchor {
	case "tomorrow":
		return c.shiftedDate(1)
	case "yesterday", "last night":
		return c.shiftedDate(-1)
	}
	return c.ref.Date()
}

//Personal.AI order the ending
