package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction selects the search direction of NextOrPreviousWeekday.
type Direction int

const (
	Next Direction = iota
	Previous
)

// WeeksPerYear is the largest week index of the seven-day bucket scheme:
// days 365 and 366 fall into week 53.
const WeeksPerYear = 53

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var monthAbbreviations = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7,
	"aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

var weekdayNames = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

var weekdayAbbreviations = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "tues": 2, "wed": 3,
	"thu": 4, "thur": 4, "thurs": 4, "fri": 5, "sat": 6,
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// mustValid panics on an impossible date.  Every caller passes values that
// a regexp capture already constrained, so a failure here is a programming
// error.
func mustValid(day, month, year int) {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("calendar: month %d out of range for %04d-%02d-%02d", month, year, month, day))
	}
	if day < 1 || day > MonthLength(year, month) {
		panic(fmt.Sprintf("calendar: day %d out of range for %04d-%02d-%02d", day, year, month, day))
	}
}

// IsValidDate reports whether the triple names a real Gregorian date.
func IsValidDate(day, month, year int) bool {
	if month < 1 || month > 12 || year < 1 {
		return false
	}
	return day >= 1 && day <= MonthLength(year, month)
}

// ---------------------------------------------------------------------------
// Basic calendar facts
// ---------------------------------------------------------------------------

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns month -> number of days for the given year.
func DaysInMonth(year int) map[int]int {
	feb := 28
	if IsLeapYear(year) {
		feb = 29
	}
	return map[int]int{
		1: 31, 2: feb, 3: 31, 4: 30, 5: 31, 6: 30,
		7: 31, 8: 31, 9: 30, 10: 31, 11: 30, 12: 31,
	}
}

// MonthLength returns the number of days in month of year, 0 for an
// invalid month.
func MonthLength(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

// DayOfWeek returns 0 (Sunday) .. 6 (Saturday) using the Zeller-style
// offset table formula.
func DayOfWeek(day, month, year int) int {
	mustValid(day, month, year)
	offsets := [...]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}
	y := year
	if month < 3 {
		y--
	}
	return (y + y/4 - y/100 + y/400 + offsets[month-1] + day) % 7
}

// DayOfYear returns 1..366.
func DayOfYear(day, month, year int) int {
	mustValid(day, month, year)
	doy := day
	for m := 1; m < month; m++ {
		doy += MonthLength(year, m)
	}
	return doy
}

// ---------------------------------------------------------------------------
// Day arithmetic
// ---------------------------------------------------------------------------

// daysFromCivil returns the number of days since 1970-01-01.
func daysFromCivil(year, month, day int) int {
	y := year
	if month <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (month + 9) % 12
	doy := (153*mp+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int) (year, month, day int) {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day = doy - (153*mp+2)/5 + 1
	month = mp + 3
	if month > 12 {
		month -= 12
	}
	if month <= 2 {
		y++
	}
	return y, month, day
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// AddDays moves the date by delta days (negative moves backwards) and
// returns the result as (year, month, day).
func AddDays(day, month, year, delta int) (int, int, int) {
	mustValid(day, month, year)
	return civilFromDays(daysFromCivil(year, month, day) + delta)
}

// DaysBetween returns the signed day distance from the first date to the
// second.
func DaysBetween(d1, m1, y1, d2, m2, y2 int) int {
	mustValid(d1, m1, y1)
	mustValid(d2, m2, y2)
	return daysFromCivil(y2, m2, d2) - daysFromCivil(y1, m1, d1)
}

// FormatDate renders YYYY-MM-DD with zero padding.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// FormatMonth renders YYYY-MM.
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// FormatWeek renders YYYY-Wnn.
func FormatWeek(year, week int) string {
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// FormatQuarter renders YYYY-Qn.
func FormatQuarter(year, quarter int) string {
	return fmt.Sprintf("%04d-Q%d", year, quarter)
}

// ParseDate reads a YYYY-MM-DD string.
func ParseDate(s string) (year, month, day int, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	if !IsValidDate(day, month, year) {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// ---------------------------------------------------------------------------
// Weekdays
// ---------------------------------------------------------------------------

// NextOrPreviousWeekday finds the nearest target weekday strictly after
// (Next) or strictly before (Previous) the date.  The distance is always
// 1..7 days.
func NextOrPreviousWeekday(target, day, month, year int, dir Direction) string {
	if target < 0 || target > 6 {
		panic(fmt.Sprintf("calendar: weekday %d out of range", target))
	}
	current := DayOfWeek(day, month, year)
	var delta int
	if dir == Next {
		delta = floorMod(target-current, 7)
		if delta == 0 {
			delta = 7
		}
	} else {
		delta = -floorMod(current-target, 7)
		if delta == 0 {
			delta = -7
		}
	}
	y, m, d := AddDays(day, month, year, delta)
	return FormatDate(y, m, d)
}

// MostRecentWeekday returns the target weekday at or before the date
// (distance 0..6).
func MostRecentWeekday(target, day, month, year int) string {
	current := DayOfWeek(day, month, year)
	delta := -floorMod(current-target, 7)
	y, m, d := AddDays(day, month, year, delta)
	return FormatDate(y, m, d)
}

// NthWeekdayOfMonth returns the day-of-month of the nth (1-based)
// occurrence of weekday in month.
func NthWeekdayOfMonth(year, month, weekday, n int) int {
	first := DayOfWeek(1, month, year)
	day := 1 + floorMod(weekday-first, 7) + (n-1)*7
	mustValid(day, month, year)
	return day
}

// LastWeekdayOfMonth returns the day-of-month of the last occurrence of
// weekday in month.
func LastWeekdayOfMonth(year, month, weekday int) int {
	last := MonthLength(year, month)
	dow := DayOfWeek(last, month, year)
	return last - floorMod(dow-weekday, 7)
}

// WeekdayIndex maps a weekday name or abbreviation (optionally plural, as in
// "mondays") to 0..6.
func WeekdayIndex(name string) (int, bool) {
	n := strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "."), "s")
	for i, w := range weekdayNames {
		if n == w || n+"s" == w {
			return i, true
		}
	}
	if i, ok := weekdayAbbreviations[n]; ok {
		return i, true
	}
	if i, ok := weekdayAbbreviations[n+"s"]; ok {
		return i, true
	}
	return 0, false
}

// WeekdayPattern is a regexp fragment matching weekday names and common
// abbreviations.
func WeekdayPattern() string {
	return `(?:sunday|monday|tuesday|wednesday|thursday|friday|saturday|sun|mon|tues|tue|wed|thurs|thur|thu|fri|sat)`
}

// ---------------------------------------------------------------------------
// Months
// ---------------------------------------------------------------------------

// MonthIndex maps a month name or abbreviation to 1..12.
func MonthIndex(name string) (int, bool) {
	n := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
	for i, m := range monthNames {
		if n == m {
			return i + 1, true
		}
	}
	i, ok := monthAbbreviations[n]
	return i, ok
}

// MonthPattern is a regexp fragment matching month names and abbreviations.
func MonthPattern() string {
	return `(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\.?`
}

// ShiftMonth moves (year, month) by delta months with div/mod 12 rollover.
func ShiftMonth(year, month, delta int) (int, int) {
	idx := year*12 + (month - 1) + delta
	return floorDiv(idx, 12), floorMod(idx, 12) + 1
}

// ---------------------------------------------------------------------------
// Weeks
// ---------------------------------------------------------------------------

// WeekOfYear returns the seven-day bucket week of a YYYY-MM-DD string:
// week 1 is days 1..7 of the year, week 2 days 8..14 and so on.
func WeekOfYear(date string) int {
	y, m, d, ok := ParseDate(date)
	if !ok {
		panic(fmt.Sprintf("calendar: malformed date %q", date))
	}
	return WeekOfYearYMD(y, m, d)
}

// WeekOfYearYMD is WeekOfYear over an integer triple.
func WeekOfYearYMD(year, month, day int) int {
	return (DayOfYear(day, month, year)-1)/7 + 1
}

// ShiftWeek moves (year, week) by delta weeks.  Crossing a year boundary
// wraps through week 53.
func ShiftWeek(year, week, delta int) (int, int) {
	idx := year*WeeksPerYear + (week - 1) + delta
	return floorDiv(idx, WeeksPerYear), floorMod(idx, WeeksPerYear) + 1
}

// ---------------------------------------------------------------------------
// Quarters
// ---------------------------------------------------------------------------

// QuarterOfMonth maps 1..3 to 1, 4..6 to 2, 7..9 to 3 and 10..12 to 4.
func QuarterOfMonth(month int) int {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("calendar: month %d out of range", month))
	}
	return (month-1)/3 + 1
}

// ShiftQuarter moves (year, quarter) by delta quarters.  Q4+1 is Q1 of the
// following year and Q1-1 is Q4 of the previous year.
func ShiftQuarter(year, quarter, delta int) (int, int) {
	idx := year*4 + (quarter - 1) + delta
	return floorDiv(idx, 4), floorMod(idx, 4) + 1
}

// ---------------------------------------------------------------------------
// Years
// ---------------------------------------------------------------------------

// PivotTwoDigitYear maps 00..50 to 2000..2050 and 51..99 to 1951..1999.
func PivotTwoDigitYear(yy int) int {
	if yy < 0 || yy > 99 {
		panic(fmt.Sprintf("calendar: two-digit year %d out of range", yy))
	}
	if yy > 50 {
		return 1900 + yy
	}
	return 2000 + yy
}

// SeasonCode maps a season word to its TIMEX3 code.
func SeasonCode(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "spring":
		return "SP", true
	case "summer":
		return "SU", true
	case "fall", "autumn":
		return "FA", true
	case "winter":
		return "WI", true
	}
	return "", false
}

// SeasonOfMonth returns the northern-hemisphere season code of month.
func SeasonOfMonth(month int) string {
	switch month {
	case 3, 4, 5:
		return "SP"
	case 6, 7, 8:
		return "SU"
	case 9, 10, 11:
		return "FA"
	}
	return "WI"
}

//Personal.AI order the ending
