package common

import (
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Lexicon tables
// ---------------------------------------------------------------------------

var unitWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scaleWords = map[string]int{
	"hundred":  100,
	"thousand": 1000,
}

var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14,
	"fifteenth": 15, "sixteenth": 16, "seventeenth": 17, "eighteenth": 18,
	"nineteenth": 19,
	"twentieth": 20, "thirtieth": 30, "fortieth": 40, "fiftieth": 50,
	"sixtieth": 60, "seventieth": 70, "eightieth": 80, "ninetieth": 90,
	"hundredth": 100, "thousandth": 1000,
}

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// ---------------------------------------------------------------------------
// Cardinals
// ---------------------------------------------------------------------------

// ParseCardinal converts a digit string or an English cardinal phrase
// ("twenty-one", "twenty one", "one hundred and five", "two thousand") into
// its integer value.  Compound parts are summed.  The second return value is
// false when any token is not a number word.
func ParseCardinal(word string) (int, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(strings.ReplaceAll(w, ",", "")); err == nil {
		return n, n >= 0
	}
	return accumulate(tokenizeNumber(w), false)
}

// ParseOrdinal converts "first".."twelfth", the regular -teenth and -tieth
// forms, compounds such as "twenty-first", and digit forms such as "3rd" into
// an integer.
func ParseOrdinal(word string) (int, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return 0, false
	}
	if n, ok := parseDigitOrdinal(w); ok {
		return n, true
	}
	tokens := tokenizeNumber(w)
	if len(tokens) == 0 {
		return 0, false
	}
	if _, ok := ordinalWords[tokens[len(tokens)-1]]; !ok {
		return 0, false
	}
	return accumulate(tokens, true)
}

// ParseNumber accepts either a cardinal or an ordinal form.
func ParseNumber(word string) (int, bool) {
	if n, ok := ParseCardinal(word); ok {
		return n, true
	}
	return ParseOrdinal(word)
}

func parseDigitOrdinal(w string) (int, bool) {
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(w, suffix) {
			n, err := strconv.Atoi(strings.TrimSuffix(w, suffix))
			if err != nil || n < 0 {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}

func tokenizeNumber(w string) []string {
	fields := strings.FieldsFunc(w, func(r rune) bool {
		return r == ' ' || r == '-' || r == '\t'
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "and" {
			out = append(out, f)
		}
	}
	return out
}

// accumulate walks number tokens left to right.  When ordinalTail is true
// the final token is read from the ordinal table.
func accumulate(tokens []string, ordinalTail bool) (int, bool) {
	if len(tokens) == 0 {
		return 0, false
	}
	total, current := 0, 0
	for i, tok := range tokens {
		last := i == len(tokens)-1
		if last && ordinalTail {
			v := ordinalWords[tok]
			switch v {
			case 100:
				if current == 0 {
					current = 1
				}
				current *= 100
			case 1000:
				if current == 0 {
					current = 1
				}
				total += current * 1000
				current = 0
			default:
				current += v
			}
			continue
		}
		if v, ok := unitWords[tok]; ok {
			current += v
			continue
		}
		if v, ok := tensWords[tok]; ok {
			current += v
			continue
		}
		if v, ok := scaleWords[tok]; ok {
			if current == 0 {
				current = 1
			}
			if v == 100 {
				current *= 100
			} else {
				total += current * v
				current = 0
			}
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
			current += n
			continue
		}
		return 0, false
	}
	return total + current, true
}

// CardinalWord renders n (0..9999) as English words.  Values outside the
// range are rendered as digits.
func CardinalWord(n int) string {
	if n < 0 || n > 9999 {
		return strconv.Itoa(n)
	}
	if n == 0 {
		return "zero"
	}
	var parts []string
	if n >= 1000 {
		parts = append(parts, CardinalWord(n/1000), "thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, CardinalWord(n/100), "hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int) string {
	for w, v := range unitWords {
		if v == n {
			return w
		}
	}
	tens := n / 10 * 10
	var tensWord string
	for w, v := range tensWords {
		if v == tens {
			tensWord = w
		}
	}
	if n%10 == 0 {
		return tensWord
	}
	return tensWord + "-" + belowHundred(n%10)
}

// ---------------------------------------------------------------------------
// Roman numerals
// ---------------------------------------------------------------------------

// ParseRoman decodes a roman numeral using subtractive pairs.  Strings with
// foreign characters or non-canonical spellings ("IIII", "VX") yield 0, and
// callers treat 0 as "no match".
func ParseRoman(word string) int {
	s := strings.ToUpper(strings.TrimSpace(word))
	if s == "" {
		return 0
	}
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	if total <= 0 || ToRoman(total) != s {
		return 0
	}
	return total
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman encodes n (1..3999) as an upper-case roman numeral, "" otherwise.
func ToRoman(n int) string {
	if n <= 0 || n >= 4000 {
		return ""
	}
	var sb strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Word sets
// ---------------------------------------------------------------------------

// LiteralNumberWords returns every cardinal and scale word the lexicon
// recognises, sorted.
func LiteralNumberWords() []string {
	out := make([]string, 0, len(unitWords)+len(tensWords)+len(scaleWords))
	for w := range unitWords {
		out = append(out, w)
	}
	for w := range tensWords {
		out = append(out, w)
	}
	for w := range scaleWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// OrdinalNumberWords returns every ordinal word the lexicon recognises,
// sorted.
func OrdinalNumberWords() []string {
	out := make([]string, 0, len(ordinalWords))
	for w := range ordinalWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// IsNumberWord reports whether w is a cardinal, scale or ordinal word.
func IsNumberWord(w string) bool {
	w = strings.ToLower(w)
	_, a := unitWords[w]
	_, b := tensWords[w]
	_, c := scaleWords[w]
	_, d := ordinalWords[w]
	return a || b || c || d
}

// alternation joins words longest first so a regexp prefers "seventeen"
// over "seven".
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return strings.Join(sorted, "|")
}

// CardinalPattern is a regexp fragment (no capture groups) matching a digit
// run or a spelled-out cardinal phrase.
func CardinalPattern() string {
	w := alternation(LiteralNumberWords())
	return `(?:\d+|(?:` + w + `)(?:(?:[\s-]+and)?[\s-]+(?:` + w + `))*)`
}

// OrdinalPattern is a regexp fragment matching digit ordinals ("3rd") and
// spelled-out ordinals including compounds ("twenty-first").
func OrdinalPattern() string {
	c := alternation(append(LiteralNumberWords(), "and"))
	o := alternation(OrdinalNumberWords())
	return `(?:\d+(?:st|nd|rd|th)|(?:(?:` + c + `)[\s-]+)*(?:` + o + `))`
}

//Personal.AI order the ending
