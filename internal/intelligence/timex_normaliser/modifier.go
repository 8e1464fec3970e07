package timex_normaliser

import (
	"regexp"
	"strings"

	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// modifierCue pairs a cue pattern with the modifier it signals.
type modifierCue struct {
	mod     timex.Modifier
	pattern *regexp.Regexp
}

func cue(mod timex.Modifier, words ...string) modifierCue {
	return modifierCue{
		mod:     mod,
		pattern: regexp.MustCompile(`\b(?:` + strings.Join(words, "|") + `)\b`),
	}
}

// modifierCues are scanned in order and a later match overrides an earlier
// one.
var modifierCues = []modifierCue{
	cue(timex.ModApprox, "around", "about", "nearly", "almost", "approximately", "approx", "roughly", "some", "several", "couple", "overnight", "course"),
	cue(timex.ModStart, `begin\w*`, `start\w*`, "early", "morning", "dawn"),
	cue(timex.ModLessThan, "less", "fewer", "under", "up to", "shy of"),
	cue(timex.ModMoreThan, "more than", "greater", "longer than", "over a", "upwards of"),
	cue(timex.ModBefore, "before", "prior to", "until", "till"),
	cue(timex.ModAfter, "after", "later than", "since"),
	cue(timex.ModOnOrBefore, "no later than", "or earlier", "at the latest", "on or before"),
	cue(timex.ModOnOrAfter, "no earlier than", "or later", "at the earliest", "on or after"),
	cue(timex.ModEqualOrMore, "at least", "or more", "a minimum of"),
	cue(timex.ModEnd, "end", "ending", "late", "latter", "close of", "night", "evening"),
	cue(timex.ModMid, "mid", "middle", "midway", "afternoon"),
}

// idioms contain cue words that do not signal a modifier.
var idioms = strings.NewReplacer(
	"day before yesterday", " ",
	"day after tomorrow", " ",
	"the night before", " ",
	"by the end of", "end of",
)

// Counted offsets use before and after as their direction, not as a mod.
var (
	trailingDirection = compile(`((?:{COUNT})[\s-]+(?:{UNIT}))\s+(?:before|after)(?:\s+now)?\s*$`)
	leadingDirection  = compile(`\bafter\s+((?:{COUNT})[\s-]+(?:{UNIT}))\s*$`)
)

// ClassifyModifier assigns the TIMEX3 mod attribute from lexical cues in the
// surface text of result.  A modifier the matching rule already supplied
// takes precedence over the cue scan.
func ClassifyModifier(result timex.Result) timex.Modifier {
	if !result.Modifier.IsNone() {
		return result.Modifier
	}
	return scanModifier(result.SurfaceText)
}

func scanModifier(text string) timex.Modifier {
	lower := idioms.Replace(strings.ToLower(text))
	lower = trailingDirection.ReplaceAllString(lower, "$1")
	lower = leadingDirection.ReplaceAllString(lower, "$1")
	mod := timex.ModNone
	for _, c := range modifierCues {
		if c.pattern.MatchString(lower) {
			mod = c.mod
		}
	}
	return mod
}

//Personal.AI order the ending
