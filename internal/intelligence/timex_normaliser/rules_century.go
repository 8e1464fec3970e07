package timex_normaliser

import (
	"fmt"
	"strings"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
)

// centuryRules resolve century expressions.  A named century N is the
// two-digit prefix N-1 followed by XX ("20th century" is "19XX").
func centuryRules() []rule {
	return []rule{
		{
			name:    "century-this",
			pattern: compile(`^(?:this|current|present)\s+century$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return duration("P100Y"), true
			},
		},
		{
			name:    "century-relative",
			pattern: compile(`^(last|previous|past|next|coming)\s+century$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return centuryPrefix(c.ref.Year/100 + relativeStep(m[1]))
			},
		},
		{
			name:    "century-ordinal",
			pattern: compile(`^(?:early\s+|mid[\s-]+|late\s+)?({ORD})[\s-]+century$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n, ok := common.ParseOrdinal(m[1])
				if !ok || n < 1 {
					return outcome{}, false
				}
				return centuryPrefix(n - 1)
			},
		},
		{
			name:    "century-roman",
			pattern: compile(`^(?:early\s+|mid[\s-]+|late\s+)?([ivxlc]+)\s+century$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				n := common.ParseRoman(strings.ToUpper(m[1]))
				if n == 0 {
					return outcome{}, false
				}
				return centuryPrefix(n - 1)
			},
		},
	}
}

func centuryPrefix(prefix int) (outcome, bool) {
	if prefix < 0 || prefix > 99 {
		return outcome{}, false
	}
	return date(fmt.Sprintf("%02dXX", prefix)), true
}

//Personal.AI order the ending
