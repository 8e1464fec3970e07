package timex_normaliser

import (
	"fmt"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
)

var decadeNames = map[string]int{
	"fifties":       195,
	"sixties":       196,
	"seventies":     197,
	"eighties":      198,
	"nineties":      199,
	"two thousands": 200,
	"noughties":     200,
	"aughts":        200,
}

// decadeRules resolve decade arithmetic and named decades to the
// three-digit decade prefix ("199" for the 1990s).
func decadeRules() []rule {
	return []rule{
		{
			name:    "decade-relative",
			pattern: compile(`^(last|past|previous|this|current|next|coming|following)\s+decade$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(fmt.Sprintf("%03d", c.ref.Year/10+relativeStep(m[1]))), true
			},
		},
		{
			name:    "decade-ago",
			pattern: compile(`^(?:one\s+)?decade\s+(?:ago|earlier|before)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return decadeAgo(c, 1), true
			},
		},
		{
			name:    "decade-name",
			pattern: compile(`^(?:(?:early|mid|late)[\s-]+)?(fifties|sixties|seventies|eighties|nineties|two thousands|noughties|aughts)$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(fmt.Sprintf("%03d", decadeNames[m[1]])), true
			},
		},
		{
			name:    "decade-two-digit",
			pattern: compile(`^(?:(?:early|mid|late)[\s-]+)?'?(\d0)'?s$`),
			handle: func(c *matchContext, m []string) (outcome, bool) {
				return date(fmt.Sprintf("%03d", common.PivotTwoDigitYear(atoi(m[1]))/10)), true
			},
		},
	}
}

// decadeAgo resolves "n decades ago".  General text names the decade
// ("200"); clinical text names the year ten years back ("2002").
func decadeAgo(c *matchContext, n int) outcome {
	year := c.ref.Year - 10*n
	if c.clinical() {
		return date(fmt.Sprintf("%04d", year))
	}
	return date(fmt.Sprintf("%03d", year/10))
}

//Personal.AI order the ending
