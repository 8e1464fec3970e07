package timex_normaliser

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe      = regexp.MustCompile(`\s+`)
	leadingArticleRe  = regexp.MustCompile(`^(?:the|a|an)\s+`)
	trailingArticleRe = regexp.MustCompile(`\s+(?:the|a|an)$`)
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‛", "'", "`", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-",
)

// forms holds the three views of one expression the cascade works on.
type forms struct {
	// text is the cleaned surface form echoed back to the caller.
	text string
	// expr is text case-folded with surrounding hyphens removed.
	expr string
	// bare is expr without leading or trailing articles.
	bare string
}

// prepare cleans a raw span: XML entities left by the tagger are decoded,
// compatibility characters folded, whitespace collapsed and a trailing
// comma or semicolon dropped.
func prepare(raw string) forms {
	text := html.UnescapeString(raw)
	text = norm.NFKC.String(text)
	text = quoteReplacer.Replace(text)
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = strings.TrimRight(text, ",; ")

	expr := strings.ToLower(text)
	expr = strings.Trim(expr, "- ")
	expr = strings.TrimSpace(strings.Trim(expr, `"`))

	bare := leadingArticleRe.ReplaceAllString(expr, "")
	bare = trailingArticleRe.ReplaceAllString(bare, "")
	bare = strings.Trim(bare, "- ")

	return forms{text: text, expr: expr, bare: bare}
}

//Personal.AI order the ending
