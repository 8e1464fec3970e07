package timex_normaliser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/timexnorm/pkg/types/timex"
)

func ruleNames(rules []rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func TestBuildCascade_UniqueNames(t *testing.T) {
	for _, d := range []timex.Domain{timex.DomainGeneral, timex.DomainClinical} {
		seen := map[string]bool{}
		for _, name := range ruleNames(buildCascade(d)) {
			assert.False(t, seen[name], "duplicate rule %q in %s", name, d)
			assert.NotEqual(t, timex.RuleDefault, name)
			seen[name] = true
		}
	}
}

func TestBuildCascade_ClinicalInsertionPoint(t *testing.T) {
	general := ruleNames(buildCascade(timex.DomainGeneral))
	clinical := ruleNames(buildCascade(timex.DomainClinical))

	for _, name := range general {
		assert.False(t, strings.HasPrefix(name, "clinical-"), name)
	}
	clinicalOnly := ruleNames(clinicalRules())
	require.Equal(t, len(general)+len(clinicalOnly), len(clinical))

	head := len(sharedHead())
	assert.Equal(t, general[:head], clinical[:head])
	assert.Equal(t, clinicalOnly, clinical[head:head+len(clinicalOnly)])
	assert.Equal(t, general[head:], clinical[head+len(clinicalOnly):])

	// clinical jargon precedes the generic frequencies and the fallback
	assert.Less(t, indexOf(clinical, "clinical-frequency-code"), indexOf(clinical, "frequency-adverb"))
	assert.Less(t, indexOf(clinical, "clinical-festivity"), indexOf(clinical, "year-literal"))
}

func TestBuildCascade_TierOrder(t *testing.T) {
	names := ruleNames(buildCascade(timex.DomainGeneral))
	ordered := []string{"yyyymmdd", "today", "clock-hh-mm", "decade-relative", "weekday", "offset-ago", "month-year", "quarter-ordinal", "duration-numeric", "century-ordinal", "frequency-adverb", "year-literal"}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, indexOf(names, ordered[i-1]), indexOf(names, ordered[i]), "%s before %s", ordered[i-1], ordered[i])
	}
}

func TestNormaliser_RulesMatchesCascade(t *testing.T) {
	n := newTestNormaliser(t, timex.DomainClinical)
	assert.Equal(t, ruleNames(buildCascade(timex.DomainClinical)), n.Rules())
}

func TestRule_FullMatchesArticleForm(t *testing.T) {
	ref := MustParseReferenceDate("20120608")
	c := &matchContext{forms: prepare("a week ago"), ref: ref, domain: timex.DomainGeneral}

	var offsetAgo rule
	for _, r := range offsetRules() {
		if r.name == "offset-ago" {
			offsetAgo = r
		}
	}
	require.NotNil(t, offsetAgo.pattern)
	o, ok := offsetAgo.apply(c)
	require.True(t, ok)
	assert.Equal(t, "2012-W22", o.value)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 15, to24Hour(3, "p.m."))
	assert.Equal(t, 12, to24Hour(12, "pm"))
	assert.Equal(t, 0, to24Hour(12, "am"))
	assert.Equal(t, -1, relativeStep("the previous"))
	assert.Equal(t, 1, relativeStep("coming"))
	assert.Equal(t, 0, relativeStep("this"))
	assert.Equal(t, "PT3H", durationValue(3, "hour"))
	assert.Equal(t, "P4W", durationValue(2, "fortnight"))
	assert.Equal(t, "PXDE", vagueDurationValue("decade"))
	assert.Equal(t, "day", canonicalUnit("Nights"))

	n, ok := parseCount("a couple of")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

//Personal.AI order the ending
