// Package timex defines the value types shared by the temporal expression
// normaliser and every layer that consumes its output.
package timex

import "strings"

// Type is the TIMEX3 type attribute.
type Type string

const (
	TypeDate      Type = "DATE"
	TypeTime      Type = "TIME"
	TypeDuration  Type = "DURATION"
	TypeFrequency Type = "FREQUENCY"

	// TypeSet is the legacy clinical spelling of FREQUENCY.
	TypeSet Type = "SET"
)

// Canonical folds the legacy SET spelling into FREQUENCY.
func (t Type) Canonical() Type {
	if t == TypeSet {
		return TypeFrequency
	}
	return t
}

// IsValid reports whether t is one of the known TIMEX3 types.
func (t Type) IsValid() bool {
	switch t {
	case TypeDate, TypeTime, TypeDuration, TypeFrequency, TypeSet:
		return true
	}
	return false
}

// Modifier is the TIMEX3 mod attribute.  The zero value means "no modifier".
type Modifier string

const (
	ModNone        Modifier = ""
	ModApprox      Modifier = "APPROX"
	ModStart       Modifier = "START"
	ModEnd         Modifier = "END"
	ModMid         Modifier = "MID"
	ModBefore      Modifier = "BEFORE"
	ModAfter       Modifier = "AFTER"
	ModMoreThan    Modifier = "MORE_THAN"
	ModLessThan    Modifier = "LESS_THAN"
	ModOnOrBefore  Modifier = "ON_OR_BEFORE"
	ModOnOrAfter   Modifier = "ON_OR_AFTER"
	ModEqualOrMore Modifier = "EQUAL_OR_MORE"

	// ModNA is the neutral placeholder some writers emit.
	ModNA Modifier = "NA"
)

// IsNone reports whether m carries no information (absent, NA or NONE).
func (m Modifier) IsNone() bool {
	switch strings.ToUpper(string(m)) {
	case "", "NA", "NONE":
		return true
	}
	return false
}

// Domain selects the rule cascade variant.
type Domain string

const (
	DomainGeneral  Domain = "general"
	DomainClinical Domain = "clinical"
)

// ParseDomain maps a case-insensitive name to a Domain.
func ParseDomain(s string) (Domain, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general", "timeml", "news":
		return DomainGeneral, true
	case "clinical", "i2b2":
		return DomainClinical, true
	}
	return "", false
}

// Sentinel values.
const (
	ValueUnknown    = "X"
	ValueNone       = "NONE"
	ValuePresentRef = "PRESENT_REF"
	ValuePastRef    = "PAST_REF"
	ValueFutureRef  = "FUTURE_REF"
)

// RuleDefault is the rule trace of the no-match outcome.
const RuleDefault = "default"

// Result is the normalised form of one temporal expression.
type Result struct {
	SurfaceText string   `json:"surface_text" yaml:"surface_text"`
	Type        Type     `json:"type" yaml:"type"`
	Value       string   `json:"value" yaml:"value"`
	Rule        string   `json:"rule" yaml:"rule"`
	Modifier    Modifier `json:"modifier,omitempty" yaml:"modifier,omitempty"`
}

// IsDefault reports whether no cascade rule matched.
func (r *Result) IsDefault() bool {
	return r != nil && r.Rule == RuleDefault
}

// Default builds the no-match result for text.
func Default(text string) Result {
	return Result{
		SurfaceText: text,
		Type:        TypeDate,
		Value:       ValueUnknown,
		Rule:        RuleDefault,
	}
}

//Personal.AI order the ending
