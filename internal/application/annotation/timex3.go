package annotation

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// Format is a TIMEX3 attribute dialect.
type Format string

const (
	// FormatTimeML writes tid/type/value/mod and spells FREQUENCY as SET.
	FormatTimeML Format = "timeml"
	// FormatI2B2 writes id/start/end/text/type/val/mod as standalone tags.
	FormatI2B2 Format = "i2b2"
)

// ParseFormat maps a case-insensitive dialect name to a Format.  Empty
// selects TimeML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "timeml":
		return FormatTimeML, nil
	case "i2b2", "clinical":
		return FormatI2B2, nil
	}
	return "", errors.Newf(errors.ErrCodeValidation, "unknown TIMEX3 format %q", s)
}

// Attribute is one name="value" pair of a TIMEX3 tag.
type Attribute struct {
	Name  string
	Value string
}

// Attributes returns the TIMEX3 attributes of a in the order they are
// written.  An absent modifier is omitted.
func Attributes(a Annotation, f Format) []Attribute {
	r := a.Result
	if f == FormatI2B2 {
		attrs := []Attribute{
			{"id", i2b2ID(a.TID)},
			{"start", strconv.Itoa(a.Span.Start)},
			{"end", strconv.Itoa(a.Span.End)},
			{"text", a.Span.Text},
			{"type", string(r.Type.Canonical())},
			{"val", r.Value},
		}
		if !r.Modifier.IsNone() {
			attrs = append(attrs, Attribute{"mod", string(r.Modifier)})
		}
		return attrs
	}

	typ := r.Type.Canonical()
	if typ == timex.TypeFrequency {
		typ = timex.TypeSet
	}
	attrs := []Attribute{
		{"tid", a.TID},
		{"type", string(typ)},
		{"value", r.Value},
	}
	if !r.Modifier.IsNone() {
		attrs = append(attrs, Attribute{"mod", string(r.Modifier)})
	}
	return attrs
}

// RenderTag writes a as one TIMEX3 element.  TimeML wraps the span text;
// i2b2 carries it in the text attribute of an empty element.
func RenderTag(a Annotation, f Format) string {
	var sb strings.Builder
	sb.WriteString("<TIMEX3")
	for _, attr := range Attributes(a, f) {
		sb.WriteByte(' ')
		sb.WriteString(attr.Name)
		sb.WriteString(`="`)
		escape(&sb, attr.Value)
		sb.WriteByte('"')
	}
	if f == FormatI2B2 {
		sb.WriteString(" />")
		return sb.String()
	}
	sb.WriteByte('>')
	escape(&sb, a.Span.Text)
	sb.WriteString("</TIMEX3>")
	return sb.String()
}

// Render writes one tag per annotation, in span order.
func Render(annotations []Annotation, f Format) []string {
	tags := make([]string, len(annotations))
	for i, a := range annotations {
		tags[i] = RenderTag(a, f)
	}
	return tags
}

func escape(sb *strings.Builder, s string) {
	// strings.Builder writes never fail.
	_ = xml.EscapeText(sb, []byte(s))
}

// i2b2ID turns "t3" into "T3".
func i2b2ID(tid string) string {
	return strings.ToUpper(tid)
}

//Personal.AI order the ending
