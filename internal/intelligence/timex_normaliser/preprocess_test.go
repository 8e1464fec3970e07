package timex_normaliser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepare(t *testing.T) {
	cases := []struct {
		raw  string
		want forms
	}{
		{"Last Friday", forms{text: "Last Friday", expr: "last friday", bare: "last friday"}},
		{"the past week,", forms{text: "the past week", expr: "the past week", bare: "past week"}},
		{"  a   week ", forms{text: "a week", expr: "a week", bare: "week"}},
		{"-three days-", forms{text: "-three days-", expr: "three days", bare: "three days"}},
		{"Mar.&amp;Apr.", forms{text: "Mar.&Apr.", expr: "mar.&apr.", bare: "mar.&apr."}},
		{"New Year’s Eve", forms{text: "New Year's Eve", expr: "new year's eve", bare: "new year's eve"}},
		{"the", forms{text: "the", expr: "the", bare: "the"}},
		{"", forms{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, prepare(tc.raw), "%q", tc.raw)
	}
}

func TestPrepare_FoldsCompatibilityCharacters(t *testing.T) {
	// full-width digits fold to ASCII
	f := prepare("２０１２")
	assert.Equal(t, "2012", f.bare)
}

//Personal.AI order the ending
