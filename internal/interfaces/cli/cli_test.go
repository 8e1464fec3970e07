package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/timexnorm/pkg/errors"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--no-color", "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"normalise", "annotate", "rules"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("domain"))
	assert.NotNil(t, root.PersistentFlags().Lookup("output"))
}

func TestNormalise_JSON(t *testing.T) {
	out, err := execute(t, "", "normalise", "--ref", "20120608", "-o", "json", "yesterday", "next Friday", "xyz")
	require.NoError(t, err)

	var view NormaliseView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Results, 3)
	assert.Equal(t, "20120608", view.Reference)
	assert.Equal(t, "2012-06-07", view.Results[0].Value)
	assert.Equal(t, "2012-06-15", view.Results[1].Value)
	assert.True(t, view.Results[2].IsDefault())
}

func TestNormalise_ClinicalText(t *testing.T) {
	out, err := execute(t, "", "normalise", "--ref", "20120608", "-d", "clinical", "-o", "text", "q.i.d.")
	require.NoError(t, err)
	assert.Equal(t, "q.i.d.\tFREQUENCY\tRPT6H\n", out)
}

func TestNormalise_Table(t *testing.T) {
	out, err := execute(t, "", "normalise", "--ref", "20120608", "yesterday")
	require.NoError(t, err)
	assert.Contains(t, out, "Expression")
	assert.Contains(t, out, "2012-06-07")
	assert.Contains(t, out, "yesterday")
}

func TestNormalise_Stdin(t *testing.T) {
	out, err := execute(t, "today\n\n  tomorrow \n", "normalise", "--ref", "20120608", "--stdin", "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, "today\tDATE\t2012-06-08\ntomorrow\tDATE\t2012-06-09\n", out)
}

func TestNormalise_Errors(t *testing.T) {
	_, err := execute(t, "", "normalise", "yesterday")
	assert.Error(t, err, "--ref is required")

	_, err = execute(t, "", "normalise", "--ref", "2012-06-08", "yesterday")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidReferenceDate))

	_, err = execute(t, "", "normalise", "--ref", "20120608")
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyExpression))

	_, err = execute(t, "", "normalise", "--ref", "20120608", "-d", "legal", "today")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedDomain))

	_, err = execute(t, "", "normalise", "--ref", "20120608", "-o", "xml", "today")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestAnnotate_JSONStdinText(t *testing.T) {
	doc := `{"id": "d1", "dct": "20120608", "spans": [{"start": 0, "end": 9, "text": "yesterday"}]}`
	out, err := execute(t, doc, "annotate", "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, `<TIMEX3 tid="t1" type="DATE" value="2012-06-07">yesterday</TIMEX3>`+"\n", out)
}

func TestAnnotate_YAMLFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.yaml")
	content := `
- spans:
    - {start: 4, end: 10, text: "q.i.d."}
- id: second
  spans:
    - {start: 0, end: 5, text: "today"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := execute(t, "", "annotate", "-f", path, "--dct", "20120608", "-d", "clinical", "--format", "i2b2", "-o", "json")
	require.NoError(t, err)

	var view AnnotateView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Documents, 2)
	assert.Equal(t, "doc-1", view.Documents[0].DocumentID)
	assert.Equal(t, "second", view.Documents[1].DocumentID)
	assert.Equal(t, "RPT6H", view.Documents[0].Annotations[0].Result.Value)
	assert.Equal(t, `<TIMEX3 id="T1" start="4" end="10" text="q.i.d." type="FREQUENCY" val="RPT6H" />`, view.Documents[0].Tags[0])
	assert.Equal(t, "2012-06-08", view.Documents[1].Annotations[0].Result.Value)
}

func TestAnnotate_Errors(t *testing.T) {
	_, err := execute(t, "", "annotate")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = execute(t, "{not json", "annotate", "-f", "-")
	assert.Error(t, err)

	_, err = execute(t, `{"dct": "20120608", "spans": []}`, "annotate", "--format", "html")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = execute(t, `{"dct": "yesterday", "spans": [{"start": 0, "end": 5, "text": "today"}]}`, "annotate")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidReferenceDate))
}

func TestRules(t *testing.T) {
	out, err := execute(t, "", "rules", "-d", "clinical", "-o", "json")
	require.NoError(t, err)

	var view RulesView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "clinical", view.Domain)
	assert.Contains(t, view.Rules, "clinical-stat")

	out, err = execute(t, "", "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "Rule")
	assert.Contains(t, out, "yesterday")
}

func TestFormatTable(t *testing.T) {
	assert.Empty(t, FormatTable(nil, nil))
	out := FormatTable([]string{"A", "B"}, [][]string{{"1", "2"}})
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "2")
}
