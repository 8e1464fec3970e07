package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/timexnorm/internal/application/annotation"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/pkg/errors"
)

type annotateOptions struct {
	file   string
	dct    string
	format string
}

// AnnotateView is the printable result of the annotate command.
type AnnotateView struct {
	Documents []*annotation.AnnotatedDocument `json:"documents"`
}

// TableHeaders implements tableData.
func (v *AnnotateView) TableHeaders() []string {
	return []string{"Document", "TID", "Span", "Text", "Type", "Value", "Mod"}
}

// TableRows implements tableData.
func (v *AnnotateView) TableRows() [][]string {
	var rows [][]string
	for _, doc := range v.Documents {
		for _, a := range doc.Annotations {
			value := a.Result.Value
			if a.Result.IsDefault() {
				value = color.YellowString(value)
			}
			rows = append(rows, []string{
				doc.DocumentID,
				a.TID,
				strconv.Itoa(a.Span.Start) + "-" + strconv.Itoa(a.Span.End),
				a.Span.Text,
				string(a.Result.Type),
				value,
				string(a.Result.Modifier),
			})
		}
	}
	return rows
}

// TextLines implements textData: the rendered TIMEX3 tags.
func (v *AnnotateView) TextLines() []string {
	var lines []string
	for _, doc := range v.Documents {
		lines = append(lines, doc.Tags...)
	}
	return lines
}

// NewAnnotateCmd creates the annotate command.
func NewAnnotateCmd() *cobra.Command {
	opts := &annotateOptions{}
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Annotate the temporal spans of one or more documents",
		Long: `Annotate reads a document (or a list of documents) as JSON or YAML:

  {"id": "doc-1", "dct": "20120608", "spans": [{"start": 0, "end": 9, "text": "yesterday"}]}

and emits one TIMEX3 annotation per span, resolving anaphoric spans
against the last full date seen in the same document.`,
		Example: `  timexnorm annotate -f record.json -d clinical --format i2b2 -o text
  cat doc.yaml | timexnorm annotate --dct 20120608`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnnotate(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "document file (.json, .yaml, .yml) or - for stdin")
	cmd.Flags().StringVar(&opts.dct, "dct", "", "override the creation time of every document")
	cmd.Flags().StringVar(&opts.format, "format", "", "TIMEX3 dialect: timeml|i2b2 (default from config)")
	return cmd
}

func runAnnotate(cmd *cobra.Command, opts *annotateOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if opts.format != "" {
		if _, err := annotation.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	raw, err := readInput(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}
	docs, err := decodeDocuments(raw, filepath.Ext(opts.file))
	if err != nil {
		return err
	}
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("doc-%d", i+1)
		}
		if opts.dct != "" {
			doc.DCT = opts.dct
		}
		if doc.Domain == "" {
			doc.Domain = cliCtx.Domain
		}
		if opts.format != "" {
			doc.Format = opts.format
		}
	}

	out, err := cliCtx.Service.AnnotateBatch(cmd.Context(), docs)
	if err != nil {
		return err
	}
	cliCtx.Logger.Debug("annotated documents", logging.Int("documents", len(out)))
	return PrintResult(cmd, &AnnotateView{Documents: out})
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if path == "" || path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "reading documents")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "no document input")
	}
	return raw, nil
}

// decodeDocuments accepts a single document or a list.  YAML is used for
// .yaml/.yml files and for stdin input that does not look like JSON.
func decodeDocuments(raw []byte, ext string) ([]*annotation.Document, error) {
	trimmed := bytes.TrimSpace(raw)
	isJSON := trimmed[0] == '{' || trimmed[0] == '['
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		isJSON = false
	case ".json":
		isJSON = true
	}

	var (
		docs []*annotation.Document
		err  error
	)
	if isJSON {
		if trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &docs)
		} else {
			doc := &annotation.Document{}
			err = json.Unmarshal(trimmed, doc)
			docs = []*annotation.Document{doc}
		}
	} else {
		var node yaml.Node
		if err = yaml.Unmarshal(trimmed, &node); err == nil {
			if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
				err = node.Decode(&docs)
			} else {
				doc := &annotation.Document{}
				err = node.Decode(doc)
				docs = []*annotation.Document{doc}
			}
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "decoding documents")
	}
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "no documents in input")
	}
	return docs, nil
}

//Personal.AI order the ending
