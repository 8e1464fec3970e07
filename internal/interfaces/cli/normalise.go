package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

type normaliseOptions struct {
	reference string
	stdin     bool
}

// NormaliseView is the printable result of the normalise command.
type NormaliseView struct {
	Reference string         `json:"reference"`
	Domain    string         `json:"domain,omitempty"`
	Results   []timex.Result `json:"results"`
}

// TableHeaders implements tableData.
func (v *NormaliseView) TableHeaders() []string {
	return []string{"Expression", "Type", "Value", "Mod", "Rule"}
}

// TableRows implements tableData.
func (v *NormaliseView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Results))
	for _, r := range v.Results {
		rule := r.Rule
		if r.IsDefault() {
			rule = color.YellowString(rule)
		}
		rows = append(rows, []string{r.SurfaceText, string(r.Type), r.Value, string(r.Modifier), rule})
	}
	return rows
}

// TextLines implements textData: one tab-separated line per expression.
func (v *NormaliseView) TextLines() []string {
	lines := make([]string, 0, len(v.Results))
	for _, r := range v.Results {
		line := fmt.Sprintf("%s\t%s\t%s", r.SurfaceText, r.Type, r.Value)
		if !r.Modifier.IsNone() {
			line += "\t" + string(r.Modifier)
		}
		lines = append(lines, line)
	}
	return lines
}

// NewNormaliseCmd creates the normalise command.
func NewNormaliseCmd() *cobra.Command {
	opts := &normaliseOptions{}
	cmd := &cobra.Command{
		Use:   "normalise [expression...]",
		Short: "Normalise temporal expressions against a reference date",
		Example: `  timexnorm normalise --ref 20120608 yesterday "next Friday" "three weeks ago"
  timexnorm normalise --ref 20120608 -d clinical q.i.d. "POD #3"
  cat expressions.txt | timexnorm normalise --ref 20120608 --stdin -o text`,
		Aliases: []string{"normalize"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalise(cmd, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.reference, "ref", "r", "", "reference date, YYYYMMDD or YYYYMMDDThhmmss (required)")
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "read one expression per line from stdin")
	_ = cmd.MarkFlagRequired("ref")
	return cmd
}

func runNormalise(cmd *cobra.Command, opts *normaliseOptions, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	expressions := append([]string(nil), args...)
	if opts.stdin {
		lines, err := readLines(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeBadRequest, "reading expressions from stdin")
		}
		expressions = append(expressions, lines...)
	}
	if len(expressions) == 0 {
		return errors.New(errors.ErrCodeEmptyExpression, "no expressions given")
	}

	view := &NormaliseView{Reference: opts.reference, Domain: cliCtx.Domain}
	for _, expr := range expressions {
		res, err := cliCtx.Service.Normalise(cmd.Context(), expr, opts.reference, cliCtx.Domain)
		if err != nil {
			return err
		}
		view.Results = append(view.Results, *res)
	}
	cliCtx.Logger.Debug("normalised expressions", logging.Int("count", len(view.Results)))
	return PrintResult(cmd, view)
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

//Personal.AI order the ending
