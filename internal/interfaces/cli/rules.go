package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// RulesView lists a cascade in evaluation order.
type RulesView struct {
	Domain string   `json:"domain"`
	Rules  []string `json:"rules"`
}

// TableHeaders implements tableData.
func (v *RulesView) TableHeaders() []string {
	return []string{"#", "Rule"}
}

// TableRows implements tableData.
func (v *RulesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Rules))
	for i, name := range v.Rules {
		rows = append(rows, []string{strconv.Itoa(i + 1), name})
	}
	return rows
}

// TextLines implements textData.
func (v *RulesView) TextLines() []string {
	return v.Rules
}

// NewRulesCmd creates the rules command.
func NewRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rules",
		Short:   "List the rule cascade of a domain in evaluation order",
		Example: "  timexnorm rules -d clinical -o text",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			rules, err := cliCtx.Service.Rules(cliCtx.Domain)
			if err != nil {
				return err
			}
			domain := cliCtx.Domain
			if domain == "" {
				domain = cliCtx.Config.Normaliser.Domain
			}
			return PrintResult(cmd, &RulesView{Domain: domain, Rules: rules})
		},
	}
}

//Personal.AI order the ending
