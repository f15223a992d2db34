package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
)

// RulesCmd implements the 'rules' command.
type RulesCmd struct {
	Format string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
}

// ruleView describes one registered rule.
type ruleView struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Chains  []string `json:"chains"`
}

// Run executes the rules command. Rules are listed in precedence order with
// the selection of the loaded configuration applied.
func (r *RulesCmd) Run(g *Global) error {
	md, err := newMarkdown(g, nil, nil)
	if err != nil {
		return err
	}
	ruler := md.Parser().Ruler()

	views := make([]ruleView, 0, ruler.Len())
	for _, name := range ruler.All() {
		chains := ruler.Chains(name)
		if chains == nil {
			chains = []string{}
		}
		views = append(views, ruleView{Name: name, Enabled: ruler.IsEnabled(name), Chains: chains})
	}

	if r.Format == FormatJSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tENABLED\tCHAINS")
	for _, v := range views {
		chains := "-"
		if len(v.Chains) > 0 {
			chains = strings.Join(v.Chains, ",")
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\n", v.Name, v.Enabled, chains)
	}
	return tw.Flush()
}
