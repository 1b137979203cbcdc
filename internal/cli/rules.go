package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/adrianpk/safeguard/internal/policy"
)

// Output formats accepted by RunRules.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

type ruleView struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Pattern     string `yaml:"pattern"`
}

// RunRules writes the rules of p in evaluation order.
func RunRules(w io.Writer, p *policy.Policy, format string) error {
	rules := p.Rules()

	switch format {
	case FormatText, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCATEGORY\tDESCRIPTION")
		for _, r := range rules {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Category, r.Description)
		}
		return tw.Flush()

	case FormatYAML:
		views := make([]ruleView, 0, len(rules))
		for _, r := range rules {
			views = append(views, ruleView{
				Name:        r.Name,
				Category:    string(r.Category),
				Description: r.Description,
				Pattern:     r.Pattern.String(),
			})
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]ruleView{"rules": views}); err != nil {
			return fmt.Errorf("cannot encode rules: %w", err)
		}
		return enc.Close()
	}

	return fmt.Errorf("unknown format %q: use %s or %s", format, FormatText, FormatYAML)
}
