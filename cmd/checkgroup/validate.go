package main

import (
	"fmt"
	"io"

	"github.com/pthm/checkgroup"
	"github.com/pthm/checkgroup/internal/manifest"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a manifest and print the normalized groups",
	Long: `Loads the manifest, reports every problem it finds and prints each group
with its configuration normalized the way the server will apply it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("manifest")
		if err := runValidate(cmd.OutOrStdout(), path); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type normalizedGroup struct {
	Name      string              `yaml:"name"`
	Binding   string              `yaml:"binding"`
	Aggregate bool                `yaml:"aggregate"`
	Sensitive bool                `yaml:"sensitive"`
	Config    checkgroup.Config   `yaml:"config"`
	Choices   []checkgroup.Choice `yaml:"choices"`
}

func runValidate(w io.Writer, path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	out := make([]normalizedGroup, 0, len(m.Groups))
	for _, g := range m.Groups {
		def := g.Definition()
		out = append(out, normalizedGroup{
			Name:      def.Name,
			Binding:   checkgroup.ParseBindingPolicy(g.Binding).String(),
			Aggregate: g.Aggregate,
			Sensitive: g.Sensitive,
			Config:    def.Config,
			Choices:   def.Choices,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"groups": out}); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "# %d group(s) valid\n", len(out))
	return nil
}
