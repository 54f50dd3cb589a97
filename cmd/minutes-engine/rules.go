package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/minutes-engine/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective conversion rules as YAML",
	Long: `Rules prints the abbreviation, escape, whitelist, and layout rules that
convert would apply, after overlaying any --rules file on the built-in
defaults. The output is itself a valid rules file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesPath, _ := cmd.Flags().GetString("rules")
		r := rules.Default()
		if rulesPath != "" {
			var err error
			r, err = rules.Load(rulesPath)
			if err != nil {
				return fmt.Errorf("loading rules: %w", err)
			}
		}

		data, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rulesCmd.Flags().String("rules", "", "YAML rules file to overlay on the defaults")

	rootCmd.AddCommand(rulesCmd)
}
