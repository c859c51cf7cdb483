package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long:  "Prints the merged configuration (defaults, config file, environment) with API keys redacted. Useful as a starting point for a config.yaml.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := *cfg
		if out.OpenAI.Key != "" {
			out.OpenAI.Key = "<redacted>"
		}
		if out.Anthropic.Key != "" {
			out.Anthropic.Key = "<redacted>"
		}

		data, err := yaml.Marshal(&out)
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return eris.Wrap(err, "config: write")
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
