package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/al-mudeer/inbox-agent/internal/analytics"
)

var statsLicenseID int64

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print today's analytics counters for a license",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Analytics.Enabled {
			return eris.New("stats: analytics is disabled in config")
		}

		rec, err := analytics.NewSQLite(cfg.Analytics.DBPath)
		if err != nil {
			return eris.Wrap(err, "stats: open analytics db")
		}
		defer func() { _ = rec.Close() }()

		if err := rec.Migrate(cmd.Context()); err != nil {
			return eris.Wrap(err, "stats: migrate analytics db")
		}

		counters, err := rec.Snapshot(cmd.Context(), statsLicenseID)
		if err != nil {
			return eris.Wrap(err, "stats: read counters")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(counters), "stats: encode counters")
	},
}

func init() {
	statsCmd.Flags().Int64Var(&statsLicenseID, "license", 0, "license id to report on")
	_ = statsCmd.MarkFlagRequired("license")
	rootCmd.AddCommand(statsCmd)
}
