// cmd/globalfreq/regions.go

package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newRegionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "Print the configured population weights and region codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.cfg.Frequency.RegionTable().Regions())
		},
	}
}
