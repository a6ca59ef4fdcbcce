// cmd/globalfreq/root.go

package main

import (
	"github.com/spf13/cobra"

	"globalfreq/internal/config"
	"globalfreq/internal/logging"
	service "globalfreq/internal/service/frequency"
)

// app carries state shared by all subcommands
type app struct {
	cfg config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "globalfreq",
		Short: "Combine regional frequency trajectories into a global estimate",
		Long: `globalfreq merges per-region mutation and clade frequency trajectories
into one global trajectory, weighting regions by population size and by how
densely each region was sampled at every pivot.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.Init(logging.Config{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				Timestamp: true,
				Output:    cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.AddCommand(
		newCombineCommand(a),
		newServeCommand(a),
		newRegionsCommand(a),
	)

	return root
}

func (a *app) combiner() *service.Combiner {
	return service.NewCombiner(a.cfg.Frequency.RegionTable(), service.CombinerConfig{
		RidgeFraction: a.cfg.Frequency.RidgeFraction,
		Precision:     a.cfg.Frequency.Precision,
	})
}
