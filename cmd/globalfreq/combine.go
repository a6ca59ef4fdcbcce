// cmd/globalfreq/combine.go

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"globalfreq/internal/adapter/storage"
	"globalfreq/internal/logging"
)

func newCombineCommand(a *app) *cobra.Command {
	var (
		regions []string
		files   []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Combine regional frequency files into one global document",
		Long: `Combine regional frequency files into one global document.

Each --regions entry is paired with the --region-frequencies file at the same
position. The output holds the global trajectories, the shared pivots, and
every regional key prefixed with its region code.

Examples:
  globalfreq combine --regions europe,china \
      --region-frequencies eu.json,cn.json --output global.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCombine(cmd.Context(), regions, files, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVar(&regions, "regions", nil, "region names corresponding to the frequency files")
	cmd.Flags().StringSliceVar(&files, "region-frequencies", nil, "per-region frequency JSON files")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	_ = cmd.MarkFlagRequired("regions")
	_ = cmd.MarkFlagRequired("region-frequencies")

	return cmd
}

func (a *app) runCombine(ctx context.Context, regions, files []string, output string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())

	inputs, err := storage.LoadRegionInputs(regions, files)
	if err != nil {
		return err
	}

	combiner := a.combiner()
	result, err := combiner.Combine(ctx, inputs)
	if err != nil {
		return fmt.Errorf("combining regions: %w", err)
	}

	if output == "-" {
		return combiner.Exporter().Encode(stdout, result.Document)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("error creating output: %w", err)
	}
	if err := combiner.Exporter().Encode(f, result.Document); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing output: %w", err)
	}

	logging.Ctx(ctx).Info().Str("output", output).Int("keys", len(result.Document)).Msg("Wrote global frequencies")
	return nil
}
