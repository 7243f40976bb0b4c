package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lostar/internal/axis"
)

// TicksOptions holds flags for the ticks command.
type TicksOptions struct {
	*RootOptions
	Min    float64
	Max    float64
	Pixels float64
}

// TicksResult holds the ticks output.
type TicksResult struct {
	Step     float64     `json:"step"`
	Decimals int         `json:"decimals"`
	Ticks    []axis.Tick `json:"ticks"`
}

// NewTicksCommand creates the ticks command.
func NewTicksCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TicksOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ticks",
		Short: "Print the time axis ticks for a range",
		Long: `Print the ticks chosen for an axis showing [min, max] over a given width.

Examples:
  lostar ticks --min 10.45 --max 11.65 --pixels 1000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTicks(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Min, "min", 0, "axis start")
	cmd.Flags().Float64Var(&opts.Max, "max", 1, "axis end")
	cmd.Flags().Float64Var(&opts.Pixels, "pixels", 1000, "axis length in pixels")

	return cmd
}

func runTicks(opts *TicksOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if opts.Pixels <= 0 {
		return commandError(formatter, ErrCodeInvalidArgs, "--pixels must be positive", nil)
	}

	g := axis.NewGenerator(opts.Min, opts.Max, opts.Pixels)
	result := TicksResult{Step: g.Step(), Decimals: g.Decimals(), Ticks: g.Ticks()}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	for _, tick := range result.Ticks {
		fmt.Fprintln(cmd.OutOrStdout(), tick.Label)
	}
	return nil
}
