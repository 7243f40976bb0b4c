package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lostar/internal/digital"
)

// StateOptions holds flags for the state command.
type StateOptions struct {
	*RootOptions
	Database string
	Bit      int
	At       float64
	From     float64
	To       float64
}

// LevelChange is a level holding from Time onward.
type LevelChange struct {
	Time  float64 `json:"time"`
	Level bool    `json:"level"`
}

// StateResult holds the state query output.
type StateResult struct {
	Bit          int     `json:"bit"`
	InitialState bool    `json:"initial_state"`
	Transitions  int     `json:"transitions"`
	MinTime      float64 `json:"min_time"`
	MaxTime      float64 `json:"max_time"`

	At       *float64 `json:"at,omitempty"`
	Level    *bool    `json:"level,omitempty"`
	Previous *float64 `json:"previous,omitempty"`
	Next     *float64 `json:"next,omitempty"`

	Window     []LevelChange `json:"window,omitempty"`
	StartLevel *bool         `json:"start_level,omitempty"`
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "state <capture>",
		Short: "Query the level of one line",
		Long: `Query the digital level of one line of a capture.

Without --at or --from/--to the command summarizes the line. With --at it
prints the level at that time and the nearest transitions around it. With
--from and --to it lists every level change in the window.

Examples:
  lostar state bench.xml --bit 3
  lostar state bench.xml --bit 3 --at 1.25
  lostar state bench.xml --bit 3 --from 1.0 --to 1.5 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "database used to resolve stored captures (default from config)")
	cmd.Flags().IntVar(&opts.Bit, "bit", 0, "line to query")
	cmd.Flags().Float64Var(&opts.At, "at", 0, "time in seconds")
	cmd.Flags().Float64Var(&opts.From, "from", 0, "window start in seconds")
	cmd.Flags().Float64Var(&opts.To, "to", 0, "window end in seconds")
	cmd.MarkFlagsRequiredTogether("from", "to")
	cmd.MarkFlagsMutuallyExclusive("at", "from")

	return cmd
}

func runState(opts *StateOptions, ref string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	db := opts.Database
	if db == "" {
		db = opts.Settings().DB
	}
	c, err := loadCapture(ctx, formatter, ref, db)
	if err != nil {
		return err
	}

	line, err := digital.New(c, opts.Bit)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "invalid line", err)
	}

	result := StateResult{
		Bit:          opts.Bit,
		InitialState: line.InitialState(),
		Transitions:  line.Len(),
	}
	result.MinTime, _ = line.MinTime()
	result.MaxTime, _ = line.MaxTime()

	switch {
	case cmd.Flags().Changed("at"):
		at := opts.At
		level := line.StateAt(at)
		result.At = &at
		result.Level = &level
		if prev, ok := line.NearestTransition(at, true); ok {
			result.Previous = &prev
		}
		if next, ok := line.NearestTransition(at, false); ok {
			result.Next = &next
		}

	case cmd.Flags().Changed("from"):
		result.Window = []LevelChange{}
		start, err := line.ForEach(opts.From, opts.To, func(level bool, t float64) {
			result.Window = append(result.Window, LevelChange{Time: t, Level: level})
		})
		if err != nil {
			return commandError(formatter, ErrCodeInvalidArgs, "invalid window", err)
		}
		result.StartLevel = &start
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputStateText(cmd, result)
	return nil
}

func levelName(level bool) string {
	if level {
		return "high"
	}
	return "low"
}

func outputStateText(cmd *cobra.Command, r StateResult) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "bit %d: %d transitions from %.6f to %.6f, initially %s\n",
		r.Bit, r.Transitions, r.MinTime, r.MaxTime, levelName(r.InitialState))

	if r.Level != nil {
		fmt.Fprintf(w, "at %.6f: %s\n", *r.At, levelName(*r.Level))
		if r.Previous != nil {
			fmt.Fprintf(w, "previous transition: %.6f\n", *r.Previous)
		}
		if r.Next != nil {
			fmt.Fprintf(w, "next transition: %.6f\n", *r.Next)
		}
	}

	if r.StartLevel != nil {
		fmt.Fprintf(w, "window starts %s\n", levelName(*r.StartLevel))
	}
	for _, change := range r.Window {
		fmt.Fprintf(w, "%.6f %s\n", change.Time, levelName(change.Level))
	}
}
