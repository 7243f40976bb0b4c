package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/digital"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output string
	Baud   int
	Gap    float64
	Hex    []string
	Text   []string
}

// GenerateResult holds the generate output.
type GenerateResult struct {
	Output      string `json:"output"`
	Lines       int    `json:"lines"`
	Bytes       int    `json:"bytes"`
	Transitions int    `json:"transitions"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize a capture carrying UART data",
		Long: `Synthesize a capture where each line carries idle-high UART frames.

Every --hex or --text flag adds one line, in order, starting from bit 0.
Frames on a line start every --gap seconds. The output format follows the
file extension: .xml for the recorder format, .lcap or .cbor for the
compact binary format.

Examples:
  lostar generate --baud 9600 --text "AT" --text "OK" -o bench.xml
  lostar generate --baud 115200 --gap 0.001 --hex "01 02 ff" -o bench.lcap`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "capture file to write (required)")
	_ = cmd.MarkFlagRequired("output")
	cmd.Flags().IntVar(&opts.Baud, "baud", 0, "baud rate (default from config)")
	cmd.Flags().Float64Var(&opts.Gap, "gap", 0, "seconds between frame starts (default one frame time)")
	cmd.Flags().StringArrayVar(&opts.Hex, "hex", nil, "bytes of one line as hex, spaces allowed")
	cmd.Flags().StringArrayVar(&opts.Text, "text", nil, "bytes of one line as text")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	baud := opts.Baud
	if baud <= 0 {
		baud = opts.Settings().DefaultBaud
	}
	gap := opts.Gap
	if gap <= 0 {
		gap = 10 / float64(baud)
	}

	var payloads [][]byte
	for _, h := range opts.Hex {
		data, err := parseHex(h)
		if err != nil {
			return commandError(formatter, ErrCodeInvalidArgs, "invalid --hex value", err)
		}
		payloads = append(payloads, data)
	}
	for _, text := range opts.Text {
		payloads = append(payloads, []byte(text))
	}
	if len(payloads) == 0 {
		return commandError(formatter, ErrCodeInvalidArgs, "at least one --hex or --text line is required", nil)
	}

	lines := make([]*digital.Timeline, 0, len(payloads))
	total := 0
	for _, data := range payloads {
		lines = append(lines, digital.GenerateUART(baud, gap, data...))
		total += len(data)
	}

	c, err := digital.Compose(lines...)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "failed to compose lines", err)
	}
	if err := capture.SaveFile(opts.Output, c); err != nil {
		return commandError(formatter, ErrCodeWriteFailed, "failed to write capture", err)
	}

	result := GenerateResult{
		Output:      opts.Output,
		Lines:       len(lines),
		Bytes:       total,
		Transitions: c.Len(),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d lines, %d bytes, %d transitions\n",
		result.Output, result.Lines, result.Bytes, result.Transitions)
	return nil
}

// parseHex accepts "0102ff", "01 02 ff" and "01:02:FF".
func parseHex(s string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(s)
	return hex.DecodeString(clean)
}
