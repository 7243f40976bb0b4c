package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lostar/internal/protocol"
	"github.com/roach88/lostar/internal/session"
	"github.com/roach88/lostar/internal/store"
	"github.com/roach88/lostar/internal/uart"
)

// DecodeOptions holds flags for the decode command.
type DecodeOptions struct {
	*RootOptions
	channelFlags
	Database     string
	TxtPath      string
	BytesPerLine int
	Dump         bool
	From         float64
	To           float64
}

// ChannelSummary reports the decode statistics of one channel. Frames and
// Dropped are zero for views read back from the database.
type ChannelSummary struct {
	Label    string `json:"label"`
	Bit      int    `json:"bit"`
	Baud     int    `json:"baud"`
	Frames   int    `json:"frames"`
	Messages int    `json:"messages"`
	Dropped  int    `json:"dropped"`
}

// EntryView is one entry of the merged protocol view.
type EntryView struct {
	Label    string         `json:"label"`
	Start    float64        `json:"start"`
	Duration float64        `json:"duration"`
	Hex      string         `json:"hex"`
	ASCII    string         `json:"ascii"`
	Rows     []protocol.Row `json:"rows,omitempty"`
}

// DecodeResult holds the decode output.
type DecodeResult struct {
	Session  string           `json:"session"`
	Stored   string           `json:"stored,omitempty"`
	Channels []ChannelSummary `json:"channels"`
	Entries  []EntryView      `json:"entries"`
	Export   string           `json:"export,omitempty"`
}

type timeWindow struct {
	From, To float64
}

// decodeView is a merged protocol view ready for output.
type decodeView struct {
	Session  *session.Session
	Stored   string
	Channels []ChannelSummary
	Protocol *protocol.Timeline[uart.Message]
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode <capture>",
		Short: "Decode UART channels and print the merged protocol view",
		Long: `Decode one or more UART channels of a capture and merge them in time order.

The capture is a file (.xml, .lcap, .cbor, .yaml) or the id or name of a
capture stored with "lostar import". Channels come from a session file
(--session) or from the single-channel flags. A stored capture imported
with --session prints its saved view unless channel flags are given.
--from and --to keep only the entries starting inside the window.

Examples:
  lostar decode bench.xml --bit 0 --baud 9600 --label rx
  lostar decode bench.xml --session modem.yaml --txt modem.txt
  lostar decode bench --db ./lostar.db --from 1.0 --to 2.5 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "session file (.yaml or .cue)")
	cmd.Flags().IntVar(&opts.Bit, "bit", 0, "line to decode when no session is given")
	cmd.Flags().IntVar(&opts.Baud, "baud", 0, "baud rate (default from config)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "channel label (default bitN)")
	cmd.Flags().BoolVar(&opts.Invert, "invert", false, "line idles low")
	cmd.Flags().StringVar(&opts.Database, "db", "", "database used to resolve stored captures (default from config)")
	cmd.Flags().StringVar(&opts.TxtPath, "txt", "", "also write the fixed-width text export to this path")
	cmd.Flags().IntVar(&opts.BytesPerLine, "bytes-per-line", 0, "bytes per text line (default from session or config)")
	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print a hex dump of every message")
	cmd.Flags().Float64Var(&opts.From, "from", 0, "window start in seconds")
	cmd.Flags().Float64Var(&opts.To, "to", 0, "window end in seconds")
	cmd.MarkFlagsRequiredTogether("from", "to")

	return cmd
}

func runDecode(opts *DecodeOptions, ref string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	settings := opts.Settings()
	flags := cmd.Flags()

	singleChannel := flags.Changed("bit") || flags.Changed("label") || flags.Changed("invert")
	if opts.Session != "" && singleChannel {
		return commandError(formatter, ErrCodeInvalidArgs, "--session cannot be combined with --bit, --label or --invert", nil)
	}

	var window *timeWindow
	if flags.Changed("from") {
		if opts.From >= opts.To {
			return commandError(formatter, ErrCodeInvalidArgs, "--from must be before --to", nil)
		}
		window = &timeWindow{From: opts.From, To: opts.To}
	}

	db := opts.Database
	if db == "" {
		db = settings.DB
	}

	var view *decodeView
	if opts.Session == "" && !singleChannel && !flags.Changed("baud") {
		stored, ok, err := loadStoredView(ctx, formatter, ref, db, window)
		if err != nil {
			return err
		}
		if ok {
			view = storedDecodeView(stored)
		}
	}
	if view == nil {
		var err error
		view, err = decodeCapture(ctx, formatter, opts, ref, db, settings.DefaultBaud, window)
		if err != nil {
			return err
		}
	}

	bytesPerLine := opts.BytesPerLine
	if bytesPerLine <= 0 {
		bytesPerLine = view.Session.ExportWidth(settings.BytesPerLine)
	}

	result := buildDecodeResult(view, opts.Dump, bytesPerLine)
	if opts.TxtPath != "" {
		if err := view.Protocol.TxtExport(opts.TxtPath, bytesPerLine); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, "failed to write text export", err)
		}
		result.Export = opts.TxtPath
		formatter.VerboseLog("Wrote %s", opts.TxtPath)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputDecodeText(cmd, view, result, bytesPerLine)
}

// decodeCapture decodes the raw samples of a capture file or stored capture.
func decodeCapture(ctx context.Context, f *OutputFormatter, opts *DecodeOptions, ref, db string, defaultBaud int, window *timeWindow) (*decodeView, error) {
	c, err := loadCapture(ctx, f, ref, db)
	if err != nil {
		return nil, err
	}

	sess, err := loadSession(f, opts.channelFlags, defaultBaud)
	if err != nil {
		return nil, err
	}

	res, err := session.Build(c, sess)
	if err != nil {
		return nil, commandError(f, ErrCodeDecodeFailed, "failed to decode capture", err)
	}

	view := &decodeView{
		Session:  res.Session,
		Channels: make([]ChannelSummary, 0, len(res.Channels)),
		Protocol: res.Protocol,
	}
	for _, ch := range res.Channels {
		view.Channels = append(view.Channels, ChannelSummary{
			Label:    ch.Channel.Label,
			Bit:      ch.Channel.Bit,
			Baud:     ch.Timeline.Config.Baud,
			Frames:   ch.Timeline.Stats.Frames,
			Messages: ch.Timeline.Stats.Messages,
			Dropped:  ch.Timeline.Stats.Dropped,
		})
	}

	if window != nil {
		entries := res.Protocol.Entries()
		lo := res.Protocol.Following(window.From)
		hi := lo
		for hi < len(entries) && entries[hi].Span.Start <= window.To {
			hi++
		}
		view.Protocol, err = store.ProtocolTimeline(res.Session, entries[lo:hi])
		if err != nil {
			return nil, commandError(f, ErrCodeDecodeFailed, "failed to narrow protocol view", err)
		}
	}
	return view, nil
}

// storedDecodeView summarizes a stored view per session channel. Messages
// counts the entries of each channel inside the view.
func storedDecodeView(stored *storedView) *decodeView {
	counts := map[string]int{}
	for _, e := range stored.Protocol.Entries() {
		counts[e.Label]++
	}

	view := &decodeView{
		Session:  stored.Session,
		Stored:   stored.CaptureID,
		Channels: make([]ChannelSummary, 0, len(stored.Session.Channels)),
		Protocol: stored.Protocol,
	}
	for _, ch := range stored.Session.Channels {
		view.Channels = append(view.Channels, ChannelSummary{
			Label:    ch.Label,
			Bit:      ch.Bit,
			Baud:     ch.Baud,
			Messages: counts[ch.Label],
		})
	}
	return view
}

func buildDecodeResult(view *decodeView, dump bool, bytesPerLine int) DecodeResult {
	result := DecodeResult{
		Session:  view.Session.Name,
		Stored:   view.Stored,
		Channels: view.Channels,
		Entries:  make([]EntryView, 0, view.Protocol.Len()),
	}

	for i := 0; i < view.Protocol.Len(); i++ {
		e := view.Protocol.At(i)
		data := e.Span.Payload.Bytes()
		entry := EntryView{
			Label:    e.Label,
			Start:    e.Span.Start,
			Duration: e.Span.Duration,
			Hex:      protocol.Hex(data),
			ASCII:    protocol.ASCII(data),
		}
		if dump {
			entry.Rows = protocol.Rows(data, bytesPerLine)
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

func outputDecodeText(cmd *cobra.Command, view *decodeView, result DecodeResult, bytesPerLine int) error {
	w := cmd.OutOrStdout()

	if result.Stored != "" {
		fmt.Fprintf(w, "stored view of %s\n", result.Stored)
	}
	for _, ch := range result.Channels {
		if result.Stored != "" {
			fmt.Fprintf(w, "%s: bit %d @ %d baud, %d messages\n", ch.Label, ch.Bit, ch.Baud, ch.Messages)
			continue
		}
		fmt.Fprintf(w, "%s: bit %d @ %d baud, %d frames, %d messages, %d dropped\n",
			ch.Label, ch.Bit, ch.Baud, ch.Frames, ch.Messages, ch.Dropped)
	}
	fmt.Fprintln(w)

	if err := view.Protocol.WriteTxt(w, bytesPerLine); err != nil {
		return err
	}

	for _, e := range result.Entries {
		if len(e.Rows) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%.6f %s\n", e.Start, e.Label)
		for _, row := range e.Rows {
			fmt.Fprintf(w, "  %s  %-*s  %s\n", row.Address, 3*bytesPerLine-1, row.Hex, row.ASCII)
		}
	}
	return nil
}
