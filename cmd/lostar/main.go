// LoStar CLI: decode and browse logic-state recorder captures.
//
// Usage:
//
//	lostar <command> [flags]
//
// Commands:
//
//	decode    Decode UART channels and print the protocol view
//	state     Query a line level at a time or over a window
//	generate  Synthesize a capture carrying UART data
//	import    Store a capture in the database
//	list      List stored captures
//	ticks     Print the time axis ticks for a range
package main

import (
	"os"

	"github.com/roach88/lostar/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		cli.ReportError(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
