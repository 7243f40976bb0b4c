package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lostar/internal/capture"
	"github.com/roach88/lostar/internal/session"
	"github.com/roach88/lostar/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Name     string
	Session  string
}

// ImportResult holds the import output.
type ImportResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Transitions int    `json:"transitions"`
	Entries     int    `json:"entries"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <capture-file>",
		Short: "Store a capture in the database",
		Long: `Store a capture file in the database under a new id.

With --session the capture is decoded and the merged protocol view is
stored with it.

Examples:
  lostar import bench.xml --db ./lostar.db
  lostar import bench.xml --name modem --session modem.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "capture name (default file name)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "decode with this session file and store the result")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	settings := opts.Settings()

	c, err := capture.LoadFile(path)
	if err != nil {
		return commandError(formatter, ErrCodeLoadFailed, "failed to load capture", err)
	}

	var res *session.Result
	if opts.Session != "" {
		sess, err := loadSession(formatter, channelFlags{Session: opts.Session}, settings.DefaultBaud)
		if err != nil {
			return err
		}
		res, err = session.Build(c, sess)
		if err != nil {
			return commandError(formatter, ErrCodeDecodeFailed, "failed to decode capture", err)
		}
	}

	db := opts.Database
	if db == "" {
		db = settings.DB
	}
	st, err := store.Open(db)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, "failed to open database", err)
	}
	defer st.Close()

	name := opts.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	id, err := st.WriteCapture(ctx, name, c)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, "failed to store capture", err)
	}
	result := ImportResult{ID: id, Name: name, Transitions: c.Len()}

	if res != nil {
		entries := res.Protocol.Entries()
		if err := st.WriteProtocol(ctx, id, res.Session, entries); err != nil {
			return commandError(formatter, ErrCodeStoreFailed, "failed to store protocol view", err)
		}
		result.Entries = len(entries)
	}
	formatter.VerboseLog("Stored %s in %s", id, db)

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s (%d transitions, %d entries)\n",
		result.Name, result.ID, result.Transitions, result.Entries)
	return nil
}
