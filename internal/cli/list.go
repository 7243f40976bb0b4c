package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/lostar/internal/store"
	"github.com/roach88/lostar/internal/txtdoc"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored captures",
		Long: `List the captures stored in the database in import order.

Examples:
  lostar list --db ./lostar.db
  lostar list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	db := opts.Database
	if db == "" {
		db = opts.Settings().DB
	}
	st, err := store.Open(db)
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, "failed to open database", err)
	}
	defer st.Close()

	infos, err := st.ListCaptures(context.Background())
	if err != nil {
		return commandError(formatter, ErrCodeStoreFailed, "failed to list captures", err)
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	doc := txtdoc.New("Captures",
		txtdoc.Column{Width: 36},
		txtdoc.Column{Width: 20},
		txtdoc.Column{Width: 8, Align: txtdoc.AlignRight},
		txtdoc.Column{Width: 8, Align: txtdoc.AlignRight},
	)
	return doc.Write(cmd.OutOrStdout(), func(line int) ([]string, bool) {
		if line > len(infos) {
			return nil, false
		}
		if line == 0 {
			return []string{"ID", "NAME", "SAMPLES", "ENTRIES"}, true
		}
		info := infos[line-1]
		return []string{info.ID, info.Name, strconv.Itoa(info.Samples), strconv.Itoa(info.Entries)}, true
	})
}
