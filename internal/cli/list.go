package cli

import (
	"github.com/spf13/cobra"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	SortBy     string
	Descending bool
	Page       int
	PageSize   int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List taxpayer records",
		Long: `Fetch every taxpayer record from the store and print it as a table.

With --format json the records are printed as a JSON array, sorted the
same way as the table but not paginated.

Example:
  taxheaven list --db ./taxheaven.db
  taxheaven list --sort lastName --desc --page 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "sort column: tid, firstName, lastName or address (default from config)")
	cmd.Flags().BoolVar(&opts.Descending, "desc", false, "sort descending")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page to show")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "rows per page (default from config)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	a, err := openApp(opts.RootOptions, cmd, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	table := a.table()
	if opts.SortBy != "" {
		col, err := taxpayer.ParseColumn(opts.SortBy)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		table.SortBy = col
	}
	if cmd.Flags().Changed("desc") {
		table.Descending = opts.Descending
	}
	if opts.PageSize > 0 {
		table.PageSize = opts.PageSize
	}
	table.Page = opts.Page

	ctrl := a.controller(nil)
	if !ctrl.Refresh(cmd.Context()) {
		return formatter.Fail(ExitFailure, ErrCodeFetch, "failed to fetch taxpayers", nil)
	}
	snap := ctrl.Snapshot()

	if formatter.Format == "json" {
		return formatter.Success(taxpayer.Sort(snap.Records, table.SortBy, table.Descending))
	}
	return table.Render(formatter.Writer, snap)
}
