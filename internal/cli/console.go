package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/view"
)

// NewConsoleCommand creates the console command.
func NewConsoleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive taxpayer session",
		Long: `Open an interactive session: the record table is shown on start and
re-rendered after every change. Type "help" for commands.

Example:
  taxheaven console --db ./taxheaven.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(rootOpts, cmd)
		},
	}

	return cmd
}

func runConsole(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	a, err := openApp(opts, cmd, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	form := &view.Form{}
	ctrl := a.controller(form)

	console := view.NewConsole(ctrl, form, a.table(), cmd.InOrStdin(), cmd.OutOrStdout())
	console.Interactive = isTerminal(cmd.InOrStdin())

	a.logger.Info("console started", "driver", a.store.Driver())
	err = console.Run(cmd.Context())
	switch {
	case errors.Is(err, context.Canceled):
		a.logger.Info("console interrupted")
		return nil
	case err != nil:
		return WrapExitError(ExitFailure, "console input failed", err)
	}
	return nil
}
