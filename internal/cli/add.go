package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/session"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/view"
)

// AddResult is the JSON payload of a successful add.
type AddResult struct {
	TID     taxpayer.TID      `json:"tid"`
	Records []taxpayer.Record `json:"records"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [first-name last-name address]",
		Short: "Add a taxpayer record",
		Long: `Add a taxpayer record and print the refreshed record list.

All three fields are required. When they are omitted and stdin is a
terminal, the command prompts for each one.

Example:
  taxheaven add Ann Lee "1 Main St"
  taxheaven add --format json Ann Lee "1 Main St"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("accepts 0 or 3 arg(s), received %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runAdd(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	form := &view.Form{}
	switch {
	case len(args) == 3:
		_ = form.Set(taxpayer.ColumnFirstName, args[0])
		_ = form.Set(taxpayer.ColumnLastName, args[1])
		_ = form.Set(taxpayer.ColumnAddress, args[2])
	case isTerminal(cmd.InOrStdin()):
		if err := promptForm(cmd, form); err != nil {
			if errors.Is(err, context.Canceled) {
				return NewExitError(ExitFailure, "interrupted")
			}
			return WrapExitError(ExitCommandError, "failed to read input", err)
		}
	default:
		return formatter.Fail(ExitCommandError, ErrCodeValidation,
			"first name, last name and address are required", nil)
	}

	if missing := form.Missing(); len(missing) > 0 {
		return formatter.Fail(ExitCommandError, ErrCodeValidation, taxpayer.Describe(missing), missing)
	}

	a, err := openApp(opts, cmd, formatter)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.controller(form)
	receipt := ctrl.SubmitNew(cmd.Context(), form.Fields())

	switch receipt.Status {
	case session.StatusAdded:
		snap := ctrl.Snapshot()
		if formatter.Format == "json" {
			return formatter.Success(AddResult{TID: receipt.TID, Records: snap.Records})
		}
		fmt.Fprintf(formatter.Writer, "New taxpayer added with TID: %d\n", receipt.TID)
		return a.table().Render(formatter.Writer, snap)
	case session.StatusRejected:
		return formatter.Fail(ExitFailure, ErrCodeRejected, receipt.Reason, nil)
	default:
		return formatter.Fail(ExitFailure, ErrCodeFault, "the record store is unavailable", receipt.Err.Error())
	}
}

// promptForm asks for each input on the command's stdin. It gives up with
// ctx.Err() once the command's context is cancelled.
func promptForm(cmd *cobra.Command, form *view.Form) error {
	ctx := cmd.Context()
	reader := bufio.NewReader(cmd.InOrStdin())

	type line struct {
		text string
		err  error
	}
	for _, col := range []taxpayer.Column{taxpayer.ColumnFirstName, taxpayer.ColumnLastName, taxpayer.ColumnAddress} {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ", col.Title())

		next := make(chan line, 1)
		go func() {
			text, err := reader.ReadString('\n')
			next <- line{text, err}
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case l := <-next:
			if l.err != nil && l.text == "" {
				return l.err
			}
			_ = form.Set(col, strings.TrimRight(l.text, "\r\n"))
		}
	}
	return nil
}
