package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/config"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/session"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/store"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/view"
)

// isTerminal reports whether r is an interactive terminal.
// Overridden in tests.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// app bundles what every command needs: resolved config, logger and an
// open record store.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
}

// openApp loads configuration, applies flag overrides and opens the store.
// The caller must Close the returned app.
func openApp(opts *RootOptions, cmd *cobra.Command, formatter *OutputFormatter) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err.Error())
	}
	if opts.Database != "" {
		cfg.Database.Driver = store.DriverSQLite
		cfg.Database.Path = opts.Database
	}

	logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Log, opts.Verbose)

	logger.Debug("opening database", "driver", cfg.Database.Driver, "path", cfg.Database.Path)
	st, err := store.Open(cfg.StoreConfig())
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStoreOpen, "failed to open database", err.Error())
	}
	logger.Debug("database ready")

	return &app{cfg: cfg, logger: logger, store: st}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

// controller builds a session controller over the app's store.
func (a *app) controller(form session.Form) *session.Controller {
	opts := []session.Option{session.WithLogger(a.logger)}
	if form != nil {
		opts = append(opts, session.WithForm(form))
	}
	return session.New(a.store, opts...)
}

// table returns the configured table defaults.
func (a *app) table() view.Table {
	// Validate already checked the column name.
	col, _ := taxpayer.ParseColumn(a.cfg.View.SortBy)
	return view.Table{
		SortBy:     col,
		Descending: a.cfg.View.Descending,
		PageSize:   a.cfg.View.PageSize,
		Page:       1,
	}
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
