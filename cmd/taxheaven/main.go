package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/cli"
)

// main is the entrypoint for the taxheaven CLI.
func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command tree and maps the result to a process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	cli.Report(os.Stderr, err)
	return cli.GetExitCode(err)
}
