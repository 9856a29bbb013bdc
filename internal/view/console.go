package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/session"
	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

const consoleHelp = `Commands:
  add                 fill in the form and submit it
  retry               resubmit the values currently held by the form
  form                show the values held by the form
  refresh             reload records from the store
  sort <col> [desc]   sort by tid, firstName, lastName or address
  page <n>            show page n
  help                show this help
  quit                leave the console`

// Console is an interactive terminal front end for a controller.
//
// It re-renders on every controller notification: a loading indicator
// while busy, the table otherwise. Commands and listener callbacks run
// on the goroutine that called Run; a helper goroutine only reads input.
type Console struct {
	ctrl  *session.Controller
	form  *Form
	table Table
	in    *bufio.Scanner
	out   io.Writer
	lines <-chan string

	// Interactive enables prompts. Leave it off for scripted input.
	Interactive bool
}

// NewConsole wires a console to ctrl. form must be the same Form the
// controller resets (see session.WithForm).
func NewConsole(ctrl *session.Controller, form *Form, table Table, in io.Reader, out io.Writer) *Console {
	return &Console{
		ctrl:  ctrl,
		form:  form,
		table: table,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run loads the records and processes commands until quit, end of input
// or cancellation of ctx. Cancellation returns ctx.Err() without waiting
// for the next line.
func (c *Console) Run(ctx context.Context) error {
	unsubscribe := c.ctrl.Subscribe(c.render)
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	c.lines = c.scan(done)

	c.ctrl.Refresh(ctx)

	for {
		line, err := c.readLine(ctx, "> ")
		if err != nil {
			return c.inputErr(err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := strings.ToLower(fields[0]), fields[1:]
		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(c.out, consoleHelp)
		case "add":
			if err := c.fillForm(ctx); err != nil {
				return c.inputErr(err)
			}
			c.submit(ctx)
		case "retry":
			c.submit(ctx)
		case "form":
			c.showForm()
		case "refresh":
			c.ctrl.Refresh(ctx)
		case "sort":
			c.sort(args)
		case "page":
			c.page(args)
		default:
			fmt.Fprintf(c.out, "unknown command %q (type help)\n", cmd)
		}
	}
}

// scan feeds input lines to the returned channel until input ends or
// done is closed. The channel is closed when input ends.
func (c *Console) scan(done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for c.in.Scan() {
			select {
			case lines <- c.in.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// inputErr maps end of input to the scanner's error, nil on clean EOF.
func (c *Console) inputErr(err error) error {
	if errors.Is(err, io.EOF) {
		return c.in.Err()
	}
	return err
}

func (c *Console) render(snap session.Snapshot) {
	if err := c.table.Render(c.out, snap); err != nil {
		fmt.Fprintf(c.out, "render failed: %v\n", err)
	}
}

// readLine returns the next input line, io.EOF when input ends, or
// ctx.Err() once ctx is cancelled.
func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Interactive {
		fmt.Fprint(c.out, prompt)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// fillForm prompts for each input in form order.
func (c *Console) fillForm(ctx context.Context) error {
	for _, col := range []taxpayer.Column{taxpayer.ColumnFirstName, taxpayer.ColumnLastName, taxpayer.ColumnAddress} {
		value, err := c.readLine(ctx, col.Title()+": ")
		if err != nil {
			return err
		}
		// Set only fails for the TID column.
		_ = c.form.Set(col, value)
	}
	return nil
}

func (c *Console) submit(ctx context.Context) {
	if missing := c.form.Missing(); len(missing) > 0 {
		fmt.Fprintf(c.out, "cannot submit: %s\n", taxpayer.Describe(missing))
		return
	}

	fmt.Fprintln(c.out, SubmitLabel(true))
	receipt := c.ctrl.SubmitNew(ctx, c.form.Fields())
	switch receipt.Status {
	case session.StatusAdded:
		fmt.Fprintf(c.out, "New taxpayer added with TID: %d\n", receipt.TID)
	case session.StatusRejected:
		fmt.Fprintf(c.out, "Error adding taxpayer: %s\n", receipt.Reason)
	case session.StatusFault:
		fmt.Fprintln(c.out, "Error adding taxpayer: the record store is unavailable")
	}
}

func (c *Console) showForm() {
	f := c.form.Fields()
	fmt.Fprintf(c.out, "First Name: %s\nLast Name: %s\nAddress: %s\n", f.FirstName, f.LastName, f.Address)
}

func (c *Console) sort(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "usage: sort <col> [desc]")
		return
	}
	col, err := taxpayer.ParseColumn(args[0])
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	c.table.SortBy = col
	c.table.Descending = len(args) > 1 && strings.EqualFold(args[1], "desc")
	c.table.Page = 1
	c.render(c.ctrl.Snapshot())
}

func (c *Console) page(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "usage: page <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintf(c.out, "invalid page %q\n", args[0])
		return
	}
	c.table.Page = n
	c.render(c.ctrl.Snapshot())
}
