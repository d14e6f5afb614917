package root

import (
	"fmt"
	"io"
	"os"

	"fjacquet/finance-manager/internal/alert"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Output writes command results, coloured when stdout is a terminal.
type Output struct {
	out  io.Writer
	err  io.Writer
	ok   *color.Color
	warn *color.Color
	bad  *color.Color
}

// Printer returns an Output bound to cmd's streams.
func Printer(cmd *cobra.Command) *Output {
	o := &Output{
		out:  cmd.OutOrStdout(),
		err:  cmd.ErrOrStderr(),
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		bad:  color.New(color.FgRed, color.Bold),
	}
	if !isTerminal(o.out) {
		o.ok.DisableColor()
		o.warn.DisableColor()
		o.bad.DisableColor()
	}
	return o
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer is the plain result stream.
func (o *Output) Writer() io.Writer {
	return o.out
}

// Success prints a confirmation line.
func (o *Output) Success(format string, args ...interface{}) {
	o.ok.Fprintf(o.out, format+"\n", args...)
}

// Info prints an uncoloured line.
func (o *Output) Info(format string, args ...interface{}) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Warn prints a warning to stderr.
func (o *Output) Warn(format string, args ...interface{}) {
	o.warn.Fprintf(o.err, format+"\n", args...)
}

// Alerts prints each alert, red for exceeded budgets and negative balances.
func (o *Output) Alerts(alerts []alert.Alert) {
	if len(alerts) == 0 {
		return
	}
	fmt.Fprintln(o.out)
	for _, a := range alerts {
		c := o.warn
		if a.Type == alert.TypeBudgetExceeded || a.Type == alert.TypeNegativeBalance {
			c = o.bad
		}
		c.Fprintf(o.out, "! %s\n", a.Message)
	}
}
