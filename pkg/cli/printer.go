package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter returns a Printer writing to out. Colors are only used when
// out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{out: out}
	if f, ok := out.(*os.File); ok {
		p.color = !color.NoColor && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	return p
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.out, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

func (p *Printer) paint(c *color.Color, s string) string {
	if !p.color {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// PrintField prints an aligned "key: value" line.
func (p *Printer) PrintField(key string, value any) {
	p.Printf("%s %v\n", p.paint(color.New(color.Bold), fmt.Sprintf("%-18s", key+":")), value)
}

// PrintStatus prints key followed by "enabled" or "disabled".
func (p *Printer) PrintStatus(key string, enabled bool) {
	status := p.paint(color.New(color.FgRed), "disabled")
	if enabled {
		status = p.paint(color.New(color.FgGreen), "enabled")
	}
	p.PrintField(key, status)
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) {
	p.Printf("%s %s\n", p.paint(color.New(color.FgRed, color.Bold), "error:"), err)
}
