package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// printer writes coloured status lines. Colour is dropped when w is not a terminal.
type printer struct {
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{out: termenv.NewOutput(w)}
}

func (p *printer) styled(hex string, bold bool, format string, args ...any) string {
	s := p.out.String(fmt.Sprintf(format, args...)).Foreground(p.out.Color(hex))
	if bold {
		s = s.Bold()
	}
	return s.String()
}

func (p *printer) ok(format string, args ...any) {
	fmt.Fprintln(p.out, p.styled("#3fb950", true, "ok")+"    "+fmt.Sprintf(format, args...))
}

func (p *printer) warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.styled("#d29922", true, "warn")+"  "+fmt.Sprintf(format, args...))
}

func (p *printer) fail(format string, args ...any) {
	fmt.Fprintln(p.out, p.styled("#f85149", true, "error")+" "+fmt.Sprintf(format, args...))
}

func (p *printer) heading(format string, args ...any) {
	fmt.Fprintln(p.out, p.styled("#58a6ff", true, format, args...))
}

func (p *printer) row(label string, value any) {
	fmt.Fprintf(p.out, "  %-14s %v\n", label, value)
}
