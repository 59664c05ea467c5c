// Package ui renders operator-facing notices and small terminal charts.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Printer writes styled one-line notices.
type Printer struct {
	w     io.Writer
	color bool

	warn    lipgloss.Style
	success lipgloss.Style
	fail    lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter styles output only when w is a terminal and NO_COLOR is unset.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithColor(w, ShouldUseColor(w))
}

// NewPrinterWithColor forces color on or off.
func NewPrinterWithColor(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		color:   color,
		warn:    r.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		success: r.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Color reports whether styling is enabled.
func (p *Printer) Color() bool { return p.color }

func (p *Printer) line(style lipgloss.Style, tag, format string, args ...any) {
	msg := tag + " " + fmt.Sprintf(format, args...)
	if p.color {
		msg = style.Render(msg)
	}
	// Best-effort terminal output.
	_, _ = fmt.Fprintln(p.w, msg)
}

// Warnf prints a warning notice.
func (p *Printer) Warnf(format string, args ...any) { p.line(p.warn, "[WARN]", format, args...) }

// Successf prints a success notice.
func (p *Printer) Successf(format string, args ...any) { p.line(p.success, "[OK]", format, args...) }

// Errorf prints an error notice.
func (p *Printer) Errorf(format string, args ...any) { p.line(p.fail, "[ERROR]", format, args...) }

// Infof prints an informational notice.
func (p *Printer) Infof(format string, args ...any) { p.line(p.muted, "[INFO]", format, args...) }

// Resultf prints a terminal result line.
func (p *Printer) Resultf(format string, args ...any) { p.line(p.warn, "[RESULT]", format, args...) }

// ShouldUseColor reports whether w is a color-capable terminal.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
