package ui

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/seedaudit/internal/model"
)

const (
	terminalWidthBackup = 80
	minBarWidth         = 10
	maxBarWidth         = 60
)

// TerminalWidth returns the stdout width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// BarWidthFor sizes the bars for a terminal of totalWidth columns.
func BarWidthFor(totalWidth int) int {
	// "pos 11 |" prefix and " 100.0%" suffix.
	w := totalWidth - 16
	if w < minBarWidth {
		w = minBarWidth
	}
	if w > maxBarWidth {
		w = maxBarWidth
	}
	return w
}

// RenderEntropyProfile draws one bar per position showing entropy as a share
// of the ideal.
func RenderEntropyProfile(w io.Writer, m model.Metrics, barWidth int) error {
	if len(m.PerPosition) == 0 {
		return nil
	}
	if barWidth < 1 {
		barWidth = minBarWidth
	}
	if _, err := fmt.Fprintln(w, "\nEntropy profile (share of ideal):"); err != nil {
		return err
	}
	for _, p := range m.PerPosition {
		ratio := 0.0
		if p.IdealBits > 0 {
			ratio = p.EntropyBits / p.IdealBits
		}
		ratio = math.Max(0, math.Min(1, ratio))
		filled := int(math.Round(ratio * float64(barWidth)))
		bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
		if _, err := fmt.Fprintf(w, "pos %2d |%s %5.1f%%\n", p.Position, bar, ratio*100); err != nil {
			return err
		}
	}
	return nil
}
