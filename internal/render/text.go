package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rmviz/rmgantt/internal/gantt"
	"golang.org/x/term"
)

const (
	defaultTextWidth = 80
	minPlotColumns   = 10
	maxLabelWidth    = 24
	barCell          = "█"
)

// Text writes c as a terminal chart. Bars are colored when w is a color
// capable terminal and plain otherwise.
func Text(w io.Writer, c *gantt.Chart, opts Options) error {
	if !c.HasSpan() {
		return fmt.Errorf("%w: axis [%v, %v] is empty", gantt.ErrTimeRange, c.XMin, c.XMax)
	}
	width := opts.Width
	if width <= 0 {
		width = terminalWidth(w)
	}

	labelWidth := 0
	for _, r := range c.Rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(r.Task))
	}
	labelWidth = min(labelWidth, maxLabelWidth)

	// "<label> │<plot>│"
	cols := max(width-labelWidth-3, minPlotColumns)
	span := c.XMax - c.XMin

	re := lipgloss.NewRenderer(w)
	title := re.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString(title.Render(c.Title))
	b.WriteString("\n")

	for _, r := range c.Rows {
		cells := make([]bool, cols)
		for _, bar := range r.Bars {
			c0 := int(math.Floor((bar.Start - c.XMin) / span * float64(cols)))
			c1 := int(math.Ceil((bar.End() - c.XMin) / span * float64(cols)))
			c0 = min(max(c0, 0), cols-1)
			c1 = min(max(c1, c0+1), cols)
			for i := c0; i < c1; i++ {
				cells[i] = true
			}
		}

		style := re.NewStyle().Foreground(lipgloss.Color(r.Color))
		b.WriteString(padRight(runewidth.Truncate(r.Task, labelWidth, "…"), labelWidth))
		b.WriteString(" │")
		for i := 0; i < cols; {
			j := i
			for j < cols && cells[j] == cells[i] {
				j++
			}
			if cells[i] {
				b.WriteString(style.Render(strings.Repeat(barCell, j-i)))
			} else {
				b.WriteString(strings.Repeat(" ", j-i))
			}
			i = j
		}
		b.WriteString("│\n")
	}

	indent := strings.Repeat(" ", labelWidth+1)
	b.WriteString(indent + "└" + strings.Repeat("─", cols) + "┘\n")

	lo, hi := formatValue(c.XMin), formatValue(c.XMax)
	gap := max(cols+2-runewidth.StringWidth(lo)-runewidth.StringWidth(hi), 1)
	b.WriteString(indent + lo + strings.Repeat(" ", gap) + hi + "\n")

	labelPad := max((cols+2-runewidth.StringWidth(c.XLabel))/2, 0)
	b.WriteString(indent + strings.Repeat(" ", labelPad) + c.XLabel + "\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("writing text chart: %w", err)
	}
	return nil
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTextWidth
}
