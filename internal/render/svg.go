package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rmviz/rmgantt/internal/gantt"
)

// Canvas defaults match a 15x5 inch figure at 100 dpi.
const (
	DefaultSVGWidth  = 1500
	DefaultSVGHeight = 500

	marginTop    = 50
	marginRight  = 30
	marginBottom = 60
	fontSize     = 13
	titleSize    = 16
	charWidth    = 7.5
	maxXTicks    = 12
	axisColor    = "#333333"
	gridColor    = "#b0b0b0"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// plotArea maps chart coordinates to SVG pixels.
type plotArea struct {
	left, top, width, height float64
	xMin, xMax               float64
	lanes                    int
}

func (p plotArea) x(v float64) float64 {
	return p.left + (v-p.xMin)/(p.xMax-p.xMin)*p.width
}

func (p plotArea) laneHeight() float64 {
	return p.height / float64(p.lanes)
}

// laneCenter returns the pixel y of a row index; index 0 is at the bottom.
func (p plotArea) laneCenter(index int) float64 {
	return p.top + (float64(p.lanes-1-index)+0.5)*p.laneHeight()
}

// SVG writes c as a standalone SVG document.
func SVG(w io.Writer, c *gantt.Chart, opts Options) error {
	if !c.HasSpan() {
		return fmt.Errorf("%w: axis [%v, %v] is empty", gantt.ErrTimeRange, c.XMin, c.XMax)
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultSVGWidth
	}
	if height <= 0 {
		height = DefaultSVGHeight
	}

	labelWidth := 0
	for _, r := range c.Rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(r.Task))
	}
	left := float64(labelWidth)*charWidth + 30

	p := plotArea{
		left:   left,
		top:    marginTop,
		width:  max(float64(width)-left-marginRight, 1),
		height: max(float64(height)-marginTop-marginBottom, 1),
		xMin:   c.XMin,
		xMax:   c.XMax,
		lanes:  max(len(c.Rows), 1),
	}

	var svg strings.Builder
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&svg, `<rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")
	fmt.Fprintf(&svg, `<text class="title" x="%.1f" y="%d" text-anchor="middle" font-size="%d">%s</text>`+"\n",
		p.left+p.width/2, marginTop/2+titleSize/2, titleSize, escapeXML(c.Title))

	writeGrid(&svg, c, p)

	for _, r := range c.Rows {
		cy := p.laneCenter(r.Index)
		fmt.Fprintf(&svg, `<g class="row" data-task="%s">`+"\n", escapeXML(r.Task))
		for _, b := range r.Bars {
			h := b.Height * p.laneHeight()
			fmt.Fprintf(&svg, `<rect class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%g"><title>%s @ %s</title></rect>`+"\n",
				p.x(b.Start), cy-h/2, p.x(b.End())-p.x(b.Start), h, r.Color, c.BarOpacity,
				escapeXML(r.Task), formatValue(b.Start))
		}
		svg.WriteString("</g>\n")
	}

	// Y tick labels, bottom lane first.
	for i, label := range c.Labels() {
		cy := p.laneCenter(i)
		fmt.Fprintf(&svg, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
			p.left-4, cy, p.left, cy, axisColor)
		fmt.Fprintf(&svg, `<text class="ylabel" x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle" font-size="%d">%s</text>`+"\n",
			p.left-8, cy, fontSize, escapeXML(label))
	}

	fmt.Fprintf(&svg, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s"/>`+"\n",
		p.left, p.top, p.width, p.height, axisColor)
	fmt.Fprintf(&svg, `<text class="xlabel" x="%.2f" y="%d" text-anchor="middle" font-size="%d">%s</text>`+"\n",
		p.left+p.width/2, height-15, fontSize, escapeXML(c.XLabel))
	svg.WriteString("</svg>\n")

	_, err := io.WriteString(w, svg.String())
	return err
}

func writeGrid(svg *strings.Builder, c *gantt.Chart, p plotArea) {
	ticks := niceTicks(c.XMin, c.XMax, maxXTicks)
	if len(ticks) == 0 {
		return
	}
	decimals := 0
	if len(ticks) > 1 {
		decimals = tickDecimals(ticks[1] - ticks[0])
	}

	dash := ""
	if c.GridDashed {
		dash = ` stroke-dasharray="6 4"`
	}
	bottom := p.top + p.height
	for _, t := range ticks {
		x := p.x(t)
		fmt.Fprintf(svg, `<line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%g"%s/>`+"\n",
			x, p.top, x, bottom, gridColor, c.GridOpacity, dash)
		fmt.Fprintf(svg, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
			x, bottom, x, bottom+4, axisColor)
		fmt.Fprintf(svg, `<text class="xtick" x="%.2f" y="%.2f" text-anchor="middle" font-size="%d">%s</text>`+"\n",
			x, bottom+18, fontSize, formatTick(t, decimals))
	}
}
