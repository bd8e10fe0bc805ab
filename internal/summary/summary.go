// Package summary computes per-task statistics for a loaded schedule.
package summary

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rmviz/rmgantt/internal/gantt"
	"github.com/rmviz/rmgantt/internal/schedule"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// TaskStats describes the executions of one task.
type TaskStats struct {
	Task        string  `json:"task"`
	Firings     int     `json:"firings"`
	First       float64 `json:"first"`
	Last        float64 `json:"last"`
	BusyTime    float64 `json:"busyTime"`
	Utilization float64 `json:"utilization"`
}

// Overlap is a pair of executions of different tasks that share time.
type Overlap struct {
	TaskA  string  `json:"taskA"`
	StartA float64 `json:"startA"`
	TaskB  string  `json:"taskB"`
	StartB float64 `json:"startB"`
}

// Summary is the statistics of a whole schedule.
type Summary struct {
	ExecutionTime float64            `json:"executionTime"`
	SpanStart     float64            `json:"spanStart"`
	SpanEnd       float64            `json:"spanEnd"`
	Firings       int                `json:"firings"`
	BusyTime      float64            `json:"busyTime"`
	Utilization   float64            `json:"utilization"`
	Tasks         []TaskStats        `json:"tasks"`
	Overlaps      []Overlap          `json:"overlaps"`
	Metadata      *schedule.Metadata `json:"metadata,omitempty"`
}

// Compute summarizes doc with bars executionTime wide. It fails on the same
// inputs gantt.Build rejects.
func Compute(doc *schedule.Document, executionTime float64) (*Summary, error) {
	chart, err := gantt.Build(doc.Schedule, executionTime)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		ExecutionTime: chart.ExecutionTime,
		SpanStart:     chart.XMin + gantt.AxisMargin,
		SpanEnd:       chart.XMax - gantt.AxisMargin,
		Tasks:         make([]TaskStats, 0, len(chart.Rows)),
	}
	if doc.HasMetadata {
		md := doc.Metadata
		s.Metadata = &md
	}
	span := s.SpanEnd - s.SpanStart

	for _, r := range chart.Rows {
		ts := TaskStats{Task: r.Task, Firings: len(r.Bars)}
		if len(r.Bars) > 0 {
			ts.First, ts.Last = math.Inf(1), math.Inf(-1)
			for _, b := range r.Bars {
				ts.First = math.Min(ts.First, b.Start)
				ts.Last = math.Max(ts.Last, b.Start)
			}
		}
		ts.BusyTime = float64(ts.Firings) * chart.ExecutionTime
		ts.Utilization = ts.BusyTime / span
		s.Tasks = append(s.Tasks, ts)
		s.Firings += ts.Firings
		s.BusyTime += ts.BusyTime
	}
	s.Utilization = s.BusyTime / span
	s.Overlaps = findOverlaps(chart)
	return s, nil
}

type execution struct {
	task       string
	start, end float64
}

// findOverlaps sweeps executions by start time and reports every pair of
// different tasks whose bars intersect. Touching bars do not overlap.
func findOverlaps(c *gantt.Chart) []Overlap {
	var execs []execution
	for _, r := range c.Rows {
		for _, b := range r.Bars {
			execs = append(execs, execution{task: r.Task, start: b.Start, end: b.End()})
		}
	}
	sort.SliceStable(execs, func(i, j int) bool { return execs[i].start < execs[j].start })

	var overlaps []Overlap
	for i, a := range execs {
		for _, b := range execs[i+1:] {
			if b.start >= a.end {
				break
			}
			if a.task == b.task {
				continue
			}
			overlaps = append(overlaps, Overlap{TaskA: a.task, StartA: a.start, TaskB: b.task, StartB: b.start})
		}
	}
	return overlaps
}

var tableHeader = []string{"Task", "Firings", "First", "Last", "Busy", "Util %"}

func (s *Summary) rows() [][]string {
	rows := make([][]string, 0, len(s.Tasks)+1)
	for _, t := range s.Tasks {
		first, last := "-", "-"
		if t.Firings > 0 {
			first, last = num(t.First), num(t.Last)
		}
		rows = append(rows, []string{
			t.Task,
			printer.Sprintf("%d", t.Firings),
			first,
			last,
			num(t.BusyTime),
			printer.Sprintf("%.1f", t.Utilization*100),
		})
	}
	rows = append(rows, []string{
		"Total",
		printer.Sprintf("%d", s.Firings),
		num(s.SpanStart),
		num(s.SpanEnd),
		num(s.BusyTime),
		printer.Sprintf("%.1f", s.Utilization*100),
	})
	return rows
}

// WriteTable writes an aligned plain-text table followed by metadata and
// overlap notes.
func WriteTable(w io.Writer, s *Summary) error {
	rows := s.rows()
	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == 0 {
				b.WriteString(padRight(cell, widths[i]))
			} else {
				b.WriteString(padLeft(cell, widths[i]))
			}
		}
		b.WriteString("\n")
	}

	writeRow(tableHeader)
	sep := make([]string, len(widths))
	for i, wd := range widths {
		sep[i] = strings.Repeat("─", wd)
	}
	writeRow(sep)
	for i, row := range rows {
		if i == len(rows)-1 {
			writeRow(sep)
		}
		writeRow(row)
	}

	b.WriteString("\n")
	printer.Fprintf(&b, "Execution time: %s\n", num(s.ExecutionTime)) //nolint:errcheck
	if s.Metadata != nil {
		printer.Fprintf(&b, "Dead time:      %s (%d intervals)\n", num(s.Metadata.SumDeadTime), len(s.Metadata.DeadTime)) //nolint:errcheck
	}
	if len(s.Overlaps) == 0 {
		b.WriteString("Overlaps:       none\n")
	} else {
		printer.Fprintf(&b, "Overlaps:       %d\n", len(s.Overlaps)) //nolint:errcheck
		for _, o := range s.Overlaps {
			fmt.Fprintf(&b, "  %s @ %s overlaps %s @ %s\n", o.TaskA, num(o.StartA), o.TaskB, num(o.StartB))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Markdown returns the summary as a markdown table with a short note list.
func Markdown(s *Summary) string {
	var b strings.Builder
	b.WriteString("## Summary\n\n")
	b.WriteString("| " + strings.Join(tableHeader, " | ") + " |\n")
	b.WriteString("| --- |" + strings.Repeat(" ---: |", len(tableHeader)-1) + "\n")
	for _, row := range s.rows() {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeCell(c)
		}
		cells[0] = "**" + cells[0] + "**"
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "- Execution time: %s\n", num(s.ExecutionTime))
	if s.Metadata != nil {
		fmt.Fprintf(&b, "- Dead time: %s\n", num(s.Metadata.SumDeadTime))
	}
	if n := len(s.Overlaps); n > 0 {
		fmt.Fprintf(&b, "- Overlapping executions: %d\n", n)
	}
	return b.String()
}

// num formats v with grouping separators and at most three decimals.
func num(v float64) string {
	if math.Abs(v) < 0.0005 {
		v = 0
	}
	s := printer.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", width-sw) + s
}
