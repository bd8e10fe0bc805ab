// Package gantt lays out a task schedule as a Gantt chart: one row per
// task, one fixed-width bar per firing time.
package gantt

import (
	"errors"
	"fmt"
	"math"

	"github.com/rmviz/rmgantt/internal/schedule"
)

// Layout constants shared by every renderer.
const (
	DefaultExecutionTime = 0.1
	DefaultTitle         = "Rate-Monotonic Scheduling Gantt Chart"
	DefaultXLabel        = "Time (ms)"

	BarHeight   = 0.3
	BarOpacity  = 0.8
	GridOpacity = 0.7

	// AxisMargin is added on both sides of the firing-time range.
	AxisMargin = 0.5
)

// Palette is cycled by task position.
var Palette = []string{"#FF9999", "#66B2FF", "#99FF99", "#FFCC99"}

var (
	// ErrEmptySchedule is returned when no task has a firing time.
	ErrEmptySchedule = errors.New("schedule has no firing times")
	// ErrInvalidExecutionTime is returned for negative or non-finite widths.
	ErrInvalidExecutionTime = errors.New("execution time must be a positive finite number")
	// ErrInvalidFiringTime is returned for negative or non-finite firing times.
	ErrInvalidFiringTime = errors.New("invalid firing time")
	// ErrTimeRange is returned when firing times are too large for bars of
	// the requested width to be told apart at float64 precision.
	ErrTimeRange = errors.New("firing times out of plottable range")
)

// Bar is one execution of a task.
type Bar struct {
	Start  float64 `json:"start"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// End returns the time the bar finishes.
func (b Bar) End() float64 { return b.Start + b.Width }

// Row is the horizontal lane of a single task.
type Row struct {
	Task string `json:"task"`
	// Index is the vertical position; 0 is the bottom lane.
	Index int    `json:"index"`
	Color string `json:"color"`
	Bars  []Bar  `json:"bars"`
}

// Chart is a fully laid out Gantt chart.
type Chart struct {
	Title         string  `json:"title"`
	XLabel        string  `json:"xLabel"`
	ExecutionTime float64 `json:"executionTime"`
	XMin          float64 `json:"xMin"`
	XMax          float64 `json:"xMax"`
	BarOpacity    float64 `json:"barOpacity"`
	GridOpacity   float64 `json:"gridOpacity"`
	GridDashed    bool    `json:"gridDashed"`
	// Rows are in schedule order, so Rows[0] is the top lane.
	Rows []Row `json:"rows"`
}

// Build lays out s with every bar executionTime wide. Zero selects
// DefaultExecutionTime.
func Build(s *schedule.Schedule, executionTime float64) (*Chart, error) {
	if executionTime == 0 {
		executionTime = DefaultExecutionTime
	}
	if executionTime < 0 || math.IsNaN(executionTime) || math.IsInf(executionTime, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExecutionTime, executionTime)
	}

	n := s.Len()
	chart := &Chart{
		Title:         DefaultTitle,
		XLabel:        DefaultXLabel,
		ExecutionTime: executionTime,
		BarOpacity:    BarOpacity,
		GridOpacity:   GridOpacity,
		GridDashed:    true,
		Rows:          make([]Row, 0, n),
	}

	minTime, maxTime := math.Inf(1), math.Inf(-1)
	var firings int
	var buildErr error

	s.Each(func(name string, times schedule.FiringTimes) {
		if buildErr != nil {
			return
		}
		pos := len(chart.Rows)
		row := Row{
			Task:  name,
			Index: n - 1 - pos,
			Color: Palette[pos%len(Palette)],
			Bars:  make([]Bar, 0, len(times)),
		}
		for _, t := range times {
			if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
				buildErr = fmt.Errorf("%w: task %q fires at %v", ErrInvalidFiringTime, name, t)
				return
			}
			bar := Bar{Start: t, Width: executionTime, Height: BarHeight}
			if !(bar.End() > bar.Start) {
				buildErr = fmt.Errorf("%w: task %q fires at %v, a %v wide bar has no extent", ErrTimeRange, name, t, executionTime)
				return
			}
			row.Bars = append(row.Bars, bar)
			minTime = math.Min(minTime, t)
			maxTime = math.Max(maxTime, t)
			firings++
		}
		chart.Rows = append(chart.Rows, row)
	})
	if buildErr != nil {
		return nil, buildErr
	}
	if firings == 0 {
		return nil, ErrEmptySchedule
	}

	chart.XMin = minTime - AxisMargin
	chart.XMax = maxTime + executionTime + AxisMargin
	if !chart.HasSpan() {
		return nil, fmt.Errorf("%w: axis [%v, %v] is empty", ErrTimeRange, chart.XMin, chart.XMax)
	}
	return chart, nil
}

// Labels returns the task names by ascending row index, bottom lane first.
func (c *Chart) Labels() []string {
	labels := make([]string, len(c.Rows))
	for _, r := range c.Rows {
		labels[r.Index] = r.Task
	}
	return labels
}

// HasSpan reports whether the x axis covers a positive, finite range.
func (c *Chart) HasSpan() bool {
	span := c.XMax - c.XMin
	return span > 0 && !math.IsInf(span, 0)
}

// BarCount returns the number of bars across all rows.
func (c *Chart) BarCount() int {
	var n int
	for _, r := range c.Rows {
		n += len(r.Bars)
	}
	return n
}
