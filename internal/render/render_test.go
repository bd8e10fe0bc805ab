package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rmviz/rmgantt/internal/gantt"
	"github.com/rmviz/rmgantt/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart(t *testing.T) *gantt.Chart {
	t.Helper()
	s := schedule.New()
	s.Set("A", 0)
	s.Set("B", 1, 3)
	s.Set("C", 2)
	c, err := gantt.Build(s, 0.1)
	require.NoError(t, err)
	return c
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"svg", FormatSVG},
		{"SVG", FormatSVG},
		{" html ", FormatHTML},
		{"txt", FormatText},
		{"text", FormatText},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("png")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatPathFor(t *testing.T) {
	assert.Equal(t, ".svg", FormatSVG.Ext())
	assert.Equal(t, ".txt", FormatText.Ext())

	tests := []struct {
		path   string
		format Format
		want   string
	}{
		{"gantt.svg", FormatHTML, "gantt.html"},
		{"out/chart.svg", FormatJSON, "out/chart.json"},
		{"chart", FormatText, "chart.txt"},
		{"", FormatSVG, "gantt.svg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.PathFor(tt.path))
	}
}

func TestSVG_DrawsOneRectPerBar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sampleChart(t), Options{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Contains(t, out, `width="1500" height="500"`)
	assert.Equal(t, 4, strings.Count(out, `class="bar"`))
	assert.Equal(t, 3, strings.Count(out, `class="ylabel"`))
	assert.Contains(t, out, "Rate-Monotonic Scheduling Gantt Chart")
	assert.Contains(t, out, "Time (ms)")
	assert.Contains(t, out, `fill="#66B2FF" fill-opacity="0.8"`)
	assert.Contains(t, out, `stroke-dasharray="6 4"`)
	assert.Contains(t, out, `stroke-opacity="0.7"`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestSVG_RowsStackTopDown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sampleChart(t), Options{}))
	out := buf.String()

	// Labels are emitted bottom lane first.
	c := strings.Index(out, `>C</text>`)
	b := strings.Index(out, `>B</text>`)
	a := strings.Index(out, `>A</text>`)
	require.True(t, c >= 0 && b >= 0 && a >= 0)
	assert.Less(t, c, b)
	assert.Less(t, b, a)
}

func TestSVG_EscapesTaskNames(t *testing.T) {
	s := schedule.New()
	s.Set(`<T&1>`, 1)
	c, err := gantt.Build(s, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, c, Options{Width: 400, Height: 200}))
	assert.Contains(t, buf.String(), "&lt;T&amp;1&gt;")
	assert.NotContains(t, buf.String(), "<T&1>")
	assert.Contains(t, buf.String(), `width="400" height="200"`)
}

func TestHTML_EmbedsSVGAndNotes(t *testing.T) {
	notes := "## Tasks\n\n| Task | Firings |\n| --- | --- |\n| A | 1 |\n"

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleChart(t), Options{Notes: notes}))
	out := buf.String()

	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, "<title>Rate-Monotonic Scheduling Gantt Chart</title>")
	assert.Contains(t, out, "<svg ")
	assert.Contains(t, out, "<h2>Tasks</h2>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>A</td>")
}

func TestHTML_NoNotesSection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleChart(t), Options{}))
	assert.NotContains(t, buf.String(), `class="notes"`)
}

func TestText_RowsAndBars(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleChart(t), Options{Width: 60}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 7)
	assert.Equal(t, "Rate-Monotonic Scheduling Gantt Chart", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "A │"))
	assert.True(t, strings.HasPrefix(lines[2], "B │"))
	assert.True(t, strings.HasPrefix(lines[3], "C │"))
	assert.Equal(t, 1, countRuns(lines[1]))
	assert.Equal(t, 2, countRuns(lines[2]))
	assert.Equal(t, 1, countRuns(lines[3]))
	assert.Contains(t, lines[5], "-0.5")
	assert.Contains(t, lines[5], "3.6")
	assert.Contains(t, lines[6], "Time (ms)")
}

func TestText_PadsLabels(t *testing.T) {
	s := schedule.New()
	s.Set("short", 0)
	s.Set("a-much-longer-task", 1)
	c, err := gantt.Build(s, 0.5)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, c, Options{Width: 50}))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, strings.Index(lines[1], "│"), strings.Index(lines[2], "│"))
}

func TestJSON_ChartModel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleChart(t), Options{}))

	var got gantt.Chart
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Rows, 3)
	assert.InDelta(t, 3.6, got.XMax, 1e-9)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("pdf"), sampleChart(t), Options{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(-0.5, 3.6, 12)
	require.NotEmpty(t, ticks)
	assert.GreaterOrEqual(t, ticks[0], -0.5)
	assert.LessOrEqual(t, ticks[len(ticks)-1], 3.6)
	assert.Contains(t, ticks, 0.0)
	assert.Contains(t, ticks, 3.0)

	assert.Nil(t, niceTicks(1, 1, 10))
}

// countRuns counts contiguous bar segments in a text chart row.
func countRuns(line string) int {
	runs, in := 0, false
	for _, r := range line {
		if string(r) == barCell {
			if !in {
				runs++
			}
			in = true
		} else {
			in = false
		}
	}
	return runs
}

func TestRenderers_RejectEmptyAxis(t *testing.T) {
	c := &gantt.Chart{
		Title: gantt.DefaultTitle,
		XMin:  1e17,
		XMax:  1e17,
		Rows:  []gantt.Row{{Task: "A", Bars: []gantt.Bar{{Start: 1e17, Width: 0.1, Height: gantt.BarHeight}}}},
	}

	for _, f := range []Format{FormatSVG, FormatHTML, FormatText} {
		var buf bytes.Buffer
		err := Write(&buf, f, c, Options{Width: 80})
		require.ErrorIs(t, err, gantt.ErrTimeRange, f)
		assert.NotContains(t, buf.String(), "NaN", f)
	}
}
