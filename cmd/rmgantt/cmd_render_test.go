package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmviz/rmgantt/internal/gantt"
	"github.com/rmviz/rmgantt/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResult = `{
  "A": [0, 2, 4],
  "B": [1, 3],
  "deadTime": [5],
  "sumDeadTime": 0.5,
  "resolution": 0.1
}`

// setupProject writes files into a temp dir and makes it the working directory.
func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRenderCommand_DefaultSVG(t *testing.T) {
	dir := setupProject(t, map[string]string{"result.json": sampleResult})

	out, err := runCommand(t, "render")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote gantt.svg (svg)")

	data, err := os.ReadFile(filepath.Join(dir, "gantt.svg"))
	require.NoError(t, err)
	svg := string(data)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, gantt.DefaultTitle)
	assert.Contains(t, svg, gantt.DefaultXLabel)
	assert.Contains(t, svg, `stroke-dasharray`)
}

func TestRenderCommand_MultipleFormats(t *testing.T) {
	dir := setupProject(t, map[string]string{"result.json": sampleResult})

	out, err := runCommand(t, "render", "-f", "svg,json,html", "-o", "out/chart.svg")
	require.NoError(t, err)
	assert.Contains(t, out, "out/chart.svg")
	assert.Contains(t, out, "out/chart.json")
	assert.Contains(t, out, "out/chart.html")

	data, err := os.ReadFile(filepath.Join(dir, "out", "chart.json"))
	require.NoError(t, err)
	var c gantt.Chart
	require.NoError(t, json.Unmarshal(data, &c))
	require.Len(t, c.Rows, 2)
	assert.Equal(t, "A", c.Rows[0].Task)
	assert.Equal(t, 1, c.Rows[0].Index)
	assert.InDelta(t, -0.5, c.XMin, 1e-9)
	assert.InDelta(t, 4.6, c.XMax, 1e-9)

	page, err := os.ReadFile(filepath.Join(dir, "out", "chart.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<svg")
	assert.Contains(t, string(page), "Summary")
}

func TestRenderCommand_Stdout(t *testing.T) {
	setupProject(t, map[string]string{"result.json": sampleResult})

	out, err := runCommand(t, "render", "-f", "txt", "-o", "-", "--width", "60")
	require.NoError(t, err)
	assert.Contains(t, out, gantt.DefaultTitle)
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "B")
	assert.NotContains(t, out, "Wrote")
}

func TestRenderCommand_StdoutNeedsSingleFormat(t *testing.T) {
	setupProject(t, map[string]string{"result.json": sampleResult})

	_, err := runCommand(t, "render", "-f", "svg,json", "-o", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single format")
}

func TestRenderCommand_ExecTimeFlag(t *testing.T) {
	setupProject(t, map[string]string{"result.json": sampleResult})

	out, err := runCommand(t, "render", "-f", "json", "-o", "-", "--exec-time", "0.5")
	require.NoError(t, err)
	var c gantt.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.InDelta(t, 0.5, c.ExecutionTime, 1e-9)
	assert.InDelta(t, 5.0, c.XMax, 1e-9)

	_, err = runCommand(t, "render", "--exec-time", "-1")
	require.Error(t, err)
}

func TestRenderCommand_ConfigExecutionTimeAndTitle(t *testing.T) {
	setupProject(t, map[string]string{
		"result.json":   sampleResult,
		".rmgantt.yaml": "chart:\n  execution_time: 0.25\n  title: Demo\n",
	})

	out, err := runCommand(t, "render", "-f", "json", "-o", "-")
	require.NoError(t, err)
	var c gantt.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.InDelta(t, 0.25, c.ExecutionTime, 1e-9)
	assert.Equal(t, "Demo", c.Title)
}

func TestRenderCommand_EmptySchedule(t *testing.T) {
	setupProject(t, map[string]string{
		"result.json": `{"deadTime": [], "sumDeadTime": 0, "resolution": 0.1}`,
	})

	_, err := runCommand(t, "render")
	require.Error(t, err)
	assert.ErrorIs(t, err, gantt.ErrEmptySchedule)
	assert.NoFileExists(t, "gantt.svg")
}

func TestRenderCommand_MissingInput(t *testing.T) {
	setupProject(t, nil)

	_, err := runCommand(t, "render")
	require.Error(t, err)
}

func TestRenderCommand_UnknownFormat(t *testing.T) {
	setupProject(t, map[string]string{"result.json": sampleResult})

	_, err := runCommand(t, "render", "-f", "png")
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestRenderTargets(t *testing.T) {
	targets, err := renderTargets([]render.Format{render.FormatSVG}, "custom.out", "gantt.svg")
	require.NoError(t, err)
	assert.Equal(t, []renderTarget{{format: render.FormatSVG, path: "custom.out"}}, targets)

	targets, err = renderTargets([]render.Format{render.FormatSVG, render.FormatHTML, render.FormatSVG}, "", "docs/gantt.svg")
	require.NoError(t, err)
	assert.Equal(t, []renderTarget{
		{format: render.FormatSVG, path: "docs/gantt.svg"},
		{format: render.FormatHTML, path: "docs/gantt.html"},
	}, targets)
}

func TestRenderCommand_FromSubdirectoryUsesConfigDir(t *testing.T) {
	dir := setupProject(t, map[string]string{
		".rmgantt.yaml":   "input: data/sched.json\noutput:\n  path: charts/gantt.svg\n",
		"data/sched.json": sampleResult,
		"sub/.keep":       "",
	})
	t.Chdir(filepath.Join(dir, "sub"))

	out, err := runCommand(t, "render", "-f", "json", "-o", "-")
	require.NoError(t, err)
	var c gantt.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Len(t, c.Rows, 2)

	out, err = runCommand(t, "render")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("..", "charts", "gantt.svg"))
	assert.FileExists(t, filepath.Join(dir, "charts", "gantt.svg"))
	assert.NoFileExists(t, filepath.Join(dir, "sub", "charts", "gantt.svg"))
}

func TestRenderCommand_ArgumentIsRelativeToWorkingDir(t *testing.T) {
	dir := setupProject(t, map[string]string{
		".rmgantt.yaml":   "input: data/sched.json\n",
		"sub/local.json":  sampleResult,
		"data/sched.json": `{"deadTime": [], "sumDeadTime": 0, "resolution": 0.1}`,
	})
	t.Chdir(filepath.Join(dir, "sub"))

	_, err := runCommand(t, "render", "local.json", "-f", "json", "-o", "-")
	require.NoError(t, err)
}

func TestRenderCommand_FindsResultInConfigDir(t *testing.T) {
	dir := setupProject(t, map[string]string{
		".rmgantt.yaml": "chart:\n  title: Found\n",
		"result.json":   sampleResult,
		"sub/.keep":     "",
	})
	t.Chdir(filepath.Join(dir, "sub"))

	out, err := runCommand(t, "render", "-f", "json", "-o", "-")
	require.NoError(t, err)
	var c gantt.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "Found", c.Title)
}
