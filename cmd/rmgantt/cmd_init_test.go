package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmviz/rmgantt/internal/projectconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand_WritesDefaults(t *testing.T) {
	dir := setupProject(t, nil)
	target := filepath.Join(dir, "charts")

	out, err := runCommand(t, "init", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	cfg, err := projectconfig.Load(target)
	require.NoError(t, err)
	assert.Equal(t, projectconfig.DefaultInput, cfg.Input)
	assert.Equal(t, projectconfig.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, projectconfig.DefaultServerPort, cfg.Server.Port)
}

func TestInitCommand_NeverOverwrites(t *testing.T) {
	dir := setupProject(t, nil)
	custom := "input: schedules/run.json\n"
	path := filepath.Join(dir, projectconfig.FileName)
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	out, err := runCommand(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestInitCommand_Force(t *testing.T) {
	dir := setupProject(t, nil)
	path := filepath.Join(dir, projectconfig.FileName)
	require.NoError(t, os.WriteFile(path, []byte("input: old.json\n"), 0o644))

	_, err := runCommand(t, "init", "--force")
	require.NoError(t, err)

	cfg, err := projectconfig.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, projectconfig.DefaultInput, cfg.Input)
}

func TestInitThenRender(t *testing.T) {
	dir := setupProject(t, map[string]string{"result.json": sampleResult})

	_, err := runCommand(t, "init")
	require.NoError(t, err)
	_, err = runCommand(t, "render")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, projectconfig.DefaultOutputPath))
}
