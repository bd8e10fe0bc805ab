// Package projectconfig provides the ProjectConfig struct and loader for
// .rmgantt.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file.
const FileName = ".rmgantt.yaml"

// Default values for project configuration, as applied by New.
const (
	DefaultInput = "result.json"

	DefaultTitle  = "Rate-Monotonic Scheduling Gantt Chart"
	DefaultWidth  = 1500
	DefaultHeight = 500

	DefaultOutputFormat = "svg"
	DefaultOutputPath   = "gantt.svg"

	DefaultServerPort = 7428
)

// ChartConfig holds chart layout settings.
type ChartConfig struct {
	// ExecutionTime overrides the document resolution when non-zero.
	ExecutionTime float64 `yaml:"execution_time,omitempty"`
	Title         string  `yaml:"title,omitempty"`
	Width         int     `yaml:"width,omitempty"`
	Height        int     `yaml:"height,omitempty"`
}

// OutputConfig holds defaults for the render command.
type OutputConfig struct {
	Format string `yaml:"format,omitempty"`
	Path   string `yaml:"path,omitempty"`
}

// ServerConfig holds chart server settings.
type ServerConfig struct {
	Port      int   `yaml:"port,omitempty"`
	NoBrowser *bool `yaml:"no_browser,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .rmgantt.yaml.
type ProjectConfig struct {
	Input  string       `yaml:"input,omitempty"`
	Chart  ChartConfig  `yaml:"chart,omitempty"`
	Output OutputConfig `yaml:"output,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`

	// Dir is the directory holding the loaded file, or the start directory
	// when none was found. Relative paths in the file are relative to it.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Input: DefaultInput,
		Chart: ChartConfig{
			Title:  DefaultTitle,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
			Path:   DefaultOutputPath,
		},
		Server: ServerConfig{
			Port:      DefaultServerPort,
			NoBrowser: boolPtr(false),
		},
	}
}

// Load finds .rmgantt.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", startDir, err)
	}
	cfg.Dir = absDir

	data, dir, err := findConfigFile(absDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	cfg.Dir = dir

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if fileCfg.Chart.ExecutionTime < 0 {
		return nil, fmt.Errorf("parsing %s: chart.execution_time must not be negative", FileName)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// Marshal returns the YAML encoding of cfg.
func (c *ProjectConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ResolvePath makes a path from the config file absolute. Absolute and empty
// paths are returned unchanged.
func (c *ProjectConfig) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// findConfigFile walks up from the absolute directory dir looking for
// .rmgantt.yaml (max 10 levels) and returns its content and directory.
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, string, error) {
	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, dir, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Input != "" {
		dst.Input = src.Input
	}

	// Chart
	if src.Chart.ExecutionTime != 0 {
		dst.Chart.ExecutionTime = src.Chart.ExecutionTime
	}
	if src.Chart.Title != "" {
		dst.Chart.Title = src.Chart.Title
	}
	if src.Chart.Width != 0 {
		dst.Chart.Width = src.Chart.Width
	}
	if src.Chart.Height != 0 {
		dst.Chart.Height = src.Chart.Height
	}

	// Output
	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.Path != "" {
		dst.Output.Path = src.Output.Path
	}

	// Server
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.NoBrowser != nil {
		dst.Server.NoBrowser = src.Server.NoBrowser
	}
}

func boolPtr(b bool) *bool {
	return &b
}
