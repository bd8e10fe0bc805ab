// Package workspace locates the scheduler result for rmgantt commands and
// turns it into a chart using project settings.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rmviz/rmgantt/internal/gantt"
	"github.com/rmviz/rmgantt/internal/schedule"
)

// ErrNoInput is returned when no result document can be found.
var ErrNoInput = errors.New("no scheduler result found")

// candidateNames are probed in order when no input is configured.
var candidateNames = []string{"result.json", "result.yaml", "result.yml", "result.csv"}

// FindInput picks the document to chart. An explicit path wins, then the
// configured one, then the first well-known result file in dir. Explicit and
// configured paths are returned even when they do not exist so the caller
// reports the real I/O error.
func FindInput(dir, explicit, configured string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if configured != "" && configured != schedule.DefaultPath {
		return resolve(dir, configured), nil
	}

	for _, name := range candidateNames {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %v)", ErrNoInput, dir, candidateNames)
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Settings are the chart options that do not come from the document.
type Settings struct {
	// ExecutionTime overrides the document resolution when non-zero.
	ExecutionTime float64
	// Title replaces the default chart title when non-empty.
	Title string
}

// Result is a loaded document and the chart built from it.
type Result struct {
	Path          string
	Document      *schedule.Document
	Chart         *gantt.Chart
	ExecutionTime float64
}

// ExecutionTime applies the precedence override > document resolution >
// gantt default.
func ExecutionTime(override float64, doc *schedule.Document) float64 {
	if override != 0 {
		return override
	}
	if doc != nil && doc.HasMetadata && doc.Metadata.Resolution != 0 {
		return doc.Metadata.Resolution
	}
	return gantt.DefaultExecutionTime
}

// Load reads the document at path and builds its chart.
func Load(path string, s Settings) (*Result, error) {
	doc, err := schedule.Load(path)
	if err != nil {
		return nil, err
	}

	et := ExecutionTime(s.ExecutionTime, doc)
	slog.Debug("Schedule loaded", "path", path, "tasks", doc.Schedule.Names(), "executionTime", et)

	chart, err := gantt.Build(doc.Schedule, et)
	if err != nil {
		return nil, fmt.Errorf("building chart for %s: %w", path, err)
	}
	if s.Title != "" {
		chart.Title = s.Title
	}

	return &Result{Path: path, Document: doc, Chart: chart, ExecutionTime: et}, nil
}
