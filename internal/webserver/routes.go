package webserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/rmviz/rmgantt/internal/gantt"
	"github.com/rmviz/rmgantt/internal/render"
	"github.com/rmviz/rmgantt/internal/schedule"
	"github.com/rmviz/rmgantt/internal/summary"
	"github.com/rmviz/rmgantt/internal/workspace"
)

// registerRoutes sets up the chart and API routes on the given mux.
func registerRoutes(mux *http.ServeMux, s *Server) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/chart", s.handleChartJSON)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /chart.svg", s.handleSVG)
	mux.HandleFunc("GET /{$}", s.handlePage)
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	res, ok := s.load(w)
	if !ok {
		return
	}

	opts := s.renderOptions()
	if sum, err := summary.Compute(res.Document, res.ExecutionTime); err == nil {
		opts.Notes = summary.Markdown(sum)
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, res.Chart, opts); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	res, ok := s.load(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, res.Chart, s.renderOptions()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (s *Server) handleChartJSON(w http.ResponseWriter, _ *http.Request) {
	res, ok := s.load(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.Chart)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	res, ok := s.load(w)
	if !ok {
		return
	}
	sum, err := summary.Compute(res.Document, res.ExecutionTime)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// load reads the input document. On failure it writes the error response
// and returns false.
func (s *Server) load(w http.ResponseWriter) (*workspace.Result, bool) {
	res, err := workspace.Load(s.cfg.InputPath, s.cfg.Settings)
	if err != nil {
		s.logger.Warn("failed to load schedule", "path", s.cfg.InputPath, "error", err)
		writeError(w, statusFor(err), err.Error())
		return nil, false
	}
	return res, true
}

func (s *Server) renderOptions() render.Options {
	return render.Options{Width: s.cfg.Width, Height: s.cfg.Height}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, gantt.ErrEmptySchedule),
		errors.Is(err, gantt.ErrInvalidFiringTime),
		errors.Is(err, gantt.ErrInvalidExecutionTime),
		errors.Is(err, gantt.ErrTimeRange),
		errors.Is(err, schedule.ErrMissingReservedKey):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
