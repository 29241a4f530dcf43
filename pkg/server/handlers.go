package server

import (
	"net/http"
	"time"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/report"
	"github.com/yurifrl/rollup/pkg/rules"
)

type metricOption struct {
	Value models.Metric `json:"value"`
	Label string        `json:"label"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	metrics := make([]metricOption, 0, len(models.Metrics()))
	for _, m := range models.Metrics() {
		metrics = append(metrics, metricOption{Value: m, Label: m.Label()})
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"metrics": metrics,
		"charts":  models.ChartTypes(),
		"fields":  models.Fields(),
		"rules":   rules.Defaults(),
		"view":    s.view,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// analyze reads the request and runs the analyzer; it has responded when ok
// is false.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (analysis.Result, bool) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return analysis.Result{}, false
	}
	in, err := s.readInput(w, r)
	if err != nil {
		s.respondError(w, r, inputStatus(err), "invalid request", err)
		return analysis.Result{}, false
	}

	start := time.Now()
	res := s.analyzer.Analyze(in)
	s.metrics.observeAnalysis(start)

	s.logger.Info("analysis complete",
		"request_id", requestID(r.Context()),
		"rule", in.Rule.Name,
		"rows", len(res.Rows),
		"year1", res.Labels.Year1,
		"year2", res.Labels.Year2)
	return res, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := s.analyze(w, r)
	if !ok {
		return
	}
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"labels": res.Labels,
		"rows":   res.Rows,
		"chart":  res.Chart,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	in, err := s.readInput(w, r)
	if err != nil {
		s.respondError(w, r, inputStatus(err), "invalid request", err)
		return
	}

	columns := models.AvailableColumns(in.Year1, in.Year2)
	if columns == nil {
		columns = []string{}
	}
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"columns": columns,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.analyze(w, r)
	if !ok {
		return
	}
	data, err := report.SummaryCSV(res)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to export summary", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rollup-summary.csv"`)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}
