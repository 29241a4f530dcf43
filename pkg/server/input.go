package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/plan"
	"github.com/yurifrl/rollup/pkg/rules"
)

// jsonYear is one year's records posted inline.
type jsonYear struct {
	Name  string           `json:"name"`
	Label string           `json:"label"`
	Data  []map[string]any `json:"data"`
}

type jsonRequest struct {
	Year1 *jsonYear          `json:"year1"`
	Year2 *jsonYear          `json:"year2"`
	Rule  *models.RollupRule `json:"rule"`
	View  *plan.View         `json:"view"`
}

// readInput builds the analysis input from a multipart upload or a JSON body.
// Bodies over the server's upload limit are rejected.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) (analysis.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return s.readJSON(r)
	}
	return s.readMultipart(r)
}

func (s *Server) readJSON(r *http.Request) (analysis.Input, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var req jsonRequest
	if err := dec.Decode(&req); err != nil {
		return analysis.Input{}, fmt.Errorf("failed to decode request: %w", err)
	}

	in := analysis.Input{View: s.view}
	var err error
	if in.Year1, err = s.jsonYear(req.Year1, "year1"); err != nil {
		return analysis.Input{}, err
	}
	if in.Year2, err = s.jsonYear(req.Year2, "year2"); err != nil {
		return analysis.Input{}, err
	}
	if req.View != nil {
		if in.View, err = req.View.Apply(s.view); err != nil {
			return analysis.Input{}, err
		}
	}

	if in.Rule, err = s.resolveRule(req.Rule, in.Year1, in.Year2); err != nil {
		return analysis.Input{}, err
	}
	return in, nil
}

func (s *Server) jsonYear(y *jsonYear, fallback string) (*models.DataFile, error) {
	if y == nil {
		return nil, nil
	}
	name := y.Name
	if name == "" {
		name = fallback
	}
	file, err := s.parser.FromRecords(name, y.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fallback, err)
	}
	if y.Label != "" {
		file.Label = y.Label
	}
	return file, nil
}

func (s *Server) readMultipart(r *http.Request) (analysis.Input, error) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return analysis.Input{}, fmt.Errorf("failed to parse form: %w", err)
	}

	in := analysis.Input{View: s.view}
	var err error
	if in.Year1, err = s.formFile(r, "year1", "label1"); err != nil {
		return analysis.Input{}, err
	}
	if in.Year2, err = s.formFile(r, "year2", "label2"); err != nil {
		return analysis.Input{}, err
	}
	if in.View, err = formView(r, s.view); err != nil {
		return analysis.Input{}, err
	}

	var rule *models.RollupRule
	if groupBy := r.FormValue("group_by"); groupBy != "" {
		rule = &models.RollupRule{
			Name:         r.FormValue("rule_name"),
			GroupBy:      groupBy,
			FilterColumn: r.FormValue("filter_column"),
			FilterValue:  r.FormValue("filter_value"),
		}
		if rule.Name == "" {
			rule.Name = "By " + groupBy
		}
	}
	if in.Rule, err = s.resolveRule(rule, in.Year1, in.Year2); err != nil {
		return analysis.Input{}, err
	}
	return in, nil
}

// formFile parses an optional uploaded ledger; a missing field is an absent
// year.
func (s *Server) formFile(r *http.Request, field, labelField string) (*models.DataFile, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	file, err := s.parser.ProcessBytes(data, header.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", field, err)
	}
	if label := r.FormValue(labelField); label != "" {
		file.Label = label
	}
	return file, nil
}

func formView(r *http.Request, base analysis.View) (analysis.View, error) {
	v := plan.View{
		Sort:      r.FormValue("sort"),
		Direction: r.FormValue("direction"),
		Metric:    r.FormValue("metric"),
		Chart:     r.FormValue("chart"),
	}
	if top := r.FormValue("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil {
			return base, fmt.Errorf("invalid top %q: %w", top, err)
		}
		v.Top = &n
	}
	return v.Apply(base)
}

// inputStatus maps a readInput error onto a response status.
func inputStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// resolveRule validates a request's rule against the uploaded columns. Without
// one the first default rule applies. A half-set filter is ignored.
func (s *Server) resolveRule(rule *models.RollupRule, year1, year2 *models.DataFile) (*models.RollupRule, error) {
	if rule == nil {
		def := rules.Defaults()[0]
		return &def, nil
	}
	reg, err := rules.NewRegistry(nil, nil)
	if err != nil {
		return nil, err
	}
	added, err := reg.Add(*rule, models.AvailableColumns(year1, year2))
	if err != nil {
		return nil, err
	}
	if added.PartialFilter() {
		s.logger.Warn("rule filter needs both column and value, ignoring it",
			"rule", added.Name, "filter_column", added.FilterColumn, "filter_value", added.FilterValue)
	}
	return &added, nil
}
