package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"

	chirender "github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"

	"github.com/gyeh/casereport/internal/classify"
	"github.com/gyeh/casereport/internal/model"
	"github.com/gyeh/casereport/internal/render"
	"github.com/gyeh/casereport/internal/report"
	"github.com/gyeh/casereport/internal/tableread"
)

// Upload form field names.
const (
	fieldFiles  = "files"
	fieldAction = "action"

	actionDownload = "download"
	actionShow     = "show"
)

var errNoFiles = errors.New("no files uploaded")

type errorResponse struct {
	Error string `json:"error"`
	Phase string `json:"phase,omitempty"`
}

type summariesResponse struct {
	RunID string `json:"run_id"`
	*render.JSONReport
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	chirender.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "index.html", nil); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render index")
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	res, err := s.run(w, r)
	if err != nil {
		s.fail(w, r, err, false)
		return
	}

	switch action := r.FormValue(fieldAction); action {
	case actionDownload, "":
		var buf bytes.Buffer
		if err := report.Render(&buf, render.FormatXLSX, res); err != nil {
			s.fail(w, r, err, false)
			return
		}
		s.metrics.ObserveReport(string(render.FormatXLSX))
		w.Header().Set("Content-Type", render.FormatXLSX.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.FormatXLSX.Filename()))
		w.Write(buf.Bytes())
	case actionShow:
		table, err := render.HTMLTable(res.Rows)
		if err != nil {
			s.fail(w, r, &report.PipelineError{Phase: report.PhaseRender, Err: err}, false)
			return
		}
		s.metrics.ObserveReport(string(render.FormatHTML))
		w.Header().Set("Content-Type", render.FormatHTML.ContentType())
		data := struct{ Table template.HTML }{template.HTML(table)}
		if err := pages.ExecuteTemplate(w, "report.html", data); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("render report page")
		}
	default:
		http.Error(w, fmt.Sprintf("invalid action %q", action), http.StatusBadRequest)
	}
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	res, err := s.run(w, r)
	if err != nil {
		s.fail(w, r, err, true)
		return
	}
	rep, err := render.NewJSONReport(res.Summaries)
	if err != nil {
		s.fail(w, r, &report.PipelineError{Phase: report.PhaseRender, Err: err}, true)
		return
	}
	s.metrics.ObserveReport(string(render.FormatJSON))
	chirender.JSON(w, r, summariesResponse{RunID: res.RunID.String(), JSONReport: rep})
}

// run parses the uploaded files and executes the pipeline.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*report.Result, error) {
	limit := s.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, fmt.Errorf("parse upload: %w", err)
	}
	headers := r.MultipartForm.File[fieldFiles]
	if len(headers) == 0 {
		return nil, errNoFiles
	}

	tables := make([]*tableread.Table, 0, len(headers))
	for _, fh := range headers {
		t, err := readUpload(fh)
		if err != nil {
			return nil, &report.PipelineError{Phase: report.PhaseRead, Err: err}
		}
		tables = append(tables, t)
	}

	log := hlog.FromRequest(r)
	res, err := report.Run(*log, tables)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRun(res)
	return res, nil
}

func readUpload(fh *multipart.FileHeader) (*tableread.Table, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return tableread.Read(fh.Filename, f)
}

// statusFor maps pipeline errors to HTTP status codes: bad requests for
// unusable uploads, unprocessable for well-formed uploads the schema
// rejects, and internal errors otherwise.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFiles),
		errors.Is(err, tableread.ErrUnsupportedFormat),
		errors.Is(err, http.ErrNotMultipart),
		errors.Is(err, http.ErrMissingBoundary):
		return http.StatusBadRequest
	case errors.Is(err, classify.ErrUnrecognizedStructure),
		errors.Is(err, classify.ErrMissingRole),
		errors.Is(err, tableread.ErrMissingColumn),
		errors.Is(err, tableread.ErrInvalidValue),
		errors.Is(err, model.ErrMalformedSummary):
		return http.StatusUnprocessableEntity
	}
	var pe *report.PipelineError
	if errors.As(err, &pe) && pe.Phase == report.PhaseRead {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, asJSON bool) {
	status := statusFor(err)
	s.metrics.ObserveError(err)

	ev := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Err(err).Int("status", status).Msg("report failed")

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	if !asJSON {
		http.Error(w, msg, status)
		return
	}
	resp := errorResponse{Error: msg}
	var pe *report.PipelineError
	if errors.As(err, &pe) {
		resp.Phase = pe.Phase
	}
	chirender.Status(r, status)
	chirender.JSON(w, r, resp)
}
