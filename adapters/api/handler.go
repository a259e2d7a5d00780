package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"gocompare/app"
	datamodel "gocompare/domain/dataset"
	"gocompare/domain/stats"
	"gocompare/domain/table"
	"gocompare/internal/dataset"
	"gocompare/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler serves the JSON analysis API
type Handler struct {
	router    *chi.Mux
	analysis  *app.AnalysisService
	loader    *dataset.Loader
	maxMemory int64
}

// AnalyzeResponse is the body of a successful POST /analyze
type AnalyzeResponse struct {
	AnalysisID      string                          `json:"analysis_id"`
	Dataset         string                          `json:"dataset"`
	Synthetic       bool                            `json:"synthetic"`
	Columns         []string                        `json:"columns"`
	Roles           map[string]datamodel.ColumnRole `json:"roles"`
	GroupCandidates []string                        `json:"group_candidates"`
	Group           string                          `json:"group"`
	Normality       []stats.NormalityResult         `json:"normality"`
	Table           *TableResponse                  `json:"table"`
}

// TableResponse carries the result table in export order
type TableResponse struct {
	Header []string    `json:"header"`
	Rows   [][]string  `json:"rows"`
	Styles []string    `json:"p_value_styles"`
	Raw    table.Table `json:"raw"`
}

// ErrorResponse is returned on any failure
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	AnalysisID string `json:"analysis_id,omitempty"`
}

// NewHandler creates the API handler. maxMemory bounds multipart parsing.
func NewHandler(analysis *app.AnalysisService, loader *dataset.Loader, maxMemory int64) *Handler {
	h := &Handler{
		router:    chi.NewRouter(),
		analysis:  analysis,
		loader:    loader,
		maxMemory: maxMemory,
	}
	h.setupMiddleware()
	h.setupRoutes()
	return h
}

func (h *Handler) setupMiddleware() {
	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.Logger)
	h.router.Use(middleware.Recoverer)
	h.router.Use(middleware.Compress(5))
}

func (h *Handler) setupRoutes() {
	h.router.Get("/health", h.handleHealth)
	h.router.Get("/sample", h.handleSample)
	h.router.Post("/analyze", h.handleAnalyze)

	h.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.NotFound("route "+r.URL.Path), "")
	})
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSample returns the demo dataset as CSV
func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request) {
	ds, _, err := h.loader.Load(dataset.Upload{})
	if err != nil {
		writeError(w, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sample.csv"`)
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.ColumnNames()); err != nil {
		log.Printf("[API] sample write failed: %v", err)
		return
	}
	if err := cw.WriteAll(ds.Records()); err != nil {
		log.Printf("[API] sample write failed: %v", err)
	}
}

// handleAnalyze accepts a multipart form: dataset (optional file), quantitative (repeated
// or comma-separated) and group.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	upload, sel, err := h.readRequest(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	ds, synthetic, err := h.loader.Load(upload)
	if err != nil {
		writeError(w, err, "")
		return
	}

	result, err := h.analysis.Run(r.Context(), ds, sel)
	if err != nil {
		writeError(w, err, result.ID.String())
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		AnalysisID:      result.ID.String(),
		Dataset:         ds.Name,
		Synthetic:       synthetic,
		Columns:         result.Preparation.Columns,
		Roles:           result.Preparation.Roles(),
		GroupCandidates: result.Preparation.GroupCandidates,
		Group:           result.Group,
		Normality:       result.Preparation.Normality,
		Table:           newTableResponse(result.Table),
	})
}

func (h *Handler) readRequest(r *http.Request) (dataset.Upload, app.Selection, error) {
	var upload dataset.Upload
	var sel app.Selection

	if err := r.ParseMultipartForm(h.maxMemory); err != nil && err != http.ErrNotMultipart {
		return upload, sel, errors.InvalidInput("invalid multipart form: " + err.Error())
	}
	if r.MultipartForm == nil {
		if err := r.ParseForm(); err != nil {
			return upload, sel, errors.InvalidInput("invalid form: " + err.Error())
		}
	}

	file, header, err := r.FormFile("dataset")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return upload, sel, errors.InvalidInput("failed to read uploaded file")
		}
		upload = dataset.Upload{Filename: header.Filename, Data: data}
	case err != http.ErrMissingFile && err != http.ErrNotMultipart:
		return upload, sel, errors.InvalidInput("invalid dataset upload: " + err.Error())
	}

	for _, v := range r.Form["quantitative"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sel.Quantitative = append(sel.Quantitative, name)
			}
		}
	}
	sel.Group = strings.TrimSpace(r.FormValue("group"))
	return upload, sel, nil
}

func newTableResponse(t *table.Table) *TableResponse {
	resp := &TableResponse{Header: t.Header(), Rows: t.Records(), Raw: *t}
	for _, row := range t.Rows {
		resp.Styles = append(resp.Styles, table.PValueStyle(row.PValue))
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("[API] encode failed: %v", err)
		http.Error(w, `{"error":"encoding failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// writeError reports err as JSON. Errors without an application code are logged
// and replaced by a generic message.
func writeError(w http.ResponseWriter, err error, analysisID string) {
	status := errors.HTTPStatus(err)
	message := err.Error()
	if !errors.IsAppError(err) {
		log.Printf("[API] unexpected error: %v", err)
		message = "internal error"
	} else if status >= http.StatusInternalServerError {
		log.Printf("[API] %v", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:      message,
		Code:       errors.GetCode(err),
		AnalysisID: analysisID,
	})
}
