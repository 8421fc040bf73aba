package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apperrors "fauxlizer/internal/errors"
	"fauxlizer/internal/exporter"
	mw "fauxlizer/internal/middleware"
	"fauxlizer/internal/validation"
	api "fauxlizer/pkg/contracts/api/v1"
)

// DatasetHandler serves validation, summaries and row extraction. Client
// paths are relative to dataDir.
type DatasetHandler struct {
	service      DatasetServiceInterface
	dataDir      string
	files        *validation.FileValidator
	requests     *mw.RequestValidator
	query        *mw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewDatasetHandler creates a dataset handler with RFC 7807 error handling
func NewDatasetHandler(service DatasetServiceInterface, dataDir string, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		dataDir:      dataDir,
		files:        validation.NewFileValidator(logger),
		requests:     mw.NewRequestValidator(logger),
		query:        mw.NewQueryParamValidator(errorHandler),
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListOutcomes)
	r.Post("/validate", h.Validate)
	r.Post("/validate/batch", h.ValidateBatch)
	r.Get("/summary", h.Summary)
	r.Get("/rows/{index}", h.GetRow)

	return r
}

// ListOutcomes handles GET /api/v1/datasets
func (h *DatasetHandler) ListOutcomes(w http.ResponseWriter, r *http.Request) {
	outcomes := h.service.Outcomes()
	render.JSON(w, r, api.OutcomeListResponse{Outcomes: outcomes, Count: len(outcomes)})
}

// Validate handles POST /api/v1/datasets/validate. An invalid dataset is a
// successful request; the verdict is in the body.
func (h *DatasetHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req api.ValidateRequest
	if err := h.requests.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	path, ok := h.resolve(w, r, req.Path)
	if !ok {
		return
	}

	outcome := h.service.Validate(r.Context(), path)
	h.logger.InfoContext(r.Context(), "dataset validated",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", path),
		slog.Bool("valid", outcome.Valid),
	)
	render.JSON(w, r, outcome)
}

// ValidateBatch handles POST /api/v1/datasets/validate/batch
func (h *DatasetHandler) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	var req api.ValidateBatchRequest
	if err := h.requests.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	paths := make([]string, 0, len(req.Paths))
	for _, p := range req.Paths {
		path, ok := h.resolve(w, r, p)
		if !ok {
			return
		}
		paths = append(paths, path)
	}

	outcomes, err := h.service.ValidateAll(r.Context(), paths)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := api.ValidateBatchResponse{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Valid {
			resp.Valid++
		} else {
			resp.Invalid++
		}
	}
	render.JSON(w, r, resp)
}

// Summary handles GET /api/v1/datasets/summary?path=
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	name, ok := h.query.RequireString(w, r, "path")
	if !ok {
		return
	}
	path, ok := h.resolve(w, r, name)
	if !ok {
		return
	}

	summary, err := h.service.Summarize(r.Context(), path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetRow handles GET /api/v1/datasets/rows/{index}?path=&format=
func (h *DatasetHandler) GetRow(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("index", "index must be an integer"))
		return
	}
	name, ok := h.query.RequireString(w, r, "path")
	if !ok {
		return
	}
	path, ok := h.resolve(w, r, name)
	if !ok {
		return
	}
	format := h.query.OptionalString(r, "format", string(exporter.FormatJSON))

	export, err := h.service.GetRow(r.Context(), path, index, format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if export.Format == exporter.FormatNative {
		render.JSON(w, r, api.RowResponse{Path: path, Index: index, Row: export.Row})
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	if export.Format == exporter.FormatXLSX {
		w.Header().Set("Content-Disposition", `attachment; filename="row-`+strconv.Itoa(index)+`.xlsx"`)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write row",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

func (h *DatasetHandler) resolve(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	path, err := h.files.ResolveWithin(h.dataDir, name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("path", err.Error()))
		return "", false
	}
	return path, true
}
