package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "kartlap/internal/errors"
	"kartlap/internal/exporter"
	kmw "kartlap/internal/middleware"
	api "kartlap/pkg/contracts/api/v1"
	"kartlap/pkg/contracts/domain"
)

type refKey struct{}

// HeatHandler serves heat import, lookup and export.
type HeatHandler struct {
	service      HeatServiceInterface
	validate     *validator.Validate
	query        *kmw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHeatHandler creates a new heat handler
func NewHeatHandler(service HeatServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *HeatHandler {
	return &HeatHandler{
		service:      service,
		validate:     kmw.NewValidator(),
		query:        kmw.NewQueryParamValidator(errorHandler),
		logger:       logger.With(slog.String("component", "heat_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the heat routes.
func (h *HeatHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListHeats)
	r.With(kmw.ContentTypeValidator(h.errorHandler, "application/json")).Group(func(r chi.Router) {
		r.Post("/import", h.ImportHeat)
		r.Post("/import/batch", h.ImportBatch)
	})

	r.Route("/{track}/{sessionID}", func(r chi.Router) {
		r.Use(h.HeatCtx)
		r.Get("/", h.GetHeat)
		r.Delete("/", h.DeleteHeat)
		r.Get("/results", h.GetResults)
		r.Get("/export/{format}", h.ExportHeat)
	})
	return r
}

// HeatCtx validates the track and session URL parameters.
func (h *HeatHandler) HeatCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		track, err := domain.ParseTrack(chi.URLParam(r, "track"))
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("track", err.Error()))
			return
		}
		sessionID := chi.URLParam(r, "sessionID")
		if err := domain.ValidateSessionID(sessionID); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("session_id", err.Error()))
			return
		}
		ref := domain.HeatRef{Track: track, SessionID: sessionID}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), refKey{}, ref)))
	})
}

func heatRef(r *http.Request) domain.HeatRef {
	ref, _ := r.Context().Value(refKey{}).(domain.HeatRef)
	return ref
}

// TracksHandler handles GET /api/tracks
func TracksHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.NewTracksResponse())
}

// ListHeats handles GET /api/heats
func (h *HeatHandler) ListHeats(w http.ResponseWriter, r *http.Request) {
	track, ok := h.query.ValidateTrack(w, r, "track")
	if !ok {
		return
	}
	refs, err := h.service.List(r.Context(), track)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if refs == nil {
		refs = []domain.HeatRef{}
	}
	render.JSON(w, r, api.HeatListResponse{Heats: refs, Count: len(refs)})
}

// ImportHeat handles POST /api/heats/import
func (h *HeatHandler) ImportHeat(w http.ResponseWriter, r *http.Request) {
	var req api.ImportRequest
	if !h.decode(w, r, &req) {
		return
	}

	heat, err := h.service.Import(r.Context(), req.TrackOrDefault(), req.SessionID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "import failed",
			slog.String("session_id", req.SessionID),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.NewHeatSummary(heat))
}

// ImportBatch handles POST /api/heats/import/batch
func (h *HeatHandler) ImportBatch(w http.ResponseWriter, r *http.Request) {
	var req api.BatchImportRequest
	if !h.decode(w, r, &req) {
		return
	}

	track := req.TrackOrDefault()
	results, err := h.service.ImportBatch(r.Context(), track, req.SessionIDs, req.Workers)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := api.BatchImportResponse{
		Track:   track,
		Total:   len(results),
		Results: make([]api.BatchItem, 0, len(results)),
	}
	for _, res := range results {
		item := api.BatchItem{SessionID: res.SessionID}
		if res.Err != nil {
			item.Status = api.BatchStatusFailed
			item.Error = res.Err.Error()
			resp.Failed++
		} else {
			summary := api.NewHeatSummary(res.Heat)
			item.Status = api.BatchStatusImported
			item.Heat = &summary
			resp.Imported++
		}
		resp.Results = append(resp.Results, item)
	}

	// Partial failures are reported per item; the batch itself succeeded.
	render.JSON(w, r, resp)
}

// GetHeat handles GET /api/heats/{track}/{sessionID}
func (h *HeatHandler) GetHeat(w http.ResponseWriter, r *http.Request) {
	ref := heatRef(r)
	heat, err := h.service.Get(r.Context(), ref.Track, ref.SessionID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.NewHeatDetail(heat))
}

// GetResults handles GET /api/heats/{track}/{sessionID}/results
func (h *HeatHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	ref := heatRef(r)
	rows, err := h.service.FullResults(r.Context(), ref.Track, ref.SessionID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.ResultsResponse{Track: ref.Track, SessionID: ref.SessionID, Rows: rows})
}

// ExportHeat handles GET /api/heats/{track}/{sessionID}/export/{format}
func (h *HeatHandler) ExportHeat(w http.ResponseWriter, r *http.Request) {
	ref := heatRef(r)
	format, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"UNSUPPORTED_FORMAT",
			err.Error(),
			map[string]interface{}{"supported": exporter.Formats()},
		))
		return
	}

	file, err := h.service.Export(r.Context(), ref.Track, ref.SessionID, format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("filename", file.Filename),
			slog.String("error", err.Error()))
	}
}

// DeleteHeat handles DELETE /api/heats/{track}/{sessionID}
func (h *HeatHandler) DeleteHeat(w http.ResponseWriter, r *http.Request) {
	ref := heatRef(r)
	if err := h.service.Delete(r.Context(), ref.Track, ref.SessionID); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HeatHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return false
	}
	if err := kmw.ValidateStruct(h.validate, v); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}
