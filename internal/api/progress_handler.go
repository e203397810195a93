package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/bloom/internal/api/shared"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/service"
)

// ProgressHandler serves the authenticated user's progress, stats and
// energy.
type ProgressHandler struct {
	progress service.ProgressService
	logger   *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(progress service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if progress == nil {
		panic("progress cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		progress: progress,
		logger:   logger.With(slog.String("component", "progress_handler")),
	}
}

// Stats handles GET /progress/stats.
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.progress.Stats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, StatsResponse{Stats: stats})
}

// CourseProgress handles GET /progress/course/{id}.
func (h *ProgressHandler) CourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	courseID, ok := requirePathParam(w, r, "id")
	if !ok {
		return
	}

	records, err := h.progress.CourseProgress(r.Context(), userID, courseID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if records == nil {
		records = []domain.UserProgress{}
	}
	shared.RespondWithData(w, r, http.StatusOK, CourseProgressResponse{Progress: records})
}

// LessonProgress handles GET /progress/lesson/{id}. A lesson that was never
// started yields a null progress record.
func (h *ProgressHandler) LessonProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	lessonID, ok := requirePathParam(w, r, "id")
	if !ok {
		return
	}

	record, err := h.progress.LessonProgress(r.Context(), userID, lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, ProgressResponse{Progress: record})
}

// UpdateProgress handles POST /progress/update.
func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var update domain.ProgressUpdate
	if !decodeAndValidate(w, r, &update) {
		return
	}

	record, err := h.progress.UpdateProgress(r.Context(), userID, update)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("progress updated",
		slog.String("user_id", userID),
		slog.String("lesson_id", record.LessonID),
		slog.Bool("completed", record.Completed))
	shared.RespondWithData(w, r, http.StatusOK, ProgressResponse{Progress: record})
}

// ConsumeEnergy handles POST /progress/energy/consume. An empty body spends
// one unit.
func (h *ProgressHandler) ConsumeEnergy(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ConsumeEnergyRequest
	if r.ContentLength != 0 {
		if err := shared.DecodeJSON(w, r, &req); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
			return
		}
	}

	energy, err := h.progress.ConsumeEnergy(r.Context(), userID, req.Amount)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, EnergyResponse{Energy: energy})
}
