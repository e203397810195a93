package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/bloom/internal/api/shared"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/service"
)

// CatalogHandler serves categories, courses, levels and lessons.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, logger *slog.Logger) *CatalogHandler {
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// Categories handles GET /courses/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	shared.RespondWithData(w, r, http.StatusOK, CategoriesResponse{Categories: categories})
}

// Courses handles GET /courses with an optional category_id filter.
func (h *CatalogHandler) Courses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.Courses(r.Context(), r.URL.Query().Get("category_id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	respondWithCourses(w, r, courses)
}

// RecommendedCourses handles GET /courses/recommended.
func (h *CatalogHandler) RecommendedCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.RecommendedCourses(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	respondWithCourses(w, r, courses)
}

// Course handles GET /courses/{id}.
func (h *CatalogHandler) Course(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathParam(w, r, "id")
	if !ok {
		return
	}

	course, err := h.catalog.Course(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, CourseResponse{Course: course})
}

// Lesson handles GET /courses/lessons/{id}. Content payloads are passed through
// as stored.
func (h *CatalogHandler) Lesson(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathParam(w, r, "id")
	if !ok {
		return
	}

	lesson, err := h.catalog.Lesson(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, LessonResponse{Lesson: lesson})
}

// LevelLessons handles GET /courses/levels/{id}/lessons.
func (h *CatalogHandler) LevelLessons(w http.ResponseWriter, r *http.Request) {
	id, ok := requirePathParam(w, r, "id")
	if !ok {
		return
	}

	lessons, err := h.catalog.LevelLessons(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if lessons == nil {
		lessons = []domain.Lesson{}
	}
	shared.RespondWithData(w, r, http.StatusOK, LessonsResponse{Lessons: lessons})
}

func respondWithCourses(w http.ResponseWriter, r *http.Request, courses []domain.Course) {
	if courses == nil {
		courses = []domain.Course{}
	}
	shared.RespondWithData(w, r, http.StatusOK, CoursesResponse{Courses: courses})
}
