package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/selector"
	"github.com/cartedge/coursecart/pkg/httputil"
	"github.com/cartedge/coursecart/pkg/validator"
)

// CatalogService is the catalog surface the courses handler needs.
type CatalogService interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
	GetCourse(ctx context.Context, courseID string) (*domain.Course, error)
}

// CoursesHandler serves the catalog and the selection resolution endpoint.
type CoursesHandler struct {
	catalog CatalogService
	logger  *slog.Logger
}

// NewCoursesHandler creates a new courses HTTP handler.
func NewCoursesHandler(catalog CatalogService, logger *slog.Logger) *CoursesHandler {
	return &CoursesHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ResolveRequest is the JSON request body for resolving a session selection.
type ResolveRequest struct {
	SessionID  string `json:"session_id" validate:"required"`
	LocationID string `json:"location_id"`
}

// courseView decorates a course with the derived choices the selection dialog
// offers first.
type courseView struct {
	domain.Course
	Dates []string `json:"dates"`
}

// ListCourses handles GET /api/v1/courses
func (h *CoursesHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.ListCourses(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: courses})
}

// GetCourse handles GET /api/v1/courses/{courseID}
func (h *CoursesHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := h.catalog.GetCourse(r.Context(), courseID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: courseView{
		Course: *course,
		Dates:  course.SessionDates(),
	}})
}

// ResolveSelection handles POST /api/v1/courses/{courseID}/resolve. It runs
// the date/location/price chain server-side and returns the priced selection,
// or 422 when the chain cannot complete.
func (h *CoursesHandler) ResolveSelection(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	course, err := h.catalog.GetCourse(r.Context(), courseID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resolved, err := selector.Resolve(course, req.SessionID, req.LocationID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resolved})
}
