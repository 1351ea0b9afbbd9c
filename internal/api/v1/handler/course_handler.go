package handler

import (
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// CourseHandler handles the public course catalog endpoints
type CourseHandler struct {
	courseService service.CourseService
	logger        zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		logger:        logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts the catalog routes. Both are public; optionalAuthMw
// attaches the viewer id when a token is present so owners see unredacted
// lecture URLs.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("/courses", optionalAuthMw(http.HandlerFunc(h.listCourses)))
	mux.Handle("/courses/", optionalAuthMw(http.HandlerFunc(h.getCourse)))
}

func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/courses" {
		http.NotFound(w, r)
		return
	}
	courses, err := h.courseService.ListPublished(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list courses")
		http.Error(w, "Failed to retrieve courses: "+err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]dto.CourseSummaryDTO, 0, len(courses))
	for i := range courses {
		resp = append(resp, dto.NewCourseSummaryDTO(&courses[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	courseID := strings.TrimPrefix(r.URL.Path, "/courses/")
	if courseID == "" || strings.Contains(courseID, "/") {
		http.NotFound(w, r)
		return
	}

	viewerID := middleware.UserID(r.Context())
	course, err := h.courseService.GetCourseDetail(r.Context(), courseID, viewerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCourseDetailDTO(course))
}
