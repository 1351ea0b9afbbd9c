package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserHandler handles authenticated student-facing endpoints
type UserHandler struct {
	userService     service.UserService
	courseService   service.CourseService
	progressService service.ProgressService
	stripeService   *service.StripeService
	validate        *validator.Validate
	logger          zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userService service.UserService,
	courseService service.CourseService,
	progressService service.ProgressService,
	stripeService *service.StripeService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		userService:     userService,
		courseService:   courseService,
		progressService: progressService,
		stripeService:   stripeService,
		validate:        validate,
		logger:          logger.With().Str("handler", "UserHandler").Logger(),
	}
}

// RegisterRoutes mounts user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/profile", authMw(http.HandlerFunc(h.getProfile)))
	mux.Handle("/users/enrolled-courses", authMw(http.HandlerFunc(h.getEnrolledCourses)))
	mux.Handle("/users/purchase", authMw(http.HandlerFunc(h.purchaseCourse)))
	mux.Handle("/users/course-progress", authMw(http.HandlerFunc(h.handleProgress)))
	mux.Handle("/users/rating", authMw(http.HandlerFunc(h.rateCourse)))
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponseDTO(user))
}

func (h *UserHandler) getEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	courses, err := h.userService.GetEnrolledCourses(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]dto.CourseDetailDTO, 0, len(courses))
	for i := range courses {
		resp = append(resp, dto.NewCourseDetailDTO(&courses[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) purchaseCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.PurchaseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	sessionURL, err := h.stripeService.PurchaseCourse(r.Context(), userID, req.CourseID, r.Header.Get("Origin"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PurchaseResponseDTO{SessionURL: sessionURL})
}

func (h *UserHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodPost:
		h.updateProgress(w, r, userID)
	case http.MethodGet:
		h.getProgress(w, r, userID)
	default:
		http.NotFound(w, r)
	}
}

func (h *UserHandler) updateProgress(w http.ResponseWriter, r *http.Request, userID string) {
	var req dto.ProgressUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.progressService.MarkLectureCompleted(r.Context(), userID, req.CourseID, req.LectureID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) getProgress(w http.ResponseWriter, r *http.Request, userID string) {
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		http.Error(w, "course_id query parameter required", http.StatusBadRequest)
		return
	}
	progress, completed, err := h.progressService.GetProgress(r.Context(), userID, courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProgressResponseDTO{
		CourseID:          courseID,
		LecturesCompleted: progress.LecturesCompleted,
		Completed:         completed,
	})
}

func (h *UserHandler) rateCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.RatingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.courseService.RateCourse(r.Context(), req.CourseID, userID, req.Rating); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
