package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// maxThumbnailBytes caps the multipart memory for course creation (8 MiB).
const maxThumbnailBytes = 8 << 20

// EducatorHandler handles educator role, authoring, and analytics endpoints
type EducatorHandler struct {
	educatorService service.EducatorService
	assetService    service.AssetService
	validate        *validator.Validate
	logger          zerolog.Logger
}

// NewEducatorHandler creates a new EducatorHandler
func NewEducatorHandler(
	educatorService service.EducatorService,
	assetService service.AssetService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *EducatorHandler {
	return &EducatorHandler{
		educatorService: educatorService,
		assetService:    assetService,
		validate:        validate,
		logger:          logger.With().Str("handler", "EducatorHandler").Logger(),
	}
}

// RegisterRoutes mounts educator routes
func (h *EducatorHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/educator/update-role", authMw(http.HandlerFunc(h.updateRole)))
	mux.Handle("/educator/courses", authMw(http.HandlerFunc(h.handleCourses)))
	mux.Handle("/educator/dashboard", authMw(http.HandlerFunc(h.dashboard)))
	mux.Handle("/educator/enrolled-students", authMw(http.HandlerFunc(h.enrolledStudents)))
}

func (h *EducatorHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	if err := h.educatorService.BecomeEducator(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": model.RoleEducator})
}

func (h *EducatorHandler) handleCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodPost:
		h.createCourse(w, r, userID)
	case http.MethodGet:
		h.myCourses(w, r, userID)
	default:
		http.NotFound(w, r)
	}
}

// createCourse accepts a multipart form with a courseData JSON field and an
// image file. The thumbnail upload happens first; creation aborts before any
// insert if the upload fails.
func (h *EducatorHandler) createCourse(w http.ResponseWriter, r *http.Request, userID string) {
	if err := r.ParseMultipartForm(maxThumbnailBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req dto.CourseCreateDTO
	if err := json.Unmarshal([]byte(r.FormValue("courseData")), &req); err != nil {
		http.Error(w, "Invalid courseData payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Thumbnail image required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read thumbnail: "+err.Error(), http.StatusBadRequest)
		return
	}

	thumbnailURL, err := h.assetService.UploadThumbnail(
		r.Context(), userID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Thumbnail upload failed")
		writeServiceError(w, err)
		return
	}

	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Discount:     req.Discount,
		IsPublished:  req.IsPublished,
		ThumbnailURL: thumbnailURL,
		Chapters:     req.Content(),
	}
	created, err := h.educatorService.CreateCourse(r.Context(), userID, course)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewCourseDetailDTO(created))
}

func (h *EducatorHandler) myCourses(w http.ResponseWriter, r *http.Request, userID string) {
	courses, err := h.educatorService.MyCourses(r.Context(), userID)
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

func (h *EducatorHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	data, err := h.educatorService.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *EducatorHandler) enrolledStudents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	roster, err := h.educatorService.EnrolledStudents(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}
