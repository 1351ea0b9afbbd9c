package service

import (
	"context"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// CourseService defines the interface for course catalog operations
type CourseService interface {
	// ListPublished returns the public catalog (content and enrollment
	// stripped at the repository).
	ListPublished(ctx context.Context) ([]model.Course, error)
	// GetCourseDetail returns the full course with lecture URLs blanked
	// unless the lecture is free-preview or the viewer owns the course.
	GetCourseDetail(ctx context.Context, courseID, viewerID string) (*model.Course, error)
	// RateCourse upserts the viewer's 1-5 rating; enrollment required.
	RateCourse(ctx context.Context, courseID, userID string, rating int) error
}

// courseService is the implementation of CourseService
type courseService struct {
	repo   repository.CourseRepository
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:   repo,
		logger: logger.With().Str("service", "CourseService").Logger(),
	}
}

// ListPublished returns the public catalog
func (s *courseService) ListPublished(ctx context.Context) ([]model.Course, error) {
	return s.repo.ListPublished(ctx)
}

// GetCourseDetail retrieves a full course document for the given viewer.
// The viewerID may be empty for anonymous requests.
func (s *courseService) GetCourseDetail(ctx context.Context, courseID, viewerID string) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("fetch course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}

	if viewerID != course.EducatorID {
		redactLectureURLs(course)
	}
	return course, nil
}

// redactLectureURLs blanks non-preview lecture URLs so paid content does not
// leak through the public detail endpoint.
func redactLectureURLs(course *model.Course) {
	for ci := range course.Chapters {
		for li := range course.Chapters[ci].Lectures {
			if !course.Chapters[ci].Lectures[li].IsPreviewFree {
				course.Chapters[ci].Lectures[li].URL = ""
			}
		}
	}
}

// RateCourse validates and stores one rating per user. The upsert happens in
// a single guarded statement on the course row, so ratings submitted at the
// same time by different users both land.
func (s *courseService) RateCourse(ctx context.Context, courseID, userID string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}

	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("fetch course: %w", err)
	}
	if course == nil {
		return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	if !course.IsEnrolled(userID) {
		return fmt.Errorf("user %s has not purchased course %s: %w", userID, courseID, ErrForbidden)
	}

	if err := s.repo.UpsertRating(ctx, courseID, userID, rating); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Str("user_id", userID).Msg("Failed to store rating")
		return fmt.Errorf("store rating: %w", err)
	}
	return nil
}
