package service

import (
	"context"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ProgressService tracks per-user lecture completion
type ProgressService interface {
	// MarkLectureCompleted records a completion; repeating the same lecture
	// is a success no-op.
	MarkLectureCompleted(ctx context.Context, userID, courseID, lectureID string) error
	// GetProgress returns the user's progress with the completion flag
	// computed against the course's current lecture count. A user with no
	// progress row gets an empty progress, not an error.
	GetProgress(ctx context.Context, userID, courseID string) (*model.CourseProgress, bool, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	courseRepo   repository.CourseRepository
	logger       zerolog.Logger
}

func NewProgressService(progressRepo repository.ProgressRepository, courseRepo repository.CourseRepository, logger zerolog.Logger) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
		logger:       logger.With().Str("service", "ProgressService").Logger(),
	}
}

func (s *progressService) MarkLectureCompleted(ctx context.Context, userID, courseID, lectureID string) error {
	if lectureID == "" {
		return fmt.Errorf("lecture id required: %w", ErrValidation)
	}
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("fetch course: %w", err)
	}
	if course == nil {
		return fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	if err := s.progressRepo.AddCompletedLecture(ctx, userID, courseID, lectureID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("course_id", courseID).Msg("Failed to record lecture completion")
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

func (s *progressService) GetProgress(ctx context.Context, userID, courseID string) (*model.CourseProgress, bool, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch course: %w", err)
	}
	if course == nil {
		return nil, false, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}

	progress, err := s.progressRepo.GetProgress(ctx, userID, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch progress: %w", err)
	}
	if progress == nil {
		progress = &model.CourseProgress{
			UserID:            userID,
			CourseID:          courseID,
			LecturesCompleted: model.StringList{},
		}
	}
	return progress, progress.IsCourseComplete(course), nil
}
