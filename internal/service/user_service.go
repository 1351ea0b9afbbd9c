package service

import (
	"context"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// UserService defines user profile and enrollment-view operations
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	// GetEnrolledCourses returns the full course documents the user is
	// enrolled in.
	GetEnrolledCourses(ctx context.Context, userID string) ([]model.Course, error)
	// SyncUser upserts a user row from an identity provider event.
	SyncUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, courseRepo repository.CourseRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		logger:     logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *userService) GetEnrolledCourses(ctx context.Context, userID string) ([]model.Course, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return s.courseRepo.ListByIDs(ctx, user.EnrolledCourses)
}

// SyncUser maintains the local user row from identity provider events.
// New users default to the student role; updates never touch role or
// enrollment.
func (s *userService) SyncUser(ctx context.Context, u *model.User) error {
	if u.Role == "" {
		u.Role = model.RoleStudent
	}
	if err := s.userRepo.UpsertUser(ctx, u); err != nil {
		s.logger.Error().Err(err).Str("user_id", u.UserID).Msg("Failed to upsert user from identity event")
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete user from identity event")
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
