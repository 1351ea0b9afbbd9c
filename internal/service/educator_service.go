package service

import (
	"context"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/repository"
	"app/internal/video"

	"github.com/rs/zerolog"
)

// EnrolledStudentEntry is one row of the educator's enrollment roster,
// derived from completed purchases.
type EnrolledStudentEntry struct {
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	StudentAvatar string    `json:"student_avatar"`
	CourseTitle   string    `json:"course_title"`
	PurchaseDate  time.Time `json:"purchase_date"`
}

// DashboardData summarizes an educator's business in one payload.
type DashboardData struct {
	TotalCourses     int                    `json:"total_courses"`
	TotalEarnings    float64                `json:"total_earnings"`
	EnrolledStudents []EnrolledStudentEntry `json:"enrolled_students"`
}

// EducatorService covers role upgrades, course authoring, and analytics
type EducatorService interface {
	// BecomeEducator grants the educator role; already holding it is a no-op.
	BecomeEducator(ctx context.Context, userID string) error
	// CreateCourse stores a new course owned by the educator.
	CreateCourse(ctx context.Context, educatorID string, c *model.Course) (*model.Course, error)
	// MyCourses lists the educator's courses, drafts included.
	MyCourses(ctx context.Context, educatorID string) ([]model.Course, error)
	Dashboard(ctx context.Context, educatorID string) (*DashboardData, error)
	EnrolledStudents(ctx context.Context, educatorID string) ([]EnrolledStudentEntry, error)
}

type educatorService struct {
	userRepo     repository.UserRepository
	courseRepo   repository.CourseRepository
	purchaseRepo repository.PurchaseRepository
	logger       zerolog.Logger
}

func NewEducatorService(
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	purchaseRepo repository.PurchaseRepository,
	logger zerolog.Logger,
) EducatorService {
	return &educatorService{
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		logger:       logger.With().Str("service", "EducatorService").Logger(),
	}
}

func (s *educatorService) BecomeEducator(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if user.IsEducator() {
		return nil
	}
	if err := s.userRepo.UpdateRole(ctx, userID, model.RoleEducator); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to grant educator role")
		return fmt.Errorf("update role: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("User granted educator role")
	return nil
}

// requireEducator loads the user and checks the role gate shared by all
// educator operations.
func (s *educatorService) requireEducator(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if !user.IsEducator() {
		return nil, fmt.Errorf("user %s lacks educator role: %w", userID, ErrForbidden)
	}
	return user, nil
}

func (s *educatorService) CreateCourse(ctx context.Context, educatorID string, c *model.Course) (*model.Course, error) {
	if _, err := s.requireEducator(ctx, educatorID); err != nil {
		return nil, err
	}
	if c.Title == "" {
		return nil, fmt.Errorf("course title required: %w", ErrValidation)
	}
	if c.Price < 0 {
		return nil, fmt.Errorf("price must be non-negative: %w", ErrValidation)
	}
	if c.Discount < 0 || c.Discount > 100 {
		return nil, fmt.Errorf("discount must be between 0 and 100: %w", ErrValidation)
	}
	if err := normalizeContent(c.Chapters); err != nil {
		return nil, err
	}

	c.EducatorID = educatorID
	if c.Chapters == nil {
		c.Chapters = model.ChapterList{}
	}
	c.Ratings = model.RatingList{}
	c.EnrolledStudents = model.StringList{}

	if err := s.courseRepo.CreateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("educator_id", educatorID).Msg("Failed to create course")
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.logger.Info().Str("course_id", c.CourseID).Str("educator_id", educatorID).Msg("Course created")
	return c, nil
}

// normalizeContent validates submitted chapters and lectures and rewrites
// each YouTube lecture's URL to its extracted video id.
func normalizeContent(chapters model.ChapterList) error {
	for ci := range chapters {
		ch := &chapters[ci]
		if ch.Title == "" {
			return fmt.Errorf("chapter title required: %w", ErrValidation)
		}
		for li := range ch.Lectures {
			l := &ch.Lectures[li]
			if l.Title == "" {
				return fmt.Errorf("lecture title required in chapter %q: %w", ch.Title, ErrValidation)
			}
			if l.DurationMinutes <= 0 {
				return fmt.Errorf("lecture %q needs a positive duration: %w", l.Title, ErrValidation)
			}
			if !video.ValidateLectureSource(l.VideoSource, l.URL) {
				return fmt.Errorf("lecture %q has an invalid video reference: %w", l.Title, ErrValidation)
			}
			if l.VideoSource == model.VideoSourceYouTube {
				l.URL = video.ExtractYouTubeID(l.URL)
			}
		}
	}
	return nil
}

func (s *educatorService) MyCourses(ctx context.Context, educatorID string) ([]model.Course, error) {
	if _, err := s.requireEducator(ctx, educatorID); err != nil {
		return nil, err
	}
	return s.courseRepo.ListByEducator(ctx, educatorID)
}

func (s *educatorService) Dashboard(ctx context.Context, educatorID string) (*DashboardData, error) {
	courses, err := s.MyCourses(ctx, educatorID)
	if err != nil {
		return nil, err
	}

	roster, earnings, err := s.rosterForCourses(ctx, courses)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalCourses:     len(courses),
		TotalEarnings:    earnings,
		EnrolledStudents: roster,
	}, nil
}

func (s *educatorService) EnrolledStudents(ctx context.Context, educatorID string) ([]EnrolledStudentEntry, error) {
	courses, err := s.MyCourses(ctx, educatorID)
	if err != nil {
		return nil, err
	}
	roster, _, err := s.rosterForCourses(ctx, courses)
	return roster, err
}

// rosterForCourses joins completed purchases with student profiles and
// course titles, summing earnings along the way.
func (s *educatorService) rosterForCourses(ctx context.Context, courses []model.Course) ([]EnrolledStudentEntry, float64, error) {
	courseTitles := make(map[string]string, len(courses))
	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		courseTitles[c.CourseID] = c.Title
		courseIDs = append(courseIDs, c.CourseID)
	}

	purchases, err := s.purchaseRepo.ListCompletedByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch purchases: %w", err)
	}

	roster := make([]EnrolledStudentEntry, 0, len(purchases))
	var earnings float64
	studentCache := make(map[string]*model.User)
	for _, p := range purchases {
		earnings += p.Amount

		student, ok := studentCache[p.UserID]
		if !ok {
			student, err = s.userRepo.GetUserByID(ctx, p.UserID)
			if err != nil {
				return nil, 0, fmt.Errorf("fetch student: %w", err)
			}
			studentCache[p.UserID] = student
		}
		if student == nil {
			// Student deleted their account; the purchase still counts
			// toward earnings but has no roster row.
			continue
		}

		roster = append(roster, EnrolledStudentEntry{
			StudentID:     student.UserID,
			StudentName:   student.Name,
			StudentAvatar: student.AvatarURL,
			CourseTitle:   courseTitles[p.CourseID],
			PurchaseDate:  p.CreatedAt,
		})
	}
	return roster, earnings, nil
}
