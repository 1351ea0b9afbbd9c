package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// EnrollmentService reconciles purchase resolutions with the bidirectional
// enrollment relation. The payment provider redelivers events, so both
// resolution paths must absorb replays.
type EnrollmentService interface {
	// ResolveCompleted enrolls the buyer and completes the purchase. A
	// replay against an already-resolved purchase is a no-op.
	ResolveCompleted(ctx context.Context, purchaseID string) error
	// ResolveFailed flips a pending purchase to failed. An unknown purchase
	// id is logged and dropped rather than retried forever.
	ResolveFailed(ctx context.Context, purchaseID string) error
}

// PurchaseEvent is the payload published after a purchase resolves.
type PurchaseEvent struct {
	PurchaseID string    `json:"purchase_id"`
	CourseID   string    `json:"course_id"`
	UserID     string    `json:"user_id"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	ResolvedAt time.Time `json:"resolved_at"`
}

type enrollmentService struct {
	purchaseRepo repository.PurchaseRepository
	userRepo     repository.UserRepository
	courseRepo   repository.CourseRepository
	publisher    pubsub.Publisher
	eventTopic   string
	logger       zerolog.Logger
}

// NewEnrollmentService creates an EnrollmentService. The publisher may be nil,
// in which case purchase events are not emitted.
func NewEnrollmentService(
	purchaseRepo repository.PurchaseRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	publisher pubsub.Publisher,
	eventTopic string,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		publisher:    publisher,
		eventTopic:   eventTopic,
		logger:       logger.With().Str("service", "EnrollmentService").Logger(),
	}
}

func (s *enrollmentService) ResolveCompleted(ctx context.Context, purchaseID string) error {
	purchase, err := s.purchaseRepo.GetPurchaseByID(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("fetch purchase: %w", err)
	}
	if purchase == nil {
		return fmt.Errorf("purchase %s: %w", purchaseID, ErrNotFound)
	}
	if purchase.IsResolved() {
		s.logger.Info().Str("purchase_id", purchaseID).Str("status", purchase.Status).Msg("Purchase already resolved, ignoring replay")
		return nil
	}

	// Both references must exist before any membership write. A failed
	// lookup leaves the purchase pending so the provider retries.
	user, err := s.userRepo.GetUserByID(ctx, purchase.UserID)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", purchase.UserID, ErrNotFound)
	}
	course, err := s.courseRepo.GetCourseByID(ctx, purchase.CourseID)
	if err != nil {
		return fmt.Errorf("fetch course: %w", err)
	}
	if course == nil {
		return fmt.Errorf("course %s: %w", purchase.CourseID, ErrNotFound)
	}

	// Membership inserts are guarded in SQL, so running this twice for the
	// same purchase cannot create duplicates.
	if err := s.courseRepo.AddEnrolledStudent(ctx, course.CourseID, user.UserID); err != nil {
		return fmt.Errorf("enroll student on course: %w", err)
	}
	if err := s.userRepo.AddEnrolledCourse(ctx, user.UserID, course.CourseID); err != nil {
		return fmt.Errorf("enroll course on user: %w", err)
	}

	changed, err := s.purchaseRepo.MarkCompleted(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("complete purchase: %w", err)
	}
	if !changed {
		s.logger.Info().Str("purchase_id", purchaseID).Msg("Purchase resolved concurrently, skipping event")
		return nil
	}

	s.logger.Info().
		Str("purchase_id", purchaseID).
		Str("user_id", user.UserID).
		Str("course_id", course.CourseID).
		Msg("Purchase completed and user enrolled")

	s.publishEvent(ctx, purchase, model.PurchaseStatusCompleted)
	return nil
}

func (s *enrollmentService) ResolveFailed(ctx context.Context, purchaseID string) error {
	purchase, err := s.purchaseRepo.GetPurchaseByID(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("fetch purchase: %w", err)
	}
	if purchase == nil {
		// The event references a purchase we never created. Acking it keeps
		// the provider from redelivering a permanently-invalid event.
		s.logger.Warn().Str("purchase_id", purchaseID).Msg("Failure event for unknown purchase, dropping")
		return nil
	}
	if purchase.IsResolved() {
		s.logger.Info().Str("purchase_id", purchaseID).Str("status", purchase.Status).Msg("Purchase already resolved, ignoring replay")
		return nil
	}

	changed, err := s.purchaseRepo.MarkFailed(ctx, purchaseID)
	if err != nil {
		return fmt.Errorf("fail purchase: %w", err)
	}
	if changed {
		s.logger.Info().Str("purchase_id", purchaseID).Msg("Purchase marked failed")
		s.publishEvent(ctx, purchase, model.PurchaseStatusFailed)
	}
	return nil
}

// publishEvent emits a purchase event. Best effort: a publish failure is
// logged, never surfaced, since the purchase itself already resolved.
func (s *enrollmentService) publishEvent(ctx context.Context, p *model.Purchase, status string) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(PurchaseEvent{
		PurchaseID: p.PurchaseID,
		CourseID:   p.CourseID,
		UserID:     p.UserID,
		Amount:     p.Amount,
		Status:     status,
		ResolvedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("purchase_id", p.PurchaseID).Msg("Failed to encode purchase event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.eventTopic, payload); err != nil {
		s.logger.Error().Err(err).Str("purchase_id", p.PurchaseID).Msg("Failed to publish purchase event")
	}
}
