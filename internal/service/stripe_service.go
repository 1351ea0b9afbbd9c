package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"app/internal/config"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/util"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeService manages Stripe Checkout integration
type StripeService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	courseRepo   repository.CourseRepository
	purchaseRepo repository.PurchaseRepository
	enrollSvc    EnrollmentService
	logger       zerolog.Logger
}

// NewStripeService initializes the Stripe key and returns the service with a scoped logger
func NewStripeService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	purchaseRepo repository.PurchaseRepository,
	enrollSvc EnrollmentService,
	logger zerolog.Logger,
) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{
		cfg:          cfg,
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		enrollSvc:    enrollSvc,
		logger:       lg,
	}
}

// PurchaseCourse records a pending purchase and creates a Stripe Checkout
// session for it. Returns the session URL the buyer is redirected to.
// The origin is where the buyer came from; it falls back to the configured
// frontend URL when absent.
func (s *StripeService) PurchaseCourse(ctx context.Context, userID, courseID, origin string) (string, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return "", fmt.Errorf("fetch course: %w", err)
	}
	if course == nil {
		return "", fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}

	amount := course.DiscountedPrice()
	purchase := &model.Purchase{
		CourseID: course.CourseID,
		UserID:   user.UserID,
		Amount:   amount,
		Status:   model.PurchaseStatusPending,
	}
	if err := s.purchaseRepo.CreatePurchase(ctx, purchase); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Str("user_id", userID).Msg("Failed to create purchase record")
		return "", fmt.Errorf("create purchase: %w", err)
	}

	if origin == "" {
		origin = s.cfg.FrontendBaseURL
	}

	// Metadata goes on both the session and the payment intent so either
	// webhook event type can be traced back to the purchase.
	metadata := map[string]string{
		"purchase_id": purchase.PurchaseID,
		"user_id":     user.UserID,
		"course_id":   course.CourseID,
	}
	sessParams := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.cfg.Currency),
				UnitAmount: stripe.Int64(util.ToMinorUnits(amount)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(course.Title),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:       stripe.String(stripe.CheckoutSessionModePayment),
		SuccessURL: stripe.String(origin + "/loading/my-enrollments"),
		CancelURL:  stripe.String(origin + "/"),
		Metadata:   metadata,
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	sess, err := checkoutsession.New(sessParams)
	if err != nil {
		s.logger.Error().Err(err).Str("purchase_id", purchase.PurchaseID).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	s.logger.Info().
		Str("purchase_id", purchase.PurchaseID).
		Str("course_id", course.CourseID).
		Float64("amount", amount).
		Msg("Checkout session created")
	return sess.URL, nil
}

// HandleWebhook processes Stripe webhook events
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	ctx := r.Context()
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			s.logger.Error().Err(err).Msg("Invalid checkout.session data")
			http.Error(w, "invalid checkout.session data", http.StatusBadRequest)
			return
		}
		purchaseID := cs.Metadata["purchase_id"]
		if purchaseID == "" {
			s.logger.Error().Str("session_id", cs.ID).Msg("Missing purchase_id in checkout session metadata")
			http.Error(w, "missing purchase_id in metadata", http.StatusBadRequest)
			return
		}
		if err := s.enrollSvc.ResolveCompleted(ctx, purchaseID); err != nil {
			s.logger.Error().Err(err).Str("purchase_id", purchaseID).Msg("Failed to resolve completed purchase")
			http.Error(w, "failed to resolve purchase", http.StatusInternalServerError)
			return
		}
	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			s.logger.Error().Err(err).Msg("Invalid payment_intent data")
			http.Error(w, "invalid payment_intent data", http.StatusBadRequest)
			return
		}
		purchaseID, err := s.purchaseIDForPaymentIntent(&pi)
		if err != nil {
			s.logger.Error().Err(err).Str("payment_intent_id", pi.ID).Msg("Failed to resolve purchase for failed payment intent")
			http.Error(w, "failed to resolve purchase", http.StatusInternalServerError)
			return
		}
		if purchaseID == "" {
			// No session references the intent; nothing to fail.
			s.logger.Warn().Str("payment_intent_id", pi.ID).Msg("No purchase found for failed payment intent")
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := s.enrollSvc.ResolveFailed(ctx, purchaseID); err != nil {
			s.logger.Error().Err(err).Str("purchase_id", purchaseID).Msg("Failed to resolve failed purchase")
			http.Error(w, "failed to resolve purchase", http.StatusInternalServerError)
			return
		}
	default:
		s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	}
	w.WriteHeader(http.StatusOK)
}

// purchaseIDForPaymentIntent finds the purchase behind a payment intent.
// Preferred source is the intent's own metadata; older sessions without
// payment-intent metadata are looked up via the session list API.
func (s *StripeService) purchaseIDForPaymentIntent(pi *stripe.PaymentIntent) (string, error) {
	if id := pi.Metadata["purchase_id"]; id != "" {
		return id, nil
	}

	params := &stripe.CheckoutSessionListParams{PaymentIntent: stripe.String(pi.ID)}
	iter := checkoutsession.List(params)
	for iter.Next() {
		if id := iter.CheckoutSession().Metadata["purchase_id"]; id != "" {
			return id, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("list checkout sessions: %w", err)
	}
	return "", nil
}
