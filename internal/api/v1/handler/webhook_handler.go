package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// WebhookHandler receives payment and identity provider callbacks. These
// routes authenticate by signature, not bearer token.
type WebhookHandler struct {
	stripeService  *service.StripeService
	userService    service.UserService
	identitySecret string
	logger         zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(
	stripeService *service.StripeService,
	userService service.UserService,
	identitySecret string,
	logger zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		stripeService:  stripeService,
		userService:    userService,
		identitySecret: identitySecret,
		logger:         logger.With().Str("handler", "WebhookHandler").Logger(),
	}
}

// RegisterRoutes mounts webhook routes without the auth middleware
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/webhooks/stripe", h.stripeWebhook)
	mux.HandleFunc("/webhooks/identity", h.identityWebhook)
}

func (h *WebhookHandler) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.stripeService.HandleWebhook(w, r)
}

func (h *WebhookHandler) identityWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read identity webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}

	if !h.verifyIdentitySignature(payload, r.Header.Get("Webhook-Signature")) {
		h.logger.Error().Msg("Signature verification failed for identity webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}

	var event dto.IdentityEventDTO
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error().Err(err).Msg("Invalid identity webhook payload")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	h.logger.Info().Str("event_type", event.Type).Msg("Identity webhook received")

	ctx := r.Context()
	switch event.Type {
	case "user.created", "user.updated":
		email := ""
		if len(event.Data.Emails) > 0 {
			email = event.Data.Emails[0].EmailAddress
		}
		user := &model.User{
			UserID:          event.Data.ID,
			Name:            strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName),
			Email:           email,
			AvatarURL:       event.Data.ImageURL,
			EnrolledCourses: model.StringList{},
		}
		if err := h.userService.SyncUser(ctx, user); err != nil {
			http.Error(w, "failed to sync user", http.StatusInternalServerError)
			return
		}
	case "user.deleted":
		if err := h.userService.DeleteUser(ctx, event.Data.ID); err != nil {
			http.Error(w, "failed to delete user", http.StatusInternalServerError)
			return
		}
	default:
		h.logger.Warn().Str("event_type", event.Type).Msg("Unhandled identity webhook event")
	}
	w.WriteHeader(http.StatusOK)
}

// verifyIdentitySignature checks the HMAC-SHA256 hex signature of the raw
// payload against the shared webhook secret.
func (h *WebhookHandler) verifyIdentitySignature(payload []byte, signature string) bool {
	if h.identitySecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.identitySecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
