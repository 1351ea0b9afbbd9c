package service

import (
	"context"
	"fmt"

	"app/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// SecretManagerService resolves payment provider secrets at startup so they
// never have to live in the deployment environment.
type SecretManagerService interface {
	AccessSecret(ctx context.Context, name string) (string, error)
	// ResolveStripeSecrets fills in the Stripe key and webhook secret from
	// Secret Manager when secret names are configured. Values already set in
	// the environment win.
	ResolveStripeSecrets(ctx context.Context, cfg *config.Config) error
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, cfg *config.Config) (SecretManagerService, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set for the current environment")
	}

	var opts []option.ClientOption
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: cfg.GCPProjectID,
	}, nil
}

func (s *secretManagerService) AccessSecret(ctx context.Context, name string) (string, error) {
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name)

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return string(result.Payload.Data), nil
}

func (s *secretManagerService) ResolveStripeSecrets(ctx context.Context, cfg *config.Config) error {
	if cfg.StripeSecretKey == "" && cfg.StripeSecretKeyName != "" {
		key, err := s.AccessSecret(ctx, cfg.StripeSecretKeyName)
		if err != nil {
			return fmt.Errorf("resolve stripe secret key: %w", err)
		}
		cfg.StripeSecretKey = key
	}
	if cfg.StripeWebhookSecret == "" && cfg.StripeWebhookSecretName != "" {
		secret, err := s.AccessSecret(ctx, cfg.StripeWebhookSecretName)
		if err != nil {
			return fmt.Errorf("resolve stripe webhook secret: %w", err)
		}
		cfg.StripeWebhookSecret = secret
	}
	return nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}
