package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Stripe checkout settings. The secret key and webhook secret can either
	// be provided directly or resolved from Secret Manager at startup (see
	// the *SecretName fields below).
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `envconfig:"CURRENCY" default:"usd"`

	// FrontendBaseURL is the fallback redirect target after checkout when the
	// browser does not send an Origin header (local development).
	FrontendBaseURL string `envconfig:"FRONTEND_BASE_URL" default:"http://localhost:5173"`

	IdentityWebhookSecret string `envconfig:"IDENTITY_WEBHOOK_SECRET"`

	// S3-compatible asset host settings (course thumbnails)
	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string `envconfig:"S3_REGION" required:"true"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`

	// GCP settings. All optional: Secret Manager resolution and the purchase
	// event topic are skipped when the project ID is empty.
	GCPProjectID            string `envconfig:"GCP_PROJECT_ID"`
	PubSubPurchaseTopic     string `envconfig:"PUBSUB_PURCHASE_TOPIC" default:"purchase_events"`
	StripeSecretKeyName     string `envconfig:"STRIPE_SECRET_KEY_NAME"`
	StripeWebhookSecretName string `envconfig:"STRIPE_WEBHOOK_SECRET_NAME"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
