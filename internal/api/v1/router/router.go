package router

import (
	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/service"
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Open DB connection (connection pooling)
	dsn := cfg.DBConnectionString
	// In a development environment, we want to ensure that SSL is disabled for
	// local testing. In production, the connection string should be provided
	// with the correct SSL settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := " "
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			if strings.Contains(dsn, "?") {
				separator = "&"
			} else {
				separator = "?"
			}
		}
		dsn += separator + "sslmode=disable"
	}
	// For non-development environments that use a transaction pooler like pgbouncer,
	// we must use the simple query protocol to avoid issues with server-side prepared statements.
	if cfg.Environment != "development" {
		if !strings.Contains(dsn, "prefer_simple_protocol") {
			separator := "&"
			if !strings.Contains(dsn, "?") {
				separator = "?"
			}
			dsn += separator + "prefer_simple_protocol=true"
		}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
		return nil, nil, err
	}

	// Ping the database to ensure connection is valid
	if err := db.Ping(); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// Set reasonable connection pool limits
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// 2. Resolve payment secrets from Secret Manager when configured
	if cfg.GCPProjectID != "" && (cfg.StripeSecretKeyName != "" || cfg.StripeWebhookSecretName != "") {
		sm, err := service.NewSecretManagerService(context.Background(), cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
			return nil, nil, err
		}
		if err := sm.ResolveStripeSecrets(context.Background(), cfg); err != nil {
			logger.Fatal().Msgf("Failed to resolve Stripe secrets: %v", err)
			return nil, nil, err
		}
		sm.Close()
	}

	// 3. Initialize S3 client
	s3Config, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Fatal().Msgf("Failed to load S3 config: %v", err)
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	// 4. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 5. Initialize Pub/Sub publisher (optional: purchase events)
	var publisher pubsub.Publisher
	if cfg.GCPProjectID != "" {
		pubSubPublisher, err := pubsub.NewPublisher(context.Background(), cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
			return nil, nil, err
		}
		publisher = pubSubPublisher
	}

	// 6. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	progressRepo := repository.NewProgressRepo(db)

	courseSvc := service.NewCourseService(courseRepo, logger)
	userSvc := service.NewUserService(userRepo, courseRepo, logger)
	progressSvc := service.NewProgressService(progressRepo, courseRepo, logger)
	educatorSvc := service.NewEducatorService(userRepo, courseRepo, purchaseRepo, logger)
	assetSvc := service.NewAssetService(s3Client, cfg, logger)
	enrollSvc := service.NewEnrollmentService(purchaseRepo, userRepo, courseRepo, publisher, cfg.PubSubPurchaseTopic, logger)
	stripeSvc := service.NewStripeService(cfg, userRepo, courseRepo, purchaseRepo, enrollSvc, logger)

	courseHandler := handler.NewCourseHandler(courseSvc, logger)
	userHandler := handler.NewUserHandler(userSvc, courseSvc, progressSvc, stripeSvc, validate, logger)
	educatorHandler := handler.NewEducatorHandler(educatorSvc, assetSvc, validate, logger)
	webhookHandler := handler.NewWebhookHandler(stripeSvc, userSvc, cfg.IdentityWebhookSecret, logger)

	// 7. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(cfg.JWTSecret)

	// 8. Create ServeMux router
	mux := http.NewServeMux()

	// Create a subrouter for API v1 with the /v1 prefix
	apiV1Mux := http.NewServeMux()
	courseHandler.RegisterRoutes(apiV1Mux, optionalAuthMiddleware)
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	educatorHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	webhookHandler.RegisterRoutes(apiV1Mux)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// 9. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), db, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		// Only remove the middleware if it exists.
		// This makes the client more robust, especially for operations like presigned URLs
		// that might inspect the middleware stack.
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
