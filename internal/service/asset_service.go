package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"app/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// AssetService stores course media on the S3-compatible asset host
type AssetService interface {
	// UploadThumbnail stores a course thumbnail and returns its public URL.
	UploadThumbnail(ctx context.Context, educatorID, filename, contentType string, data []byte) (string, error)
}

type assetService struct {
	s3Client *s3.Client
	cfg      *config.Config
	logger   zerolog.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(s3Client *s3.Client, cfg *config.Config, logger zerolog.Logger) AssetService {
	return &assetService{
		s3Client: s3Client,
		cfg:      cfg,
		logger:   logger.With().Str("service", "AssetService").Logger(),
	}
}

// UploadThumbnail writes the image under a timestamped per-educator key so
// re-uploads never overwrite a thumbnail an existing course still points at.
func (s *assetService) UploadThumbnail(ctx context.Context, educatorID, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty thumbnail: %w", ErrValidation)
	}

	key := fmt.Sprintf("thumbnails/%s/%d%s", educatorID, time.Now().UnixNano(), path.Ext(filename))
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload thumbnail")
		return "", fmt.Errorf("upload thumbnail: %w", err)
	}

	url := strings.TrimRight(s.cfg.S3URL, "/") + "/" + s.cfg.S3Bucket + "/" + key
	s.logger.Info().Str("key", key).Msg("Thumbnail uploaded")
	return url, nil
}
