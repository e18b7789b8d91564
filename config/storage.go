package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
}

// NewS3Config initializes the S3 client for the recipe archive bucket.
// Credentials come from the usual AWS environment or shared config.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	if cfg.ArchiveBucket == "" {
		return nil, errors.New("archive bucket is not configured")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: cfg.ArchiveBucket,
	}, nil
}
