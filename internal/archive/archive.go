// Package archive copies generated recipes to S3.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/alchemorsel-genai/backend/config"
	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

// PutObjectAPI is the part of the S3 client the archive needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes one JSON object per recipe.
type S3Archiver struct {
	client PutObjectAPI
	bucket string
	now    func() time.Time
}

func NewS3Archiver(client PutObjectAPI, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, now: time.Now}
}

// FromConfig builds an archiver over the configured bucket.
func FromConfig(s3cfg *config.S3Config) *S3Archiver {
	return NewS3Archiver(s3cfg.Client, s3cfg.BucketName)
}

// ObjectKey is recipes/YYYY/MM/DD/<cache key>.json in UTC.
func ObjectKey(key string, at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("recipes/%04d/%02d/%02d/%s.json", at.Year(), at.Month(), at.Day(), key)
}

func (a *S3Archiver) Put(ctx context.Context, key string, recipe types.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ObjectKey(key, a.now())),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload recipe to s3://%s: %w", a.bucket, err)
	}
	return nil
}
