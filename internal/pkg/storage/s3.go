package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

const uploadAttempts = 3

// s3Storage implements the Storage interface on an S3-compatible bucket
type s3Storage struct {
	client *s3.Client
	config *Config
}

// NewS3Storage creates the S3 storage client
func NewS3Storage(cfg *Config) (Storage, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// Path-style URLs for S3-compatible services (MinIO, B2)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	log.Infof("[Storage] S3 client initialized for bucket: %s", cfg.BucketName)
	return &s3Storage{client: client, config: cfg}, nil
}

// Upload stores the object and returns its public URL. Transient failures
// are retried with exponential backoff before the error surfaces.
func (s *s3Storage) Upload(ctx context.Context, data []byte, pathHint string, contentType string) (string, error) {
	key := strings.TrimPrefix(pathHint, "/")

	err := withRetry(ctx, uploadAttempts, func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.config.BucketName),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentType:   aws.String(contentType),
			ContentLength: aws.Int64(int64(len(data))),
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return strings.TrimSuffix(s.config.PublicBaseURL, "/") + "/" + key, nil
}

// Delete removes the object behind a previously returned URL.
func (s *s3Storage) Delete(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}

	err = withRetry(ctx, uploadAttempts, func() error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.config.BucketName),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *s3Storage) keyFromURL(url string) (string, error) {
	base := strings.TrimSuffix(s.config.PublicBaseURL, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", fmt.Errorf("url %q is not under the configured public base", url)
	}
	return strings.TrimPrefix(url, base), nil
}

// withRetry runs fn up to attempts times with exponential backoff.
func withRetry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	delay := 200 * time.Millisecond
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		log.Warnf("[Storage] attempt %d/%d failed: %v", i+1, attempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
