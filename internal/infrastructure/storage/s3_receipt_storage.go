// Package storage provides receipt file storage implementations.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appfinance "github.com/ndutagrace25/esperanza-internal/internal/application/finance"
	infraconfig "github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ appfinance.ReceiptStorage = (*S3ReceiptStorage)(nil)

// S3ReceiptStorage stores receipt files in an S3-compatible bucket
type S3ReceiptStorage struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// NewS3ReceiptStorage creates an S3-backed receipt store. Static credentials
// from config take precedence; otherwise the standard AWS credential chain
// (env vars, shared config, IAM role) applies. Static credentials are the
// normal setup for S3-compatible stores behind a custom endpoint.
func NewS3ReceiptStorage(cfg infraconfig.StorageConfig, logger *zap.Logger) (*S3ReceiptStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3ReceiptStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("storage"),
	}, nil
}

// UploadReceipt stores the receipt bytes under the given key and returns the
// public URL of the stored object
func (s *S3ReceiptStorage) UploadReceipt(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}

	s.logger.Debug("receipt uploaded", zap.String("key", key), zap.Int("size", len(data)))
	return s.baseURL + "/" + escapeKey(key), nil
}

// escapeKey escapes each path segment while keeping separators intact
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
