package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Scheme prefixes image references stored in the bucket.
const S3Scheme = "s3://"

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	presign    *s3.PresignClient
}

// NewS3Config initializes the S3 client for the configured bucket
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, config.WithRegion(cfg.S3Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Config{
		Client:     client,
		BucketName: cfg.S3Bucket,
		presign:    s3.NewPresignClient(client),
	}, nil
}

// GeneratePresignedURL generates a presigned URL for the given object key with the specified expiration time
func (s *S3Config) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	if s.presign == nil {
		s.presign = s3.NewPresignClient(s.Client)
	}
	presignedURL, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}

// ObjectKey extracts the key of an s3:// reference into this bucket. A
// reference without a bucket ("s3:///key" or "s3://key" when the first
// segment is not the bucket) is taken as a key in this bucket.
func (s *S3Config) ObjectKey(ref string) (string, bool) {
	if !strings.HasPrefix(ref, S3Scheme) {
		return "", false
	}
	rest := strings.TrimPrefix(ref, S3Scheme)
	if bucket, key, ok := strings.Cut(rest, "/"); ok && bucket == s.BucketName {
		rest = key
	}
	rest = strings.TrimPrefix(rest, "/")
	return rest, rest != ""
}
