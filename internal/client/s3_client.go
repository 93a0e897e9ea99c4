package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	appConfig "school-portal-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// object keys are unique per upload, so the stored bytes never change under a URL
const attachmentCacheControl = "public, max-age=31536000, immutable"

// S3Client stores attachment binaries in an S3 bucket (or a MinIO endpoint) and implements ObjectStore
type S3Client struct {
	client  *s3.Client
	bucket  string
	urlBase string
}

// NewS3Client creates a client for cfg. Attachment URLs use cfg.PublicBaseURL when set,
// the path-style endpoint for MinIO, and the virtual-hosted AWS URL otherwise.
func NewS3Client(ctx context.Context, cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}
	if cfg.Endpoint != "" && (cfg.AccessKey == "" || cfg.SecretKey == "") {
		return nil, fmt.Errorf("access key and secret key are required for a custom endpoint")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:  client,
		bucket:  cfg.Bucket,
		urlBase: attachmentURLBase(cfg.PublicBaseURL, endpoint, cfg.Bucket, cfg.Region),
	}, nil
}

func attachmentURLBase(publicBaseURL, endpoint, bucket, region string) string {
	switch {
	case publicBaseURL != "":
		return strings.TrimSuffix(publicBaseURL, "/")
	case endpoint != "":
		return endpoint + "/" + bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
}

// UploadFile stores the binary under key and returns its public URL
func (c *S3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		Body:         file,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(attachmentCacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return c.GetFileURL(key), nil
}

// DeleteFile removes the binary under key. S3 reports success for a missing key.
func (c *S3Client) DeleteFile(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// GetFileURL returns the public URL of key
func (c *S3Client) GetFileURL(key string) string {
	return c.urlBase + "/" + strings.TrimPrefix(key, "/")
}

var _ ObjectStore = (*S3Client)(nil)
