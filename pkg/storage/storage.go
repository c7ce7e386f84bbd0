package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	apperrors "github.com/folio-dev/folio/pkg/errors"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	"github.com/folio-dev/folio/pkg/retry"
	"go.uber.org/zap"
)

const (
	defaultEndpoint = "https://s3.amazonaws.com"
	defaultRegion   = "us-east-1"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Options configures an S3-compatible bucket
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	// PublicBaseURL overrides the "{endpoint}/{bucket}" prefix of returned URLs,
	// e.g. a CDN in front of the bucket.
	PublicBaseURL string
	// KeyPrefix is prepended to every object key
	KeyPrefix string
}

// Client uploads portfolio images to S3-compatible object storage
type Client struct {
	s3Client  *s3.Client
	bucket    string
	baseURL   string
	keyPrefix string
}

// NewClient creates a storage client using path-style addressing so that
// MinIO and other S3-compatible stores work with the same settings.
func NewClient(opts Options) (*Client, error) {
	if opts.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	endpoint, region := withDefaults(opts.Endpoint, opts.Region)

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials: credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		),
	})

	baseURL := strings.TrimRight(opts.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(endpoint, "/"), opts.BucketName)
	}

	logger.Info("Object storage client initialized",
		zap.String("bucket", opts.BucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &Client{
		s3Client:  s3Client,
		bucket:    opts.BucketName,
		baseURL:   baseURL,
		keyPrefix: strings.Trim(opts.KeyPrefix, "/"),
	}, nil
}

func withDefaults(endpoint, region string) (string, string) {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if region == "" {
		region = defaultRegion
	}
	return endpoint, region
}

// Upload stores data under key and returns its public URL
func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	start := time.Now()
	operation := "putObject"

	if c.keyPrefix != "" {
		key = path.Join(c.keyPrefix, key)
	}

	err := retry.Do(ctx, retry.StorageConfig(), "storage.putObject", func() error {
		_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(c.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	})

	duration := metrics.MeasureDuration(start)
	status := metrics.Status(err)
	metrics.StorageRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, status).Inc()

	if err != nil {
		logger.LogAPICall(ctx, "object_storage", operation, status, duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	logger.LogAPICall(ctx, "object_storage", operation, status, duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)),
	)

	return c.baseURL + "/" + key, nil
}

// ValidateImageType returns the file extension for an allowed image content type
func ValidateImageType(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	ext, ok := allowedImageTypes[ct]
	if !ok {
		return "", apperrors.InvalidInputError("file", fmt.Sprintf("type %s is not allowed, use jpeg, png, webp or gif", contentType))
	}
	return ext, nil
}

// ValidateImageSize rejects empty files and files above maxBytes
func ValidateImageSize(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return apperrors.InvalidInputError("file", "empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return apperrors.InvalidInputError("file", fmt.Sprintf("%d bytes is over the %d byte limit", len(data), maxBytes))
	}
	return nil
}

// SniffContentType falls back to content sniffing when the browser sent nothing useful
func SniffContentType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}
