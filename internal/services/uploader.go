package services

import (
	"context"
	"fmt"
	"time"

	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	"github.com/folio-dev/folio/pkg/slug"
	"github.com/folio-dev/folio/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BackendUploader sends images to the portfolio API's upload endpoint
type BackendUploader struct {
	api      FileAPI
	maxBytes int64
}

func NewBackendUploader(api FileAPI, maxBytes int64) *BackendUploader {
	return &BackendUploader{api: api, maxBytes: maxBytes}
}

func (u *BackendUploader) UploadImage(ctx context.Context, token string, file models.FileUpload) (string, error) {
	file, err := checkImage(file, u.maxBytes)
	if err != nil {
		metrics.ImageUploads.WithLabelValues(config.UploadModeBackend, "invalid").Inc()
		return "", err
	}

	url, err := u.api.Upload(ctx, token, file)
	metrics.ImageUploads.WithLabelValues(config.UploadModeBackend, metrics.Status(err)).Inc()
	if err != nil {
		logger.Error("Failed to upload image", zap.Error(err), zap.String("file_name", file.FileName))
		return "", err
	}
	return url, nil
}

// ObjectStoreUploader writes images straight to an S3-compatible bucket
type ObjectStoreUploader struct {
	store    ObjectStore
	maxBytes int64
	now      func() time.Time
}

func NewObjectStoreUploader(store ObjectStore, maxBytes int64) *ObjectStoreUploader {
	return &ObjectStoreUploader{store: store, maxBytes: maxBytes, now: time.Now}
}

func (u *ObjectStoreUploader) UploadImage(ctx context.Context, token string, file models.FileUpload) (string, error) {
	file, err := checkImage(file, u.maxBytes)
	if err != nil {
		metrics.ImageUploads.WithLabelValues(config.UploadModeS3, "invalid").Inc()
		return "", err
	}
	ext, _ := storage.ValidateImageType(file.ContentType)

	key := fmt.Sprintf("images/%s/%s-%s%s",
		u.now().UTC().Format("2006/01"), slug.FromFileName(file.FileName, "image"), uuid.NewString(), ext)
	url, err := u.store.Upload(ctx, key, file.ContentType, file.Data)
	metrics.ImageUploads.WithLabelValues(config.UploadModeS3, metrics.Status(err)).Inc()
	if err != nil {
		logger.Error("Failed to upload image", zap.Error(err), zap.String("key", key))
		return "", err
	}

	logger.Info("Image uploaded", zap.String("key", key), zap.Int("size_bytes", file.Size()))
	return url, nil
}

func checkImage(file models.FileUpload, maxBytes int64) (models.FileUpload, error) {
	file.ContentType = storage.SniffContentType(file.ContentType, file.Data)
	if _, err := storage.ValidateImageType(file.ContentType); err != nil {
		return file, err
	}
	if err := storage.ValidateImageSize(file.Data, maxBytes); err != nil {
		return file, err
	}
	return file, nil
}
