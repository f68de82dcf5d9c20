package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0knotok/cloud-demo-throttling/internal/config"
	"github.com/0knotok/cloud-demo-throttling/internal/domain"
	"github.com/0knotok/cloud-demo-throttling/internal/repository"
	"github.com/0knotok/cloud-demo-throttling/pkg/imageutil"
)

type ImageService interface {
	UploadImage(ctx context.Context, fileBytes []byte, filename, contentType string) (*domain.StoredImage, error)
	DeleteImage(ctx context.Context, key string) error
}

type imageService struct {
	s3Repo repository.S3Repository
	cfg    *config.AppConfig
	log    *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewImageService(s3Repo repository.S3Repository, cfg *config.AppConfig, log *zap.Logger) ImageService {
	return &imageService{
		s3Repo: s3Repo,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Ключ offers/<unixMillis>_<uuid><ext>, имя файла клиента в ключ не попадает
func (s *imageService) UploadImage(ctx context.Context, fileBytes []byte, filename, contentType string) (*domain.StoredImage, error) {
	if len(fileBytes) == 0 {
		return nil, domain.NewValidationError("file is empty")
	}
	if s.cfg.MaxUploadSize > 0 && int64(len(fileBytes)) > s.cfg.MaxUploadSize {
		return nil, domain.NewValidationError(fmt.Sprintf("file too large (max %d bytes)", s.cfg.MaxUploadSize))
	}

	info := imageutil.Inspect(filename, contentType, fileBytes)
	if !info.IsImage() || !imageutil.Allowed(info.Ext, s.cfg.AllowedFormats) {
		return nil, domain.NewValidationError("unsupported image format")
	}

	storedAt := s.now()
	key := domain.ImageKey(storedAt, s.newID(), info.Ext)

	size := int64(len(fileBytes))
	if err := s.s3Repo.UploadFile(ctx, key, bytes.NewReader(fileBytes), size, info.ContentType); err != nil {
		return nil, &domain.StorageError{Op: "put", Key: key, Err: err}
	}

	image := &domain.StoredImage{
		Key:         key,
		URL:         s.s3Repo.PublicURL(key),
		Size:        size,
		ContentType: info.ContentType,
		ClientName:  filename,
		StoredAt:    storedAt,
	}

	s.log.Info("Image uploaded successfully",
		zap.String("key", key),
		zap.String("filename", filename),
		zap.Int64("size", image.Size))

	return image, nil
}

func (s *imageService) DeleteImage(ctx context.Context, key string) error {
	if err := s.s3Repo.DeleteFile(ctx, key); err != nil {
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}
