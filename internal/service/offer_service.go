package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/0knotok/cloud-demo-throttling/internal/config"
	"github.com/0knotok/cloud-demo-throttling/internal/domain"
	"github.com/0knotok/cloud-demo-throttling/internal/repository"
)

type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

type OfferService interface {
	Create(ctx context.Context, in domain.OfferInput) (*domain.Offer, error)
	List(ctx context.Context, limit int64) ([]domain.Offer, error)
	CreateWithImage(ctx context.Context, in domain.OfferInput, upload ImageUpload) (*domain.Offer, error)
}

type offerService struct {
	offers repository.OfferRepository
	images ImageService
	cfg    *config.AppConfig
	log    *zap.Logger
}

func NewOfferService(offers repository.OfferRepository, images ImageService, cfg *config.AppConfig, log *zap.Logger) OfferService {
	return &offerService{
		offers: offers,
		images: images,
		cfg:    cfg,
		log:    log,
	}
}

func (s *offerService) Create(ctx context.Context, in domain.OfferInput) (*domain.Offer, error) {
	return s.offers.Create(ctx, in)
}

func (s *offerService) List(ctx context.Context, limit int64) ([]domain.Offer, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return s.offers.List(ctx, limit)
}

// CreateWithImage uploads the image, then persists the offer pointing at it.
// When the insert fails the uploaded object is deleted again.
func (s *offerService) CreateWithImage(ctx context.Context, in domain.OfferInput, upload ImageUpload) (*domain.Offer, error) {
	// Сначала проверяем остальные поля, чтобы не загружать файл зря
	probe := in
	probe.ImageURL = "pending-upload"
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	image, err := s.images.UploadImage(ctx, upload.Data, upload.Filename, upload.ContentType)
	if err != nil {
		return nil, err
	}

	in.ImageURL = image.URL
	offer, err := s.offers.Create(ctx, in)
	if err != nil {
		if delErr := s.images.DeleteImage(context.WithoutCancel(ctx), image.Key); delErr != nil {
			s.log.Error("Failed to remove image after offer creation failed",
				zap.String("key", image.Key),
				zap.NamedError("create_error", err),
				zap.Error(delErr))
		} else {
			s.log.Warn("Removed image after offer creation failed",
				zap.String("key", image.Key),
				zap.Error(err))
		}
		return nil, err
	}

	return offer, nil
}
