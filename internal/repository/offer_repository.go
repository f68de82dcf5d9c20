package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/0knotok/cloud-demo-throttling/internal/domain"
)

type OfferRepository interface {
	Create(ctx context.Context, in domain.OfferInput) (*domain.Offer, error)
	List(ctx context.Context, limit int64) ([]domain.Offer, error)
}

type offerRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewOfferRepository(collection *mongo.Collection, log *zap.Logger) OfferRepository {
	return &offerRepository{
		collection: collection,
		log:        log,
	}
}

// Create validates and inserts a new offer. offers_id is not checked beforehand;
// a duplicate is only rejected when the collection carries a unique index.
func (r *offerRepository) Create(ctx context.Context, in domain.OfferInput) (*domain.Offer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	offer := in.ToOffer()
	offer.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, offer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("offers_id %q: %w", offer.OffersID, domain.ErrConflict)
		}
		return nil, &domain.PersistenceError{Op: "insert offer", Err: err}
	}

	r.log.Info("Offer created",
		zap.String("id", offer.ID.Hex()),
		zap.String("offers_id", offer.OffersID),
		zap.String("salon_id", offer.SalonID))

	return offer, nil
}

func (r *offerRepository) List(ctx context.Context, limit int64) ([]domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find offers", Err: err}
	}
	defer cursor.Close(ctx)

	offers := make([]domain.Offer, 0)
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, &domain.PersistenceError{Op: "decode offers", Err: err}
	}

	return offers, nil
}
