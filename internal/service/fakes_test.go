package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/0knotok/cloud-demo-throttling/internal/domain"
)

type fakeS3Repo struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	uploadErr error
	deleteErr error
	uploads   int
	deletes   []string
}

func newFakeS3Repo() *fakeS3Repo {
	return &fakeS3Repo{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3Repo) UploadFile(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, _ := io.ReadAll(body)
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeS3Repo) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeS3Repo) PublicURL(key string) string {
	return "https://instudio-offers.s3.eu-west-1.amazonaws.com/" + key
}

func (f *fakeS3Repo) EnsureBucket(context.Context) error { return nil }

type fakeOfferRepo struct {
	mu        sync.Mutex
	offers    []domain.Offer
	createErr error
	lastLimit int64
}

func (f *fakeOfferRepo) Create(_ context.Context, in domain.OfferInput) (*domain.Offer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	offer := in.ToOffer()
	offer.ID = primitive.NewObjectID()
	f.offers = append(f.offers, *offer)
	return offer, nil
}

func (f *fakeOfferRepo) List(_ context.Context, limit int64) ([]domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if int64(len(f.offers)) < limit {
		return append([]domain.Offer(nil), f.offers...), nil
	}
	return append([]domain.Offer(nil), f.offers[:limit]...), nil
}

var errBoom = errors.New("boom")

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func ptr[T any](v T) *T { return &v }

func summerSale() domain.OfferInput {
	start, _ := domain.ParseFlexibleTime("2024-06-01")
	end, _ := domain.ParseFlexibleTime("2024-06-30")
	return domain.OfferInput{
		OffersID:    "O1",
		SalonID:     "S1",
		Title:       "Summer Sale",
		StartDate:   start,
		EndDate:     end,
		Condition:   "Min 2 services",
		Description: "20% off",
		Discount:    ptr(20.0),
		ImageURL:    "https://bucket.s3.region.amazonaws.com/offers/123_img.png",
		IsActive:    ptr(true),
	}
}
