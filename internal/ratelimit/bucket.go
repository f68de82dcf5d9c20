package ratelimit

import (
	"context"
	"fmt"
	"time"
)

const (
	BucketUpload      = "upload"
	BucketOfferCreate = "offer_create"
)

type Bucket struct {
	Name    string
	Max     int64
	Window  time.Duration
	Message string
}

func UploadBucket(max int64, window time.Duration) Bucket {
	return Bucket{
		Name:    BucketUpload,
		Max:     max,
		Window:  window,
		Message: "Too many image upload requests from this IP, please try again after " + windowText(window) + ".",
	}
}

func OfferCreateBucket(max int64, window time.Duration) Bucket {
	return Bucket{
		Name:    BucketOfferCreate,
		Max:     max,
		Window:  window,
		Message: "Too many offer creation requests from this IP, please try again after " + windowText(window) + ".",
	}
}

func windowText(window time.Duration) string {
	switch {
	case window == time.Minute:
		return "a minute"
	case window%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int64(window/time.Minute))
	case window == time.Second:
		return "a second"
	case window%time.Second == 0:
		return fmt.Sprintf("%d seconds", int64(window/time.Second))
	default:
		return window.String()
	}
}

type Decision struct {
	Allowed    bool
	Limit      int64
	Count      int64
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Store counts one hit for key inside a fixed window of the given length.
// It returns the count including this hit and the moment the window closes.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (int64, time.Time, error)
}
