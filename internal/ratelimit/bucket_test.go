package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketMessages(t *testing.T) {
	assert.Equal(t,
		"Too many image upload requests from this IP, please try again after a minute.",
		UploadBucket(10, time.Minute).Message)
	assert.Equal(t,
		"Too many offer creation requests from this IP, please try again after a minute.",
		OfferCreateBucket(5, time.Minute).Message)

	assert.Contains(t, UploadBucket(10, 30*time.Second).Message, "after 30 seconds.")
	assert.Contains(t, OfferCreateBucket(5, 5*time.Minute).Message, "after 5 minutes.")
	assert.Contains(t, UploadBucket(10, 1500*time.Millisecond).Message, "after 1.5s.")
}
