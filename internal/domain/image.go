package domain

import (
	"fmt"
	"time"
)

const ImageKeyPrefix = "offers/"

// StoredImage is an offer image written to object storage.
type StoredImage struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	ClientName  string    `json:"client_name,omitempty"`
	StoredAt    time.Time `json:"stored_at"`
}

// ImageKey builds offers/<unixMillis>_<id><ext>. ext must already be sanitized.
func ImageKey(at time.Time, id, ext string) string {
	return fmt.Sprintf("%s%d_%s%s", ImageKeyPrefix, at.UnixMilli(), id, ext)
}
