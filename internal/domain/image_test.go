package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImageKey(t *testing.T) {
	at := time.UnixMilli(1717236000123)

	assert.Equal(t, "offers/1717236000123_abc.png", ImageKey(at, "abc", ".png"))
	assert.Equal(t, "offers/1717236000123_abc", ImageKey(at, "abc", ""))
	assert.True(t, strings.HasPrefix(ImageKey(at, "x", ".jpg"), ImageKeyPrefix))
}
