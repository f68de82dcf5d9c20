package imageutil

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

type Info struct {
	// Ext is lower case with a leading dot, or empty when nothing usable was found.
	Ext         string
	ContentType string
	Detected    string
}

// Inspect sniffs data and picks the extension and content type to store it with.
// The client filename only contributes its extension, and only when it is plain.
// The declared type is kept only when it names the sniffed type.
func Inspect(filename, declaredType string, data []byte) Info {
	detected := mimetype.Detect(data)

	info := Info{
		Detected:    detected.String(),
		ContentType: detected.String(),
	}

	if ext := strings.ToLower(filepath.Ext(filepath.Base(filename))); safeExt.MatchString(ext) {
		info.Ext = ext
	} else {
		info.Ext = detected.Extension()
	}

	// заявленный тип оставляем, только если он совпадает с содержимым
	if declared := mediaType(declaredType); declared != "" && detected.Is(declared) {
		info.ContentType = declared
	}

	return info
}

func mediaType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// IsImage reports whether the sniffed bytes look like an image.
func (i Info) IsImage() bool {
	return strings.HasPrefix(i.Detected, "image/")
}

func Allowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
