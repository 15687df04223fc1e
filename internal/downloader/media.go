package downloader

import (
	"fmt"
	"mime"
	"strings"

	"github.com/jaki95/spotify-scraper/internal/domain"
)

// Extensions maps the media types Spotify serves to file extensions.
var Extensions = map[string]string{
	"audio/mpeg": ".mp3",
	"audio/mp3":  ".mp3",
	"audio/mp4":  ".m4a",
	"audio/ogg":  ".ogg",
	"audio/aac":  ".aac",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ContentTypeFor returns the canonical media type of a stored file
// extension, or application/octet-stream.
func ContentTypeFor(ext string) string {
	for _, mediaType := range []string{"audio/mpeg", "audio/mp4", "audio/ogg", "audio/aac", "image/jpeg", "image/png", "image/webp", "image/gif"} {
		if Extensions[mediaType] == strings.ToLower(ext) {
			return mediaType
		}
	}
	return "application/octet-stream"
}

// ExtensionFor returns the extension for a Content-Type header value.
// Parameters such as charset are ignored.
func ExtensionFor(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	ext, ok := Extensions[strings.ToLower(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", domain.ErrMedia, contentType)
	}
	return ext, nil
}

// looksLikeHTML reports whether the start of a body is a web page, which is
// what CDNs tend to serve for expired media links.
func looksLikeHTML(header []byte) bool {
	n := len(header)
	if n > 100 {
		n = 100
	}
	start := strings.ToLower(strings.TrimSpace(string(header[:n])))
	return strings.HasPrefix(start, "<!doctype") || strings.HasPrefix(start, "<html")
}
