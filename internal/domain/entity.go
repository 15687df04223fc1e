// Package domain holds the normalized records produced by an extraction call.
// Every record is a plain value; nothing here is cached or persisted.
package domain

import "fmt"

// Kind is the Spotify entity type as it appears in URLs and URIs.
type Kind string

const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindArtist   Kind = "artist"
	KindPlaylist Kind = "playlist"
)

// Kinds lists the supported entity kinds in URL-matching order.
var Kinds = []Kind{KindTrack, KindAlbum, KindArtist, KindPlaylist}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported entity type %q", ErrURL, s)
}

// URI builds the spotify:<kind>:<id> form.
func URI(kind Kind, id string) string {
	return fmt.Sprintf("spotify:%s:%s", kind, id)
}

// Entity is implemented by the four extracted record types.
type Entity interface {
	Kind() Kind
	SpotifyID() string
}

// Image describes one rendition of a cover or portrait.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
