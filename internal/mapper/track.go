package mapper

import (
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/extract"
	"github.com/tidwall/gjson"
)

var namePaths = []string{"name", "title"}

// Track maps a track entity. id, name and uri are required.
func Track(node gjson.Result) (domain.Track, error) {
	ident, err := requiredIdentity(node, domain.KindTrack, namePaths...)
	if err != nil {
		return domain.Track{}, err
	}
	return trackFields(node, ident), nil
}

// trackRef maps a track listed inside another entity. It never fails; the
// ok result is false when the entry has neither a name nor a uri.
func trackRef(node gjson.Result) (domain.Track, bool) {
	if inner := extract.FirstOf(node, "track", "itemV2.data", "item.data"); inner.IsObject() {
		node = inner
	}
	ident := refIdentity(node, domain.KindTrack, namePaths...)
	if ident.Name == "" && ident.URI == "" {
		return domain.Track{}, false
	}
	return trackFields(node, ident), true
}

func trackFields(node gjson.Result, ident identity) domain.Track {
	track := domain.Track{
		Name:       ident.Name,
		ID:         ident.ID,
		URI:        ident.URI,
		DurationMS: durationMS(node),
		PreviewURL: optionalString(node,
			"audioPreview.url",
			"previews.audioPreviews.items.0.url",
			"preview_url",
		),
		IsPlayable: boolean(node, "isPlayable", "playability.playable", "is_playable"),
		Artists:    artists(node),
		Lyrics:     []domain.SyncedLyric{},
	}

	if album := extract.FirstOf(node, "albumOfTrack", "album"); album.IsObject() {
		track.Album = albumRef(album)
	} else {
		// Embed track pages carry the cover and release date on the track
		// itself.
		track.Album = emptyAlbum()
		track.Album.Images = images(node)
		track.Album.ReleaseDate = releaseDate(node)
	}

	return track
}
