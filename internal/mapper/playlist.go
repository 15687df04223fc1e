package mapper

import (
	"strings"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/extract"
	"github.com/tidwall/gjson"
)

const userURLPrefix = "https://open.spotify.com/user/"

// Playlist maps a playlist entity and its entries in listing order.
func Playlist(node gjson.Result) (domain.Playlist, error) {
	ident, err := requiredIdentity(node, domain.KindPlaylist, namePaths...)
	if err != nil {
		return domain.Playlist{}, err
	}

	playlist := domain.Playlist{
		ID:          ident.ID,
		URI:         ident.URI,
		Title:       ident.Name,
		Owner:       owner(node),
		Description: str(node, "description"),
		Tracks:      []domain.PlaylistTrack{},
	}
	if covers := images(node); len(covers) > 0 {
		playlist.CoverURL = covers[0].URL
	}

	for _, item := range array(node, "content.items", "tracks.items", "trackList") {
		if entry, ok := playlistTrack(item); ok {
			playlist.Tracks = append(playlist.Tracks, entry)
		}
	}

	return playlist, nil
}

func owner(node gjson.Result) domain.Owner {
	o := extract.FirstOf(node, "ownerV2.data", "owner")
	result := domain.Owner{
		Name: str(o, "name", "displayName", "display_name"),
		URL:  str(o, "url", "external_urls.spotify"),
	}
	if result.Name == "" {
		// Embed playlists only show the owner as the subtitle.
		result.Name = str(node, "subtitle")
	}
	if result.URL == "" {
		if username := userFromURI(str(o, "uri")); username != "" {
			result.URL = userURLPrefix + username
		} else if username := str(o, "username", "id"); username != "" {
			result.URL = userURLPrefix + username
		}
	}
	return result
}

func userFromURI(uri string) string {
	const prefix = "spotify:user:"
	if strings.HasPrefix(uri, prefix) {
		return strings.TrimPrefix(uri, prefix)
	}
	return ""
}

func playlistTrack(item gjson.Result) (domain.PlaylistTrack, bool) {
	track, ok := trackRef(item)
	if !ok {
		return domain.PlaylistTrack{}, false
	}

	names := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		names = append(names, a.Name)
	}

	return domain.PlaylistTrack{
		Name:       track.Name,
		Artists:    names,
		Album:      track.Album.Name,
		DurationMS: track.DurationMS,
	}, true
}
