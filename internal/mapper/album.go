package mapper

import (
	"strings"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/tidwall/gjson"
)

// Album maps an album entity including its track listing.
func Album(node gjson.Result) (domain.Album, error) {
	ident, err := requiredIdentity(node, domain.KindAlbum, namePaths...)
	if err != nil {
		return domain.Album{}, err
	}

	album := albumFields(node, ident)
	for _, item := range array(node, "tracksV2.items", "tracks.items", "trackList") {
		if track, ok := trackRef(item); ok {
			album.Tracks = append(album.Tracks, track)
		}
	}
	if album.TotalTracks == 0 {
		album.TotalTracks = len(album.Tracks)
	}

	// Listed tracks point back at this album, without its listing.
	ref := album
	ref.Tracks = []domain.Track{}
	for i := range album.Tracks {
		if album.Tracks[i].Album.URI == "" {
			album.Tracks[i].Album = ref
		}
	}
	return album, nil
}

// albumRef maps the album reference carried by a track.
func albumRef(node gjson.Result) domain.Album {
	return albumFields(node, refIdentity(node, domain.KindAlbum, namePaths...))
}

func albumFields(node gjson.Result, ident identity) domain.Album {
	album := emptyAlbum()
	album.Name = ident.Name
	album.ID = ident.ID
	album.URI = ident.URI
	album.Images = images(node)
	album.ReleaseDate = releaseDate(node)
	album.AlbumType = strings.ToLower(str(node, "albumType", "album_type", "type"))
	album.Artists = artists(node)

	if total, ok := num(node, "tracksV2.totalCount", "tracks.totalCount", "totalTracks", "total_tracks"); ok && total > 0 {
		album.TotalTracks = int(total)
	}
	return album
}

func emptyAlbum() domain.Album {
	return domain.Album{
		Images:  []domain.Image{},
		Artists: []domain.Artist{},
		Tracks:  []domain.Track{},
	}
}
