package mapper

import (
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/tidwall/gjson"
)

// Artist maps an artist entity with its profile and top tracks.
func Artist(node gjson.Result) (domain.Artist, error) {
	ident, err := requiredIdentity(node, domain.KindArtist, "profile.name", "name", "title")
	if err != nil {
		return domain.Artist{}, err
	}

	artist := domain.Artist{
		Name:      ident.Name,
		ID:        ident.ID,
		URI:       ident.URI,
		Images:    images(node),
		Biography: str(node, "profile.biography.text", "biography"),
		TopTracks: []domain.Track{},
	}

	if listeners, ok := num(node, "stats.monthlyListeners", "monthlyListeners", "monthly_listeners"); ok {
		artist.MonthlyListeners = &listeners
	}

	for _, item := range array(node, "discography.topTracks.items", "topTracks.items", "trackList") {
		if track, ok := trackRef(item); ok {
			artist.TopTracks = append(artist.TopTracks, track)
		}
	}

	return artist, nil
}
