// Package mapper turns navigated state subtrees into domain records.
//
// Optional fields that are missing default to zero values and never fail a
// mapping. Only the top-level record's id, name and uri are required. Field
// aliases list the embed player spelling and the web player spelling of the
// same value, so one mapper serves both page layouts.
package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/extract"
	"github.com/jaki95/spotify-scraper/internal/spotifyurl"
	"github.com/tidwall/gjson"
)

// str returns the first string value among paths.
func str(node gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := node.Get(p); v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

// num returns the first numeric value among paths. Numbers sent as strings
// are accepted.
func num(node gjson.Result, paths ...string) (int64, bool) {
	for _, p := range paths {
		v := node.Get(p)
		switch v.Type {
		case gjson.Number:
			return v.Int(), true
		case gjson.String:
			if n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func boolean(node gjson.Result, paths ...string) bool {
	for _, p := range paths {
		if v := node.Get(p); v.IsBool() {
			return v.Bool()
		}
	}
	return false
}

func optionalString(node gjson.Result, paths ...string) *string {
	if s := str(node, paths...); s != "" {
		return &s
	}
	return nil
}

// array returns the elements of the first array among paths.
func array(node gjson.Result, paths ...string) []gjson.Result {
	for _, p := range paths {
		if v := node.Get(p); v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

// identity is the id/uri/name triple every record carries.
type identity struct {
	ID   string
	URI  string
	Name string
}

var uriPaths = []string{"uri", "_uri"}

// refIdentity reads id and uri without failing; the id falls back to the
// one embedded in the uri.
func refIdentity(node gjson.Result, kind domain.Kind, namePaths ...string) identity {
	ident := identity{
		URI:  str(node, uriPaths...),
		ID:   str(node, "id"),
		Name: str(node, namePaths...),
	}
	if ident.ID == "" && ident.URI != "" {
		if ref, err := spotifyurl.ParseURI(ident.URI); err == nil && ref.Kind == kind {
			ident.ID = ref.ID
		}
	}
	if ident.URI == "" && spotifyurl.IsValidID(ident.ID) {
		ident.URI = domain.URI(kind, ident.ID)
	}
	return ident
}

// requiredIdentity reads the top-level identity and fails with
// domain.ErrExtraction when any part is missing or inconsistent.
func requiredIdentity(node gjson.Result, kind domain.Kind, namePaths ...string) (identity, error) {
	if !node.IsObject() {
		return identity{}, fmt.Errorf("%w: %s node is not an object", domain.ErrExtraction, kind)
	}

	uri := str(node, uriPaths...)
	if uri == "" {
		return identity{}, fmt.Errorf("%w: %s uri", domain.ErrExtraction, kind)
	}
	ref, err := spotifyurl.ParseURI(uri)
	if err != nil || ref.Kind != kind {
		return identity{}, fmt.Errorf("%w: %s uri %q does not name a %s", domain.ErrExtraction, kind, uri, kind)
	}

	id := str(node, "id")
	if id == "" {
		id = ref.ID
	}
	if id != ref.ID {
		return identity{}, fmt.Errorf("%w: %s id %q does not match uri %q", domain.ErrExtraction, kind, id, uri)
	}

	name := str(node, namePaths...)
	if name == "" {
		return identity{}, fmt.Errorf("%w: %s name", domain.ErrExtraction, kind)
	}

	return identity{ID: id, URI: uri, Name: name}, nil
}

var imagePaths = []string{
	"coverArt.sources",
	"visualIdentity.image",
	"visuals.avatarImage.sources",
	"images.items.0.sources",
	"images",
}

func images(node gjson.Result) []domain.Image {
	sources := array(node, imagePaths...)
	out := make([]domain.Image, 0, len(sources))
	for _, src := range sources {
		u := str(src, "url")
		if u == "" {
			continue
		}
		w, _ := num(src, "width", "maxWidth")
		h, _ := num(src, "height", "maxHeight")
		out = append(out, domain.Image{URL: u, Width: int(w), Height: int(h)})
	}
	return out
}

// releaseDate renders an ISO date string at the precision the page
// declares, e.g. "1975", "1975-11" or "1975-11-21".
func releaseDate(node gjson.Result) string {
	date := extract.FirstOf(node, "date", "releaseDate", "release_date")
	if date.Type == gjson.String {
		return date.String()
	}

	iso := str(date, "isoString")
	if iso == "" {
		if year, ok := num(date, "year"); ok {
			return strconv.FormatInt(year, 10)
		}
		return ""
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	switch strings.ToUpper(str(date, "precision")) {
	case "YEAR":
		return t.Format("2006")
	case "MONTH":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// artists maps the artist list of a track, album or playlist entry.
func artists(node gjson.Result) []domain.Artist {
	items := array(node, "artists.items", "artists")
	if items == nil {
		items = append(array(node, "firstArtist.items"), array(node, "otherArtists.items")...)
	}

	out := make([]domain.Artist, 0, len(items))
	for _, item := range items {
		ident := refIdentity(item, domain.KindArtist, "profile.name", "name")
		if ident.Name == "" && ident.URI == "" {
			continue
		}
		out = append(out, domain.Artist{Name: ident.Name, ID: ident.ID, URI: ident.URI})
	}

	// Embed track listings may only carry a display subtitle. Splitting it
	// on commas breaks names such as "Tyler, The Creator", so the subtitle
	// is only read when no structured artist list is present.
	if len(out) == 0 {
		for _, name := range splitSubtitle(str(node, "subtitle")) {
			out = append(out, domain.Artist{Name: name})
		}
	}
	return out
}

func splitSubtitle(subtitle string) []string {
	var names []string
	for _, part := range strings.Split(subtitle, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func durationMS(node gjson.Result) int64 {
	d, _ := num(node, "duration.totalMilliseconds", "trackDuration.totalMilliseconds", "duration_ms", "duration")
	if d < 0 {
		return 0
	}
	return d
}
