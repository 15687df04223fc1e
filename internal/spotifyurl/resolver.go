// Package spotifyurl validates Spotify web URLs, extracts entity ids and
// converts between the web player, embed and URI forms.
package spotifyurl

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jaki95/spotify-scraper/internal/domain"
)

const (
	webHost   = "open.spotify.com"
	embedPath = "embed"
)

var (
	validHosts = map[string]bool{
		"open.spotify.com": true,
		"play.spotify.com": true,
	}

	idPattern  = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)
	uriPattern = regexp.MustCompile(`^spotify:(track|album|artist|playlist):([0-9A-Za-z]{22})$`)
	// intl-de, intl-pt_BR style locale prefixes on shared links.
	localePattern = regexp.MustCompile(`^intl-[a-z]{2}(?:[-_][A-Za-z]{2})?$`)
)

// Ref identifies one Spotify entity.
type Ref struct {
	Kind domain.Kind
	ID   string
}

// URI returns the spotify:<kind>:<id> form.
func (r Ref) URI() string {
	return domain.URI(r.Kind, r.ID)
}

// WebURL returns the canonical web player URL.
func (r Ref) WebURL() string {
	return fmt.Sprintf("https://%s/%s/%s", webHost, r.Kind, r.ID)
}

// EmbedURL returns the canonical embed player URL.
func (r Ref) EmbedURL() string {
	return fmt.Sprintf("https://%s/%s/%s/%s", webHost, embedPath, r.Kind, r.ID)
}

// Parse validates rawURL and returns the entity it points at.
func Parse(rawURL string) (Ref, error) {
	ref, _, err := parse(rawURL)
	return ref, err
}

// parse also reports whether rawURL is already an embed player URL.
func parse(rawURL string) (Ref, bool, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Ref{}, false, fmt.Errorf("%w: %v", domain.ErrURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Ref{}, false, fmt.Errorf("%w: unsupported scheme %q", domain.ErrURL, u.Scheme)
	}
	if !validHosts[strings.ToLower(u.Hostname())] {
		return Ref{}, false, fmt.Errorf("%w: not a spotify domain: %s", domain.ErrURL, u.Host)
	}

	segments := splitPath(u.Path)
	if len(segments) > 0 && localePattern.MatchString(segments[0]) {
		segments = segments[1:]
	}
	embed := len(segments) > 0 && segments[0] == embedPath
	if embed {
		segments = segments[1:]
	}
	if len(segments) != 2 {
		return Ref{}, false, fmt.Errorf("%w: unrecognized path %q", domain.ErrURL, u.Path)
	}

	kind, err := domain.ParseKind(segments[0])
	if err != nil {
		return Ref{}, false, err
	}
	if !idPattern.MatchString(segments[1]) {
		return Ref{}, false, fmt.Errorf("%w: malformed id %q", domain.ErrURL, segments[1])
	}
	return Ref{Kind: kind, ID: segments[1]}, embed, nil
}

// ParseURI parses a spotify:<kind>:<id> URI.
func ParseURI(uri string) (Ref, error) {
	m := uriPattern.FindStringSubmatch(strings.TrimSpace(uri))
	if m == nil {
		return Ref{}, fmt.Errorf("%w: malformed uri %q", domain.ErrURL, uri)
	}
	return Ref{Kind: domain.Kind(m[1]), ID: m[2]}, nil
}

// IsSpotifyURL reports whether rawURL is a Spotify entity URL this package
// understands.
func IsSpotifyURL(rawURL string) bool {
	_, err := Parse(rawURL)
	return err == nil
}

// ExtractID returns the 22 character entity id in rawURL.
func ExtractID(rawURL string) (string, error) {
	ref, err := Parse(rawURL)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// ConvertToEmbedURL returns the embed player URL for rawURL. Valid embed
// URLs are returned unchanged, query included; any other form is converted
// to the canonical embed URL without its query.
func ConvertToEmbedURL(rawURL string) (string, error) {
	ref, embed, err := parse(rawURL)
	if err != nil {
		return "", err
	}
	if embed {
		return rawURL, nil
	}
	return ref.EmbedURL(), nil
}

// IsValidID reports whether id has the shape of a Spotify entity id.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
