package extract

import (
	"fmt"
	"strings"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/tidwall/gjson"
)

// uriPlaceholder is replaced by the escaped entity URI before lookup.
const uriPlaceholder = "{uri}"

// CandidatePaths lists, per kind, where each known page revision keeps the
// entity. Newest layouts come first.
var CandidatePaths = map[domain.Kind][]string{
	domain.KindTrack: {
		"props.pageProps.state.data.entity",
		"props.pageProps.data.entity",
		"entities.items." + uriPlaceholder,
		"data.trackUnion",
	},
	domain.KindAlbum: {
		"props.pageProps.state.data.entity",
		"props.pageProps.data.entity",
		"entities.items." + uriPlaceholder,
		"data.albumUnion",
	},
	domain.KindArtist: {
		"props.pageProps.state.data.entity",
		"props.pageProps.data.entity",
		"entities.items." + uriPlaceholder,
		"data.artistUnion",
	},
	domain.KindPlaylist: {
		"props.pageProps.state.data.entity",
		"props.pageProps.data.entity",
		"entities.items." + uriPlaceholder,
		"data.playlistV2",
	},
}

// Navigator resolves an entity subtree from a parsed state document.
type Navigator struct {
	paths map[domain.Kind][]string
}

// NewNavigator returns a Navigator using CandidatePaths.
func NewNavigator() *Navigator {
	return NewNavigatorWithPaths(CandidatePaths)
}

func NewNavigatorWithPaths(paths map[domain.Kind][]string) *Navigator {
	return &Navigator{paths: paths}
}

// Paths returns the candidate paths for kind with the URI placeholder
// expanded.
func (n *Navigator) Paths(kind domain.Kind, id string) []string {
	uri := gjson.Escape(domain.URI(kind, id))
	candidates := n.paths[kind]
	out := make([]string, 0, len(candidates))
	for _, p := range candidates {
		out = append(out, strings.ReplaceAll(p, uriPlaceholder, uri))
	}
	return out
}

// Resolve returns the first candidate path for kind whose value is present
// and not null.
func (n *Navigator) Resolve(doc []byte, kind domain.Kind, id string) (gjson.Result, error) {
	paths := n.Paths(kind, id)
	if len(paths) == 0 {
		return gjson.Result{}, fmt.Errorf("%w: no candidate paths for %s", domain.ErrContentExtraction, kind)
	}

	root := gjson.ParseBytes(doc)
	if node := FirstOf(root, paths...); node.Exists() {
		return node, nil
	}
	return gjson.Result{}, fmt.Errorf("%w: %s %s not found at any of %s", domain.ErrContentExtraction, kind, id, strings.Join(paths, ", "))
}

// FirstOf returns the value at the first path that is present and not null.
// The zero Result is returned when none is.
func FirstOf(node gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := node.Get(p); present(v) {
			return v
		}
	}
	return gjson.Result{}
}

func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}
