// Package scraper ties the extraction pipeline together: resolve the URL,
// fetch the page, locate its state, navigate to the entity and map it.
package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/extract"
	"github.com/jaki95/spotify-scraper/internal/mapper"
	"github.com/jaki95/spotify-scraper/internal/spotifyurl"
	"github.com/tidwall/gjson"
)

// PageFetcher returns the HTML served at a URL. *fetcher.PageFetcher and
// every fetcher.Fetcher satisfy it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// LyricsSource returns the synced lyrics of a track.
type LyricsSource interface {
	Lyrics(ctx context.Context, trackID string) ([]domain.SyncedLyric, error)
}

// Page selects which page of an entity is fetched.
type Page string

const (
	// PageEmbed is the embed player page. It is rendered on the server and
	// works with the lightweight backend.
	PageEmbed Page = "embed"
	// PageWeb is the full web player page.
	PageWeb Page = "web"
)

type Client struct {
	pages     PageFetcher
	navigator *extract.Navigator
	lyrics    LyricsSource
	page      Page
}

type Option func(*Client)

// WithLyrics fills Track.Lyrics from src on every track extraction.
func WithLyrics(src LyricsSource) Option {
	return func(c *Client) {
		c.lyrics = src
	}
}

func WithNavigator(n *extract.Navigator) Option {
	return func(c *Client) {
		c.navigator = n
	}
}

func WithPage(p Page) Option {
	return func(c *Client) {
		c.page = p
	}
}

func New(pages PageFetcher, opts ...Option) *Client {
	c := &Client{
		pages:     pages,
		navigator: extract.NewNavigator(),
		page:      PageEmbed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract returns the entity a Spotify URL points at.
func (c *Client) Extract(ctx context.Context, rawURL string) (domain.Entity, error) {
	ref, err := spotifyurl.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	html, err := c.pages.Fetch(ctx, c.pageURL(ref))
	if err != nil {
		return nil, err
	}

	entity, err := c.FromHTML(html, ref)
	if err != nil {
		return nil, err
	}

	if track, ok := entity.(domain.Track); ok && c.lyrics != nil {
		lines, err := c.lyrics.Lyrics(ctx, track.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch lyrics for %s: %w", track.ID, err)
		}
		track.Lyrics = lines
		entity = track
	}

	slog.Info("Extracted entity", "kind", ref.Kind, "id", ref.ID, "url", rawURL)
	return entity, nil
}

// FromHTML runs the pipeline on an already fetched page.
func (c *Client) FromHTML(html string, ref spotifyurl.Ref) (domain.Entity, error) {
	doc, err := extract.Locate(html)
	if err != nil {
		return nil, err
	}

	node, err := c.navigator.Resolve(doc, ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}

	return mapEntity(ref.Kind, node)
}

func mapEntity(kind domain.Kind, node gjson.Result) (domain.Entity, error) {
	switch kind {
	case domain.KindTrack:
		return entityOrNil(mapper.Track(node))
	case domain.KindAlbum:
		return entityOrNil(mapper.Album(node))
	case domain.KindArtist:
		return entityOrNil(mapper.Artist(node))
	case domain.KindPlaylist:
		return entityOrNil(mapper.Playlist(node))
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", domain.ErrURL, kind)
	}
}

// entityOrNil keeps a failed mapping from producing a non-nil Entity.
func entityOrNil[T domain.Entity](entity T, err error) (domain.Entity, error) {
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (c *Client) pageURL(ref spotifyurl.Ref) string {
	if c.page == PageWeb {
		return ref.WebURL()
	}
	return ref.EmbedURL()
}

func (c *Client) Track(ctx context.Context, rawURL string) (domain.Track, error) {
	return extractAs[domain.Track](ctx, c, rawURL, domain.KindTrack)
}

func (c *Client) Album(ctx context.Context, rawURL string) (domain.Album, error) {
	return extractAs[domain.Album](ctx, c, rawURL, domain.KindAlbum)
}

func (c *Client) Artist(ctx context.Context, rawURL string) (domain.Artist, error) {
	return extractAs[domain.Artist](ctx, c, rawURL, domain.KindArtist)
}

func (c *Client) Playlist(ctx context.Context, rawURL string) (domain.Playlist, error) {
	return extractAs[domain.Playlist](ctx, c, rawURL, domain.KindPlaylist)
}

func extractAs[T domain.Entity](ctx context.Context, c *Client, rawURL string, kind domain.Kind) (T, error) {
	var zero T

	ref, err := spotifyurl.Parse(rawURL)
	if err != nil {
		return zero, err
	}
	if ref.Kind != kind {
		return zero, fmt.Errorf("%w: %s is a %s url, not a %s url", domain.ErrURL, rawURL, ref.Kind, kind)
	}

	entity, err := c.Extract(ctx, rawURL)
	if err != nil {
		return zero, err
	}

	typed, ok := entity.(T)
	if !ok {
		return zero, fmt.Errorf("%w: expected %s, got %T", domain.ErrExtraction, kind, entity)
	}
	return typed, nil
}
