package main

import (
	"context"
	"fmt"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/lyrics"
	"github.com/jaki95/spotify-scraper/internal/scraper"
	"github.com/jaki95/spotify-scraper/internal/spotifyurl"
	"github.com/spf13/cobra"
)

type infoOutput struct {
	Kind   domain.Kind   `json:"kind"`
	Entity domain.Entity `json:"entity"`
}

type embedOutput struct {
	URL      string      `json:"url"`
	EmbedURL string      `json:"embed_url"`
	Kind     domain.Kind `json:"kind"`
	ID       string      `json:"id"`
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var withLyrics bool

	cmd := &cobra.Command{
		Use:   "info <url>",
		Short: "Extract whatever entity a Spotify URL points at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.scraper(withLyrics)
			if err != nil {
				return err
			}
			entity, err := client.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), infoOutput{Kind: entity.Kind(), Entity: entity})
		},
	}
	cmd.Flags().BoolVar(&withLyrics, "lyrics", false, "Fetch synced lyrics for tracks (needs --cookies)")
	return cmd
}

// newEntityCommands returns one command per entity kind. Each rejects URLs
// of any other kind.
func newEntityCommands(ctx *commandContext) []*cobra.Command {
	type extractFunc func(context.Context, *scraper.Client, string) (any, error)

	kinds := []struct {
		kind    domain.Kind
		lyrics  bool
		extract extractFunc
	}{
		{domain.KindTrack, true, func(c context.Context, s *scraper.Client, u string) (any, error) { return s.Track(c, u) }},
		{domain.KindAlbum, false, func(c context.Context, s *scraper.Client, u string) (any, error) { return s.Album(c, u) }},
		{domain.KindArtist, false, func(c context.Context, s *scraper.Client, u string) (any, error) { return s.Artist(c, u) }},
		{domain.KindPlaylist, false, func(c context.Context, s *scraper.Client, u string) (any, error) { return s.Playlist(c, u) }},
	}

	commands := make([]*cobra.Command, 0, len(kinds))
	for _, k := range kinds {
		var withLyrics bool
		cmd := &cobra.Command{
			Use:   string(k.kind) + " <url>",
			Short: fmt.Sprintf("Extract a %s", k.kind),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := ctx.scraper(withLyrics)
				if err != nil {
					return err
				}
				entity, err := k.extract(cmd.Context(), client, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), entity)
			},
		}
		if k.lyrics {
			cmd.Flags().BoolVar(&withLyrics, "lyrics", false, "Fetch synced lyrics (needs --cookies)")
		}
		commands = append(commands, cmd)
	}
	return commands
}

func newLyricsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lyrics <url>",
		Short: "Fetch synced lyrics for a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := spotifyurl.Parse(args[0])
			if err != nil {
				return err
			}
			if ref.Kind != domain.KindTrack {
				return fmt.Errorf("%w: lyrics are only available for tracks, got a %s", domain.ErrURL, ref.Kind)
			}

			cookies, err := ctx.cookies()
			if err != nil {
				return err
			}
			lines, err := lyrics.New(cookies, ctx.cfg.Fetch).Lyrics(cmd.Context(), ref.ID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), lines)
		},
	}
}

func newEmbedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "embed <url>",
		Short: "Print the embed player URL for a Spotify URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := spotifyurl.Parse(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), embedOutput{
				URL:      args[0],
				EmbedURL: ref.EmbedURL(),
				Kind:     ref.Kind,
				ID:       ref.ID,
			})
		},
	}
}
