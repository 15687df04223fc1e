package main

import (
	"fmt"
	"io"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/downloader"
	"github.com/jaki95/spotify-scraper/internal/storage"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var preview, cover, quiet bool

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a track preview or cover art",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.scraper(false)
			if err != nil {
				return err
			}
			entity, err := client.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			store, err := storage.New(cmd.Context(), ctx.cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()

			dl, err := downloader.NewHTTPDownloader(store, ctx.cfg.Fetch)
			if err != nil {
				return err
			}

			var out io.Writer = ansi.NewAnsiStderr()
			if quiet {
				out = io.Discard
			}
			bar := newProgressBar(out)
			callback := func(percent int, message string, _ []byte) {
				bar.Describe(message)
				_ = bar.Set(percent)
			}

			var result downloader.Result
			if preview {
				track, ok := entity.(domain.Track)
				if !ok {
					return fmt.Errorf("%w: previews are only available for tracks, got a %s", domain.ErrURL, entity.Kind())
				}
				result, err = downloader.DownloadPreview(cmd.Context(), dl, &track, callback)
			} else {
				result, err = downloader.DownloadCover(cmd.Context(), dl, entity, callback)
			}
			_ = bar.Finish()
			fmt.Fprintln(out)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Download the 30 second preview clip")
	cmd.Flags().BoolVar(&cover, "cover", false, "Download the largest cover image")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	cmd.MarkFlagsMutuallyExclusive("preview", "cover")
	cmd.MarkFlagsOneRequired("preview", "cover")
	return cmd
}

func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Downloading...[reset]"),
	)
}
