package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "spotify-scraper",
		Short:         "Extract metadata and media from public Spotify pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path")
	flags.StringVar(&ctx.backend, "backend", "", "Fetch backend: http, browser or auto")
	flags.DurationVar(&ctx.timeout, "timeout", 0, "Per-attempt fetch timeout")
	flags.IntVar(&ctx.retries, "retries", 0, "Fetch attempts before giving up")
	flags.StringVar(&ctx.proxy, "proxy", "", "Proxy URL for outgoing requests")
	flags.StringVar(&ctx.cookieFile, "cookies", "", "Netscape format cookie file")
	flags.StringVarP(&ctx.outputDir, "output", "o", "", "Directory for downloaded media")
	flags.IntVar(&ctx.logLevel, "log-level", 0, "slog level (-4 debug, 0 info, 4 warn, 8 error)")
	flags.BoolVar(&ctx.web, "web", false, "Read the web player page instead of the embed page")

	rootCmd.AddCommand(newInfoCommand(ctx))
	for _, cmd := range newEntityCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newLyricsCommand(ctx))
	rootCmd.AddCommand(newEmbedCommand())
	rootCmd.AddCommand(newDownloadCommand(ctx))

	return rootCmd
}
