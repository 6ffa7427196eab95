package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cryptocast/internal/app"
	"cryptocast/pkg/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cryptocast",
	Short: "Turn crypto news into short videos and post them",
	Long: `Cryptocast loads the latest crypto headlines, renders a short news video
with narration and captions, and posts or schedules it to Twitter, YouTube
and Instagram.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func loadService(ctx context.Context) (*app.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.BuildService(ctx, cfg)
}
