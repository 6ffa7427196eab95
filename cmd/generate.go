package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cryptocast/internal/app"
	"cryptocast/internal/app/model"
	"cryptocast/internal/news"
)

var (
	genArticles   []string
	genCount      int
	genTitle      string
	genDesc       string
	genStyle      string
	genDuration   int
	genVoiceover  bool
	genBackground bool
	genIntro      string
	genOutro      string
	genPost       []string
	genCaption    string
	genAt         string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a news video",
	Long: `Generate a video from the latest headlines. Pick articles by ID with
--articles or take the first --count headlines. Use --post to publish right
away or --at together with --post to schedule.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceVarP(&genArticles, "articles", "a", nil, "Article IDs to include")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 3, "Number of headlines when --articles is not set")
	generateCmd.Flags().StringVarP(&genTitle, "title", "t", "", "Video title")
	generateCmd.Flags().StringVar(&genDesc, "description", "", "Video description")
	generateCmd.Flags().StringVarP(&genStyle, "style", "s", "", "professional, casual or dramatic")
	generateCmd.Flags().IntVarP(&genDuration, "duration", "d", 0, "Duration in seconds")
	generateCmd.Flags().BoolVar(&genVoiceover, "voiceover", true, "Write a narration script and captions")
	generateCmd.Flags().BoolVar(&genBackground, "background", false, "Draw a background image behind the frame")
	generateCmd.Flags().StringVar(&genIntro, "intro", "", "Custom narration intro")
	generateCmd.Flags().StringVar(&genOutro, "outro", "", "Custom narration outro")
	generateCmd.Flags().StringSliceVarP(&genPost, "post", "p", nil, "Platforms to post to (twitter,youtube,instagram)")
	generateCmd.Flags().StringVar(&genCaption, "caption", "", "Caption for posts")
	generateCmd.Flags().StringVar(&genAt, "at", "", `Schedule instead of posting, as "YYYY-MM-DD HH:MM" local time`)
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	platforms, err := parsePlatforms(genPost)
	if err != nil {
		return err
	}
	if genAt != "" && len(platforms) == 0 {
		return errors.New("--at needs --post to name the platforms")
	}

	svc, err := loadService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	articles := svc.LoadNews(ctx)
	if len(genArticles) > 0 {
		articles = news.Select(articles, genArticles)
		if len(articles) == 0 {
			return fmt.Errorf("none of the article IDs %v are in the current feed", genArticles)
		}
	} else if genCount >= 0 && genCount < len(articles) {
		articles = articles[:genCount]
	}

	cfg := svc.ApplyDefaults(model.VideoConfig{
		Title:             genTitle,
		Description:       genDesc,
		Articles:          articles,
		Style:             model.Style(genStyle),
		Duration:          genDuration,
		IncludeVoiceover:  genVoiceover,
		IncludeBackground: genBackground,
		CustomIntro:       genIntro,
		CustomOutro:       genOutro,
	})

	slog.Info("Generating video...", "articles", len(articles), "style", cfg.Style, "duration", cfg.Duration)
	generated, err := svc.Generate(ctx, cfg)
	if err != nil {
		return err
	}
	printVideo(generated)

	if len(platforms) == 0 {
		return nil
	}

	var report *app.PostReport
	if genAt != "" {
		date, clock, err := splitSchedule(genAt)
		if err != nil {
			return err
		}
		report, err = svc.Schedule(ctx, app.ScheduleOptions{
			Platforms: platforms,
			Date:      date,
			Clock:     clock,
			Caption:   genCaption,
		})
		if err != nil {
			return err
		}
	} else {
		report, err = svc.PostNow(ctx, app.PostOptions{Platforms: platforms, Caption: genCaption})
		if err != nil {
			return err
		}
	}

	printReport(report)
	if report.Outcome == app.OutcomeFailed {
		return errors.New(report.Message)
	}
	return nil
}

func parsePlatforms(names []string) ([]model.Platform, error) {
	var platforms []model.Platform
	for _, name := range names {
		p, ok := model.ParsePlatform(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown platform %q", name)
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}

// splitSchedule parses "YYYY-MM-DD HH:MM" into a date and a clock.
func splitSchedule(s string) (time.Time, string, error) {
	datePart, clock, _ := strings.Cut(strings.TrimSpace(s), " ")
	date, err := time.ParseInLocation("2006-01-02", datePart, time.Local)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", datePart)
	}
	return date, strings.TrimSpace(clock), nil
}

func printVideo(v *model.GeneratedVideo) {
	fmt.Println(titleStyle.Render(v.Title))
	fmt.Println(infoStyle.Render("  id:        " + v.ID))
	fmt.Println(infoStyle.Render(fmt.Sprintf("  duration:  %ds", v.Duration)))
	fmt.Println(infoStyle.Render("  hashtags:  " + strings.Join(v.Hashtags, " ")))
	fmt.Println(infoStyle.Render("  thumbnail: " + v.ThumbnailURL))
	if v.HasClip() {
		fmt.Println(successStyle.Render("  clip:      " + v.VideoURL))
	} else {
		fmt.Println(warnStyle.Render("  clip:      not rendered"))
	}
}

func printReport(r *app.PostReport) {
	style := successStyle
	switch r.Outcome {
	case app.OutcomePartial:
		style = warnStyle
	case app.OutcomeFailed:
		style = errorStyle
	}
	fmt.Println(style.Render(r.Message))

	for _, pr := range r.Results {
		line := fmt.Sprintf("  %-10s %s", pr.Platform, pr.Result.Message)
		if pr.Result.PostURL != "" {
			line += " " + pr.Result.PostURL
		}
		if pr.Result.Success {
			fmt.Println(successStyle.Render(line))
		} else {
			fmt.Println(errorStyle.Render(line))
		}
	}
}
