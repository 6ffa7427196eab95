package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"cryptocast/internal/app"
	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
)

const (
	actionPost     = "post"
	actionSchedule = "schedule"
	actionSkip     = "skip"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Pick headlines, generate a video and publish it interactively",
	RunE:  runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := loadService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	fmt.Println(titleStyle.Render("📈 Cryptocast"))

	var articles []model.NewsArticle
	if err := runWithSpinner("Loading headlines", func() error {
		articles = svc.LoadNews(ctx)
		return nil
	}); err != nil {
		return err
	}

	selected, err := pickArticles(svc, articles)
	if err != nil {
		return err
	}

	videoCfg, err := askVideoConfig(svc, selected)
	if err != nil {
		return err
	}

	var generated *model.GeneratedVideo
	if err := runWithSpinner("Generating video", func() error {
		generated, err = svc.Generate(ctx, videoCfg)
		return err
	}); err != nil {
		return err
	}
	printVideo(generated)

	return publishInteractive(cmd, svc, generated)
}

func pickArticles(svc *app.Service, articles []model.NewsArticle) ([]model.NewsArticle, error) {
	options := make([]huh.Option[string], 0, len(articles))
	for _, a := range articles {
		options = append(options, huh.NewOption(articleLine(a), a.ID))
	}

	var ids []string
	if err := huh.NewMultiSelect[string]().
		Title("Headlines").
		Description("Space to toggle, enter to confirm").
		Options(options...).
		Value(&ids).
		Run(); err != nil {
		return nil, err
	}

	state := svc.Session().Dispatch(app.SelectionSet{IDs: ids})
	return state.SelectedArticles(), nil
}

func askVideoConfig(svc *app.Service, articles []model.NewsArticle) (model.VideoConfig, error) {
	defaults := svc.ApplyDefaults(model.VideoConfig{})

	var (
		title      string
		style      = string(defaults.Style)
		duration   = strconv.Itoa(defaults.Duration)
		voiceover  = true
		background bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Crypto News Update").
				Value(&title),
			huh.NewSelect[string]().
				Title("Style").
				Options(
					huh.NewOption("Professional", string(model.StyleProfessional)),
					huh.NewOption("Casual", string(model.StyleCasual)),
					huh.NewOption("Dramatic", string(model.StyleDramatic)),
				).
				Value(&style),
			huh.NewInput().
				Title("Duration (seconds)").
				Value(&duration).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n <= 0 {
						return errors.New("must be a positive number")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Include voiceover?").
				Value(&voiceover),
			huh.NewConfirm().
				Title("Include background image?").
				Value(&background),
		),
	)
	if err := form.Run(); err != nil {
		return model.VideoConfig{}, err
	}

	seconds, _ := strconv.Atoi(duration)
	return svc.ApplyDefaults(model.VideoConfig{
		Title:             title,
		Articles:          articles,
		Style:             model.Style(style),
		Duration:          seconds,
		IncludeVoiceover:  voiceover,
		IncludeBackground: background,
	}), nil
}

func publishInteractive(cmd *cobra.Command, svc *app.Service, v *model.GeneratedVideo) error {
	ctx := cmd.Context()

	var action string
	if err := huh.NewSelect[string]().
		Title("Publish").
		Options(
			huh.NewOption("Post now", actionPost),
			huh.NewOption("Schedule", actionSchedule),
			huh.NewOption("Skip", actionSkip),
		).
		Value(&action).
		Run(); err != nil {
		return err
	}
	if action == actionSkip {
		return nil
	}

	platformOptions := make([]huh.Option[model.Platform], 0, len(model.Platforms))
	for _, p := range model.Platforms {
		platformOptions = append(platformOptions, huh.NewOption(distribution.PlatformName(p), p))
	}

	var platforms []model.Platform
	caption := svc.SuggestCaption(ctx, v)
	fields := []huh.Field{
		huh.NewMultiSelect[model.Platform]().
			Title("Platforms").
			Options(platformOptions...).
			Value(&platforms).
			Validate(func(p []model.Platform) error {
				if len(p) == 0 {
					return errors.New("pick at least one platform")
				}
				return nil
			}),
		huh.NewText().
			Title("Caption").
			Value(&caption),
	}

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	clock := "12:00"
	if action == actionSchedule {
		fields = append(fields,
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&date).
				Validate(func(s string) error {
					_, err := time.ParseInLocation("2006-01-02", s, time.Local)
					return err
				}),
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&clock),
		)
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	var report *app.PostReport
	err := runWithSpinner("Publishing", func() error {
		var err error
		if action == actionSchedule {
			day, _ := time.ParseInLocation("2006-01-02", date, time.Local)
			report, err = svc.Schedule(ctx, app.ScheduleOptions{
				Platforms: platforms,
				Date:      day,
				Clock:     clock,
				Caption:   caption,
			})
			return err
		}
		report, err = svc.PostNow(ctx, app.PostOptions{Platforms: platforms, Caption: caption})
		return err
	})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}
