package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"cryptocast/internal/app"
	"cryptocast/internal/video"
)

var (
	postPlatforms []string
	postCaption   string
	postHashtags  []string
	postAt        string
)

var postCmd = &cobra.Command{
	Use:   "post <video-dir>",
	Short: "Post or schedule a previously generated video",
	Long: `Post the video stored in an output directory (or its video.json) to the
given platforms. With --at the post is scheduled instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringSliceVarP(&postPlatforms, "platforms", "p", nil, "Platforms (twitter,youtube,instagram)")
	postCmd.Flags().StringVarP(&postCaption, "caption", "c", "", "Caption, defaults to title and description")
	postCmd.Flags().StringSliceVar(&postHashtags, "hashtags", nil, "Hashtags, defaults to the video's")
	postCmd.Flags().StringVar(&postAt, "at", "", `Schedule time as "YYYY-MM-DD HH:MM" local time`)
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	platforms, err := parsePlatforms(postPlatforms)
	if err != nil {
		return err
	}

	v, err := video.LoadVideo(args[0])
	if err != nil {
		return err
	}

	svc, err := loadService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()
	svc.UseVideo(v)

	var report *app.PostReport
	if postAt != "" {
		date, clock, err := splitSchedule(postAt)
		if err != nil {
			return err
		}
		report, err = svc.Schedule(ctx, app.ScheduleOptions{
			Platforms: platforms,
			Date:      date,
			Clock:     clock,
			Caption:   postCaption,
			Hashtags:  postHashtags,
		})
		if err != nil {
			return err
		}
	} else {
		report, err = svc.PostNow(ctx, app.PostOptions{
			Platforms: platforms,
			Caption:   postCaption,
			Hashtags:  postHashtags,
		})
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
