package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"cryptocast/internal/distribution"
	"cryptocast/internal/distribution/schedule"
	"cryptocast/pkg/config"
)

var (
	scheduleAll   bool
	scheduleForce bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Inspect scheduled posts",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled posts",
	RunE:  runScheduleList,
}

var scheduleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the local schedule log",
	Long:  `Remove every entry from the local schedule log. Posts already handed to a remote scheduler are not cancelled.`,
	RunE:  runScheduleClear,
}

func init() {
	scheduleListCmd.Flags().BoolVarP(&scheduleAll, "all", "a", false, "Include schedules that already fired")
	scheduleClearCmd.Flags().BoolVarP(&scheduleForce, "force", "f", false, "Skip confirmation")
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleClearCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func openScheduleLog(cmd *cobra.Command) (*schedule.Log, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return schedule.NewLog(cfg.Social.ScheduleLogDir), nil
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	log, err := openScheduleLog(cmd)
	if err != nil {
		return err
	}

	entries := log.Upcoming(time.Now())
	if scheduleAll {
		entries = log.Entries()
	}
	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("No scheduled posts"))
		return nil
	}

	for _, e := range entries {
		caption, _, _ := strings.Cut(e.Caption, "\n")
		fmt.Printf("%s  %-10s %s  %s\n",
			e.ScheduledTime.Local().Format("2006-01-02 15:04"),
			distribution.PlatformName(e.Platform),
			sourceStyle.Render(e.VideoID),
			caption,
		)
	}
	return nil
}

func runScheduleClear(cmd *cobra.Command, args []string) error {
	log, err := openScheduleLog(cmd)
	if err != nil {
		return err
	}

	count := log.Len()
	if count == 0 {
		fmt.Println(infoStyle.Render("Schedule log is already empty"))
		return nil
	}

	if !scheduleForce {
		confirm := false
		if err := huh.NewConfirm().
			Title(fmt.Sprintf("Clear %d scheduled post(s)?", count)).
			Value(&confirm).
			Run(); err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	if err := log.Clear(); err != nil {
		return err
	}
	fmt.Printf("Cleared %d scheduled post(s)\n", count)
	return nil
}
