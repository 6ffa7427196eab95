package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"cryptocast/internal/app/model"
)

var newsJSON bool

var (
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "List the latest crypto headlines",
	Long:  `Fetch the configured news feed. When the feed is unavailable the built-in fallback headlines are listed instead.`,
	RunE:  runNews,
}

func init() {
	newsCmd.Flags().BoolVar(&newsJSON, "json", false, "Print articles as JSON")
	rootCmd.AddCommand(newsCmd)
}

func runNews(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := loadService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	articles := svc.LoadNews(ctx)

	if newsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(articles)
	}

	for _, a := range articles {
		fmt.Println(articleLine(a))
	}
	return nil
}

func articleLine(a model.NewsArticle) string {
	return fmt.Sprintf("%s  %s  %s %s",
		sentimentBadge(a.Sentiment),
		a.ID,
		a.Title,
		sourceStyle.Render("("+a.Source+")"),
	)
}

func sentimentBadge(s model.Sentiment) string {
	switch s {
	case model.SentimentPositive:
		return positiveStyle.Render("▲")
	case model.SentimentNegative:
		return negativeStyle.Render("▼")
	}
	return neutralStyle.Render("●")
}
