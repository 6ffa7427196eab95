package news

import (
	"context"
	"log/slog"

	"cryptocast/internal/app/model"
)

// Source fetches the current article feed.
type Source interface {
	Fetch(ctx context.Context) ([]model.NewsArticle, error)
}

// Loader wraps a Source and substitutes the fallback set when it fails.
type Loader struct {
	source Source
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load never fails. Any source error is logged and Fallback is returned.
func (l *Loader) Load(ctx context.Context) []model.NewsArticle {
	if l.source == nil {
		slog.Warn("No news source configured, using fallback articles")
		return Fallback()
	}

	articles, err := l.source.Fetch(ctx)
	if err != nil {
		slog.Warn("Failed to fetch news, using fallback articles", "error", err)
		return Fallback()
	}

	slog.Info("Fetched news articles", "count", len(articles))
	return articles
}

// Select returns the articles whose IDs appear in ids, keeping feed order.
func Select(articles []model.NewsArticle, ids []string) []model.NewsArticle {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	selected := make([]model.NewsArticle, 0, len(ids))
	for _, a := range articles {
		if _, ok := wanted[a.ID]; ok {
			selected = append(selected, a)
		}
	}
	return selected
}
