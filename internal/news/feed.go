package news

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"cryptocast/internal/app/model"
)

const maxPerFeed = 20

var tagPattern = regexp.MustCompile(`<[^>]*>`)

type Feed struct {
	URL  string
	Name string
}

// FeedSource reads RSS or Atom feeds. A failing feed is skipped; the fetch
// only fails when every feed does.
type FeedSource struct {
	feeds   []Feed
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewFeedSource(feeds []Feed, timeout time.Duration) *FeedSource {
	return &FeedSource{
		feeds:   feeds,
		parser:  gofeed.NewParser(),
		timeout: timeout,
	}
}

func (s *FeedSource) Fetch(ctx context.Context) ([]model.NewsArticle, error) {
	if len(s.feeds) == 0 {
		return nil, errors.New("no feeds configured")
	}

	var all []model.NewsArticle
	var errs []error
	for _, f := range s.feeds {
		name := f.Name
		if name == "" {
			name = sourceName(f.URL)
		}

		articles, err := s.parseFeed(ctx, f.URL, name)
		if err != nil {
			slog.Warn("Failed to parse feed", "url", f.URL, "error", err)
			errs = append(errs, err)
			continue
		}
		slog.Debug("Parsed feed", "source", name, "count", len(articles))
		all = append(all, articles...)
	}

	if len(errs) == len(s.feeds) {
		return nil, fmt.Errorf("all feeds failed: %w", errors.Join(errs...))
	}
	return all, nil
}

func (s *FeedSource) parseFeed(ctx context.Context, feedURL, name string) ([]model.NewsArticle, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var articles []model.NewsArticle
	for _, item := range feed.Items {
		if len(articles) >= maxPerFeed {
			break
		}
		if a, ok := itemToArticle(item, name, now); ok {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

func itemToArticle(item *gofeed.Item, source string, now time.Time) (model.NewsArticle, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return model.NewsArticle{}, false
	}

	link := item.Link
	if link == "" {
		link = defaultURL
	}
	id := item.GUID
	if id == "" {
		id = link
	}

	published := now
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	content := stripHTML(item.Content)
	if content == "" {
		content = stripHTML(item.Description)
	}

	image := defaultImageURL
	if item.Image != nil && item.Image.URL != "" {
		image = item.Image.URL
	} else {
		for _, enc := range item.Enclosures {
			if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
				image = enc.URL
				break
			}
		}
	}

	return model.NewsArticle{
		ID:          id,
		Title:       title,
		Source:      source,
		Content:     content,
		Summary:     title,
		URL:         link,
		ImageURL:    image,
		PublishedAt: published,
		Sentiment:   DeriveSentiment(title),
	}, true
}

func stripHTML(s string) string {
	text := html.UnescapeString(tagPattern.ReplaceAllString(s, " "))
	return strings.Join(strings.Fields(text), " ")
}

func sourceName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return defaultSource
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
