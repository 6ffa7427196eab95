package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"cryptocast/internal/app/model"
)

const (
	defaultSource   = "CryptoNews"
	defaultURL      = "#"
	defaultImageURL = "https://images.unsplash.com/photo-1518546305927-5a555bb7020d?auto=format&fit=crop&w=1000&q=80"
	newsPath        = "/data/v2/news/"
)

var errMissingData = errors.New("response has no Data array")

type CryptoCompareConfig struct {
	BaseURL    string
	Language   string
	Categories string
	Timeout    time.Duration
}

type CryptoCompareSource struct {
	client *resty.Client
	config CryptoCompareConfig
	now    func() time.Time
}

func NewCryptoCompareSource(cfg CryptoCompareConfig) *CryptoCompareSource {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &CryptoCompareSource{
		client: client,
		config: cfg,
		now:    time.Now,
	}
}

type ccResponse struct {
	Data json.RawMessage `json:"Data"`
}

type ccArticle struct {
	ID          flexibleID `json:"id"`
	Title       string     `json:"title"`
	Source      string     `json:"source"`
	Body        string     `json:"body"`
	URL         string     `json:"url"`
	ImageURL    string     `json:"imageurl"`
	PublishedOn int64      `json:"published_on"`
}

// flexibleID accepts both string and numeric ids.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

func (s *CryptoCompareSource) Fetch(ctx context.Context) ([]model.NewsArticle, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("lang", s.config.Language).
		SetQueryParam("categories", s.config.Categories).
		Get(newsPath)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("news api returned status %d", resp.StatusCode())
	}

	var payload ccResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}

	data := bytes.TrimSpace(payload.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, errMissingData
	}

	var items []ccArticle
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode news items: %w", err)
	}

	now := s.now()
	articles := make([]model.NewsArticle, 0, len(items))
	for i, item := range items {
		articles = append(articles, mapArticle(item, i, now))
	}
	return articles, nil
}

func mapArticle(item ccArticle, index int, now time.Time) model.NewsArticle {
	id := string(item.ID)
	if id == "" {
		id = strconv.Itoa(index) + "-" + strconv.FormatInt(now.UnixNano(), 10)
	}

	published := now.UTC()
	if item.PublishedOn > 0 {
		published = time.Unix(item.PublishedOn, 0).UTC()
	}

	return model.NewsArticle{
		ID:          id,
		Title:       item.Title,
		Source:      orDefault(item.Source, defaultSource),
		Content:     item.Body,
		Summary:     item.Title,
		URL:         orDefault(item.URL, defaultURL),
		ImageURL:    orDefault(item.ImageURL, defaultImageURL),
		PublishedAt: published,
		Sentiment:   DeriveSentiment(item.Title),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
