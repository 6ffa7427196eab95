package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
	"cryptocast/pkg/httputil"
)

const postsPath = "/posts"

var (
	_ distribution.Scheduler = (*Client)(nil)

	ErrNoTime = errors.New("scheduled time is required")
)

// Client hands posts to a remote scheduling service.
type Client struct {
	http    httputil.Doer
	baseURL string
	token   string
}

type Options struct {
	HTTPClient httputil.Doer
	BaseURL    string
	Token      string
}

type scheduleRequest struct {
	Platform      model.Platform `json:"platform"`
	VideoID       string         `json:"video_id"`
	Text          string         `json:"text"`
	ScheduledTime string         `json:"scheduled_time"`
}

type scheduleResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = httputil.NewRetryClient(nil, httputil.DefaultRetryConfig())
	}
	return &Client{
		http:    opts.HTTPClient,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
	}
}

func (c *Client) Schedule(ctx context.Context, cfg model.SocialPostConfig) (*model.SocialPostResult, error) {
	if cfg.ScheduledTime == nil {
		return nil, ErrNoTime
	}

	data, err := json.Marshal(scheduleRequest{
		Platform:      cfg.Platform,
		VideoID:       cfg.VideoID,
		Text:          distribution.ComposeText(cfg.Caption, cfg.Hashtags),
		ScheduledTime: cfg.ScheduledTime.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+postsPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("schedule request failed: %w", err)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("schedule request failed: %w", err)
	}

	var scheduled scheduleResponse
	if err := json.Unmarshal(body, &scheduled); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if scheduled.ID == "" {
		return nil, fmt.Errorf("schedule request returned no id")
	}

	return &model.SocialPostResult{
		Success: true,
		Message: fmt.Sprintf("Scheduled for %s at %s", distribution.PlatformName(cfg.Platform), cfg.ScheduledTime.Local().Format("Jan 2 15:04")),
		PostID:  scheduled.ID,
	}, nil
}
