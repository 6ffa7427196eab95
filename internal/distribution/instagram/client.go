package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
	"cryptocast/pkg/httputil"
)

const (
	postURLFormat = "https://instagram.com/p/%s"
	maxCaption    = 2200
)

var (
	_ distribution.Publisher = (*Client)(nil)

	ErrNoPublicMedia = errors.New("instagram needs a publicly reachable media url")
)

type Options struct {
	HTTPClient httputil.Doer
	BaseURL    string
	Token      string
	AccountID  string
}

// Client publishes through a single media_publish call.
type Client struct {
	http      httputil.Doer
	baseURL   string
	token     string
	accountID string
}

type publishRequest struct {
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
	Caption   string `json:"caption"`
}

type publishResponse struct {
	ID        string `json:"id"`
	Permalink string `json:"permalink"`
}

func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = httputil.NewRetryClient(nil, httputil.DefaultRetryConfig())
	}
	return &Client{
		http:      opts.HTTPClient,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		token:     opts.Token,
		accountID: opts.AccountID,
	}
}

func (c *Client) Platform() model.Platform {
	return model.PlatformInstagram
}

func (c *Client) Publish(ctx context.Context, req distribution.PostRequest) (*model.SocialPostResult, error) {
	mediaType, mediaURL, err := publicMedia(req.Video)
	if err != nil {
		return nil, err
	}

	caption := distribution.ComposeText(req.Caption, req.Hashtags)
	if r := []rune(caption); len(r) > maxCaption {
		caption = string(r[:maxCaption])
	}

	data, err := json.Marshal(publishRequest{
		MediaType: mediaType,
		MediaURL:  mediaURL,
		Caption:   caption,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/media_publish", c.baseURL, c.accountID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to publish: %w", err)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("publish failed: %w", err)
	}

	var published publishResponse
	if err := json.Unmarshal(body, &published); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if published.ID == "" {
		return nil, errors.New("publish returned no id")
	}

	postURL := published.Permalink
	if postURL == "" {
		postURL = fmt.Sprintf(postURLFormat, published.ID)
	}

	return &model.SocialPostResult{
		Success: true,
		Message: "Posted to Instagram",
		PostID:  published.ID,
		PostURL: postURL,
	}, nil
}

// publicMedia picks the uploaded clip, then the thumbnail, as long as the
// URL is reachable over http(s).
func publicMedia(v *model.GeneratedVideo) (string, string, error) {
	if v == nil {
		return "", "", ErrNoPublicMedia
	}
	if isRemote(v.VideoURL) {
		return "VIDEO", v.VideoURL, nil
	}
	if isRemote(v.ThumbnailURL) {
		return "IMAGE", v.ThumbnailURL, nil
	}
	return "", "", ErrNoPublicMedia
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")
}
