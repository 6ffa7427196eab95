package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
	"cryptocast/pkg/httputil"
)

const (
	mediaUploadPath = "/1.1/media/upload.json"
	tweetsPath      = "/2/tweets"
	statusURLFormat = "https://twitter.com/i/web/status/%s"
	maxTweetLength  = 280
)

var _ distribution.Publisher = (*Client)(nil)

type Client struct {
	http      httputil.Doer
	baseURL   string
	uploadURL string
	token     string
}

type Options struct {
	HTTPClient httputil.Doer
	BaseURL    string
	UploadURL  string
	Token      string
}

type mediaResponse struct {
	MediaIDString string `json:"media_id_string"`
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = httputil.NewRetryClient(nil, httputil.DefaultRetryConfig())
	}
	return &Client{
		http:      opts.HTTPClient,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		uploadURL: strings.TrimRight(opts.UploadURL, "/"),
		token:     opts.Token,
	}
}

func (c *Client) Platform() model.Platform {
	return model.PlatformTwitter
}

// Publish uploads the clip (or the frame when there is no clip) and then
// posts a status referencing it.
func (c *Client) Publish(ctx context.Context, req distribution.PostRequest) (*model.SocialPostResult, error) {
	var mediaIDs []string
	if path := mediaPath(req.Video); path != "" {
		id, err := c.uploadMedia(ctx, path)
		if err != nil {
			return nil, err
		}
		mediaIDs = append(mediaIDs, id)
	}

	tweetID, err := c.postTweet(ctx, truncate(distribution.ComposeText(req.Caption, req.Hashtags), maxTweetLength), mediaIDs)
	if err != nil {
		return nil, err
	}

	return &model.SocialPostResult{
		Success: true,
		Message: "Posted to Twitter",
		PostID:  tweetID,
		PostURL: fmt.Sprintf(statusURLFormat, tweetID),
	}, nil
}

func (c *Client) uploadMedia(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open media: %w", err)
	}
	defer func() { _ = f.Close() }()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to create media part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to copy media: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	payload := body.Bytes()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+mediaUploadPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	var media mediaResponse
	if err := c.do(httpReq, &media); err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	if media.MediaIDString == "" {
		return "", fmt.Errorf("media upload returned no id")
	}
	return media.MediaIDString, nil
}

func (c *Client) postTweet(ctx context.Context, text string, mediaIDs []string) (string, error) {
	payload := tweetRequest{Text: text}
	if len(mediaIDs) > 0 {
		payload.Media = &tweetMedia{MediaIDs: mediaIDs}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tweet: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tweetsPath, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	var tweet tweetResponse
	if err := c.do(httpReq, &tweet); err != nil {
		return "", fmt.Errorf("status update failed: %w", err)
	}
	if tweet.Data.ID == "" {
		return "", fmt.Errorf("status update returned no id")
	}
	return tweet.Data.ID, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func mediaPath(v *model.GeneratedVideo) string {
	if v == nil {
		return ""
	}
	if v.HasClip() {
		return v.ClipPath
	}
	return v.FramePath
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
