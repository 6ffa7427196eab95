package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
)

const (
	defaultUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos"
	watchURLFormat   = "https://youtube.com/watch?v=%s"
	categoryID       = "25" // News & Politics
	maxTitleLength   = 100
	CallbackPort     = "8085"
	callbackURL      = "http://localhost:" + CallbackPort + "/callback"
)

var (
	_ distribution.Publisher = (*Client)(nil)

	ErrNoClip = errors.New("youtube needs a rendered clip")
)

type Client struct {
	auth        *Auth
	uploadURL   string
	privacy     string
	defaultTags []string
}

type Auth struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenPath string
}

type uploadResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type videoSnippet struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"categoryId"`
}

type videoStatus struct {
	PrivacyStatus string `json:"privacyStatus"`
}

type videoMetadata struct {
	Snippet videoSnippet `json:"snippet"`
	Status  videoStatus  `json:"status"`
}

var scopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube",
}

func NewAuth(clientID, clientSecret, tokenPath string) *Auth {
	return &Auth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
			RedirectURL:  callbackURL,
		},
		tokenPath: tokenPath,
	}
}

func NewClient(auth *Auth, privacy string, defaultTags []string) *Client {
	return &Client{
		auth:        auth,
		uploadURL:   defaultUploadURL,
		privacy:     privacy,
		defaultTags: defaultTags,
	}
}

func (c *Client) Platform() model.Platform {
	return model.PlatformYouTube
}

func (c *Client) Auth() *Auth {
	return c.auth
}

func (c *Client) Publish(ctx context.Context, req distribution.PostRequest) (*model.SocialPostResult, error) {
	if req.Video == nil || !req.Video.HasClip() {
		return nil, ErrNoClip
	}

	httpClient, err := c.auth.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	metadata := videoMetadata{
		Snippet: videoSnippet{
			Title:       truncateTitle(req.Video.Title),
			Description: distribution.ComposeText(req.Caption, req.Hashtags),
			Tags:        mergeTags(req.Hashtags, c.defaultTags),
			CategoryID:  categoryID,
		},
		Status: videoStatus{
			PrivacyStatus: c.privacy,
		},
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	clip, err := os.Open(req.Video.ClipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open clip: %w", err)
	}
	defer func() { _ = clip.Close() }()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	metadataPart, err := writer.CreateFormField("snippet")
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata part: %w", err)
	}
	if _, err := metadataPart.Write(metadataJSON); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	clipPart, err := writer.CreateFormFile("file", filepath.Base(req.Video.ClipPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create clip part: %w", err)
	}
	if _, err := io.Copy(clipPart, clip); err != nil {
		return nil, fmt.Errorf("failed to copy clip: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	url := fmt.Sprintf("%s?uploadType=multipart&part=snippet,status", c.uploadURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to upload clip: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload failed: %s", string(respBody))
	}

	var uploadResp uploadResponse
	if err := json.Unmarshal(respBody, &uploadResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &model.SocialPostResult{
		Success: true,
		Message: "Uploaded to YouTube",
		PostID:  uploadResp.ID,
		PostURL: fmt.Sprintf(watchURLFormat, uploadResp.ID),
	}, nil
}

func truncateTitle(title string) string {
	r := []rune(title)
	if len(r) <= maxTitleLength {
		return title
	}
	return string(r[:maxTitleLength])
}

func mergeTags(tags, defaults []string) []string {
	seen := make(map[string]bool, len(tags)+len(defaults))
	merged := make([]string, 0, len(tags)+len(defaults))
	for _, list := range [][]string{tags, defaults} {
		for _, tag := range list {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	return merged
}

func (a *Auth) LoadToken() error {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	a.token = &token
	return nil
}

func (a *Auth) SaveToken() error {
	data, err := json.MarshalIndent(a.token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(a.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func (a *Auth) GetAuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (a *Auth) Exchange(ctx context.Context, code string) error {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	a.token = token
	return a.SaveToken()
}

func (a *Auth) TokenPath() string {
	return a.tokenPath
}

func (a *Auth) Client(ctx context.Context) (*http.Client, error) {
	if a.token == nil {
		if err := a.LoadToken(); err != nil {
			return nil, err
		}
	}

	return a.config.Client(ctx, a.token), nil
}

func (a *Auth) IsAuthenticated() bool {
	if a.token == nil {
		if err := a.LoadToken(); err != nil {
			return false
		}
	}
	return a.token != nil && a.token.Valid()
}
