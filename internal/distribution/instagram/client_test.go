package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
	"cryptocast/pkg/httputil"
)

func newTestClient(url string) *Client {
	return NewClient(Options{
		HTTPClient: httputil.NewRetryClient(nil, httputil.RetryConfig{MaxRetries: httputil.NoRetries}),
		BaseURL:    url,
		Token:      "ig-token",
		AccountID:  "acct",
	})
}

func TestPublish(t *testing.T) {
	var got publishRequest
	var path, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"id":"ig-1"}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Publish(context.Background(), distribution.PostRequest{
		Video:    &model.GeneratedVideo{VideoURL: "https://cdn/clip.gif", ThumbnailURL: "https://cdn/frame.png"},
		Caption:  "Hi",
		Hashtags: []string{"nft"},
	})
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if path != "/acct/media_publish" || auth != "Bearer ig-token" {
		t.Errorf("path = %q, auth = %q", path, auth)
	}
	if got.MediaType != "VIDEO" || got.MediaURL != "https://cdn/clip.gif" || got.Caption != "Hi\n\n#nft" {
		t.Errorf("request = %+v", got)
	}
	if result.PostID != "ig-1" || result.PostURL != "https://instagram.com/p/ig-1" {
		t.Errorf("result = %+v", result)
	}
}

func TestPublishFailures(t *testing.T) {
	tests := []struct {
		name    string
		video   *model.GeneratedVideo
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "localOnly",
			video:   &model.GeneratedVideo{VideoURL: "file:///tmp/clip.gif", ThumbnailURL: ""},
			wantErr: ErrNoPublicMedia,
		},
		{
			name:   "apiError",
			video:  &model.GeneratedVideo{VideoURL: "#", ThumbnailURL: "https://img/1.png"},
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"bad media"}}`,
		},
		{
			name:   "missingID",
			video:  &model.GeneratedVideo{ThumbnailURL: "https://img/1.png"},
			status: http.StatusOK,
			body:   `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Publish(context.Background(), distribution.PostRequest{Video: tt.video})
			if err == nil {
				t.Fatal("Publish() should fail")
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if calls != 0 {
					t.Errorf("calls = %d, want 0", calls)
				}
			}
		})
	}
}
