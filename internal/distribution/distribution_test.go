package distribution

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cryptocast/internal/app/model"
)

func TestComposeText(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		tags    []string
		want    string
	}{
		{name: "both", caption: "Hello", tags: []string{"crypto", "#btc"}, want: "Hello\n\n#crypto #btc"},
		{name: "captionOnly", caption: " Hello ", want: "Hello"},
		{name: "tagsOnly", tags: []string{"news", " "}, want: "#news"},
		{name: "neither", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeText(tt.caption, tt.tags); got != tt.want {
				t.Errorf("ComposeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSimulatedPublisher(t *testing.T) {
	for _, platform := range model.Platforms {
		t.Run(string(platform), func(t *testing.T) {
			p := NewSimulatedPublisher(platform, 0)
			if p.Platform() != platform {
				t.Errorf("Platform() = %q", p.Platform())
			}

			result, err := p.Publish(context.Background(), PostRequest{Video: &model.GeneratedVideo{ID: "video-1"}})
			if err != nil {
				t.Fatalf("Publish() error: %v", err)
			}
			if !result.Success || result.PostID == "" {
				t.Errorf("result = %+v", result)
			}
			if !strings.Contains(result.PostURL, result.PostID) {
				t.Errorf("PostURL = %q, want post id", result.PostURL)
			}
		})
	}
}

func TestSimulatedPublisherDelays(t *testing.T) {
	tests := []struct {
		platform model.Platform
		scale    float64
		want     time.Duration
	}{
		{model.PlatformTwitter, 1, 1500 * time.Millisecond},
		{model.PlatformYouTube, 1, 2 * time.Second},
		{model.PlatformInstagram, 1, 1800 * time.Millisecond},
		{model.PlatformTwitter, 0.5, 750 * time.Millisecond},
		{model.PlatformYouTube, 0, 0},
	}
	for _, tt := range tests {
		if got := NewSimulatedPublisher(tt.platform, tt.scale).delay; got != tt.want {
			t.Errorf("%s x%v delay = %v, want %v", tt.platform, tt.scale, got, tt.want)
		}
	}
	if got := NewSimulatedScheduler(1).delay; got != time.Second {
		t.Errorf("scheduler delay = %v, want 1s", got)
	}
}

func TestSimulatedPublisherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulatedPublisher(model.PlatformYouTube, 1).Publish(ctx, PostRequest{Video: &model.GeneratedVideo{}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Publish() error = %v, want context.Canceled", err)
	}
}

func TestSimulatedScheduler(t *testing.T) {
	at := time.Now().Add(time.Hour)
	result, err := NewSimulatedScheduler(0).Schedule(context.Background(), model.SocialPostConfig{
		Platform:      model.PlatformInstagram,
		ScheduledTime: &at,
		VideoID:       "video-1",
	})
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if !result.Success || !strings.Contains(result.Message, "Instagram") {
		t.Errorf("result = %+v", result)
	}
}
