package distribution

import (
	"context"
	"strings"

	"cryptocast/internal/app/model"
)

type PostRequest struct {
	Video    *model.GeneratedVideo
	Caption  string
	Hashtags []string
}

// Publisher posts a generated video to one platform.
type Publisher interface {
	Platform() model.Platform
	Publish(ctx context.Context, req PostRequest) (*model.SocialPostResult, error)
}

// Scheduler queues a post for later delivery.
type Scheduler interface {
	Schedule(ctx context.Context, cfg model.SocialPostConfig) (*model.SocialPostResult, error)
}

func FormatHashtags(tags []string) string {
	formatted := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag == "" {
			continue
		}
		formatted = append(formatted, "#"+tag)
	}
	return strings.Join(formatted, " ")
}

// ComposeText joins a caption and its hashtags the way every platform
// receives them.
func ComposeText(caption string, tags []string) string {
	caption = strings.TrimSpace(caption)
	hashtags := FormatHashtags(tags)
	switch {
	case hashtags == "":
		return caption
	case caption == "":
		return hashtags
	}
	return caption + "\n\n" + hashtags
}

func PlatformName(p model.Platform) string {
	switch p {
	case model.PlatformTwitter:
		return "Twitter"
	case model.PlatformYouTube:
		return "YouTube"
	case model.PlatformInstagram:
		return "Instagram"
	}
	return string(p)
}
