package model

import "time"

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

const (
	StyleProfessional Style = "professional"
	StyleCasual       Style = "casual"
	StyleDramatic     Style = "dramatic"
)

const (
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
)

const (
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
)

// PlaceholderVideoURL marks a video record that has no playable clip.
const PlaceholderVideoURL = "#"

type Sentiment string

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

type Style string

type VideoStatus string

type Platform string

// Platforms lists every destination a video can be posted or scheduled to.
var Platforms = []Platform{PlatformTwitter, PlatformYouTube, PlatformInstagram}

func ParsePlatform(s string) (Platform, bool) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url"`
	PublishedAt time.Time `json:"published_at"`
	Sentiment   Sentiment `json:"sentiment"`
}

type VideoConfig struct {
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Articles          []NewsArticle `json:"articles"`
	Style             Style         `json:"style" validate:"required,oneof=professional casual dramatic"`
	Duration          int           `json:"duration" validate:"gt=0"`
	IncludeVoiceover  bool          `json:"include_voiceover"`
	IncludeBackground bool          `json:"include_background"`
	CustomIntro       string        `json:"custom_intro,omitempty"`
	CustomOutro       string        `json:"custom_outro,omitempty"`
}

type Segment struct {
	ArticleID string `json:"article_id"`
	Start     int    `json:"start"`
	Duration  int    `json:"duration"`
}

type PlatformFlags struct {
	Twitter   bool `json:"twitter"`
	YouTube   bool `json:"youtube"`
	TikTok    bool `json:"tiktok"`
	Instagram bool `json:"instagram"`
}

type GeneratedVideo struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	ThumbnailURL string        `json:"thumbnail_url"`
	VideoURL     string        `json:"video_url"`
	CreatedAt    time.Time     `json:"created_at"`
	Duration     int           `json:"duration"`
	Hashtags     []string      `json:"hashtags"`
	Status       VideoStatus   `json:"status"`
	Platforms    PlatformFlags `json:"social_platforms"`
	KeyPoints    []string      `json:"key_points,omitempty"`
	Segments     []Segment     `json:"segments,omitempty"`
	Narration    string        `json:"narration,omitempty"`
	FramePath    string        `json:"frame_path,omitempty"`
	ClipPath     string        `json:"clip_path,omitempty"`
}

// HasClip reports whether the record points at a rendered clip.
func (v *GeneratedVideo) HasClip() bool {
	return v.ClipPath != "" && v.VideoURL != PlaceholderVideoURL
}

type SocialPostConfig struct {
	Platform      Platform   `json:"platform_id"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	Caption       string     `json:"caption,omitempty"`
	Hashtags      []string   `json:"hashtags,omitempty"`
	VideoID       string     `json:"video_id"`
}

type SocialPostResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PostID  string `json:"post_id,omitempty"`
	PostURL string `json:"post_url,omitempty"`
}
