package video

import (
	"regexp"
	"strings"

	"cryptocast/internal/app/model"
)

const (
	PlaceholderThumbnail = "https://via.placeholder.com/640x360?text=Crypto+News"
	defaultRoundupTitle  = "Today's Crypto News Roundup"
	defaultDescription   = "Latest cryptocurrency news and analysis"

	minSegmentSeconds   = 15
	maxKeyPoints        = 10
	sentencesPerArticle = 2
	minSentenceLength   = 30
)

var baseHashtags = []string{"crypto", "cryptocurrency", "blockchain", "news"}

// Checked in order; several keywords may map to the same tag.
var keywordHashtags = []struct {
	keyword string
	tag     string
}{
	{"bitcoin", "bitcoin"},
	{"btc", "bitcoin"},
	{"ethereum", "ethereum"},
	{"defi", "defi"},
	{"nft", "nft"},
	{"solana", "solana"},
	{"regulat", "regulation"},
	{"etf", "etf"},
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

func DefaultTitle(articles []model.NewsArticle) string {
	if len(articles) == 0 {
		return defaultRoundupTitle
	}
	return "Crypto News: " + articles[0].Title
}

func DefaultDescription() string {
	return defaultDescription
}

// Hashtags returns the base tags followed by topic tags found in article
// titles, without duplicates.
func Hashtags(articles []model.NewsArticle) []string {
	tags := make([]string, 0, len(baseHashtags)+len(keywordHashtags))
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, tag := range baseHashtags {
		add(tag)
	}

	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = strings.ToLower(a.Title)
	}

	for _, kw := range keywordHashtags {
		for _, title := range titles {
			if strings.Contains(title, kw.keyword) {
				add(kw.tag)
				break
			}
		}
	}

	return tags
}

// Segments splits duration evenly across articles, never giving an article
// less than 15 seconds.
func Segments(articles []model.NewsArticle, duration int) []model.Segment {
	if len(articles) == 0 {
		return nil
	}

	per := max(duration/len(articles), minSegmentSeconds)
	segments := make([]model.Segment, 0, len(articles))
	for i, a := range articles {
		segments = append(segments, model.Segment{
			ArticleID: a.ID,
			Start:     i * per,
			Duration:  per,
		})
	}
	return segments
}

func KeyPoints(articles []model.NewsArticle) []string {
	var points []string
	add := func(s string) bool {
		s = strings.TrimSpace(s)
		if s == "" {
			return true
		}
		points = append(points, s)
		return len(points) < maxKeyPoints
	}

	for _, a := range articles {
		if !add(a.Title) {
			return points
		}
		if a.Summary != "" && a.Summary != a.Title {
			if !add(a.Summary) {
				return points
			}
		}
		for _, sentence := range contentSentences(a.Content) {
			if !add(sentence) {
				return points
			}
		}
	}
	return points
}

func contentSentences(content string) []string {
	var out []string
	for _, s := range sentencePattern.FindAllString(content, -1) {
		s = strings.TrimSpace(s)
		if len(s) <= minSentenceLength {
			continue
		}
		out = append(out, s)
		if len(out) == sentencesPerArticle {
			break
		}
	}
	return out
}

var styleOpeners = map[model.Style]string{
	model.StyleProfessional: "Welcome to your crypto market briefing.",
	model.StyleCasual:       "Hey everyone, here's what's happening in crypto today.",
	model.StyleDramatic:     "Brace yourselves. The crypto world is on the move.",
}

const defaultOutro = "Thanks for watching. Stay informed and trade safely."

// templateNarration is used when no language model is configured or the
// model call fails.
func templateNarration(style model.Style, intro, outro string, keyPoints []string) string {
	if intro == "" {
		intro = styleOpeners[style]
	}
	if outro == "" {
		outro = defaultOutro
	}

	parts := []string{intro}
	if len(keyPoints) > 0 {
		parts = append(parts, "Here are the top stories.")
		for _, p := range keyPoints {
			parts = append(parts, ensurePeriod(p))
		}
	}
	parts = append(parts, outro)
	return strings.Join(parts, " ")
}

func ensurePeriod(s string) string {
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}
