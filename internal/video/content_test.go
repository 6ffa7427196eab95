package video

import (
	"reflect"
	"strings"
	"testing"

	"cryptocast/internal/app/model"
)

func articlesWithTitles(titles ...string) []model.NewsArticle {
	out := make([]model.NewsArticle, len(titles))
	for i, title := range titles {
		out[i] = model.NewsArticle{ID: string(rune('a' + i)), Title: title}
	}
	return out
}

func TestHashtags(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   []string
	}{
		{
			name: "noArticles",
			want: []string{"crypto", "cryptocurrency", "blockchain", "news"},
		},
		{
			name:   "bitcoinAndBTCDeduplicated",
			titles: []string{"Bitcoin climbs", "BTC miners expand"},
			want:   []string{"crypto", "cryptocurrency", "blockchain", "news", "bitcoin"},
		},
		{
			name:   "mixedTopics",
			titles: []string{"New Regulations for DeFi", "Ethereum ETF approved", "Solana NFT boom"},
			want:   []string{"crypto", "cryptocurrency", "blockchain", "news", "ethereum", "defi", "nft", "solana", "regulation", "etf"},
		},
		{
			name:   "noKeywords",
			titles: []string{"Markets wait for data"},
			want:   []string{"crypto", "cryptocurrency", "blockchain", "news"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hashtags(articlesWithTitles(tt.titles...))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Hashtags() = %v, want %v", got, tt.want)
			}

			seen := make(map[string]bool)
			for _, tag := range got {
				if seen[tag] {
					t.Errorf("duplicate hashtag %q", tag)
				}
				seen[tag] = true
			}
		})
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		duration int
		wantPer  int
	}{
		{name: "evenSplit", count: 2, duration: 60, wantPer: 30},
		{name: "floorAtFifteen", count: 5, duration: 30, wantPer: 15},
		{name: "integerDivision", count: 3, duration: 100, wantPer: 33},
		{name: "exactlyFifteen", count: 4, duration: 60, wantPer: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles := articlesWithTitles(make([]string, tt.count)...)
			segments := Segments(articles, tt.duration)
			if len(segments) != tt.count {
				t.Fatalf("len = %d, want %d", len(segments), tt.count)
			}
			for i, s := range segments {
				if s.Duration != tt.wantPer {
					t.Errorf("segment %d duration = %d, want %d", i, s.Duration, tt.wantPer)
				}
				if s.Start != i*tt.wantPer {
					t.Errorf("segment %d start = %d, want %d", i, s.Start, i*tt.wantPer)
				}
				if s.ArticleID != articles[i].ID {
					t.Errorf("segment %d article = %q, want %q", i, s.ArticleID, articles[i].ID)
				}
			}
		})
	}

	if got := Segments(nil, 60); len(got) != 0 {
		t.Errorf("Segments(nil) = %v, want none", got)
	}
}

func TestKeyPoints(t *testing.T) {
	articles := []model.NewsArticle{
		{
			Title:   "Bitcoin climbs",
			Summary: "Bitcoin gains on ETF hopes",
			Content: "Short one. This sentence is definitely longer than thirty characters! Another sentence that also exceeds the thirty character limit? A third long sentence that should be ignored entirely.",
		},
		{
			Title:   "Same summary",
			Summary: "Same summary",
		},
	}

	got := KeyPoints(articles)
	want := []string{
		"Bitcoin climbs",
		"Bitcoin gains on ETF hopes",
		"This sentence is definitely longer than thirty characters!",
		"Another sentence that also exceeds the thirty character limit?",
		"Same summary",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeyPoints() =\n%q\nwant\n%q", got, want)
	}
}

func TestKeyPointsCapped(t *testing.T) {
	titles := make([]string, 15)
	for i := range titles {
		titles[i] = strings.Repeat("x", i+1)
	}
	if got := KeyPoints(articlesWithTitles(titles...)); len(got) != maxKeyPoints {
		t.Errorf("len(KeyPoints) = %d, want %d", len(got), maxKeyPoints)
	}
}

func TestDefaultTitle(t *testing.T) {
	if got := DefaultTitle(nil); got != "Today's Crypto News Roundup" {
		t.Errorf("DefaultTitle(nil) = %q", got)
	}
	if got := DefaultTitle(articlesWithTitles("Bitcoin climbs")); got != "Crypto News: Bitcoin climbs" {
		t.Errorf("DefaultTitle() = %q", got)
	}
}

func TestTemplateNarration(t *testing.T) {
	got := templateNarration(model.StyleDramatic, "", "", []string{"BTC up", "ETH steady."})
	want := "Brace yourselves. The crypto world is on the move. Here are the top stories. BTC up. ETH steady. " + defaultOutro
	if got != want {
		t.Errorf("templateNarration() = %q, want %q", got, want)
	}

	custom := templateNarration(model.StyleCasual, "Intro here.", "Bye.", nil)
	if custom != "Intro here. Bye." {
		t.Errorf("templateNarration(custom) = %q", custom)
	}
}
