package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptocast/internal/app/model"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Crypto Wire</title>
  <link>https://example.com</link>
  <description>news</description>
  <item>
    <title>Solana rally extends</title>
    <link>https://example.com/solana</link>
    <guid>sol-1</guid>
    <description>&lt;p&gt;Solana &lt;b&gt;climbs&lt;/b&gt; again&lt;/p&gt;</description>
    <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    <enclosure url="https://example.com/sol.jpg" type="image/jpeg" length="10"/>
  </item>
  <item>
    <title>   </title>
    <link>https://example.com/empty</link>
  </item>
  <item>
    <title>Miners weigh options</title>
    <link>https://example.com/miners</link>
  </item>
</channel>
</rss>`

func TestFeedSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testRSS))
	}))
	defer server.Close()

	src := NewFeedSource([]Feed{
		{URL: server.URL + "/broken", Name: "Broken"},
		{URL: server.URL + "/rss", Name: "Wire"},
	}, time.Second)

	articles, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len = %d, want 2 (blank titles skipped)", len(articles))
	}

	sol := articles[0]
	if sol.ID != "sol-1" || sol.Source != "Wire" {
		t.Errorf("first = %+v", sol)
	}
	if sol.Content != "Solana climbs again" {
		t.Errorf("Content = %q, want stripped HTML", sol.Content)
	}
	if sol.ImageURL != "https://example.com/sol.jpg" {
		t.Errorf("ImageURL = %q, want enclosure", sol.ImageURL)
	}
	if sol.Sentiment != model.SentimentPositive {
		t.Errorf("Sentiment = %q, want positive", sol.Sentiment)
	}
	if sol.PublishedAt.Year() != 2006 {
		t.Errorf("PublishedAt = %v", sol.PublishedAt)
	}

	miners := articles[1]
	if miners.ID != "https://example.com/miners" {
		t.Errorf("ID without guid = %q, want link", miners.ID)
	}
	if miners.ImageURL != defaultImageURL {
		t.Errorf("ImageURL = %q, want default", miners.ImageURL)
	}
}

func TestFeedSourceAllFeedsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := NewFeedSource([]Feed{{URL: server.URL}}, time.Second)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() should fail when every feed fails")
	}

	if got := NewLoader(src).Load(context.Background()); len(got) != 6 {
		t.Errorf("Load() len = %d, want fallback", len(got))
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.coindesk.com/rss", "coindesk.com"},
		{"https://decrypt.co/feed", "decrypt.co"},
		{"not a url", defaultSource},
	}
	for _, tt := range tests {
		if got := sourceName(tt.url); got != tt.want {
			t.Errorf("sourceName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
