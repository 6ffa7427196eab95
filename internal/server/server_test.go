package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"cryptocast/internal/app"
	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
	"cryptocast/internal/distribution/schedule"
	"cryptocast/internal/news"
	"cryptocast/internal/video"
	"cryptocast/pkg/config"
)

type stubSource struct{}

func (stubSource) Fetch(context.Context) ([]model.NewsArticle, error) {
	return []model.NewsArticle{
		{ID: "1", Title: "Bitcoin surges past record", Sentiment: model.SentimentPositive},
		{ID: "2", Title: "Ethereum upgrade ships", Sentiment: model.SentimentNeutral},
	}, nil
}

type fileRenderer struct{}

func (fileRenderer) Render(_ context.Context, req video.RenderRequest) (*video.RenderResult, error) {
	if err := os.WriteFile(req.FramePath, []byte("png"), 0644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(req.ClipPath, []byte("GIF89a"), 0644); err != nil {
		return nil, err
	}
	return &video.RenderResult{FramePath: req.FramePath, ClipPath: req.ClipPath}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Social.Mode = config.ModeSimulate
	cfg.News.Provider = "cryptocompare"
	cfg.Video.Style = "professional"
	cfg.Video.Duration = 30

	var publishers []distribution.Publisher
	for _, p := range model.Platforms {
		publishers = append(publishers, distribution.NewSimulatedPublisher(p, 0))
	}
	log := schedule.NewLog(dir)

	svc := app.NewService(app.ServiceOptions{
		Config: cfg,
		News:   news.NewLoader(stubSource{}),
		Generator: video.NewGenerator(video.Options{
			OutputDir: dir,
			Renderer:  fileRenderer{},
		}),
		Poster:    app.NewPoster(publishers, schedule.NewRecorder(distribution.NewSimulatedScheduler(0), log)),
		Schedules: log,
	})
	return New(svc)
}

func do(t *testing.T, s *Server, method, path, payload string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if payload != "" {
		reader = strings.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp, out := do(t, s, http.MethodGet, "/api/v1/health", "")
	if resp.StatusCode != http.StatusOK || out["status"] != "ok" || out["mode"] != "simulate" {
		t.Errorf("health = %d %v", resp.StatusCode, out)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	resp, _ := do(t, s, http.MethodGet, "/api/v1/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNewsAndSelection(t *testing.T) {
	s := newTestServer(t)

	resp, out := do(t, s, http.MethodGet, "/api/v1/news", "")
	if resp.StatusCode != http.StatusOK || out["total"] != float64(2) {
		t.Fatalf("news = %d %v", resp.StatusCode, out)
	}

	resp, out = do(t, s, http.MethodPost, "/api/v1/selection/2/toggle", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d", resp.StatusCode)
	}
	if ids := out["ids"].([]any); len(ids) != 1 || ids[0] != "2" {
		t.Errorf("ids = %v", out["ids"])
	}

	resp, _ = do(t, s, http.MethodPost, "/api/v1/selection/99/toggle", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown article status = %d, want 404", resp.StatusCode)
	}

	resp, out = do(t, s, http.MethodPut, "/api/v1/selection", `{"ids":["1","2"]}`)
	if resp.StatusCode != http.StatusOK || len(out["ids"].([]any)) != 2 {
		t.Errorf("set selection = %d %v", resp.StatusCode, out)
	}

	resp, _ = do(t, s, http.MethodPut, "/api/v1/selection", `{"ids":[""]}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("blank id status = %d, want 422", resp.StatusCode)
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{name: "badStyle", payload: `{"style":"loud"}`, want: http.StatusUnprocessableEntity},
		{name: "tooLong", payload: `{"duration":900}`, want: http.StatusUnprocessableEntity},
		{name: "malformed", payload: `{"duration":`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			resp, _ := do(t, s, http.MethodPost, "/api/v1/videos", tt.payload)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestGenerateDownloadAndPost(t *testing.T) {
	s := newTestServer(t)

	resp, _ := do(t, s, http.MethodGet, "/api/v1/videos/current", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("current before generation = %d, want 404", resp.StatusCode)
	}

	do(t, s, http.MethodGet, "/api/v1/news", "")
	resp, out := do(t, s, http.MethodPost, "/api/v1/videos", `{"article_ids":["1","2"],"duration":60,"include_voiceover":true}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("generate = %d %v", resp.StatusCode, out)
	}
	if out["duration"] != float64(60) || out["status"] != "completed" || len(out["hashtags"].([]any)) == 0 {
		t.Errorf("video = %v", out)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/current/download", nil)
	dl, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(dl.Body)
	_ = dl.Body.Close()
	if dl.StatusCode != http.StatusOK || string(data) != "GIF89a" {
		t.Errorf("download = %d %q", dl.StatusCode, data)
	}
	if cd := dl.Header.Get("Content-Disposition"); !strings.Contains(cd, ".gif") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	resp, out = do(t, s, http.MethodPost, "/api/v1/posts", `{"platforms":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("no platforms = %d %v", resp.StatusCode, out)
	}

	resp, _ = do(t, s, http.MethodPost, "/api/v1/posts", `{"platforms":["myspace"]}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unknown platform = %d, want 422", resp.StatusCode)
	}

	resp, out = do(t, s, http.MethodPost, "/api/v1/posts", `{"platforms":["twitter","instagram"],"caption":"gm"}`)
	if resp.StatusCode != http.StatusOK || out["outcome"] != "success" {
		t.Errorf("post = %d %v", resp.StatusCode, out)
	}

	_, state := do(t, s, http.MethodGet, "/api/v1/state", "")
	if state["post_status"] != "success" {
		t.Errorf("post_status = %v", state["post_status"])
	}
}

func TestSchedules(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/api/v1/news", "")

	resp, _ := do(t, s, http.MethodPost, "/api/v1/schedules", `{"platforms":["twitter"],"date":"2030-01-01","time":"10:00"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("schedule without video = %d, want 409", resp.StatusCode)
	}

	if resp, _ := do(t, s, http.MethodPost, "/api/v1/videos", `{}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("generate = %d", resp.StatusCode)
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format(dateLayout)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(dateLayout)

	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{name: "noDate", payload: `{"platforms":["twitter"]}`, want: http.StatusBadRequest},
		{name: "past", payload: `{"platforms":["twitter"],"date":"` + yesterday + `","time":"10:00"}`, want: http.StatusBadRequest},
		{name: "badTime", payload: `{"platforms":["twitter"],"date":"` + tomorrow + `","time":"25:99"}`, want: http.StatusUnprocessableEntity},
		{name: "ok", payload: `{"platforms":["twitter","youtube"],"date":"` + tomorrow + `","time":"10:00"}`, want: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := do(t, s, http.MethodPost, "/api/v1/schedules", tt.payload)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (%v)", resp.StatusCode, tt.want, out)
			}
		})
	}

	_, out := do(t, s, http.MethodGet, "/api/v1/schedules", "")
	if out["total"] != float64(2) {
		t.Errorf("schedules = %v", out)
	}

	resp, _ = do(t, s, http.MethodDelete, "/api/v1/schedules", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("clear = %d", resp.StatusCode)
	}
	_, out = do(t, s, http.MethodGet, "/api/v1/schedules?all=true", "")
	if out["total"] != float64(0) {
		t.Errorf("after clear = %v", out)
	}
}

func TestToggledSelectionSurvivesLaterRequests(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/api/v1/news", "")

	if resp, _ := do(t, s, http.MethodPost, "/api/v1/selection/1/toggle", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d", resp.StatusCode)
	}

	for range 50 {
		do(t, s, http.MethodPost, "/api/v1/selection/9/toggle", "")
		do(t, s, http.MethodGet, "/api/v1/health", "")
	}

	_, out := do(t, s, http.MethodGet, "/api/v1/selection", "")
	ids, _ := out["ids"].([]any)
	if len(ids) != 1 || ids[0] != "1" {
		t.Errorf("ids = %v, want [1]", out["ids"])
	}
	if got := s.svc.State().Selected; len(got) != 1 || got[0] != "1" {
		t.Errorf("stored selection = %v, want [1]", got)
	}
}
