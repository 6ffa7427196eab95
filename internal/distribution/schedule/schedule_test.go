package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cryptocast/internal/app/model"
	"cryptocast/pkg/httputil"
)

func at(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
}

func TestLogPersistsEntries(t *testing.T) {
	dir := t.TempDir()

	log := NewLog(dir)
	_ = log.Record(Entry{PostID: "late", Platform: model.PlatformTwitter, ScheduledTime: at(18)})
	_ = log.Record(Entry{PostID: "early", Platform: model.PlatformYouTube, ScheduledTime: at(9)})

	if _, err := os.Stat(filepath.Join(dir, logFile)); err != nil {
		t.Fatalf("schedule file not written: %v", err)
	}

	reloaded := NewLog(dir)
	entries := reloaded.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() len = %d, want 2", len(entries))
	}
	if entries[0].PostID != "early" || entries[1].PostID != "late" {
		t.Errorf("Entries() order = %s, %s", entries[0].PostID, entries[1].PostID)
	}
}

func TestLogUpcoming(t *testing.T) {
	log := NewLog(t.TempDir())
	for _, e := range []Entry{
		{PostID: "past", ScheduledTime: at(8)},
		{PostID: "next", ScheduledTime: at(12)},
		{PostID: "later", ScheduledTime: at(20)},
	} {
		_ = log.Record(e)
	}

	upcoming := log.Upcoming(at(10))
	if len(upcoming) != 2 {
		t.Fatalf("Upcoming() len = %d, want 2", len(upcoming))
	}
	if upcoming[0].PostID != "next" {
		t.Errorf("Upcoming()[0] = %s, want next", upcoming[0].PostID)
	}
}

func TestLogRemoveAndClear(t *testing.T) {
	dir := t.TempDir()
	log := NewLog(dir)
	_ = log.Record(Entry{PostID: "a"})
	_ = log.Record(Entry{PostID: "b"})

	removed, err := log.Remove("a")
	if err != nil || !removed {
		t.Fatalf("Remove(a) = %v, %v", removed, err)
	}
	if removed, _ := log.Remove("missing"); removed {
		t.Error("Remove(missing) = true")
	}
	if log.Len() != 1 {
		t.Errorf("Len() = %d, want 1", log.Len())
	}

	if err := log.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if NewLog(dir).Len() != 0 {
		t.Error("Clear() did not persist")
	}
}

func TestLogDropsOldestWhenFull(t *testing.T) {
	log := NewLog(t.TempDir())
	for i := 0; i < maxEntries+5; i++ {
		_ = log.Record(Entry{PostID: string(rune('a' + i%26)), ScheduledTime: at(0).Add(time.Duration(i) * time.Minute)})
	}
	if log.Len() != maxEntries {
		t.Errorf("Len() = %d, want %d", log.Len(), maxEntries)
	}
	if got := log.Entries()[0].ScheduledTime; !got.Equal(at(0).Add(5 * time.Minute)) {
		t.Errorf("oldest kept = %v", got)
	}
}

type stubScheduler struct {
	result *model.SocialPostResult
	err    error
}

func (s stubScheduler) Schedule(context.Context, model.SocialPostConfig) (*model.SocialPostResult, error) {
	return s.result, s.err
}

func TestRecorder(t *testing.T) {
	tests := []struct {
		name      string
		next      stubScheduler
		wantErr   bool
		wantCount int
	}{
		{name: "recordsSuccess", next: stubScheduler{result: &model.SocialPostResult{Success: true, PostID: "p1"}}, wantCount: 1},
		{name: "skipsFailure", next: stubScheduler{err: errors.New("boom")}, wantErr: true},
		{name: "skipsUnsuccessful", next: stubScheduler{result: &model.SocialPostResult{Success: false}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLog(t.TempDir())
			rec := NewRecorder(tt.next, log)

			when := at(15)
			_, err := rec.Schedule(context.Background(), model.SocialPostConfig{
				Platform:      model.PlatformInstagram,
				ScheduledTime: &when,
				VideoID:       "video-1",
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Schedule() error = %v, wantErr %v", err, tt.wantErr)
			}
			if log.Len() != tt.wantCount {
				t.Fatalf("Len() = %d, want %d", log.Len(), tt.wantCount)
			}
			if tt.wantCount > 0 {
				e := log.Entries()[0]
				if e.PostID != "p1" || e.Platform != model.PlatformInstagram || !e.ScheduledTime.Equal(when) {
					t.Errorf("entry = %+v", e)
				}
			}
		})
	}
}

func TestClientSchedule(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		wantID  string
	}{
		{name: "accepted", status: http.StatusCreated, body: `{"id":"sched-9","status":"queued"}`, wantID: "sched-9"},
		{name: "rejected", status: http.StatusBadRequest, body: `{"error":"past"}`, wantErr: true},
		{name: "missingID", status: http.StatusOK, body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got scheduleRequest
			var path, auth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				auth = r.Header.Get("Authorization")
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(Options{
				HTTPClient: httputil.NewRetryClient(server.Client(), httputil.RetryConfig{MaxRetries: httputil.NoRetries}),
				BaseURL:    server.URL + "/",
				Token:      "sched-token",
			})

			when := at(16)
			result, err := client.Schedule(context.Background(), model.SocialPostConfig{
				Platform:      model.PlatformTwitter,
				ScheduledTime: &when,
				Caption:       "Markets move",
				Hashtags:      []string{"crypto"},
				VideoID:       "video-7",
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Schedule() error = %v, wantErr %v", err, tt.wantErr)
			}

			if path != postsPath || auth != "Bearer sched-token" {
				t.Errorf("path = %q auth = %q", path, auth)
			}
			if got.Text != "Markets move\n\n#crypto" || got.ScheduledTime != "2026-03-14T16:00:00Z" || got.VideoID != "video-7" {
				t.Errorf("request = %+v", got)
			}
			if tt.wantErr {
				return
			}
			if !result.Success || result.PostID != tt.wantID {
				t.Errorf("result = %+v", result)
			}
		})
	}
}

func TestClientScheduleRequiresTime(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://unused"})
	if _, err := client.Schedule(context.Background(), model.SocialPostConfig{}); !errors.Is(err, ErrNoTime) {
		t.Errorf("Schedule() error = %v, want ErrNoTime", err)
	}
}
