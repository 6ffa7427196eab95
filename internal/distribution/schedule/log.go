package schedule

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
)

const (
	logFile    = "schedule.json"
	maxEntries = 200
)

// Entry is one accepted scheduling request.
type Entry struct {
	PostID        string         `json:"post_id"`
	Platform      model.Platform `json:"platform_id"`
	VideoID       string         `json:"video_id"`
	Caption       string         `json:"caption"`
	Hashtags      []string       `json:"hashtags,omitempty"`
	ScheduledTime time.Time      `json:"scheduled_time"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Log keeps the schedules accepted by this process so they can be listed
// or cleared later from the CLI.
type Log struct {
	entries *fileList[Entry]
}

func NewLog(dir string) *Log {
	return &Log{entries: newFileList[Entry](dir, logFile, maxEntries)}
}

func (l *Log) Record(e Entry) error {
	return l.entries.Add(e)
}

// Entries returns every recorded schedule ordered by scheduled time.
func (l *Log) Entries() []Entry {
	entries := l.entries.List()
	sortByTime(entries)
	return entries
}

// Upcoming returns the schedules that have not fired yet at now.
func (l *Log) Upcoming(now time.Time) []Entry {
	entries := l.entries.Filter(func(e Entry) bool {
		return e.ScheduledTime.After(now)
	})
	sortByTime(entries)
	return entries
}

func (l *Log) Remove(postID string) (bool, error) {
	removed, err := l.entries.FindAndRemove(func(e Entry) bool {
		return e.PostID == postID
	})
	return removed != nil, err
}

func (l *Log) Clear() error {
	return l.entries.Clear()
}

func (l *Log) Len() int {
	return l.entries.Len()
}

func sortByTime(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.ScheduledTime.Compare(b.ScheduledTime)
	})
}

// Recorder wraps a scheduler and logs every successful request.
type Recorder struct {
	next distribution.Scheduler
	log  *Log
	now  func() time.Time
}

var _ distribution.Scheduler = (*Recorder)(nil)

func NewRecorder(next distribution.Scheduler, log *Log) *Recorder {
	return &Recorder{next: next, log: log, now: time.Now}
}

func (r *Recorder) Schedule(ctx context.Context, cfg model.SocialPostConfig) (*model.SocialPostResult, error) {
	result, err := r.next.Schedule(ctx, cfg)
	if err != nil || result == nil || !result.Success {
		return result, err
	}

	entry := Entry{
		PostID:    result.PostID,
		Platform:  cfg.Platform,
		VideoID:   cfg.VideoID,
		Caption:   cfg.Caption,
		Hashtags:  cfg.Hashtags,
		CreatedAt: r.now(),
	}
	if cfg.ScheduledTime != nil {
		entry.ScheduledTime = *cfg.ScheduledTime
	}
	if err := r.log.Record(entry); err != nil {
		slog.Warn("Failed to record schedule", "platform", cfg.Platform, "error", err)
	}
	return result, nil
}
