package video

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"cryptocast/internal/app/model"
)

const metadataFile = "video.json"

type session struct {
	id      string
	dir     string
	baseDir string
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func newSession(baseDir string, now time.Time) *session {
	return &session{
		id:      now.Format("20060102_150405"),
		baseDir: baseDir,
	}
}

func (s *session) finalize(title string) error {
	sanitized := sanitizeForPath(title)
	if sanitized == "" {
		sanitized = "untitled"
	}
	if len(sanitized) > 50 {
		sanitized = strings.TrimRight(sanitized[:50], "_")
	}

	s.dir = filepath.Join(s.baseDir, fmt.Sprintf("%s_%s", s.id, sanitized))
	return os.MkdirAll(s.dir, 0755)
}

func (s *session) name() string          { return filepath.Base(s.dir) }
func (s *session) framePath() string     { return filepath.Join(s.dir, "frame.png") }
func (s *session) clipPath() string      { return filepath.Join(s.dir, "clip.gif") }
func (s *session) narrationPath() string { return filepath.Join(s.dir, "narration.txt") }
func (s *session) captionsPath() string  { return filepath.Join(s.dir, "narration.srt") }
func (s *session) metadataPath() string  { return filepath.Join(s.dir, metadataFile) }

func sanitizeForPath(s string) string {
	s = strings.ToLower(s)
	s = sanitizeRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

func writeMetadata(path string, v *model.GeneratedVideo) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal video: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadVideo reads the record written next to a generated clip. dir may be
// the session directory or the metadata file itself.
func LoadVideo(dir string) (*model.GeneratedVideo, error) {
	path := dir
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		path = filepath.Join(dir, metadataFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read video record: %w", err)
	}

	var v model.GeneratedVideo
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse video record: %w", err)
	}
	return &v, nil
}
