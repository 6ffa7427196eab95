package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"cryptocast/internal/app/model"
	"cryptocast/internal/llm"
	"cryptocast/internal/storage"
)

var ErrInvalidConfig = errors.New("invalid video config")

// FrameRenderer produces the visual artifacts for a generated video.
type FrameRenderer interface {
	Render(ctx context.Context, req RenderRequest) (*RenderResult, error)
}

type Options struct {
	OutputDir string
	// ProcessingDelay is slept per second of requested duration.
	ProcessingDelay time.Duration
	Renderer        FrameRenderer
	Narrator        llm.Client
	Store           storage.ArtifactStore
}

type Generator struct {
	opts     Options
	validate *validator.Validate
	now      func() time.Time
}

func NewGenerator(opts Options) *Generator {
	return &Generator{
		opts:     opts,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Generate builds a video record from cfg. It fails only on an invalid
// config or a cancelled context; rendering, narration and upload problems
// degrade the result instead.
func (g *Generator) Generate(ctx context.Context, cfg model.VideoConfig) (*model.GeneratedVideo, error) {
	if err := g.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := g.simulateProcessing(ctx, cfg.Duration); err != nil {
		return nil, err
	}

	title := cfg.Title
	if title == "" {
		title = DefaultTitle(cfg.Articles)
	}
	description := cfg.Description
	if description == "" {
		description = DefaultDescription()
	}

	thumbnail := PlaceholderThumbnail
	if len(cfg.Articles) > 0 && cfg.Articles[0].ImageURL != "" {
		thumbnail = cfg.Articles[0].ImageURL
	}

	keyPoints := KeyPoints(cfg.Articles)
	video := &model.GeneratedVideo{
		ID:           "video-" + uuid.NewString(),
		Title:        title,
		Description:  description,
		ThumbnailURL: thumbnail,
		VideoURL:     model.PlaceholderVideoURL,
		CreatedAt:    g.now().UTC(),
		Duration:     cfg.Duration,
		Hashtags:     Hashtags(cfg.Articles),
		Status:       model.StatusProcessing,
		KeyPoints:    keyPoints,
		Segments:     Segments(cfg.Articles, cfg.Duration),
	}

	if cfg.IncludeVoiceover {
		video.Narration = g.narrate(ctx, cfg, title, keyPoints)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.produceArtifacts(ctx, cfg, video)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	video.Status = model.StatusCompleted
	slog.Info("Video generated",
		"id", video.ID,
		"title", video.Title,
		"articles", len(cfg.Articles),
		"duration", video.Duration,
		"clip", video.HasClip(),
	)
	return video, nil
}

func (g *Generator) simulateProcessing(ctx context.Context, duration int) error {
	delay := time.Duration(duration) * g.opts.ProcessingDelay
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (g *Generator) narrate(ctx context.Context, cfg model.VideoConfig, title string, keyPoints []string) string {
	fallback := templateNarration(cfg.Style, cfg.CustomIntro, cfg.CustomOutro, keyPoints)
	if g.opts.Narrator == nil {
		return fallback
	}

	script, err := g.opts.Narrator.GenerateNarration(ctx, llm.NarrationRequest{
		Title:     title,
		Style:     string(cfg.Style),
		Duration:  cfg.Duration,
		KeyPoints: keyPoints,
		Intro:     cfg.CustomIntro,
		Outro:     cfg.CustomOutro,
	})
	if err != nil {
		slog.Warn("Narration generation failed, using template", "error", err)
		return fallback
	}
	return script
}

func (g *Generator) produceArtifacts(ctx context.Context, cfg model.VideoConfig, video *model.GeneratedVideo) {
	if g.opts.Renderer == nil {
		return
	}

	sess := newSession(g.opts.OutputDir, g.now())
	if err := sess.finalize(video.Title); err != nil {
		slog.Warn("Failed to create session directory", "error", err)
		return
	}

	var captions []CaptionCue
	if video.Narration != "" {
		captions = BuildCaptions(video.Narration, float64(cfg.Duration), defaultWordsPerCue)
		g.writeNarration(sess, video.Narration, captions)
	}

	imageURL := ""
	if len(cfg.Articles) > 0 {
		imageURL = cfg.Articles[0].ImageURL
	}

	result, err := g.opts.Renderer.Render(ctx, RenderRequest{
		Dir:               sess.dir,
		FramePath:         sess.framePath(),
		ClipPath:          sess.clipPath(),
		Title:             video.Title,
		ImageURL:          imageURL,
		IncludeBackground: cfg.IncludeBackground,
		Captions:          captions,
		Duration:          cfg.Duration,
	})
	if err != nil {
		slog.Warn("Rendering incomplete", "dir", sess.dir, "error", err)
	}
	if result != nil {
		video.FramePath = result.FramePath
		video.ClipPath = result.ClipPath
		if result.ClipPath != "" {
			video.VideoURL = fileURL(result.ClipPath)
		}
	}

	g.upload(ctx, sess, video)

	if err := writeMetadata(sess.metadataPath(), video); err != nil {
		slog.Warn("Failed to write video record", "error", err)
	}
}

func (g *Generator) writeNarration(sess *session, narration string, captions []CaptionCue) {
	if err := os.WriteFile(sess.narrationPath(), []byte(narration+"\n"), 0644); err != nil {
		slog.Warn("Failed to write narration", "error", err)
	}
	if err := os.WriteFile(sess.captionsPath(), []byte(ToSRT(captions)), 0644); err != nil {
		slog.Warn("Failed to write captions", "error", err)
	}
}

func (g *Generator) upload(ctx context.Context, sess *session, video *model.GeneratedVideo) {
	if g.opts.Store == nil {
		return
	}

	if video.ClipPath != "" {
		url, err := g.opts.Store.Upload(ctx, video.ClipPath, sess.name()+"/"+filepath.Base(video.ClipPath))
		if err != nil {
			slog.Warn("Clip upload failed", "error", err)
		} else {
			video.VideoURL = url
		}
	}

	if video.FramePath != "" {
		url, err := g.opts.Store.Upload(ctx, video.FramePath, sess.name()+"/"+filepath.Base(video.FramePath))
		if err != nil {
			slog.Warn("Frame upload failed", "error", err)
		} else {
			video.ThumbnailURL = url
		}
	}
}

func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}
