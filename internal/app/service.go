package app

import (
	"context"
	"errors"
	"log/slog"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution/schedule"
	"cryptocast/internal/llm"
	"cryptocast/internal/news"
	"cryptocast/internal/video"
	"cryptocast/pkg/config"
)

type Service struct {
	cfg       *config.Config
	news      *news.Loader
	generator *video.Generator
	poster    *Poster
	llm       llm.Client
	schedules *schedule.Log
	session   *Session
	closers   []func() error
}

type ServiceOptions struct {
	Config    *config.Config
	News      *news.Loader
	Generator *video.Generator
	Poster    *Poster
	LLM       llm.Client
	Schedules *schedule.Log
	Closers   []func() error
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:       opts.Config,
		news:      opts.News,
		generator: opts.Generator,
		poster:    opts.Poster,
		llm:       opts.LLM,
		schedules: opts.Schedules,
		session:   NewSession(),
		closers:   opts.Closers,
	}
}

func (s *Service) Config() *config.Config   { return s.cfg }
func (s *Service) LLM() llm.Client          { return s.llm }
func (s *Service) Schedules() *schedule.Log { return s.schedules }
func (s *Service) Session() *Session        { return s.session }
func (s *Service) State() State             { return s.session.State() }

// LoadNews refreshes the article list. It never fails.
func (s *Service) LoadNews(ctx context.Context) []model.NewsArticle {
	articles := s.news.Load(ctx)
	s.session.Dispatch(ArticlesLoaded{Articles: articles})
	return articles
}

// Generate renders a video and records it as the current one unless a newer
// generation was requested in the meantime.
func (s *Service) Generate(ctx context.Context, cfg model.VideoConfig) (*model.GeneratedVideo, error) {
	seq := s.session.Dispatch(GenerationRequested{}).GenerationSeq

	generated, err := s.generator.Generate(ctx, cfg)
	state := s.session.Dispatch(VideoGenerated{Seq: seq, Video: generated, Err: err})
	if err == nil && state.GenerationSeq != seq {
		slog.Info("Discarding superseded video", "id", generated.ID, "seq", seq, "current", state.GenerationSeq)
	}
	return generated, err
}

// UseVideo makes a previously generated video the current one.
func (s *Service) UseVideo(v *model.GeneratedVideo) {
	seq := s.session.Dispatch(GenerationRequested{}).GenerationSeq
	s.session.Dispatch(VideoGenerated{Seq: seq, Video: v})
}

// ApplyDefaults fills the style and duration left empty by a caller.
func (s *Service) ApplyDefaults(cfg model.VideoConfig) model.VideoConfig {
	if cfg.Style == "" {
		cfg.Style = model.Style(s.cfg.Video.Style)
	}
	if cfg.Duration == 0 {
		cfg.Duration = s.cfg.Video.Duration
	}
	return cfg
}

// PostNow publishes the current video.
func (s *Service) PostNow(ctx context.Context, opts PostOptions) (*PostReport, error) {
	plan, err := s.poster.planPost(s.session.State().Video, opts)
	if err != nil {
		return nil, err
	}
	return s.runPost(ctx, plan)
}

// Schedule queues the current video.
func (s *Service) Schedule(ctx context.Context, opts ScheduleOptions) (*PostReport, error) {
	plan, err := s.poster.planSchedule(s.session.State().Video, opts)
	if err != nil {
		return nil, err
	}
	return s.runPost(ctx, plan)
}

func (s *Service) runPost(ctx context.Context, plan *postPlan) (*PostReport, error) {
	if !s.session.startPost() {
		return nil, ErrPostInFlight
	}
	report := s.poster.run(ctx, plan)
	s.session.Dispatch(PostFinished{Report: report})
	return report, nil
}

// SuggestCaption asks the language model for a caption and falls back to
// the default caption.
func (s *Service) SuggestCaption(ctx context.Context, v *model.GeneratedVideo) string {
	if v == nil {
		return ""
	}
	if s.llm == nil {
		return DefaultCaption(v)
	}
	caption, err := s.llm.GenerateCaption(ctx, v.Title, v.Description)
	if err != nil {
		slog.Warn("Caption generation failed, using default", "error", err)
		return DefaultCaption(v)
	}
	return caption
}

func (s *Service) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}
