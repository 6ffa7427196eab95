package app

import (
	"context"
	"log/slog"
	"net/http"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
	"cryptocast/internal/distribution/instagram"
	"cryptocast/internal/distribution/schedule"
	"cryptocast/internal/distribution/twitter"
	"cryptocast/internal/distribution/youtube"
	"cryptocast/internal/llm"
	"cryptocast/internal/news"
	"cryptocast/internal/storage"
	"cryptocast/internal/video"
	"cryptocast/pkg/config"
	"cryptocast/pkg/httputil"
	"cryptocast/pkg/prompts"
)

func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	var llmClient llm.Client
	if cfg.GroqAPIKey != "" {
		groqClient, err := llm.NewGroqClient(cfg.GroqAPIKey, cfg.Groq.Model, p)
		if err != nil {
			return nil, err
		}
		llmClient = groqClient
	} else {
		slog.Debug("No Groq API key, narration uses templates")
	}

	localStorage := storage.NewLocalStorage(cfg.Video.BackgroundDir, cfg.Video.OutputDir)
	if err := localStorage.EnsureDirectories(); err != nil {
		return nil, err
	}

	var (
		backgrounds storage.BackgroundProvider = localStorage
		store       storage.ArtifactStore
		closers     []func() error
	)
	if cfg.GCS.Enabled {
		gcs, err := storage.NewGCSStorage(ctx, storage.GCSOptions{
			Bucket:        cfg.GCSBucket,
			Prefix:        cfg.GCS.Prefix,
			BackgroundDir: cfg.GCS.BackgroundDir,
			CacheDir:      cfg.Video.CacheDir,
		})
		if err != nil {
			return nil, err
		}
		if err := gcs.EnsureCacheDir(); err != nil {
			_ = gcs.Close()
			return nil, err
		}
		backgrounds = gcs
		store = gcs
		closers = append(closers, gcs.Close)
	}

	httpClient := httputil.NewRetryClient(&http.Client{Timeout: cfg.News.Timeout}, httputil.DefaultRetryConfig())

	renderer := video.NewRenderer(video.RendererOptions{
		Width:       cfg.Video.Width,
		Height:      cfg.Video.Height,
		ClipSeconds: cfg.Video.ClipSeconds,
		ClipFPS:     cfg.Video.ClipFPS,
		HTTPClient:  httpClient,
		Backgrounds: backgrounds,
	})

	generator := video.NewGenerator(video.Options{
		OutputDir:       cfg.Video.OutputDir,
		ProcessingDelay: cfg.Video.ProcessingDelay,
		Renderer:        renderer,
		Narrator:        llmClient,
		Store:           store,
	})

	schedules := schedule.NewLog(cfg.Social.ScheduleLogDir)
	publishers, scheduler := buildDistribution(cfg, httpClient)

	return NewService(ServiceOptions{
		Config:    cfg,
		News:      news.NewLoader(buildNewsSource(cfg)),
		Generator: generator,
		Poster:    NewPoster(publishers, schedule.NewRecorder(scheduler, schedules)),
		LLM:       llmClient,
		Schedules: schedules,
		Closers:   closers,
	}), nil
}

func buildNewsSource(cfg *config.Config) news.Source {
	if cfg.News.Provider == "rss" {
		feeds := make([]news.Feed, 0, len(cfg.News.Feeds))
		for _, f := range cfg.News.Feeds {
			feeds = append(feeds, news.Feed{URL: f.URL, Name: f.Name})
		}
		return news.NewFeedSource(feeds, cfg.News.Timeout)
	}

	return news.NewCryptoCompareSource(news.CryptoCompareConfig{
		BaseURL:    cfg.News.BaseURL,
		Language:   cfg.News.Language,
		Categories: cfg.News.Categories,
		Timeout:    cfg.News.Timeout,
	})
}

func buildDistribution(cfg *config.Config, httpClient httputil.Doer) ([]distribution.Publisher, distribution.Scheduler) {
	if !cfg.IsLive() {
		var publishers []distribution.Publisher
		for _, p := range model.Platforms {
			publishers = append(publishers, distribution.NewSimulatedPublisher(p, cfg.Social.DelayScale))
		}
		return publishers, distribution.NewSimulatedScheduler(cfg.Social.DelayScale)
	}

	publishers := []distribution.Publisher{
		twitter.NewClient(twitter.Options{
			HTTPClient: httpClient,
			BaseURL:    cfg.Social.TwitterBaseURL,
			UploadURL:  cfg.Social.TwitterUploadURL,
			Token:      cfg.TwitterToken,
		}),
		instagram.NewClient(instagram.Options{
			HTTPClient: httpClient,
			BaseURL:    cfg.Social.InstagramBaseURL,
			Token:      cfg.InstagramToken,
			AccountID:  cfg.InstagramAccountID,
		}),
	}

	if yt := NewYouTubeClient(cfg); yt != nil {
		publishers = append(publishers, yt)
	} else {
		slog.Warn("YouTube credentials missing, simulating YouTube posts")
		publishers = append(publishers, distribution.NewSimulatedPublisher(model.PlatformYouTube, cfg.Social.DelayScale))
	}

	scheduler := schedule.NewClient(schedule.Options{
		HTTPClient: httpClient,
		BaseURL:    cfg.Social.SchedulerURL,
		Token:      cfg.SchedulerToken,
	})
	return publishers, scheduler
}

// NewYouTubeClient returns nil when no OAuth client is configured.
func NewYouTubeClient(cfg *config.Config) *youtube.Client {
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return nil
	}
	auth := youtube.NewAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	return youtube.NewClient(auth, cfg.YouTube.PrivacyStatus, cfg.YouTube.DefaultTags)
}
