package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath       = "config.yaml"
	defaultNewsProvider     = "cryptocompare"
	defaultNewsBaseURL      = "https://min-api.cryptocompare.com"
	defaultNewsCategories   = "BTC,ETH,Cryptocurrency,Blockchain"
	defaultNewsLanguage     = "EN"
	defaultNewsTimeout      = 15 * time.Second
	defaultOutputDir        = "./output"
	defaultBackgroundDir    = "./assets/backgrounds"
	defaultCacheDir         = "./.cache"
	defaultWidth            = 1280
	defaultHeight           = 720
	defaultDuration         = 60
	defaultStyle            = "professional"
	defaultClipSeconds      = 3
	defaultClipFPS          = 10
	defaultProcessingDelay  = 50 * time.Millisecond
	defaultSocialMode       = ModeSimulate
	defaultTwitterBaseURL   = "https://api.twitter.com"
	defaultTwitterUploadURL = "https://upload.twitter.com"
	defaultInstagramBaseURL = "https://graph.facebook.com/v19.0"
	defaultSchedulerURL     = "https://scheduler.example.com/api/v1"
	defaultDelayScale       = 1.0
	defaultPrivacyStatus    = "private"
	defaultTokenPath        = "./youtube_token.json"
	defaultScheduleLogDir   = "./output"
	defaultGroqModel        = "llama-3.3-70b-versatile"
	defaultGCSPrefix        = "videos"
	defaultGCSBackgroundDir = "backgrounds"
	defaultServerAddr       = ":8080"
	defaultShutdownTimeout  = 10 * time.Second
	mockTwitterToken        = "mock-twitter-bearer-token"
	mockInstagramToken      = "mock-instagram-access-token"
	mockInstagramAccountID  = "mock-instagram-account"
	mockSchedulerToken      = "mock-scheduler-token"
	envGCPProject           = "GOOGLE_CLOUD_PROJECT"
	envTwitterToken         = "TWITTER_BEARER_TOKEN"
	envInstagramToken       = "INSTAGRAM_ACCESS_TOKEN"
	envInstagramAccountID   = "INSTAGRAM_ACCOUNT_ID"
	envSchedulerToken       = "SCHEDULER_API_TOKEN"
	envGroqAPIKey           = "GROQ_API_KEY"
	envYouTubeClientID      = "YOUTUBE_CLIENT_ID"
	envYouTubeClientSecret  = "YOUTUBE_CLIENT_SECRET"
	envYouTubeTokenPath     = "YOUTUBE_TOKEN_PATH"
	envGCSBucket            = "GCS_BUCKET"
)

const (
	ModeSimulate = "simulate"
	ModeLive     = "live"
)

type Config struct {
	GCPProject          string `yaml:"-"`
	TwitterToken        string `yaml:"-"`
	InstagramToken      string `yaml:"-"`
	InstagramAccountID  string `yaml:"-"`
	SchedulerToken      string `yaml:"-"`
	GroqAPIKey          string `yaml:"-"`
	YouTubeClientID     string `yaml:"-"`
	YouTubeClientSecret string `yaml:"-"`
	YouTubeTokenPath    string `yaml:"-"`
	GCSBucket           string `yaml:"-"`

	News    NewsConfig    `yaml:"news"`
	Video   VideoConfig   `yaml:"video"`
	Social  SocialConfig  `yaml:"social"`
	YouTube YouTubeConfig `yaml:"youtube"`
	Groq    GroqConfig    `yaml:"groq"`
	GCS     GCSConfig     `yaml:"gcs"`
	Secrets SecretsConfig `yaml:"secrets"`
	Server  ServerConfig  `yaml:"server"`
}

type FeedConfig struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type NewsConfig struct {
	Provider   string        `yaml:"provider"` // "cryptocompare" or "rss"
	BaseURL    string        `yaml:"base_url"`
	Categories string        `yaml:"categories"`
	Language   string        `yaml:"language"`
	Timeout    time.Duration `yaml:"timeout"`
	Feeds      []FeedConfig  `yaml:"feeds"`
}

type VideoConfig struct {
	OutputDir       string        `yaml:"output_dir"`
	BackgroundDir   string        `yaml:"background_dir"`
	CacheDir        string        `yaml:"cache_dir"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	Duration        int           `yaml:"duration"`
	Style           string        `yaml:"style"`
	ClipSeconds     int           `yaml:"clip_seconds"`
	ClipFPS         int           `yaml:"clip_fps"`
	ProcessingDelay time.Duration `yaml:"processing_delay_per_second"`
}

type SocialConfig struct {
	Mode             string  `yaml:"mode"` // "simulate" or "live"
	TwitterBaseURL   string  `yaml:"twitter_base_url"`
	TwitterUploadURL string  `yaml:"twitter_upload_url"`
	InstagramBaseURL string  `yaml:"instagram_base_url"`
	SchedulerURL     string  `yaml:"scheduler_url"`
	DelayScale       float64 `yaml:"delay_scale"`
	ScheduleLogDir   string  `yaml:"schedule_log_dir"`
}

type YouTubeConfig struct {
	DefaultTags   []string `yaml:"default_tags"`
	PrivacyStatus string   `yaml:"privacy_status"`
}

type GroqConfig struct {
	Model string `yaml:"model"`
}

type GCSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Prefix        string `yaml:"prefix"`
	BackgroundDir string `yaml:"background_dir"`
}

// SecretsConfig names Secret Manager secrets used when a credential is not
// present in the environment.
type SecretsConfig struct {
	TwitterToken       string `yaml:"twitter_token"`
	InstagramToken     string `yaml:"instagram_token"`
	InstagramAccountID string `yaml:"instagram_account_id"`
	SchedulerToken     string `yaml:"scheduler_token"`
	GroqAPIKey         string `yaml:"groq_api_key"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func (c *Config) IsLive() bool {
	return c.Social.Mode == ModeLive
}

// MockCredentials names the platform credentials still carrying mock values.
func (c *Config) MockCredentials() []string {
	var mocked []string
	for _, cred := range []struct {
		name, value, mock string
	}{
		{envTwitterToken, c.TwitterToken, mockTwitterToken},
		{envInstagramToken, c.InstagramToken, mockInstagramToken},
		{envInstagramAccountID, c.InstagramAccountID, mockInstagramAccountID},
		{envSchedulerToken, c.SchedulerToken, mockSchedulerToken},
	} {
		if cred.value == cred.mock {
			mocked = append(mocked, cred.name)
		}
	}
	return mocked
}

func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, defaultConfigPath)
}

func LoadFrom(ctx context.Context, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GCPProject:          os.Getenv(envGCPProject),
		TwitterToken:        os.Getenv(envTwitterToken),
		InstagramToken:      os.Getenv(envInstagramToken),
		InstagramAccountID:  os.Getenv(envInstagramAccountID),
		SchedulerToken:      os.Getenv(envSchedulerToken),
		GroqAPIKey:          os.Getenv(envGroqAPIKey),
		YouTubeClientID:     os.Getenv(envYouTubeClientID),
		YouTubeClientSecret: os.Getenv(envYouTubeClientSecret),
		YouTubeTokenPath:    getEnvOrDefault(envYouTubeTokenPath, defaultTokenPath),
		GCSBucket:           os.Getenv(envGCSBucket),
	}

	if err := loadYAMLConfig(cfg, path); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if cfg.GCPProject != "" && cfg.Secrets.any() {
		accessor, err := newSecretManagerAccessor(ctx)
		if err != nil {
			slog.Warn("Secret Manager unavailable, skipping secret resolution", "error", err)
		} else {
			defer func() { _ = accessor.Close() }()
			resolveSecrets(ctx, cfg, accessor)
		}
	}

	applyMockCredentials(cfg)

	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("No config file found, using defaults", "path", path)
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	switch cfg.Social.Mode {
	case ModeSimulate, ModeLive:
	default:
		return fmt.Errorf("social.mode must be %q or %q, got %q", ModeSimulate, ModeLive, cfg.Social.Mode)
	}

	switch cfg.News.Provider {
	case "cryptocompare":
	case "rss":
		if len(cfg.News.Feeds) == 0 {
			return errors.New("news.provider rss requires at least one entry in news.feeds")
		}
	default:
		return fmt.Errorf("unknown news.provider %q", cfg.News.Provider)
	}

	if cfg.GCS.Enabled && cfg.GCSBucket == "" {
		return errors.New("gcs.enabled requires GCS_BUCKET")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyNewsDefaults(cfg)
	applyVideoDefaults(cfg)
	applySocialDefaults(cfg)
	applyYouTubeDefaults(cfg)
	applyGroqDefaults(cfg)
	applyGCSDefaults(cfg)
	applyServerDefaults(cfg)
}

func applyNewsDefaults(cfg *Config) {
	if cfg.News.Provider == "" {
		cfg.News.Provider = defaultNewsProvider
	}
	if cfg.News.BaseURL == "" {
		cfg.News.BaseURL = defaultNewsBaseURL
	}
	if cfg.News.Categories == "" {
		cfg.News.Categories = defaultNewsCategories
	}
	if cfg.News.Language == "" {
		cfg.News.Language = defaultNewsLanguage
	}
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = defaultNewsTimeout
	}
}

func applyVideoDefaults(cfg *Config) {
	if cfg.Video.OutputDir == "" {
		cfg.Video.OutputDir = defaultOutputDir
	}
	if cfg.Video.BackgroundDir == "" {
		cfg.Video.BackgroundDir = defaultBackgroundDir
	}
	if cfg.Video.CacheDir == "" {
		cfg.Video.CacheDir = defaultCacheDir
	}
	if cfg.Video.Width == 0 {
		cfg.Video.Width = defaultWidth
	}
	if cfg.Video.Height == 0 {
		cfg.Video.Height = defaultHeight
	}
	if cfg.Video.Duration == 0 {
		cfg.Video.Duration = defaultDuration
	}
	if cfg.Video.Style == "" {
		cfg.Video.Style = defaultStyle
	}
	if cfg.Video.ClipSeconds == 0 {
		cfg.Video.ClipSeconds = defaultClipSeconds
	}
	if cfg.Video.ClipFPS == 0 {
		cfg.Video.ClipFPS = defaultClipFPS
	}
	if cfg.Video.ProcessingDelay == 0 {
		cfg.Video.ProcessingDelay = defaultProcessingDelay
	}
}

func applySocialDefaults(cfg *Config) {
	if cfg.Social.Mode == "" {
		cfg.Social.Mode = defaultSocialMode
	}
	if cfg.Social.TwitterBaseURL == "" {
		cfg.Social.TwitterBaseURL = defaultTwitterBaseURL
	}
	if cfg.Social.TwitterUploadURL == "" {
		cfg.Social.TwitterUploadURL = defaultTwitterUploadURL
	}
	if cfg.Social.InstagramBaseURL == "" {
		cfg.Social.InstagramBaseURL = defaultInstagramBaseURL
	}
	if cfg.Social.SchedulerURL == "" {
		cfg.Social.SchedulerURL = defaultSchedulerURL
	}
	if cfg.Social.DelayScale == 0 {
		cfg.Social.DelayScale = defaultDelayScale
	}
	if cfg.Social.ScheduleLogDir == "" {
		cfg.Social.ScheduleLogDir = defaultScheduleLogDir
	}
}

func applyYouTubeDefaults(cfg *Config) {
	if len(cfg.YouTube.DefaultTags) == 0 {
		cfg.YouTube.DefaultTags = []string{"crypto", "news"}
	}
	if cfg.YouTube.PrivacyStatus == "" {
		cfg.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
}

func applyGroqDefaults(cfg *Config) {
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = defaultGroqModel
	}
}

func applyGCSDefaults(cfg *Config) {
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
	if cfg.GCS.BackgroundDir == "" {
		cfg.GCS.BackgroundDir = defaultGCSBackgroundDir
	}
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultServerAddr
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
}

// applyMockCredentials fills credentials that are still unset so stub
// platform calls always carry a token.
func applyMockCredentials(cfg *Config) {
	if cfg.TwitterToken == "" {
		cfg.TwitterToken = mockTwitterToken
	}
	if cfg.InstagramToken == "" {
		cfg.InstagramToken = mockInstagramToken
	}
	if cfg.InstagramAccountID == "" {
		cfg.InstagramAccountID = mockInstagramAccountID
	}
	if cfg.SchedulerToken == "" {
		cfg.SchedulerToken = mockSchedulerToken
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
