package distribution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cryptocast/internal/app/model"
)

const scheduleDelay = time.Second

var publishDelays = map[model.Platform]time.Duration{
	model.PlatformTwitter:   1500 * time.Millisecond,
	model.PlatformYouTube:   2000 * time.Millisecond,
	model.PlatformInstagram: 1800 * time.Millisecond,
}

var postURLFormats = map[model.Platform]string{
	model.PlatformTwitter:   "https://twitter.com/i/web/status/%s",
	model.PlatformYouTube:   "https://youtube.com/watch?v=%s",
	model.PlatformInstagram: "https://instagram.com/p/%s",
}

// SimulatedPublisher reports success after the platform's usual latency.
type SimulatedPublisher struct {
	platform model.Platform
	delay    time.Duration
}

func NewSimulatedPublisher(platform model.Platform, scale float64) *SimulatedPublisher {
	return &SimulatedPublisher{
		platform: platform,
		delay:    scaled(publishDelays[platform], scale),
	}
}

func (p *SimulatedPublisher) Platform() model.Platform {
	return p.platform
}

func (p *SimulatedPublisher) Publish(ctx context.Context, req PostRequest) (*model.SocialPostResult, error) {
	if err := sleep(ctx, p.delay); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	slog.Debug("Simulated post", "platform", p.platform, "video", req.Video.ID, "text", ComposeText(req.Caption, req.Hashtags))
	return &model.SocialPostResult{
		Success: true,
		Message: fmt.Sprintf("Posted to %s", PlatformName(p.platform)),
		PostID:  id,
		PostURL: fmt.Sprintf(postURLFormats[p.platform], id),
	}, nil
}

type SimulatedScheduler struct {
	delay time.Duration
}

func NewSimulatedScheduler(scale float64) *SimulatedScheduler {
	return &SimulatedScheduler{delay: scaled(scheduleDelay, scale)}
}

func (s *SimulatedScheduler) Schedule(ctx context.Context, cfg model.SocialPostConfig) (*model.SocialPostResult, error) {
	if err := sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	when := ""
	if cfg.ScheduledTime != nil {
		when = cfg.ScheduledTime.Local().Format("Jan 2 15:04")
	}
	return &model.SocialPostResult{
		Success: true,
		Message: fmt.Sprintf("Scheduled for %s at %s", PlatformName(cfg.Platform), when),
		PostID:  uuid.NewString(),
	}, nil
}

func scaled(d time.Duration, scale float64) time.Duration {
	if scale <= 0 {
		return 0
	}
	return time.Duration(float64(d) * scale)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
