package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution"
)

const (
	clockLayout     = "15:04"
	defaultClock    = "12:00"
	scheduleDisplay = "Jan 2 15:04"
)

var (
	ErrNoVideo      = errors.New("generate a video first")
	ErrNoPlatforms  = errors.New("select at least one platform")
	ErrNoDate       = errors.New("select a date to schedule")
	ErrInvalidClock = errors.New("time must be HH:MM")
	ErrPastSchedule = errors.New("scheduled time must be in the future")
	ErrPostInFlight = errors.New("a post is already in progress")
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

type PostOptions struct {
	Platforms []model.Platform
	Caption   string
	Hashtags  []string
}

type ScheduleOptions struct {
	Platforms []model.Platform
	// Date supplies the calendar day; its clock is ignored.
	Date time.Time
	// Clock is "HH:MM" in local time. Empty means noon.
	Clock    string
	Caption  string
	Hashtags []string
}

type PlatformResult struct {
	Platform model.Platform          `json:"platform"`
	Result   *model.SocialPostResult `json:"result"`
}

// PostReport aggregates one post or schedule attempt across platforms.
type PostReport struct {
	VideoID   string           `json:"video_id"`
	Scheduled bool             `json:"scheduled"`
	At        *time.Time       `json:"scheduled_time,omitempty"`
	Outcome   Outcome          `json:"outcome"`
	Message   string           `json:"message"`
	Results   []PlatformResult `json:"results"`
}

// Succeeded lists the platforms whose call succeeded.
func (r *PostReport) Succeeded() []model.Platform {
	var platforms []model.Platform
	for _, pr := range r.Results {
		if pr.Result != nil && pr.Result.Success {
			platforms = append(platforms, pr.Platform)
		}
	}
	return platforms
}

// Poster fans a video out to every requested platform.
type Poster struct {
	publishers map[model.Platform]distribution.Publisher
	scheduler  distribution.Scheduler
	now        func() time.Time
}

func NewPoster(publishers []distribution.Publisher, scheduler distribution.Scheduler) *Poster {
	byPlatform := make(map[model.Platform]distribution.Publisher, len(publishers))
	for _, p := range publishers {
		byPlatform[p.Platform()] = p
	}
	return &Poster{
		publishers: byPlatform,
		scheduler:  scheduler,
		now:        time.Now,
	}
}

type postPlan struct {
	video     *model.GeneratedVideo
	platforms []model.Platform
	caption   string
	hashtags  []string
	at        *time.Time
}

// PostNow publishes to every platform concurrently. Validation errors are
// returned before any platform is contacted; platform failures become
// failed entries in the report.
func (p *Poster) PostNow(ctx context.Context, video *model.GeneratedVideo, opts PostOptions) (*PostReport, error) {
	plan, err := p.planPost(video, opts)
	if err != nil {
		return nil, err
	}
	return p.run(ctx, plan), nil
}

// Schedule queues the video on every platform for the same instant.
func (p *Poster) Schedule(ctx context.Context, video *model.GeneratedVideo, opts ScheduleOptions) (*PostReport, error) {
	plan, err := p.planSchedule(video, opts)
	if err != nil {
		return nil, err
	}
	return p.run(ctx, plan), nil
}

func (p *Poster) planPost(video *model.GeneratedVideo, opts PostOptions) (*postPlan, error) {
	if video == nil {
		return nil, ErrNoVideo
	}
	platforms := normalizePlatforms(opts.Platforms)
	if len(platforms) == 0 {
		return nil, ErrNoPlatforms
	}
	return &postPlan{
		video:     video,
		platforms: platforms,
		caption:   captionOrDefault(opts.Caption, video),
		hashtags:  hashtagsOrDefault(opts.Hashtags, video),
	}, nil
}

func (p *Poster) planSchedule(video *model.GeneratedVideo, opts ScheduleOptions) (*postPlan, error) {
	if video == nil {
		return nil, ErrNoVideo
	}
	platforms := normalizePlatforms(opts.Platforms)
	if len(platforms) == 0 {
		return nil, ErrNoPlatforms
	}
	if opts.Date.IsZero() {
		return nil, ErrNoDate
	}

	at, err := CombineDateClock(opts.Date, opts.Clock, time.Local)
	if err != nil {
		return nil, err
	}
	if !at.After(p.now()) {
		return nil, ErrPastSchedule
	}

	return &postPlan{
		video:     video,
		platforms: platforms,
		caption:   captionOrDefault(opts.Caption, video),
		hashtags:  hashtagsOrDefault(opts.Hashtags, video),
		at:        &at,
	}, nil
}

func (p *Poster) run(ctx context.Context, plan *postPlan) *PostReport {
	results := make([]PlatformResult, len(plan.platforms))

	// Plain group: one platform failing must not cancel the others.
	var g errgroup.Group
	for i, platform := range plan.platforms {
		g.Go(func() error {
			result, err := p.call(ctx, plan, platform)
			if err != nil {
				slog.Warn("Platform call failed", "platform", platform, "scheduled", plan.at != nil, "error", err)
				result = &model.SocialPostResult{Success: false, Message: err.Error()}
			}
			results[i] = PlatformResult{Platform: platform, Result: result}
			return nil
		})
	}
	_ = g.Wait()

	report := &PostReport{
		VideoID:   plan.video.ID,
		Scheduled: plan.at != nil,
		At:        plan.at,
		Results:   results,
	}
	report.Outcome, report.Message = summarize(report)
	slog.Info("Post attempt finished", "video", plan.video.ID, "outcome", report.Outcome, "scheduled", report.Scheduled)
	return report
}

func (p *Poster) call(ctx context.Context, plan *postPlan, platform model.Platform) (*model.SocialPostResult, error) {
	if plan.at != nil {
		if p.scheduler == nil {
			return nil, fmt.Errorf("no scheduler configured")
		}
		return p.scheduler.Schedule(ctx, model.SocialPostConfig{
			Platform:      platform,
			ScheduledTime: plan.at,
			Caption:       plan.caption,
			Hashtags:      plan.hashtags,
			VideoID:       plan.video.ID,
		})
	}

	publisher, ok := p.publishers[platform]
	if !ok {
		return nil, fmt.Errorf("%s is not configured", distribution.PlatformName(platform))
	}
	return publisher.Publish(ctx, distribution.PostRequest{
		Video:    plan.video,
		Caption:  plan.caption,
		Hashtags: plan.hashtags,
	})
}

func summarize(r *PostReport) (Outcome, string) {
	var ok, failed []string
	for _, pr := range r.Results {
		name := distribution.PlatformName(pr.Platform)
		if pr.Result != nil && pr.Result.Success {
			ok = append(ok, name)
		} else {
			failed = append(failed, name)
		}
	}

	verb := "Posted to"
	if r.Scheduled {
		verb = "Scheduled on"
	}
	suffix := ""
	if r.At != nil {
		suffix = " for " + r.At.Local().Format(scheduleDisplay)
	}

	switch {
	case len(failed) == 0:
		return OutcomeSuccess, fmt.Sprintf("%s %s%s", verb, strings.Join(ok, ", "), suffix)
	case len(ok) == 0:
		return OutcomeFailed, fmt.Sprintf("Failed on %s", strings.Join(failed, ", "))
	}
	return OutcomePartial, fmt.Sprintf("%s %s%s; failed on %s", verb, strings.Join(ok, ", "), suffix, strings.Join(failed, ", "))
}

// CombineDateClock returns the instant at clock ("HH:MM") on date's
// calendar day in loc.
func CombineDateClock(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	if clock == "" {
		clock = defaultClock
	}
	t, err := time.Parse(clockLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
}

// normalizePlatforms drops duplicates and returns platforms in display order.
func normalizePlatforms(requested []model.Platform) []model.Platform {
	var platforms []model.Platform
	for _, p := range model.Platforms {
		if slices.Contains(requested, p) {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// EnabledPlatforms converts per-platform toggles into a platform list.
func EnabledPlatforms(enabled map[model.Platform]bool) []model.Platform {
	var platforms []model.Platform
	for _, p := range model.Platforms {
		if enabled[p] {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

func captionOrDefault(caption string, video *model.GeneratedVideo) string {
	if strings.TrimSpace(caption) != "" {
		return caption
	}
	return DefaultCaption(video)
}

func DefaultCaption(video *model.GeneratedVideo) string {
	return video.Title + "\n\n" + video.Description
}

// hashtagsOrDefault returns the caller's tags without duplicates, keeping
// their order, or the video's tags when none were given.
func hashtagsOrDefault(tags []string, video *model.GeneratedVideo) []string {
	seen := make(map[string]bool, len(tags))
	unique := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, tag)
	}
	if len(unique) > 0 {
		return unique
	}
	return video.Hashtags
}
