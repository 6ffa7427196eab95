package server

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"cryptocast/internal/app"
	"cryptocast/internal/app/model"
	"cryptocast/internal/distribution/schedule"
	"cryptocast/internal/news"
	"cryptocast/internal/video"
)

const dateLayout = "2006-01-02"

type selectionRequest struct {
	IDs []string `json:"ids" validate:"dive,required"`
}

type generateRequest struct {
	Title             string   `json:"title" validate:"max=200"`
	Description       string   `json:"description" validate:"max=2000"`
	Style             string   `json:"style" validate:"omitempty,oneof=professional casual dramatic"`
	Duration          int      `json:"duration" validate:"omitempty,gt=0,lte=600"`
	IncludeVoiceover  bool     `json:"include_voiceover"`
	IncludeBackground bool     `json:"include_background"`
	CustomIntro       string   `json:"custom_intro" validate:"max=500"`
	CustomOutro       string   `json:"custom_outro" validate:"max=500"`
	ArticleIDs        []string `json:"article_ids"`
}

type postRequest struct {
	Platforms []model.Platform `json:"platforms" validate:"dive,oneof=twitter youtube instagram"`
	Caption   string           `json:"caption" validate:"max=2200"`
	Hashtags  []string         `json:"hashtags"`
}

type scheduleRequest struct {
	postRequest
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time string `json:"time" validate:"omitempty,datetime=15:04"`
}

func (s *Server) health(c *fiber.Ctx) error {
	cfg := s.svc.Config()
	return c.JSON(fiber.Map{
		"status": "ok",
		"mode":   cfg.Social.Mode,
		"news":   cfg.News.Provider,
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *Server) state(c *fiber.Ctx) error {
	return c.JSON(s.svc.State())
}

func (s *Server) listNews(c *fiber.Ctx) error {
	articles := s.svc.State().Articles
	if len(articles) == 0 || c.QueryBool("refresh") {
		articles = s.svc.LoadNews(c.UserContext())
	}
	return c.JSON(fiber.Map{
		"total": len(articles),
		"items": articles,
	})
}

func (s *Server) getSelection(c *fiber.Ctx) error {
	return c.JSON(selectionResponse(s.svc.State()))
}

func (s *Server) setSelection(c *fiber.Ctx) error {
	req := body[selectionRequest](c)
	state := s.svc.Session().Dispatch(app.SelectionSet{IDs: req.IDs})
	return c.JSON(selectionResponse(state))
}

func (s *Server) toggleArticle(c *fiber.Ctx) error {
	id := c.Params("id")
	if !articleExists(s.svc.State().Articles, id) {
		return fiber.NewError(fiber.StatusNotFound, "Article not found")
	}
	state := s.svc.Session().Dispatch(app.ArticleToggled{ID: id})
	return c.JSON(selectionResponse(state))
}

func selectionResponse(state app.State) fiber.Map {
	ids := state.Selected
	if ids == nil {
		ids = []string{}
	}
	return fiber.Map{
		"ids":      ids,
		"articles": state.SelectedArticles(),
	}
}

func (s *Server) generateVideo(c *fiber.Ctx) error {
	req := body[generateRequest](c)

	state := s.svc.State()
	articles := state.SelectedArticles()
	if len(req.ArticleIDs) > 0 {
		articles = news.Select(state.Articles, req.ArticleIDs)
	}

	cfg := s.svc.ApplyDefaults(model.VideoConfig{
		Title:             req.Title,
		Description:       req.Description,
		Articles:          articles,
		Style:             model.Style(req.Style),
		Duration:          req.Duration,
		IncludeVoiceover:  req.IncludeVoiceover,
		IncludeBackground: req.IncludeBackground,
		CustomIntro:       req.CustomIntro,
		CustomOutro:       req.CustomOutro,
	})

	generated, err := s.svc.Generate(c.UserContext(), cfg)
	if err != nil {
		return mapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(generated)
}

func (s *Server) currentVideo(c *fiber.Ctx) error {
	current := s.svc.State().Video
	if current == nil {
		return fiber.NewError(fiber.StatusNotFound, app.ErrNoVideo.Error())
	}
	return c.JSON(current)
}

// downloadVideo sends the rendered clip, or the still frame when no clip
// was produced.
func (s *Server) downloadVideo(c *fiber.Ctx) error {
	current := s.svc.State().Video
	if current == nil {
		return fiber.NewError(fiber.StatusNotFound, app.ErrNoVideo.Error())
	}

	path := current.FramePath
	if current.HasClip() {
		path = current.ClipPath
	}
	if path == "" {
		return fiber.NewError(fiber.StatusNotFound, "No rendered artifact for the current video")
	}
	return c.Download(path, current.ID+filepath.Ext(path))
}

func (s *Server) postNow(c *fiber.Ctx) error {
	req := body[postRequest](c)
	report, err := s.svc.PostNow(c.UserContext(), app.PostOptions{
		Platforms: req.Platforms,
		Caption:   req.Caption,
		Hashtags:  req.Hashtags,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(report)
}

func (s *Server) schedulePost(c *fiber.Ctx) error {
	req := body[scheduleRequest](c)

	var date time.Time
	if req.Date != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = parsed
	}

	report, err := s.svc.Schedule(c.UserContext(), app.ScheduleOptions{
		Platforms: req.Platforms,
		Date:      date,
		Clock:     req.Time,
		Caption:   req.Caption,
		Hashtags:  req.Hashtags,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (s *Server) listSchedules(c *fiber.Ctx) error {
	log := s.svc.Schedules()
	if log == nil {
		return c.JSON(fiber.Map{"total": 0, "items": []schedule.Entry{}})
	}

	entries := log.Upcoming(s.now())
	if c.QueryBool("all") {
		entries = log.Entries()
	}
	if entries == nil {
		entries = []schedule.Entry{}
	}
	return c.JSON(fiber.Map{"total": len(entries), "items": entries})
}

func (s *Server) clearSchedules(c *fiber.Ctx) error {
	if log := s.svc.Schedules(); log != nil {
		if err := log.Clear(); err != nil {
			return err
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func articleExists(articles []model.NewsArticle, id string) bool {
	for _, a := range articles {
		if a.ID == id {
			return true
		}
	}
	return false
}

func mapError(err error) error {
	switch {
	case errors.Is(err, app.ErrNoPlatforms),
		errors.Is(err, app.ErrNoDate),
		errors.Is(err, app.ErrInvalidClock),
		errors.Is(err, app.ErrPastSchedule):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrNoVideo), errors.Is(err, app.ErrPostInFlight):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, video.ErrInvalidConfig):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return err
}
