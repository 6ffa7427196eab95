package server

import "github.com/gofiber/fiber/v2"

func (s *Server) registerRoutes() {
	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)
	api.Get("/state", s.state)

	api.Get("/news", s.listNews)

	selection := api.Group("/selection")
	selection.Get("", s.getSelection)
	selection.Put("", validateBody[selectionRequest](), s.setSelection)
	selection.Post("/:id/toggle", s.toggleArticle)

	videos := api.Group("/videos")
	videos.Post("", validateBody[generateRequest](), s.generateVideo)
	videos.Get("/current", s.currentVideo)
	videos.Get("/current/download", s.downloadVideo)

	api.Post("/posts", validateBody[postRequest](), s.postNow)

	schedules := api.Group("/schedules")
	schedules.Get("", s.listSchedules)
	schedules.Post("", validateBody[scheduleRequest](), s.schedulePost)
	schedules.Delete("", s.clearSchedules)

	s.app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
