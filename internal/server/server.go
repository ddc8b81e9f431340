// Package server exposes a small operational HTTP surface next to the bot:
// a liveness probe and a status view of the rule catalog cache.
package server

import (
	"log"
	"time"

	"hr-intake-bot/internal/config"
	"hr-intake-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type Server struct {
	app     *fiber.App
	cfg     *config.Config
	catalog service.ICatalogService
}

func New(cfg *config.Config, catalog service.ICatalogService) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.App.Environment == "production",
	})

	s := &Server{
		app:     app,
		cfg:     cfg,
		catalog: catalog,
	}

	app.Get("/health", s.health)
	app.Get("/status", s.status)

	return s
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Ops server listening on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) status(c *fiber.Ctx) error {
	loadedAt, loaded := s.catalog.LoadedAt()
	rules := s.catalog.Load(c.Context(), false)

	body := fiber.Map{
		"environment":   s.cfg.App.Environment,
		"catalog_rules": len(rules),
	}
	if loaded {
		body["catalog_refreshed_at"] = loadedAt.UTC().Format(time.RFC3339)
	}
	return c.JSON(body)
}
