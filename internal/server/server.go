package server

import (
	"github.com/NikJur/CoxOrb/internal/config"
	"github.com/NikJur/CoxOrb/internal/session"
	"github.com/NikJur/CoxOrb/internal/stream"
	"github.com/NikJur/CoxOrb/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	Redis    *redis.Client
	Sessions *session.Service
	Stream   *stream.Hub
}

func NewServer(cfg config.Config, redisClient *redis.Client) *Server {
	fiberCfg := fiber.Config{}
	if cfg.MaxUploadBytes > 0 {
		fiberCfg.BodyLimit = cfg.MaxUploadBytes
	}
	app := fiber.New(fiberCfg)
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:      app,
		Cfg:      cfg,
		Redis:    redisClient,
		Sessions: session.NewService(redisClient),
		Stream:   stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	session.RegisterRoutes(s.App.Group("/sessions"), s.Sessions)
	web.RegisterRoutes(s.App.Group("/sessions"), s.Sessions)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, s.Sessions)
}
