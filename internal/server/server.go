// Package server contains HTTP handlers and route wiring for the portfolio API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/mailer"
	"portfolio/internal/middleware"
	"portfolio/internal/repository"
	"portfolio/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// ContactSender relays contact-form submissions to the owner.
type ContactSender interface {
	SendContactMessage(ctx context.Context, name, email, subject, message string) error
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	cache          *cache.Cache
	promMiddleware *fiberprometheus.FiberPrometheus
	itemRepo       repository.ItemRepository
	commentRepo    repository.CommentRepository
	visitorRepo    repository.VisitorRepository
	contactSender  ContactSender
	itemService    *service.ItemService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisCache := cache.New(cfg.RedisURL)

	m, err := mailer.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("mailer setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisCache, m, m), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis/SMTP.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisCache *cache.Cache,
	notifier service.EngagementNotifier,
	contactSender ContactSender,
) *Server {
	middleware.InitMiddleware(cfg)

	itemRepo := repository.NewItemRepository(db, redisCache)
	commentRepo := repository.NewCommentRepository(db, redisCache)
	visitorRepo := repository.NewVisitorRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		cache:          redisCache,
		promMiddleware: middleware.InitMetrics("portfolio-api"),
		itemRepo:       itemRepo,
		commentRepo:    commentRepo,
		visitorRepo:    visitorRepo,
		contactSender:  contactSender,
		itemService:    service.NewItemService(itemRepo, commentRepo, notifier),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for log correlation
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", s.HealthCheck)
	app.Get("/health", s.HealthCheck)
	api.Get("/ip", s.GetIP)
	api.Post("/visitor", s.RecordVisitor)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Portfolio API Metrics",
	}))

	rdb := s.cache.Client()

	auth := api.Group("/auth")
	auth.Post("/login", middleware.RateLimit(rdb, 10, 5*time.Minute, "login"), s.Login)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Put("/:id/like", middleware.AuthRequired, s.LikePost)
	posts.Put("/:id/visitor-like", middleware.RateLimit(rdb, 30, time.Minute, "visitor_like"), s.VisitorLikePost)
	posts.Post("/:id/comment", middleware.RateLimit(rdb, 10, time.Minute, "comment"), s.CommentPost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	poems := api.Group("/poems")
	poems.Get("/", s.GetPoems)
	poems.Post("/", middleware.AuthRequired, s.CreatePoem)
	poems.Put("/:id/like", middleware.AuthRequired, s.LikePoem)
	poems.Put("/:id/visitor-like", middleware.RateLimit(rdb, 30, time.Minute, "visitor_like"), s.VisitorLikePoem)
	poems.Post("/:id/comment", middleware.RateLimit(rdb, 10, time.Minute, "comment"), s.CommentPoem)
	poems.Delete("/:id", middleware.AuthRequired, s.DeletePoem)

	// The contact form is exposed on both its historical paths.
	sendEmail := s.SendContactEmail
	contactLimit := middleware.RateLimit(rdb, 5, 10*time.Minute, "contact")
	api.Post("/send-email", contactLimit, sendEmail)
	api.Post("/contact/send-email", contactLimit, sendEmail)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if err := s.cache.Close(); err != nil {
		middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
