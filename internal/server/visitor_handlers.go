package server

import (
	"time"

	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck handles GET /api/health
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// GetIP handles GET /api/ip
func (s *Server) GetIP(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ip": clientIP(c),
	})
}

// RecordVisitor handles POST /api/visitor. The daily counter bump is
// best-effort; only the database write can fail the request.
func (s *Server) RecordVisitor(c *fiber.Ctx) error {
	visitor := &models.Visitor{IP: clientIP(c)}
	if err := s.visitorRepo.Record(c.UserContext(), visitor); err != nil {
		return models.RespondWithError(c, models.NewStorageError(err))
	}

	s.cache.IncrDailyViews(c.UserContext(), time.Now().UTC().Format("2006-01-02"))

	return c.JSON(fiber.Map{
		"success": true,
	})
}
