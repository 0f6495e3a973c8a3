package server

import (
	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPoems handles GET /api/poems
func (s *Server) GetPoems(c *fiber.Ctx) error {
	return s.listItems(c, models.KindPoem)
}

// CreatePoem handles POST /api/poems
func (s *Server) CreatePoem(c *fiber.Ctx) error {
	return s.createItem(c, models.KindPoem)
}

// LikePoem handles PUT /api/poems/:id/like
func (s *Server) LikePoem(c *fiber.Ctx) error {
	return s.ownerLikeItem(c, models.KindPoem)
}

// VisitorLikePoem handles PUT /api/poems/:id/visitor-like
func (s *Server) VisitorLikePoem(c *fiber.Ctx) error {
	return s.visitorLikeItem(c, models.KindPoem)
}

// CommentPoem handles POST /api/poems/:id/comment
func (s *Server) CommentPoem(c *fiber.Ctx) error {
	return s.commentItem(c, models.KindPoem)
}

// DeletePoem handles DELETE /api/poems/:id
func (s *Server) DeletePoem(c *fiber.Ctx) error {
	return s.deleteItem(c, models.KindPoem)
}
