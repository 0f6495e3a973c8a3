package server

import (
	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	return s.listItems(c, models.KindPost)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	return s.createItem(c, models.KindPost)
}

// LikePost handles PUT /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.ownerLikeItem(c, models.KindPost)
}

// VisitorLikePost handles PUT /api/posts/:id/visitor-like
func (s *Server) VisitorLikePost(c *fiber.Ctx) error {
	return s.visitorLikeItem(c, models.KindPost)
}

// CommentPost handles POST /api/posts/:id/comment
func (s *Server) CommentPost(c *fiber.Ctx) error {
	return s.commentItem(c, models.KindPost)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	return s.deleteItem(c, models.KindPost)
}
