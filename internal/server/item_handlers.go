package server

import (
	"portfolio/internal/models"
	"portfolio/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createItemRequest struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Content  string   `json:"content"`
	Images   []string `json:"images"`
}

type visitorLikeRequest struct {
	VisitorName string `json:"visitorName"`
}

type commentRequest struct {
	VisitorName string `json:"visitorName"`
	CommentText string `json:"commentText"`
	// Text is accepted as an alias for commentText.
	Text string `json:"text"`
}

func (r *commentRequest) text() string {
	if r.CommentText != "" {
		return r.CommentText
	}
	return r.Text
}

// listItems returns the full collection of a kind, newest first.
func (s *Server) listItems(c *fiber.Ctx, kind string) error {
	items, err := s.itemService.ListItems(c.UserContext(), kind)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":             true,
		itemLabel(kind) + "s": items,
	})
}

// createItem stores a new item of the given kind.
func (s *Server) createItem(c *fiber.Ctx, kind string) error {
	var req createItemRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	item, err := s.itemService.CreateItem(c.UserContext(), service.CreateItemInput{
		Kind:     kind,
		Title:    req.Title,
		Category: req.Category,
		Content:  req.Content,
		Images:   req.Images,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		itemLabel(kind): item,
		"message":       itemNoun(kind) + " created",
	})
}

// ownerLikeItem flips the owner's like flag.
func (s *Server) ownerLikeItem(c *fiber.Ctx, kind string) error {
	item, err := s.itemService.ToggleOwnerLike(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		itemLabel(kind): item,
	})
}

// visitorLikeItem toggles the named visitor's like and returns the new state.
func (s *Server) visitorLikeItem(c *fiber.Ctx, kind string) error {
	var req visitorLikeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	likes, liked, err := s.itemService.ToggleVisitorLike(c.UserContext(), kind, c.Params("id"), req.VisitorName)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"likes":   likes,
		"liked":   liked,
	})
}

// commentItem appends a visitor comment.
func (s *Server) commentItem(c *fiber.Ctx, kind string) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.itemService.AddComment(c.UserContext(), kind, c.Params("id"), req.VisitorName, req.text())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"comment": comment,
		"message": "Comment added",
	})
}

// deleteItem removes an item permanently.
func (s *Server) deleteItem(c *fiber.Ctx, kind string) error {
	if err := s.itemService.DeleteItem(c.UserContext(), kind, c.Params("id")); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": itemNoun(kind) + " deleted",
	})
}
