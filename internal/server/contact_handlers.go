package server

import (
	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendContactEmail handles POST /api/send-email. Unlike engagement
// notifications, contact delivery is synchronous: the sender needs to know
// their message went through.
func (s *Server) SendContactEmail(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	err := s.contactSender.SendContactMessage(c.UserContext(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email sent successfully",
	})
}
