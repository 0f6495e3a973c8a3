package server

import (
	"strings"

	"portfolio/internal/middleware"
	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. It checks the configured owner
// credentials and issues a signed token for owner-scoped routes.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, models.NewValidationError("Email and password are required"))
	}

	owner := strings.TrimSpace(strings.ToLower(s.config.OwnerEmail))
	if owner == "" || s.config.OwnerPasswordHash == "" {
		middleware.Logger.Warn("login attempted without owner credentials configured")
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid credentials"))
	}

	if req.Email != owner ||
		bcrypt.CompareHashAndPassword([]byte(s.config.OwnerPasswordHash), []byte(req.Password)) != nil {
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := middleware.GenerateOwnerToken(s.config.JWTSecret)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}
