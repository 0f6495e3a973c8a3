package server

import (
	"strings"

	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// itemLabel is the envelope key and display noun for a content kind.
func itemLabel(kind string) string {
	if kind == models.KindPoem {
		return "poem"
	}
	return "post"
}

// itemNoun is the capitalized display noun used in response messages.
func itemNoun(kind string) string {
	if kind == models.KindPoem {
		return "Poem"
	}
	return "Post"
}

// clientIP prefers the first X-Forwarded-For hop over the socket address so
// deployments behind a proxy report the real visitor.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.IP()
}
