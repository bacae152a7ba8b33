package server

import (
	"strings"

	"adotapet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// currentUserID returns the authenticated user's id set by AuthRequired.
func (s *Server) currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}

// currentUser loads the authenticated user's record. Publication and comment
// authorship snapshots are taken from this record at write time.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	id := s.currentUserID(c)
	if id == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}
	return s.userRepo.GetByID(c.Context(), id)
}

// requireParam extracts a non-empty route parameter.
func requireParam(c *fiber.Ctx, name string) (string, error) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		return "", models.NewValidationError("Invalid " + name)
	}
	return v, nil
}
