package handlers

import (
	"time"

	"github.com/acarlson33/repo-version-checker/internal/services"
	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	checker *services.VersionCheckService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *services.VersionCheckService) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"repository": h.checker.Repository(),
		"configured": h.checker.Configured(),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}
