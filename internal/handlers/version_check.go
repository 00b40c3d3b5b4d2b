package handlers

import (
	"errors"

	"github.com/acarlson33/repo-version-checker/internal/logging"
	"github.com/acarlson33/repo-version-checker/internal/models"
	"github.com/acarlson33/repo-version-checker/internal/services"
	"github.com/gofiber/fiber/v2"
)

// VersionCheckHandler answers version check requests
type VersionCheckHandler struct {
	service *services.VersionCheckService
}

// NewVersionCheckHandler creates a new version check handler
func NewVersionCheckHandler(service *services.VersionCheckService) *VersionCheckHandler {
	return &VersionCheckHandler{service: service}
}

// Handle checks the version in the JSON body against the configured repository
func (h *VersionCheckHandler) Handle(c *fiber.Ctx) error {
	requestID, _ := c.Locals("requestid").(string)
	logger := logging.WithRequest(requestID)
	ctx := logging.NewContext(c.UserContext(), logger)

	result, err := h.service.CheckBody(ctx, c.Body())
	if err != nil {
		return respondCheckError(c, err)
	}
	return c.JSON(result.Response())
}

// respondCheckError is the only place check errors become envelopes
func respondCheckError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrRepositoryNotConfigured):
	case errors.Is(err, services.ErrMissingVersion):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNoVersionsFound):
		status = fiber.StatusOK
	default:
		requestID, _ := c.Locals("requestid").(string)
		logging.WithRequest(requestID).Error("Version check failed", "error", err)
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Success: false,
		Message: err.Error(),
	})
}
