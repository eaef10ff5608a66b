package handlers

import (
	"pawndesk-backend/internal/core/services"
	"pawndesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SweepHandler exposes the overdue sweep for manual runs
type SweepHandler struct {
	sweepService *services.SweepService
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(sweepService *services.SweepService) *SweepHandler {
	return &SweepHandler{sweepService: sweepService}
}

// Run handles a manual overdue sweep
// @Summary Run overdue sweep
// @Description Mark lapsed pledges overdue immediately instead of waiting for the nightly run (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/sweep [post]
func (h *SweepHandler) Run(c *fiber.Ctx) error {
	affected, err := h.sweepService.RunOnce(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Sweep failed")
	}

	return response.Success(c, "Sweep completed successfully", fiber.Map{
		"marked_overdue": affected,
	})
}
