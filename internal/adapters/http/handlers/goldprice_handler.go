package handlers

import (
	"pawndesk-backend/internal/core/services"
	"pawndesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GoldPriceHandler handles gold price endpoints
type GoldPriceHandler struct {
	priceService *services.GoldPriceService
}

// NewGoldPriceHandler creates a new gold price handler
func NewGoldPriceHandler(priceService *services.GoldPriceService) *GoldPriceHandler {
	return &GoldPriceHandler{priceService: priceService}
}

// List handles fetching the price table
// @Summary List gold prices
// @Description Get the full purity price table
// @Tags GoldPrices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /gold-prices [get]
func (h *GoldPriceHandler) List(c *fiber.Ctx) error {
	prices, err := h.priceService.List(c.Context())
	if err != nil {
		return handleDomainError(c, err, "Failed to list gold prices")
	}

	return response.Success(c, "Gold prices retrieved successfully", prices)
}

// Update handles a price update for one purity
// @Summary Update gold price
// @Description Set the price per gram for one purity (admin only)
// @Tags GoldPrices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdatePriceInput true "Price data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /gold-prices [put]
func (h *GoldPriceHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdatePriceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	price, err := h.priceService.Update(c.Context(), &input, userID, c.IP())
	if err != nil {
		return handleDomainError(c, err, "Failed to update gold price")
	}

	return response.Success(c, "Gold price updated successfully", price)
}
