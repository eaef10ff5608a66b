package handlers

import (
	"time"

	"pawndesk-backend/internal/core/services"
	"pawndesk-backend/internal/pkg/pagination"
	"pawndesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DayEndHandler handles day-end reconciliation endpoints
type DayEndHandler struct {
	dayEndService *services.DayEndService
}

// NewDayEndHandler creates a new day-end handler
func NewDayEndHandler(dayEndService *services.DayEndService) *DayEndHandler {
	return &DayEndHandler{dayEndService: dayEndService}
}

// Summary handles the live day summary
// @Summary Day summary
// @Description Aggregate a day's cash movement before closing
// @Tags DayEnd
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date YYYY-MM-DD (default today)"
// @Success 200 {object} response.Response
// @Router /day-end/summary [get]
func (h *DayEndHandler) Summary(c *fiber.Ctx) error {
	date := time.Now()
	if q := c.Query("date"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, time.Local)
		if err != nil {
			return response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
		}
		date = parsed
	}

	summary, err := h.dayEndService.Summary(c.Context(), date)
	if err != nil {
		return handleDomainError(c, err, "Failed to compute day summary")
	}

	return response.Success(c, "Day summary computed successfully", summary)
}

// Close handles closing a trading day
// @Summary Close day
// @Description Reconcile the drawer and close the day
// @Tags DayEnd
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CloseDayInput true "Close data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /day-end/close [post]
func (h *DayEndHandler) Close(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CloseDayInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.dayEndService.Close(c.Context(), &input, userID, c.IP())
	if err != nil {
		return handleDomainError(c, err, "Failed to close day")
	}

	return response.Success(c, "Day closed successfully", record)
}

// Reopen handles reopening a closed day
// @Summary Reopen day
// @Description Delete a closed day's record so it can be corrected (admin only)
// @Tags DayEnd
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /day-end/{date} [delete]
func (h *DayEndHandler) Reopen(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.dayEndService.Reopen(c.Context(), c.Params("date"), userID, c.IP()); err != nil {
		return handleDomainError(c, err, "Failed to reopen day")
	}

	return response.Success(c, "Day reopened successfully", nil)
}

// Get handles fetching one closed day
// @Summary Get day record
// @Description Get the closed record for one date
// @Tags DayEnd
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /day-end/{date} [get]
func (h *DayEndHandler) Get(c *fiber.Ctx) error {
	record, err := h.dayEndService.Get(c.Context(), c.Params("date"))
	if err != nil {
		return handleDomainError(c, err, "Failed to get day record")
	}

	return response.Success(c, "Day record retrieved successfully", record)
}

// List handles listing closed days
// @Summary List day records
// @Description List closed records within a date range
// @Tags DayEnd
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Router /day-end [get]
func (h *DayEndHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListDayEndsInput{
		From:  c.Query("from"),
		To:    c.Query("to"),
		Page:  params.Page,
		Limit: params.Limit,
	}

	result, err := h.dayEndService.List(c.Context(), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to list day records")
	}

	return response.Success(c, "Day records retrieved successfully", result)
}
