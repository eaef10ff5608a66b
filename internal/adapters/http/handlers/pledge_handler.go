package handlers

import (
	"strconv"

	"github.com/shopspring/decimal"

	"pawndesk-backend/internal/core/services"
	"pawndesk-backend/internal/pkg/pagination"
	"pawndesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PledgeHandler handles pledge lifecycle endpoints
type PledgeHandler struct {
	pledgeService *services.PledgeService
}

// NewPledgeHandler creates a new pledge handler
func NewPledgeHandler(pledgeService *services.PledgeService) *PledgeHandler {
	return &PledgeHandler{pledgeService: pledgeService}
}

// QuoteRequest represents a valuation preview request body
type QuoteRequest struct {
	Items          []services.PledgeItemInput `json:"items"`
	LoanPercentage decimal.Decimal            `json:"loan_percentage"`
}

// Quote handles valuation preview
// @Summary Quote a valuation
// @Description Value items against the current price table without saving
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body QuoteRequest true "Items and loan percentage"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /pledges/quote [post]
func (h *PledgeHandler) Quote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	quote, err := h.pledgeService.QuoteValuation(c.Context(), req.Items, req.LoanPercentage)
	if err != nil {
		return handleDomainError(c, err, "Failed to quote valuation")
	}

	return response.Success(c, "Valuation quoted successfully", quote)
}

// Create handles pledge origination
// @Summary Create pledge
// @Description Originate a pledge and disburse the loan
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePledgeInput true "Pledge data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pledges [post]
func (h *PledgeHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreatePledgeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	pledge, err := h.pledgeService.Create(c.Context(), &input, userID, c.IP())
	if err != nil {
		return handleDomainError(c, err, "Failed to create pledge")
	}

	return response.Created(c, "Pledge created successfully", pledge.ToResponse(h.pledgeService.Now()))
}

// List handles pledge listing
// @Summary List pledges
// @Description List pledges with pagination and optional status/customer filters
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Status filter"
// @Param customer_id query int false "Customer filter"
// @Success 200 {object} response.Response
// @Router /pledges [get]
func (h *PledgeHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	customerID, _ := strconv.ParseUint(c.Query("customer_id", "0"), 10, 32)

	input := &services.ListPledgesInput{
		Page:       params.Page,
		Limit:      params.Limit,
		Status:     c.Query("status"),
		CustomerID: uint(customerID),
	}

	result, err := h.pledgeService.List(c.Context(), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to list pledges")
	}

	return response.Success(c, "Pledges retrieved successfully", result)
}

// Get handles fetching one pledge by ticket number
// @Summary Get pledge
// @Description Get a pledge by its ticket number
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pledges/{pledgeNo} [get]
func (h *PledgeHandler) Get(c *fiber.Ctx) error {
	pledge, err := h.pledgeService.GetByPledgeNo(c.Context(), c.Params("pledgeNo"))
	if err != nil {
		return handleDomainError(c, err, "Failed to get pledge")
	}

	return response.Success(c, "Pledge retrieved successfully", pledge.ToResponse(h.pledgeService.Now()))
}

// Interest handles the outstanding interest quote
// @Summary Quote interest
// @Description Price the outstanding interest on a pledge as of now
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /pledges/{pledgeNo}/interest [get]
func (h *PledgeHandler) Interest(c *fiber.Ctx) error {
	quote, err := h.pledgeService.QuoteInterest(c.Context(), c.Params("pledgeNo"))
	if err != nil {
		return handleDomainError(c, err, "Failed to quote interest")
	}

	return response.Success(c, "Interest quoted successfully", quote)
}

// QuoteRenewRequest represents a renewal preview query
type QuoteRenewRequest struct {
	ExtensionMonths int `json:"extension_months"`
}

// QuoteRenew handles renewal pricing preview
// @Summary Quote renewal
// @Description Price a renewal without committing it
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Param months query int false "Extension months (default 1)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pledges/{pledgeNo}/renew/quote [get]
func (h *PledgeHandler) QuoteRenew(c *fiber.Ctx) error {
	months, _ := strconv.Atoi(c.Query("months", "1"))

	quote, err := h.pledgeService.QuoteRenew(c.Context(), c.Params("pledgeNo"), months)
	if err != nil {
		return handleDomainError(c, err, "Failed to quote renewal")
	}

	return response.Success(c, "Renewal quoted successfully", quote)
}

// Renew handles pledge renewal
// @Summary Renew pledge
// @Description Collect interest and extend the due date
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Param body body services.RenewInput true "Renewal data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /pledges/{pledgeNo}/renew [post]
func (h *PledgeHandler) Renew(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.RenewInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.pledgeService.Renew(c.Context(), c.Params("pledgeNo"), &input, userID, c.IP())
	if err != nil {
		return handleDomainError(c, err, "Failed to renew pledge")
	}

	return response.Success(c, "Pledge renewed successfully", result)
}

// Redeem handles pledge redemption
// @Summary Redeem pledge
// @Description Close a pledge against full payment and release the items
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Param body body services.RedeemInput true "Redemption data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /pledges/{pledgeNo}/redeem [post]
func (h *PledgeHandler) Redeem(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.RedeemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.pledgeService.Redeem(c.Context(), c.Params("pledgeNo"), &input, userID, c.IP())
	if err != nil {
		return handleDomainError(c, err, "Failed to redeem pledge")
	}

	return response.Success(c, "Pledge redeemed successfully", result)
}

// Forfeit handles pledge forfeiture
// @Summary Forfeit pledge
// @Description Move an overdue pledge into shop stock
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Param body body services.ForfeitInput false "Forfeit remark"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /pledges/{pledgeNo}/forfeit [post]
func (h *PledgeHandler) Forfeit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ForfeitInput
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	pledge, err := h.pledgeService.Forfeit(c.Context(), c.Params("pledgeNo"), &input, userID, c.IP())
	if err != nil {
		return handleDomainError(c, err, "Failed to forfeit pledge")
	}

	return response.Success(c, "Pledge forfeited successfully", pledge.ToResponse(h.pledgeService.Now()))
}

// Auction handles the auction sale of forfeited stock
// @Summary Auction pledge
// @Description Record the auction sale of forfeited stock
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Param body body services.AuctionInput true "Auction data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /pledges/{pledgeNo}/auction [post]
func (h *PledgeHandler) Auction(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.AuctionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	pledge, err := h.pledgeService.Auction(c.Context(), c.Params("pledgeNo"), &input, userID, c.IP())
	if err != nil {
		return handleDomainError(c, err, "Failed to auction pledge")
	}

	return response.Success(c, "Pledge auctioned successfully", pledge.ToResponse(h.pledgeService.Now()))
}

// MoveRack handles vault rack moves
// @Summary Move rack
// @Description Relocate the pledged items in the vault
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Param body body services.MoveRackInput true "New rack location"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pledges/{pledgeNo}/rack [put]
func (h *PledgeHandler) MoveRack(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.MoveRackInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	pledge, err := h.pledgeService.MoveRack(c.Context(), c.Params("pledgeNo"), &input, userID, c.IP())
	if err != nil {
		return handleDomainError(c, err, "Failed to move rack")
	}

	return response.Success(c, "Rack updated successfully", pledge.ToResponse(h.pledgeService.Now()))
}

// History handles the pledge audit trail
// @Summary Pledge history
// @Description Get the audit trail of one pledge
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pledgeNo path string true "Pledge number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pledges/{pledgeNo}/history [get]
func (h *PledgeHandler) History(c *fiber.Ctx) error {
	history, err := h.pledgeService.History(c.Context(), c.Params("pledgeNo"))
	if err != nil {
		return handleDomainError(c, err, "Failed to get pledge history")
	}

	return response.Success(c, "History retrieved successfully", history)
}
