package handlers

import (
	"strconv"
	"strings"

	"pawndesk-backend/internal/core/services"
	"pawndesk-backend/internal/pkg/pagination"
	"pawndesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomerRequest represents create customer request body
type CreateCustomerRequest struct {
	ICNumber string `json:"ic_number"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// Create handles customer registration
// @Summary Create customer
// @Description Register a new customer by IC number
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCustomerRequest true "Customer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var req CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateCustomerInput{
		ICNumber: strings.TrimSpace(req.ICNumber),
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.TrimSpace(req.Email),
		Address:  req.Address,
	}

	customer, err := h.customerService.Create(c.Context(), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to create customer")
	}

	return response.Created(c, "Customer created successfully", customer)
}

// List handles customer listing with search
// @Summary List customers
// @Description List customers with pagination; search matches name, IC or phone
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search term"
// @Success 200 {object} response.Response
// @Router /customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListCustomersInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Search: c.Query("search"),
	}

	result, err := h.customerService.List(c.Context(), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to list customers")
	}

	return response.Success(c, "Customers retrieved successfully", result)
}

// Get handles fetching one customer with their pledge history
// @Summary Get customer
// @Description Get a customer and their pledge history
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id} [get]
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}

	detail, err := h.customerService.GetDetail(c.Context(), uint(id))
	if err != nil {
		return handleDomainError(c, err, "Failed to get customer")
	}

	return response.Success(c, "Customer retrieved successfully", detail)
}

// GetByIC handles customer lookup by IC number (counter search)
// @Summary Find customer by IC
// @Description Look a customer up by IC number
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ic path string true "IC number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/ic/{ic} [get]
func (h *CustomerHandler) GetByIC(c *fiber.Ctx) error {
	ic := c.Params("ic")
	if ic == "" {
		return response.BadRequest(c, "IC number is required")
	}

	customer, err := h.customerService.GetByICNumber(c.Context(), ic)
	if err != nil {
		return handleDomainError(c, err, "Failed to find customer")
	}

	return response.Success(c, "Customer retrieved successfully", customer)
}

// UpdateCustomerRequest represents update customer request body
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// Update handles customer contact updates
// @Summary Update customer
// @Description Update a customer's contact details
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param body body UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}

	var req UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}

	customer, err := h.customerService.Update(c.Context(), uint(id), input)
	if err != nil {
		return handleDomainError(c, err, "Failed to update customer")
	}

	return response.Success(c, "Customer updated successfully", customer)
}

// Delete handles customer removal
// @Summary Delete customer
// @Description Soft delete a customer without live pledges
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid customer ID")
	}

	if err := h.customerService.Delete(c.Context(), uint(id)); err != nil {
		return handleDomainError(c, err, "Failed to delete customer")
	}

	return response.Success(c, "Customer deleted successfully", nil)
}
