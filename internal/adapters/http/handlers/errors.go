package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pawndesk-backend/internal/core/domain"
	"pawndesk-backend/internal/pkg/response"
)

// handleDomainError maps domain sentinel errors onto HTTP responses. Business
// rule rejections (insufficient payment, missing verification) come back as
// 422 so the UI can distinguish them from malformed requests.
func handleDomainError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInsufficientPayment):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrVerificationRequired):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrPledgeNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrDayEndNotFound),
		errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrPriceUnavailable):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}

// currentUserID reads the authenticated user from the request context
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}
