package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/adapters/persistence/repositories"
	"pawndesk-backend/internal/core/domain"
)

// CustomerService handles customer business logic
type CustomerService struct {
	customerRepo *repositories.CustomerRepository
	pledgeRepo   *repositories.PledgeRepository
	now          func() time.Time
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo *repositories.CustomerRepository,
	pledgeRepo *repositories.PledgeRepository,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		pledgeRepo:   pledgeRepo,
		now:          time.Now,
	}
}

// CreateCustomerInput represents create customer input
type CreateCustomerInput struct {
	ICNumber string `json:"ic_number" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Create registers a new customer
func (s *CustomerService) Create(ctx context.Context, input *CreateCustomerInput) (*models.Customer, error) {
	if input.ICNumber == "" || input.Name == "" {
		return nil, fmt.Errorf("%w: ic number and name are required", domain.ErrValidation)
	}

	exists, err := s.customerRepo.ExistsByICNumber(ctx, input.ICNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: ic number %s", domain.ErrDuplicateEntry, input.ICNumber)
	}

	customer := &models.Customer{
		ICNumber: input.ICNumber,
		Name:     input.Name,
		Phone:    input.Phone,
		Email:    input.Email,
		Address:  input.Address,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetByID gets a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// GetByICNumber looks a customer up by IC number (counter search)
func (s *CustomerService) GetByICNumber(ctx context.Context, icNumber string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByICNumber(ctx, icNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// CustomerDetail is a customer with their pledge history
type CustomerDetail struct {
	Customer *models.Customer         `json:"customer"`
	Pledges  []*models.PledgeResponse `json:"pledges"`
}

// GetDetail gets a customer together with their pledge history, pledge
// statuses derived as of now.
func (s *CustomerService) GetDetail(ctx context.Context, id uint) (*CustomerDetail, error) {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pledges, err := s.pledgeRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]*models.PledgeResponse, len(pledges))
	for i, p := range pledges {
		responses[i] = p.ToResponse(now)
	}

	return &CustomerDetail{
		Customer: customer,
		Pledges:  responses,
	}, nil
}

// ListCustomersInput represents list customers input
type ListCustomersInput struct {
	Page   int
	Limit  int
	Search string
}

// ListCustomersOutput represents list customers output
type ListCustomersOutput struct {
	Customers  []*models.Customer `json:"customers"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// List lists customers with pagination and optional search
func (s *CustomerService) List(ctx context.Context, input *ListCustomersInput) (*ListCustomersOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit

	customers, total, err := s.customerRepo.List(ctx, input.Search, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListCustomersOutput{
		Customers:  customers,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateCustomerInput represents update customer input
type UpdateCustomerInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// Update updates customer contact details. The IC number is the customer's
// identity and never changes.
func (s *CustomerService) Update(ctx context.Context, id uint, input *UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
		}
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// Delete soft deletes a customer. A customer with live pledges cannot be
// removed; the articles in the vault still belong to them.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if customer.ActivePledges > 0 {
		return fmt.Errorf("%w: customer has %d active pledges", domain.ErrInvalidStatus, customer.ActivePledges)
	}

	return s.customerRepo.Delete(ctx, id)
}
