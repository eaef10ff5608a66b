package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/adapters/persistence/repositories"
	"pawndesk-backend/internal/config"
	"pawndesk-backend/internal/core/domain"
	"pawndesk-backend/internal/core/pawncalc"
)

// PledgeService handles the pledge lifecycle: origination, renewal,
// redemption, forfeiture, auction and rack management. All money figures are
// computed by the pawncalc package against data loaded here; the service only
// sequences repository calls around those pure calculations.
type PledgeService struct {
	pledgeRepo      repositories.PledgeStore
	renewalRepo     repositories.RenewalStore
	customerRepo    repositories.CustomerStore
	transactionRepo repositories.TransactionStore
	priceService    *GoldPriceService
	cfg             *config.Config
	now             func() time.Time
}

// NewPledgeService creates a new pledge service
func NewPledgeService(
	pledgeRepo repositories.PledgeStore,
	renewalRepo repositories.RenewalStore,
	customerRepo repositories.CustomerStore,
	transactionRepo repositories.TransactionStore,
	priceService *GoldPriceService,
	cfg *config.Config,
) *PledgeService {
	return &PledgeService{
		pledgeRepo:      pledgeRepo,
		renewalRepo:     renewalRepo,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		priceService:    priceService,
		cfg:             cfg,
		now:             time.Now,
	}
}

// PledgeItemInput represents one article on the valuation screen
type PledgeItemInput struct {
	Category      string          `json:"category" validate:"required"`
	WeightGrams   decimal.Decimal `json:"weight_grams" validate:"required"`
	Purity        string          `json:"purity" validate:"required"`
	DeductionType string          `json:"deduction_type,omitempty"`
	Deduction     decimal.Decimal `json:"deduction,omitempty"`
	Remark        string          `json:"remark,omitempty"`
}

// CreatePledgeInput represents pledge origination input
type CreatePledgeInput struct {
	CustomerID     uint              `json:"customer_id" validate:"required"`
	Items          []PledgeItemInput `json:"items" validate:"required,min=1"`
	LoanPercentage decimal.Decimal   `json:"loan_percentage" validate:"required"`
	RackLocation   string            `json:"rack_location,omitempty"`
	Remark         string            `json:"remark,omitempty"`
}

// ItemQuote is one valued article in a valuation quote
type ItemQuote struct {
	PledgeItemInput
	pawncalc.Valuation
}

// ValuationQuote is the priced preview of a pledge before anything is saved
type ValuationQuote struct {
	Items          []ItemQuote     `json:"items"`
	TotalWeight    decimal.Decimal `json:"total_weight"`
	GrossValue     decimal.Decimal `json:"gross_value"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
	NetValue       decimal.Decimal `json:"net_value"`
	LoanPercentage decimal.Decimal `json:"loan_percentage"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
}

// QuoteValuation values the items against the current price table without
// persisting anything. Used by the counter screen while a deal is negotiated.
func (s *PledgeService) QuoteValuation(ctx context.Context, items []PledgeItemInput, loanPercentage decimal.Decimal) (*ValuationQuote, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrValidation)
	}

	prices, err := s.priceService.PriceTable(ctx)
	if err != nil {
		return nil, err
	}

	quote := &ValuationQuote{
		Items:          make([]ItemQuote, 0, len(items)),
		TotalWeight:    decimal.Zero,
		GrossValue:     decimal.Zero,
		TotalDeduction: decimal.Zero,
		NetValue:       decimal.Zero,
		LoanPercentage: loanPercentage,
	}

	for i, item := range items {
		valuation, err := pawncalc.ValueItem(
			item.WeightGrams,
			item.Purity,
			item.Deduction,
			domain.DeductionType(item.DeductionType),
			prices,
		)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}

		quote.Items = append(quote.Items, ItemQuote{PledgeItemInput: item, Valuation: valuation})
		quote.TotalWeight = quote.TotalWeight.Add(item.WeightGrams)
		quote.GrossValue = quote.GrossValue.Add(valuation.GrossValue)
		quote.TotalDeduction = quote.TotalDeduction.Add(valuation.DeductionAmount)
		quote.NetValue = quote.NetValue.Add(valuation.NetValue)
	}

	loanAmount, err := pawncalc.LoanAmount(quote.NetValue, loanPercentage)
	if err != nil {
		return nil, err
	}
	quote.LoanAmount = loanAmount

	return quote, nil
}

// Create originates a pledge: values the items, freezes the snapshot, assigns
// a sequential pledge number and records the cash-out in the audit trail.
func (s *PledgeService) Create(ctx context.Context, input *CreatePledgeInput, userID uint, ipAddress string) (*models.Pledge, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	quote, err := s.QuoteValuation(ctx, input.Items, input.LoanPercentage)
	if err != nil {
		return nil, err
	}
	if quote.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: loan amount must be positive", domain.ErrValidation)
	}

	now := s.now()
	pledgeNo, err := s.nextPledgeNo(ctx, now)
	if err != nil {
		return nil, err
	}

	pledge := &models.Pledge{
		PledgeNo:       pledgeNo,
		CustomerID:     customer.ID,
		TotalWeight:    quote.TotalWeight,
		GrossValue:     quote.GrossValue,
		TotalDeduction: quote.TotalDeduction,
		NetValue:       quote.NetValue,
		LoanPercentage: input.LoanPercentage,
		LoanAmount:     quote.LoanAmount,
		Status:         string(domain.StatusActive),
		DueDate:        now.AddDate(0, s.cfg.Pawn.InitialTermMonths, 0),
		RackLocation:   input.RackLocation,
		Remark:         input.Remark,
		CreatedBy:      userID,
	}

	pledge.Items = make([]models.PledgeItem, len(quote.Items))
	for i, item := range quote.Items {
		deductionType := item.DeductionType
		if deductionType == "" {
			deductionType = string(domain.DeductionAmount)
		}
		pledge.Items[i] = models.PledgeItem{
			Category:        item.Category,
			WeightGrams:     item.WeightGrams,
			Purity:          item.Purity,
			DeductionType:   deductionType,
			Deduction:       item.Deduction,
			GrossValue:      item.Valuation.GrossValue,
			DeductionAmount: item.Valuation.DeductionAmount,
			NetValue:        item.Valuation.NetValue,
			Remark:          item.Remark,
		}
	}

	if err := s.pledgeRepo.Create(ctx, pledge); err != nil {
		return nil, err
	}

	if err := s.customerRepo.RecordNewPledge(ctx, customer.ID, pledge.LoanAmount, now); err != nil {
		log.Printf("⚠️ Customer counter update failed (pledge %s): %v", pledge.PledgeNo, err)
	}

	s.audit(ctx, &pledge.ID, models.TxTypePledgeCreate, &pledge.LoanAmount,
		fmt.Sprintf("Pledge %s created, %s disbursed", pledge.PledgeNo, pledge.LoanAmount),
		userID, ipAddress)

	log.Printf("📿 Pledge created: %s (customer %s, loan %s)", pledge.PledgeNo, customer.ICNumber, pledge.LoanAmount)

	pledge.Customer = customer
	return pledge, nil
}

// GetByID gets a pledge by ID
func (s *PledgeService) GetByID(ctx context.Context, id uint) (*models.Pledge, error) {
	pledge, err := s.pledgeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPledgeNotFound
		}
		return nil, err
	}
	return pledge, nil
}

// GetByPledgeNo gets a pledge by its ticket number
func (s *PledgeService) GetByPledgeNo(ctx context.Context, pledgeNo string) (*models.Pledge, error) {
	pledge, err := s.pledgeRepo.GetByPledgeNo(ctx, pledgeNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPledgeNotFound
		}
		return nil, err
	}
	return pledge, nil
}

// Now exposes the service clock so handlers derive statuses consistently.
func (s *PledgeService) Now() time.Time {
	return s.now()
}

// ListPledgesInput represents list pledges input
type ListPledgesInput struct {
	Page       int
	Limit      int
	Status     string
	CustomerID uint
}

// ListPledgesOutput represents list pledges output
type ListPledgesOutput struct {
	Pledges    []*models.PledgeResponse `json:"pledges"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
}

// List lists pledges with pagination and optional status/customer filters
func (s *PledgeService) List(ctx context.Context, input *ListPledgesInput) (*ListPledgesOutput, error) {
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

	pledges, total, err := s.pledgeRepo.List(ctx, input.Status, input.CustomerID, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]*models.PledgeResponse, len(pledges))
	for i, p := range pledges {
		responses[i] = p.ToResponse(now)
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListPledgesOutput{
		Pledges:    responses,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// QuoteInterest prices the outstanding interest on a pledge as of now
func (s *PledgeService) QuoteInterest(ctx context.Context, pledgeNo string) (*pawncalc.InterestQuote, error) {
	pledge, err := s.loadLive(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}

	quote, err := pawncalc.AccrueInterest(pledge.LoanAmount, pledge.CreatedAt, s.now(), pledge.PaidInterest())
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// RenewInput represents renewal input
type RenewInput struct {
	ExtensionMonths int             `json:"extension_months" validate:"required,min=1"`
	AmountReceived  decimal.Decimal `json:"amount_received" validate:"required"`
}

// RenewOutput represents the completed renewal
type RenewOutput struct {
	Pledge  *models.PledgeResponse `json:"pledge"`
	Renewal *models.Renewal        `json:"renewal"`
	Quote   pawncalc.RenewalQuote  `json:"quote"`
	Change  decimal.Decimal        `json:"change"`
}

// QuoteRenew prices a renewal without committing it
func (s *PledgeService) QuoteRenew(ctx context.Context, pledgeNo string, extensionMonths int) (*pawncalc.RenewalQuote, error) {
	pledge, err := s.loadLive(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}

	quote, err := pawncalc.QuoteRenewal(
		pledge.LoanAmount, pledge.CreatedAt, s.now(), pledge.DueDate,
		pledge.PaidInterest(), extensionMonths,
	)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Renew collects the outstanding interest plus the prepaid extension interest
// and advances the due date. The renewal resets an overdue pledge to active.
func (s *PledgeService) Renew(ctx context.Context, pledgeNo string, input *RenewInput, userID uint, ipAddress string) (*RenewOutput, error) {
	pledge, err := s.loadLive(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}

	now := s.now()
	quote, err := pawncalc.QuoteRenewal(
		pledge.LoanAmount, pledge.CreatedAt, now, pledge.DueDate,
		pledge.PaidInterest(), input.ExtensionMonths,
	)
	if err != nil {
		return nil, err
	}

	if input.AmountReceived.LessThan(quote.TotalPayable) {
		return nil, fmt.Errorf("%w: received %s, payable %s", domain.ErrInsufficientPayment, input.AmountReceived, quote.TotalPayable)
	}
	change := input.AmountReceived.Sub(quote.TotalPayable)

	renewal := &models.Renewal{
		PledgeID:                 pledge.ID,
		ReceiptNo:                "RN-" + uuid.New().String(),
		AmountReceived:           quote.TotalPayable,
		ExtensionMonths:          input.ExtensionMonths,
		OutstandingInterestPaid:  quote.OutstandingInterest,
		ExtensionInterestPrepaid: quote.ExtensionInterest,
		OldDueDate:               pledge.DueDate,
		NewDueDate:               quote.NewDueDate,
		PerformedBy:              userID,
	}
	if err := s.renewalRepo.Create(ctx, renewal); err != nil {
		return nil, err
	}

	pledge.DueDate = quote.NewDueDate
	pledge.Status = string(domain.StatusActive)
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return nil, err
	}

	if err := s.customerRepo.RecordVisit(ctx, pledge.CustomerID, now); err != nil {
		log.Printf("⚠️ Customer visit update failed (pledge %s): %v", pledge.PledgeNo, err)
	}

	s.audit(ctx, &pledge.ID, models.TxTypeRenewal, &quote.TotalPayable,
		fmt.Sprintf("Pledge %s renewed %d month(s), due %s", pledge.PledgeNo, input.ExtensionMonths, quote.NewDueDate.Format("2006-01-02")),
		userID, ipAddress)

	log.Printf("🔄 Pledge renewed: %s (+%d months, collected %s)", pledge.PledgeNo, input.ExtensionMonths, quote.TotalPayable)

	pledge.Renewals = append(pledge.Renewals, *renewal)
	return &RenewOutput{
		Pledge:  pledge.ToResponse(now),
		Renewal: renewal,
		Quote:   quote,
		Change:  change,
	}, nil
}

// RedeemInput represents redemption input
type RedeemInput struct {
	AmountReceived decimal.Decimal `json:"amount_received" validate:"required"`
	ICVerified     bool            `json:"ic_verified"`
	ItemsVerified  bool            `json:"items_verified"`
}

// RedeemOutput represents the completed redemption
type RedeemOutput struct {
	Pledge    *models.PledgeResponse   `json:"pledge"`
	ReceiptNo string                   `json:"receipt_no"`
	Quote     pawncalc.RedemptionQuote `json:"quote"`
}

// QuoteRedeem prices the full payoff without committing it
func (s *PledgeService) QuoteRedeem(ctx context.Context, pledgeNo string) (*pawncalc.InterestQuote, error) {
	return s.QuoteInterest(ctx, pledgeNo)
}

// Redeem closes a pledge against full payment. Both the customer's IC and the
// physical items must be verified at the counter before cash changes hands.
func (s *PledgeService) Redeem(ctx context.Context, pledgeNo string, input *RedeemInput, userID uint, ipAddress string) (*RedeemOutput, error) {
	if !input.ICVerified || !input.ItemsVerified {
		return nil, domain.ErrVerificationRequired
	}

	pledge, err := s.loadLive(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}

	now := s.now()
	quote, err := pawncalc.QuoteRedemption(
		pledge.LoanAmount, pledge.CreatedAt, now,
		pledge.PaidInterest(), input.AmountReceived,
	)
	if err != nil {
		return nil, err
	}

	receiptNo := "RD-" + uuid.New().String()

	pledge.Status = string(domain.StatusRedeemed)
	pledge.RedeemedAt = &now
	pledge.RedemptionReceiptNo = receiptNo
	pledge.RedemptionAmount = quote.TotalDue
	pledge.AmountReceived = quote.AmountReceived
	pledge.ChangeGiven = quote.Change
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return nil, err
	}

	if err := s.customerRepo.RecordPledgeClosed(ctx, pledge.CustomerID, now); err != nil {
		log.Printf("⚠️ Customer counter update failed (pledge %s): %v", pledge.PledgeNo, err)
	}

	s.audit(ctx, &pledge.ID, models.TxTypeRedemption, &quote.TotalDue,
		fmt.Sprintf("Pledge %s redeemed for %s, receipt %s (change %s)", pledge.PledgeNo, quote.TotalDue, receiptNo, quote.Change),
		userID, ipAddress)

	log.Printf("✅ Pledge redeemed: %s (%s collected)", pledge.PledgeNo, quote.TotalDue)

	return &RedeemOutput{
		Pledge:    pledge.ToResponse(now),
		ReceiptNo: receiptNo,
		Quote:     quote,
	}, nil
}

// ForfeitInput represents forfeiture input
type ForfeitInput struct {
	Remark string `json:"remark,omitempty"`
}

// Forfeit moves an overdue pledge into shop stock. Only an overdue pledge can
// be forfeited; an active one still belongs to the customer.
func (s *PledgeService) Forfeit(ctx context.Context, pledgeNo string, input *ForfeitInput, userID uint, ipAddress string) (*models.Pledge, error) {
	pledge, err := s.GetByPledgeNo(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if pledge.EffectiveStatus(now) != domain.StatusOverdue {
		return nil, fmt.Errorf("%w: only an overdue pledge can be forfeited (current: %s)", domain.ErrInvalidStatus, pledge.EffectiveStatus(now))
	}

	pledge.Status = string(domain.StatusForfeited)
	pledge.ForfeitedAt = &now
	if input.Remark != "" {
		pledge.Remark = input.Remark
	}
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return nil, err
	}

	if err := s.customerRepo.RecordPledgeClosed(ctx, pledge.CustomerID, now); err != nil {
		log.Printf("⚠️ Customer counter update failed (pledge %s): %v", pledge.PledgeNo, err)
	}

	s.audit(ctx, &pledge.ID, models.TxTypeForfeit, nil,
		fmt.Sprintf("Pledge %s forfeited", pledge.PledgeNo),
		userID, ipAddress)

	log.Printf("⚠️ Pledge forfeited: %s", pledge.PledgeNo)

	return pledge, nil
}

// AuctionInput represents auction sale input
type AuctionInput struct {
	Price decimal.Decimal `json:"price" validate:"required"`
	Buyer string          `json:"buyer" validate:"required"`
}

// Auction records the sale of forfeited stock. This is the terminal state of
// an unredeemed pledge.
func (s *PledgeService) Auction(ctx context.Context, pledgeNo string, input *AuctionInput, userID uint, ipAddress string) (*models.Pledge, error) {
	pledge, err := s.GetByPledgeNo(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}

	if domain.PledgeStatus(pledge.Status) != domain.StatusForfeited {
		return nil, fmt.Errorf("%w: only forfeited stock can be auctioned (current: %s)", domain.ErrInvalidStatus, pledge.Status)
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: auction price must be positive", domain.ErrValidation)
	}
	if input.Buyer == "" {
		return nil, fmt.Errorf("%w: buyer is required", domain.ErrValidation)
	}

	now := s.now()
	pledge.Status = string(domain.StatusAuctioned)
	pledge.AuctionedAt = &now
	pledge.AuctionPrice = input.Price.Round(2)
	pledge.AuctionBuyer = input.Buyer
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return nil, err
	}

	s.audit(ctx, &pledge.ID, models.TxTypeAuction, &pledge.AuctionPrice,
		fmt.Sprintf("Pledge %s auctioned to %s for %s", pledge.PledgeNo, input.Buyer, pledge.AuctionPrice),
		userID, ipAddress)

	log.Printf("🔨 Pledge auctioned: %s (%s)", pledge.PledgeNo, pledge.AuctionPrice)

	return pledge, nil
}

// MoveRackInput represents rack move input
type MoveRackInput struct {
	RackLocation string `json:"rack_location" validate:"required"`
}

// MoveRack relocates the physical articles in the vault
func (s *PledgeService) MoveRack(ctx context.Context, pledgeNo string, input *MoveRackInput, userID uint, ipAddress string) (*models.Pledge, error) {
	if input.RackLocation == "" {
		return nil, fmt.Errorf("%w: rack location is required", domain.ErrValidation)
	}

	pledge, err := s.GetByPledgeNo(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}

	if domain.PledgeStatus(pledge.Status).IsTerminal() {
		return nil, fmt.Errorf("%w: items already released", domain.ErrInvalidStatus)
	}

	from := pledge.RackLocation
	pledge.RackLocation = input.RackLocation
	if err := s.pledgeRepo.Update(ctx, pledge); err != nil {
		return nil, err
	}

	s.audit(ctx, &pledge.ID, models.TxTypeRackMove, nil,
		fmt.Sprintf("Pledge %s moved %s -> %s", pledge.PledgeNo, from, input.RackLocation),
		userID, ipAddress)

	return pledge, nil
}

// History returns the audit trail of one pledge
func (s *PledgeService) History(ctx context.Context, pledgeNo string) ([]*models.PawnTransaction, error) {
	pledge, err := s.GetByPledgeNo(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.ListByPledge(ctx, pledge.ID)
}

// loadLive loads a pledge that can still transact (active or overdue).
// Forfeited stock belongs to the shop; terminal pledges are history.
func (s *PledgeService) loadLive(ctx context.Context, pledgeNo string) (*models.Pledge, error) {
	pledge, err := s.GetByPledgeNo(ctx, pledgeNo)
	if err != nil {
		return nil, err
	}

	status := pledge.EffectiveStatus(s.now())
	if status != domain.StatusActive && status != domain.StatusOverdue {
		return nil, fmt.Errorf("%w: pledge is %s", domain.ErrInvalidStatus, status)
	}
	return pledge, nil
}

// nextPledgeNo assigns the next ticket number for the year
func (s *PledgeService) nextPledgeNo(ctx context.Context, now time.Time) (string, error) {
	count, err := s.pledgeRepo.CountByYear(ctx, now.Year())
	if err != nil {
		return "", err
	}
	return formatPledgeNo(now.Year(), int(count)+1), nil
}

// formatPledgeNo renders a ticket number, e.g. PW-2026-0042
func formatPledgeNo(year, seq int) string {
	return fmt.Sprintf("PW-%d-%04d", year, seq)
}

// audit appends a row to the append-only trail. Audit failures are logged,
// not returned: the money movement already happened.
func (s *PledgeService) audit(ctx context.Context, pledgeID *uint, txType string, amount *decimal.Decimal, description string, userID uint, ipAddress string) {
	tx := &models.PawnTransaction{
		PledgeID:        pledgeID,
		TransactionType: txType,
		Amount:          amount,
		Description:     description,
		PerformedBy:     userID,
		IPAddress:       ipAddress,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		log.Printf("⚠️ Audit write failed (%s): %v", txType, err)
	}
}
