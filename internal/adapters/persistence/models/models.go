package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawndesk-backend/internal/core/domain"
	"pawndesk-backend/internal/core/pawncalc"
)

// ============================================================
// Auth & Staff Tables
// ============================================================

// User represents the users table (counter staff and admins)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'STAFF'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Master Tables
// ============================================================

// GoldPrice is one row of the purity -> price-per-gram snapshot table
type GoldPrice struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Purity       string          `gorm:"size:10;uniqueIndex;not null" json:"purity"`
	PricePerGram decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_gram"`
	Source       string          `gorm:"size:100" json:"source"`
	UpdatedBy    *uint           `json:"updated_by"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GoldPrice) TableName() string {
	return "gold_prices"
}

// ============================================================
// Customer Table
// ============================================================

// Customer represents the customers table. The pledge counters are aggregate
// caches maintained by the pledge lifecycle, not recomputed on read.
type Customer struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ICNumber      string          `gorm:"size:20;uniqueIndex;not null" json:"ic_number"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Phone         string          `gorm:"size:20" json:"phone"`
	Email         string          `gorm:"size:100" json:"email"`
	Address       string          `gorm:"type:text" json:"address"`
	ActivePledges int             `gorm:"default:0" json:"active_pledges"`
	TotalPledges  int             `gorm:"default:0" json:"total_pledges"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	LastVisit     *time.Time      `json:"last_visit"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// ============================================================
// Pledge Tables
// ============================================================

// Pledge is the loan contract. The valuation aggregates and the loan amount
// are a frozen snapshot taken at origination; only due date, status, rack
// location and the closing fields change afterwards.
type Pledge struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PledgeNo   string `gorm:"size:20;uniqueIndex;not null" json:"pledge_no"`
	CustomerID uint   `gorm:"not null;index" json:"customer_id"`

	TotalWeight    decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"total_weight"`
	GrossValue     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"gross_value"`
	TotalDeduction decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_deduction"`
	NetValue       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"net_value"`
	LoanPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"loan_percentage"`
	LoanAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"loan_amount"`

	Status       string    `gorm:"size:20;not null;default:'active';index" json:"status"`
	DueDate      time.Time `gorm:"not null;index" json:"due_date"`
	RackLocation string    `gorm:"size:50" json:"rack_location"`
	Remark       string    `gorm:"type:text" json:"remark"`

	RedeemedAt          *time.Time      `json:"redeemed_at"`
	RedemptionReceiptNo string          `gorm:"size:40" json:"redemption_receipt_no,omitempty"`
	RedemptionAmount    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"redemption_amount"`
	AmountReceived      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_received"`
	ChangeGiven         decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"change_given"`

	ForfeitedAt *time.Time `json:"forfeited_at"`

	AuctionedAt  *time.Time      `json:"auctioned_at"`
	AuctionPrice decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"auction_price"`
	AuctionBuyer string          `gorm:"size:100" json:"auction_buyer"`

	CreatedBy uint           `gorm:"not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Customer *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []PledgeItem `gorm:"foreignKey:PledgeID" json:"items,omitempty"`
	Renewals []Renewal    `gorm:"foreignKey:PledgeID" json:"renewals,omitempty"`
	Creator  *User        `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Pledge) TableName() string {
	return "pledges"
}

// EffectiveStatus derives the status as of now; an active pledge past its
// due date reads as overdue without mutating the stored column.
func (p *Pledge) EffectiveStatus(now time.Time) domain.PledgeStatus {
	return pawncalc.EffectiveStatus(domain.PledgeStatus(p.Status), p.DueDate, now)
}

// PaidInterest sums the interest already collected through prior renewals.
func (p *Pledge) PaidInterest() decimal.Decimal {
	paid := decimal.Zero
	for _, r := range p.Renewals {
		paid = paid.Add(r.OutstandingInterestPaid).Add(r.ExtensionInterestPrepaid)
	}
	return paid
}

// PledgeResponse DTO
type PledgeResponse struct {
	ID             uint            `json:"id"`
	PledgeNo       string          `json:"pledge_no"`
	CustomerID     uint            `json:"customer_id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	TotalWeight    decimal.Decimal `json:"total_weight"`
	GrossValue     decimal.Decimal `json:"gross_value"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
	NetValue       decimal.Decimal `json:"net_value"`
	LoanPercentage decimal.Decimal `json:"loan_percentage"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	Status         string          `json:"status"`
	DueDate        time.Time       `json:"due_date"`
	RackLocation   string          `json:"rack_location"`
	Remark         string          `json:"remark,omitempty"`
	Items          []PledgeItem    `json:"items,omitempty"`
	Renewals       []Renewal       `json:"renewals,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToResponse builds the DTO with the effective (derived) status as of now.
func (p *Pledge) ToResponse(now time.Time) *PledgeResponse {
	resp := &PledgeResponse{
		ID:             p.ID,
		PledgeNo:       p.PledgeNo,
		CustomerID:     p.CustomerID,
		TotalWeight:    p.TotalWeight,
		GrossValue:     p.GrossValue,
		TotalDeduction: p.TotalDeduction,
		NetValue:       p.NetValue,
		LoanPercentage: p.LoanPercentage,
		LoanAmount:     p.LoanAmount,
		Status:         string(p.EffectiveStatus(now)),
		DueDate:        p.DueDate,
		RackLocation:   p.RackLocation,
		Remark:         p.Remark,
		Items:          p.Items,
		Renewals:       p.Renewals,
		CreatedAt:      p.CreatedAt,
	}

	if p.Customer != nil {
		resp.CustomerName = p.Customer.Name
	}

	return resp
}

// PledgeItem is one physical article within a pledge. The valuation fields
// are a snapshot taken against the price table at creation time.
type PledgeItem struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PledgeID uint   `gorm:"not null;index" json:"pledge_id"`
	Category string `gorm:"size:30;not null" json:"category"`

	WeightGrams   decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"weight_grams"`
	Purity        string          `gorm:"size:10;not null" json:"purity"`
	DeductionType string          `gorm:"size:10;not null;default:'amount'" json:"deduction_type"`
	Deduction     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"deduction"`

	GrossValue      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"gross_value"`
	DeductionAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"deduction_amount"`
	NetValue        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"net_value"`

	Remark    string    `gorm:"type:text" json:"remark"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PledgeItem) TableName() string {
	return "pledge_items"
}

// Renewal is one interest-payment event extending the due date. Rows are
// append-only: never updated, removed or reordered.
type Renewal struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PledgeID  uint   `gorm:"not null;index" json:"pledge_id"`
	ReceiptNo string `gorm:"size:40;uniqueIndex;not null" json:"receipt_no"`

	AmountReceived           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount_received"`
	ExtensionMonths          int             `gorm:"not null" json:"extension_months"`
	OutstandingInterestPaid  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"outstanding_interest_paid"`
	ExtensionInterestPrepaid decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"extension_interest_prepaid"`

	OldDueDate time.Time `gorm:"not null" json:"old_due_date"`
	NewDueDate time.Time `gorm:"not null" json:"new_due_date"`

	PerformedBy uint      `gorm:"not null" json:"performed_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Renewal) TableName() string {
	return "renewals"
}

// ============================================================
// Day-End Table
// ============================================================

// DayEndRecord is one closed reconciliation per calendar date. Closing a
// date that already has a record overwrites it (last write wins); reopening
// deletes the row.
type DayEndRecord struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	Date time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`

	OpeningBalance       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"opening_balance"`
	CashIn               decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"cash_in"`
	CashOut              decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"cash_out"`
	ExpectedClosing      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"expected_closing"`
	ClosingBalanceActual decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"closing_balance_actual"`
	Variance             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"variance"`

	PledgeCount     int `gorm:"default:0" json:"pledge_count"`
	RenewalCount    int `gorm:"default:0" json:"renewal_count"`
	RedemptionCount int `gorm:"default:0" json:"redemption_count"`

	Notes     string    `gorm:"type:text" json:"notes"`
	ClosedBy  uint      `gorm:"not null" json:"closed_by"`
	ClosedAt  time.Time `gorm:"not null" json:"closed_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DayEndRecord) TableName() string {
	return "day_end_records"
}

// ============================================================
// Audit Trail
// ============================================================

// PawnTransaction is the append-only audit history. Every pledge lifecycle
// event and day-end close/reopen writes a row here.
type PawnTransaction struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	PledgeID        *uint            `gorm:"index" json:"pledge_id"`
	TransactionType string           `gorm:"size:30;not null" json:"transaction_type"`
	Amount          *decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	Description     string           `gorm:"type:text" json:"description"`
	PerformedBy     uint             `gorm:"not null" json:"performed_by"`
	IPAddress       string           `gorm:"size:50" json:"ip_address"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Pledge    *Pledge `gorm:"foreignKey:PledgeID" json:"pledge,omitempty"`
	Performer *User   `gorm:"foreignKey:PerformedBy" json:"performer,omitempty"`
}

func (PawnTransaction) TableName() string {
	return "pawn_transactions"
}

// Transaction Types
const (
	TxTypePledgeCreate = "PLEDGE_CREATE"
	TxTypeRenewal      = "RENEWAL"
	TxTypeRedemption   = "REDEMPTION"
	TxTypeForfeit      = "FORFEIT"
	TxTypeAuction      = "AUCTION"
	TxTypeRackMove     = "RACK_MOVE"
	TxTypeOverdueSweep = "OVERDUE_SWEEP"
	TxTypePriceUpdate  = "PRICE_UPDATE"
	TxTypeDayEndClose  = "DAYEND_CLOSE"
	TxTypeDayEndReopen = "DAYEND_REOPEN"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		// Master
		&GoldPrice{},
		// Domain
		&Customer{},
		&Pledge{},
		&PledgeItem{},
		&Renewal{},
		&DayEndRecord{},
		// Audit
		&PawnTransaction{},
	)
}
