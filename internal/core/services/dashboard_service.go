package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pawndesk-backend/internal/core/domain"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardData represents the shop overview screen
type DashboardData struct {
	// Book statistics
	ActivePledges    int64   `json:"active_pledges"`
	OverduePledges   int64   `json:"overdue_pledges"`
	ForfeitedPledges int64   `json:"forfeited_pledges"`
	TotalCustomers   int64   `json:"total_customers"`
	PrincipalOnBook  float64 `json:"principal_on_book"`
	WeightOnBook     float64 `json:"weight_on_book"`

	// Today's counter activity
	TodayPledges     int64   `json:"today_pledges"`
	TodayRenewals    int64   `json:"today_renewals"`
	TodayRedemptions int64   `json:"today_redemptions"`
	TodayCashOut     float64 `json:"today_cash_out"`
	TodayCashIn      float64 `json:"today_cash_in"`

	// This month
	MonthPledges int64   `json:"month_pledges"`
	MonthLoaned  float64 `json:"month_loaned"`

	// Worklists
	DueSoon        []PledgeSummary `json:"due_soon"`
	RecentPledges  []PledgeSummary `json:"recent_pledges"`
	RecentActivity []ActivityInfo  `json:"recent_activity"`
}

// PledgeSummary represents a pledge line on the dashboard
type PledgeSummary struct {
	ID           uint      `json:"id"`
	PledgeNo     string    `json:"pledge_no"`
	CustomerName string    `json:"customer_name"`
	LoanAmount   float64   `json:"loan_amount"`
	Status       string    `json:"status"`
	DueDate      time.Time `json:"due_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActivityInfo represents one audit trail line
type ActivityInfo struct {
	ID          uint      `json:"id"`
	PledgeNo    string    `json:"pledge_no"`
	Action      string    `json:"action"`
	Amount      float64   `json:"amount"`
	PerformedBy string    `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetDashboard returns the shop overview. Overdue counts compare due dates
// against now directly, so the figures stay right even before the nightly
// sweep has refreshed the cached status column.
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}
	now := time.Now()

	// Live book: active not yet lapsed, overdue = lapsed actives + swept rows
	s.db.WithContext(ctx).Table("pledges").
		Where("status = ? AND due_date >= ? AND deleted_at IS NULL", string(domain.StatusActive), now).
		Count(&data.ActivePledges)

	s.db.WithContext(ctx).Table("pledges").
		Where("(status = ? OR (status = ? AND due_date < ?)) AND deleted_at IS NULL",
			string(domain.StatusOverdue), string(domain.StatusActive), now).
		Count(&data.OverduePledges)

	s.db.WithContext(ctx).Table("pledges").
		Where("status = ? AND deleted_at IS NULL", string(domain.StatusForfeited)).
		Count(&data.ForfeitedPledges)

	s.db.WithContext(ctx).Table("customers").
		Where("deleted_at IS NULL").
		Count(&data.TotalCustomers)

	liveStatuses := []string{string(domain.StatusActive), string(domain.StatusOverdue)}
	s.db.WithContext(ctx).Table("pledges").
		Where("status IN ? AND deleted_at IS NULL", liveStatuses).
		Select("COALESCE(SUM(loan_amount), 0)").
		Scan(&data.PrincipalOnBook)

	s.db.WithContext(ctx).Table("pledges").
		Where("status IN ? AND deleted_at IS NULL", liveStatuses).
		Select("COALESCE(SUM(total_weight), 0)").
		Scan(&data.WeightOnBook)

	// Today
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	s.db.WithContext(ctx).Table("pledges").
		Where("created_at >= ? AND deleted_at IS NULL", today).
		Count(&data.TodayPledges)

	s.db.WithContext(ctx).Table("pledges").
		Where("created_at >= ? AND deleted_at IS NULL", today).
		Select("COALESCE(SUM(loan_amount), 0)").
		Scan(&data.TodayCashOut)

	s.db.WithContext(ctx).Table("renewals").
		Where("created_at >= ?", today).
		Count(&data.TodayRenewals)

	var renewalCashIn float64
	s.db.WithContext(ctx).Table("renewals").
		Where("created_at >= ?", today).
		Select("COALESCE(SUM(amount_received), 0)").
		Scan(&renewalCashIn)

	s.db.WithContext(ctx).Table("pledges").
		Where("status = ? AND redeemed_at >= ? AND deleted_at IS NULL", string(domain.StatusRedeemed), today).
		Count(&data.TodayRedemptions)

	var redemptionCashIn float64
	s.db.WithContext(ctx).Table("pledges").
		Where("status = ? AND redeemed_at >= ? AND deleted_at IS NULL", string(domain.StatusRedeemed), today).
		Select("COALESCE(SUM(redemption_amount), 0)").
		Scan(&redemptionCashIn)

	data.TodayCashIn = renewalCashIn + redemptionCashIn

	// This month
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	s.db.WithContext(ctx).Table("pledges").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Count(&data.MonthPledges)

	s.db.WithContext(ctx).Table("pledges").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Select("COALESCE(SUM(loan_amount), 0)").
		Scan(&data.MonthLoaned)

	// Due within 7 days
	weekAhead := now.AddDate(0, 0, 7)
	var dueSoon []struct {
		ID           uint
		PledgeNo     string
		CustomerName string
		LoanAmount   float64
		Status       string
		DueDate      time.Time
		CreatedAt    time.Time
	}
	s.db.WithContext(ctx).Table("pledges").
		Select("pledges.id, pledges.pledge_no, customers.name as customer_name, pledges.loan_amount, pledges.status, pledges.due_date, pledges.created_at").
		Joins("LEFT JOIN customers ON pledges.customer_id = customers.id").
		Where("pledges.status IN ? AND pledges.due_date BETWEEN ? AND ? AND pledges.deleted_at IS NULL", liveStatuses, now, weekAhead).
		Order("pledges.due_date ASC").
		Limit(10).
		Scan(&dueSoon)

	data.DueSoon = make([]PledgeSummary, len(dueSoon))
	for i, p := range dueSoon {
		data.DueSoon[i] = PledgeSummary{
			ID:           p.ID,
			PledgeNo:     p.PledgeNo,
			CustomerName: p.CustomerName,
			LoanAmount:   p.LoanAmount,
			Status:       p.Status,
			DueDate:      p.DueDate,
			CreatedAt:    p.CreatedAt,
		}
	}

	// Recent pledges
	var recent []struct {
		ID           uint
		PledgeNo     string
		CustomerName string
		LoanAmount   float64
		Status       string
		DueDate      time.Time
		CreatedAt    time.Time
	}
	s.db.WithContext(ctx).Table("pledges").
		Select("pledges.id, pledges.pledge_no, customers.name as customer_name, pledges.loan_amount, pledges.status, pledges.due_date, pledges.created_at").
		Joins("LEFT JOIN customers ON pledges.customer_id = customers.id").
		Where("pledges.deleted_at IS NULL").
		Order("pledges.created_at DESC").
		Limit(10).
		Scan(&recent)

	data.RecentPledges = make([]PledgeSummary, len(recent))
	for i, p := range recent {
		data.RecentPledges[i] = PledgeSummary{
			ID:           p.ID,
			PledgeNo:     p.PledgeNo,
			CustomerName: p.CustomerName,
			LoanAmount:   p.LoanAmount,
			Status:       p.Status,
			DueDate:      p.DueDate,
			CreatedAt:    p.CreatedAt,
		}
	}

	// Recent audit activity
	var activity []struct {
		ID          uint
		PledgeNo    string
		Action      string
		Amount      float64
		PerformedBy string
		CreatedAt   time.Time
	}
	s.db.WithContext(ctx).Table("pawn_transactions").
		Select("pawn_transactions.id, COALESCE(pledges.pledge_no, '') as pledge_no, pawn_transactions.transaction_type as action, COALESCE(pawn_transactions.amount, 0) as amount, users.username as performed_by, pawn_transactions.created_at").
		Joins("LEFT JOIN pledges ON pawn_transactions.pledge_id = pledges.id").
		Joins("LEFT JOIN users ON pawn_transactions.performed_by = users.id").
		Order("pawn_transactions.created_at DESC").
		Limit(15).
		Scan(&activity)

	data.RecentActivity = make([]ActivityInfo, len(activity))
	for i, a := range activity {
		data.RecentActivity[i] = ActivityInfo{
			ID:          a.ID,
			PledgeNo:    a.PledgeNo,
			Action:      a.Action,
			Amount:      a.Amount,
			PerformedBy: a.PerformedBy,
			CreatedAt:   a.CreatedAt,
		}
	}

	return data, nil
}
