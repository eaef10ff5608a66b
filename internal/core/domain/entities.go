package domain

// Role represents a staff role in the system
type Role string

const (
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

// PledgeStatus represents the lifecycle state of a pledge contract
type PledgeStatus string

const (
	StatusActive    PledgeStatus = "active"
	StatusOverdue   PledgeStatus = "overdue"
	StatusRedeemed  PledgeStatus = "redeemed"
	StatusForfeited PledgeStatus = "forfeited"
	StatusAuctioned PledgeStatus = "auctioned"
)

// IsTerminal reports whether no further transition is allowed from the status.
// forfeited is not terminal: forfeited stock still has to reach auction.
func (s PledgeStatus) IsTerminal() bool {
	return s == StatusRedeemed || s == StatusAuctioned
}

// DeductionType discriminates how an item deduction is expressed
type DeductionType string

const (
	DeductionAmount  DeductionType = "amount"
	DeductionPercent DeductionType = "percent"
)

// Purity tiers carried in the gold price table. FallbackPurity is used when an
// item carries a tier the table does not know.
const (
	Purity999 = "999"
	Purity916 = "916"
	Purity875 = "875"
	Purity750 = "750"
	Purity585 = "585"
	Purity375 = "375"

	FallbackPurity = Purity916
)

// KnownPurities lists every tier the price table is seeded with
var KnownPurities = []string{Purity999, Purity916, Purity875, Purity750, Purity585, Purity375}

// Item categories offered as presets on the counter screens.
// Free-text categories are accepted as well.
const (
	CategoryChain    = "chain"
	CategoryRing     = "ring"
	CategoryBangle   = "bangle"
	CategoryBracelet = "bracelet"
	CategoryPendant  = "pendant"
	CategoryEarring  = "earring"
	CategoryCoin     = "coin"
)
