package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table names in the backend.
const (
	TablePayments    = "payment_requests"
	TableWithdrawals = "withdrawal_requests"
	TableProfiles    = "profiles"
	TableSettings    = "settings"
)

// Payment is a user's request to have a manual payment confirmed.
type Payment struct {
	ID              int64           `json:"id"`
	UserID          string          `json:"user_id"`
	UserEmail       string          `json:"user_email"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"payment_method"`
	ScreenshotURL   string          `json:"screenshot_url"`
	Status          Status          `json:"status"`
	RejectionReason string          `json:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ApprovedAt      *time.Time      `json:"approved_at"`
}

// Payer returns the label shown for the paying user.
func (p Payment) Payer() string {
	return DisplayName("", "", p.UserEmail, p.UserID)
}

// Withdrawal is a user's request to be paid out.
type Withdrawal struct {
	ID              int64           `json:"id"`
	UserID          string          `json:"user_id"`
	UserEmail       string          `json:"user_email"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	Status          Status          `json:"status"`
	RejectionReason string          `json:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Requester returns the label shown for the requesting user.
func (w Withdrawal) Requester() string {
	return DisplayName("", "", w.UserEmail, w.UserID)
}

// Member is a platform profile.
type Member struct {
	ID        string       `json:"id"`
	FullName  string       `json:"full_name"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      Role         `json:"role"`
	Verified  bool         `json:"verified"`
	Status    MemberStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Name returns the label shown for the member.
func (m Member) Name() string {
	return DisplayName(m.FullName, m.Username, m.Email, m.ID)
}

// Suspended reports whether the member is blocked. Rows without a status are active.
func (m Member) Suspended() bool {
	return m.Status == MemberSuspended
}

// Tier is the membership tier a member's verification grants.
type Tier string

const (
	TierPremium Tier = "premium"
	TierBasic   Tier = "basic"
)

// Tier returns the member's membership tier.
func (m Member) Tier() Tier {
	if m.Verified {
		return TierPremium
	}
	return TierBasic
}

// DisplayName picks the first non-empty of full name, username and the
// email local part, falling back to the first eight characters of id.
func DisplayName(fullName, username, email, id string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(username); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(strings.TrimSpace(email), "@"); local != "" {
		return local
	}
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
