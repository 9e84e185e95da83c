package templates

// StatsView holds the formatted header cards.
type StatsView struct {
	TotalRevenue       string
	TodayRevenue       string
	PendingPayments    string
	PendingWithdrawals string
	ActiveMembers      string
}

// PaymentRow represents a row in the payment tables.
type PaymentRow struct {
	ID            int64
	UserID        string
	Payer         string
	Amount        string
	Method        string
	ScreenshotURL string
	Status        string
	StatusLabel   string
	CreatedAt     string
	ApprovedAt    string
}

// WithdrawalRow represents a row in the withdrawals table.
type WithdrawalRow struct {
	ID        int64
	Requester string
	Amount    string
	Method    string
	CreatedAt string
}

// MemberRow represents a row in the members table.
type MemberRow struct {
	ID          string
	Name        string
	Email       string
	Role        string
	Tier        string
	StatusLabel string
	Suspended   bool
	JoinedAt    string
}

// SettingsView populates the settings form.
type SettingsView struct {
	Price         string
	PaymentNumber string
	PaymentName   string
	UpdatedAt     string
}

// LoginView populates the login form.
type LoginView struct {
	Email string
	Error string
}
