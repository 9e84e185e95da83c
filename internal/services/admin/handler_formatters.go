package admin

import (
	"strconv"
	"time"

	"github.com/louisbranch/paydesk/internal/services/admin/domain"
	"github.com/louisbranch/paydesk/internal/services/admin/i18n"
	"github.com/louisbranch/paydesk/internal/services/admin/templates"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
)

func (h *Handler) money(loc *message.Printer, amount decimal.Decimal) string {
	return i18n.Money(loc, h.currency, amount)
}

func (h *Handler) formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.In(h.location).Format(layout)
}

func formatStatus(status domain.Status, loc *message.Printer) string {
	if !status.Valid() {
		return string(status)
	}
	return loc.Sprintf("status." + string(status))
}

func formatRole(role domain.Role, loc *message.Printer) string {
	switch role {
	case domain.RoleAdmin, domain.RoleClient, domain.RoleMentor:
		return loc.Sprintf("role." + string(role))
	default:
		return string(role)
	}
}

func formatTier(tier domain.Tier, loc *message.Printer) string {
	return loc.Sprintf("tier." + string(tier))
}

func formatMemberStatus(member domain.Member, loc *message.Printer) string {
	if member.Suspended() {
		return loc.Sprintf("member.suspended")
	}
	return loc.Sprintf("member.active")
}

func formatMethod(method string, loc *message.Printer) string {
	if method == "" {
		return loc.Sprintf("core.unknown")
	}
	return method
}

func (h *Handler) buildStatsView(stats domain.Stats, loc *message.Printer) templates.StatsView {
	return templates.StatsView{
		TotalRevenue:       h.money(loc, stats.TotalRevenue),
		TodayRevenue:       h.money(loc, stats.TodayRevenue),
		PendingPayments:    strconv.Itoa(stats.PendingPayments),
		PendingWithdrawals: strconv.Itoa(stats.PendingWithdrawals),
		ActiveMembers:      strconv.Itoa(stats.ActiveMembers),
	}
}

func (h *Handler) buildPaymentRows(payments []domain.Payment, loc *message.Printer) []templates.PaymentRow {
	rows := make([]templates.PaymentRow, 0, len(payments))
	for _, payment := range payments {
		row := templates.PaymentRow{
			ID:            payment.ID,
			UserID:        payment.UserID,
			Payer:         payment.Payer(),
			Amount:        h.money(loc, payment.Amount),
			Method:        formatMethod(payment.Method, loc),
			ScreenshotURL: payment.ScreenshotURL,
			Status:        string(payment.Status),
			StatusLabel:   formatStatus(payment.Status, loc),
			CreatedAt:     h.formatTime(payment.CreatedAt, dateTimeLayout),
		}
		switch {
		case payment.ApprovedAt != nil:
			row.ApprovedAt = h.formatTime(*payment.ApprovedAt, dateTimeLayout)
		case payment.Status.Settled():
			row.ApprovedAt = h.formatTime(payment.UpdatedAt, dateTimeLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

func (h *Handler) buildWithdrawalRows(withdrawals []domain.Withdrawal, loc *message.Printer) []templates.WithdrawalRow {
	rows := make([]templates.WithdrawalRow, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		rows = append(rows, templates.WithdrawalRow{
			ID:        withdrawal.ID,
			Requester: withdrawal.Requester(),
			Amount:    h.money(loc, withdrawal.Amount),
			Method:    formatMethod(withdrawal.Method, loc),
			CreatedAt: h.formatTime(withdrawal.CreatedAt, dateTimeLayout),
		})
	}
	return rows
}

func (h *Handler) buildMemberRows(members []domain.Member, loc *message.Printer) []templates.MemberRow {
	rows := make([]templates.MemberRow, 0, len(members))
	for _, member := range members {
		rows = append(rows, templates.MemberRow{
			ID:          member.ID,
			Name:        member.Name(),
			Email:       member.Email,
			Role:        formatRole(member.Role, loc),
			Tier:        formatTier(member.Tier(), loc),
			StatusLabel: formatMemberStatus(member, loc),
			Suspended:   member.Suspended(),
			JoinedAt:    h.formatTime(member.CreatedAt, dateLayout),
		})
	}
	return rows
}

// buildSettingsView fills the form inputs. A zero price renders as an empty
// field so an unset row shows a blank form.
func (h *Handler) buildSettingsView(settings domain.Settings) templates.SettingsView {
	view := templates.SettingsView{
		PaymentNumber: settings.PaymentNumber,
		PaymentName:   settings.PaymentName,
		UpdatedAt:     h.formatTime(settings.UpdatedAt, dateTimeLayout),
	}
	if !settings.Price.IsZero() {
		view.Price = settings.Price.String()
	}
	return view
}
