package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root = "/"
	Up   = "/up"
	Live = "/live"
)

const (
	StaticPrefix = "/static/"
)

const (
	Login  = "/login"
	Logout = "/logout"
)

const (
	Payments           = "/payments"
	PaymentsPrefix     = "/payments/"
	PaymentsApproveAll = "/payments/approve-all"
	Withdrawals        = "/withdrawals"
	WithdrawalsPrefix  = "/withdrawals/"
	Members            = "/members"
	MembersPrefix      = "/members/"
	Settings           = "/settings"
)

const (
	PanelStats            = "/panels/stats"
	PanelRecentPayments   = "/panels/payments/recent"
	PanelPendingPayments  = "/panels/payments/pending"
	PanelApprovedPayments = "/panels/payments/approved"
	PanelWithdrawals      = "/panels/withdrawals"
	PanelMembers          = "/panels/members"
)

func PaymentApprove(paymentID int64) string {
	return PaymentsPrefix + strconv.FormatInt(paymentID, 10) + "/approve"
}

func PaymentReject(paymentID int64) string {
	return PaymentsPrefix + strconv.FormatInt(paymentID, 10) + "/reject"
}

func WithdrawalApprove(withdrawalID int64) string {
	return WithdrawalsPrefix + strconv.FormatInt(withdrawalID, 10) + "/approve"
}

func WithdrawalReject(withdrawalID int64) string {
	return WithdrawalsPrefix + strconv.FormatInt(withdrawalID, 10) + "/reject"
}

func MemberSuspend(memberID string) string {
	return MembersPrefix + escapeSegment(memberID) + "/suspend"
}

func MemberReactivate(memberID string) string {
	return MembersPrefix + escapeSegment(memberID) + "/reactivate"
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
