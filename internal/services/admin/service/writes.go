package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/paydesk/internal/platform/errors"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"github.com/louisbranch/paydesk/internal/services/admin/domain"
	"github.com/shopspring/decimal"
)

// BulkResult summarises an approve-all run.
type BulkResult struct {
	Approved int
	Failed   int
	// Err joins the per-row failures, including rows that were approved but
	// whose user could not be verified.
	Err error
}

// SettingsInput is the raw settings form.
type SettingsInput struct {
	PaymentNumber string
	PaymentName   string
	Price         string
}

// ApprovePayment approves a pending payment and then marks its user verified.
// When userID is empty it is read from the payment row. If the verification
// write fails the payment stays approved and a CodePartialFailure error is
// returned.
func (s *Service) ApprovePayment(ctx context.Context, paymentID int64, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		payment, err := s.payment(ctx, paymentID)
		if err != nil {
			return err
		}
		userID = payment.UserID
	}
	return s.approve(ctx, paymentID, userID)
}

// RejectPayment rejects a pending payment. The paying user is not touched.
func (s *Service) RejectPayment(ctx context.Context, paymentID int64, reason string) error {
	now := s.now().UTC()
	return s.decide(ctx, domain.TablePayments, paymentID, map[string]any{
		"status":           string(domain.StatusRejected),
		"rejection_reason": strings.TrimSpace(reason),
		"updated_at":       now,
	})
}

// ApproveAllPending approves every pending payment one at a time. There is no
// atomicity: rows approved before a failure stay approved.
func (s *Service) ApproveAllPending(ctx context.Context) (BulkResult, error) {
	pending, err := s.PendingPayments(ctx)
	if err != nil {
		return BulkResult{}, err
	}
	var (
		result BulkResult
		errs   []error
	)
	for _, payment := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := s.approve(ctx, payment.ID, payment.UserID)
		switch {
		case err == nil:
			result.Approved++
		case apperrors.HasCode(err, apperrors.CodePartialFailure):
			result.Approved++
			errs = append(errs, fmt.Errorf("payment %d: %w", payment.ID, err))
		default:
			result.Failed++
			errs = append(errs, fmt.Errorf("payment %d: %w", payment.ID, err))
		}
	}
	result.Err = errors.Join(errs...)
	return result, nil
}

// ApproveWithdrawal approves a pending withdrawal.
func (s *Service) ApproveWithdrawal(ctx context.Context, withdrawalID int64) error {
	return s.decide(ctx, domain.TableWithdrawals, withdrawalID, map[string]any{
		"status":     string(domain.StatusApproved),
		"updated_at": s.now().UTC(),
	})
}

// RejectWithdrawal rejects a pending withdrawal.
func (s *Service) RejectWithdrawal(ctx context.Context, withdrawalID int64, reason string) error {
	return s.decide(ctx, domain.TableWithdrawals, withdrawalID, map[string]any{
		"status":           string(domain.StatusRejected),
		"rejection_reason": strings.TrimSpace(reason),
		"updated_at":       s.now().UTC(),
	})
}

// SuspendMember blocks a member.
func (s *Service) SuspendMember(ctx context.Context, memberID string) error {
	return s.setMemberStatus(ctx, memberID, domain.MemberSuspended)
}

// ReactivateMember lifts a suspension.
func (s *Service) ReactivateMember(ctx context.Context, memberID string) error {
	return s.setMemberStatus(ctx, memberID, domain.MemberActive)
}

// SaveSettings writes the settings row. Text fields are stored trimmed. The
// price column is numeric, so a blank price is stored as zero and anything
// else must parse. The JSON value column is kept in step for clients that
// still read it.
func (s *Service) SaveSettings(ctx context.Context, input SettingsInput) (domain.Settings, error) {
	price := decimal.Zero
	if raw := strings.TrimSpace(input.Price); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Settings{}, apperrors.WithMetadata(apperrors.CodeInvalidInput, "price is not a number", map[string]string{"Field": "price"})
		}
		price = parsed
	}
	settings := domain.Settings{
		PaymentNumber: strings.TrimSpace(input.PaymentNumber),
		PaymentName:   strings.TrimSpace(input.PaymentName),
		Price:         price,
		UpdatedAt:     s.now().UTC(),
	}
	blob, err := json.Marshal(settings)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("encode settings value: %w", err)
	}
	err = s.tables.Upsert(ctx, domain.TableSettings, "id", map[string]any{
		"id":             domain.SettingsRowID,
		"key":            domain.SettingsLegacyKey,
		"value":          string(blob),
		"payment_number": settings.PaymentNumber,
		"payment_name":   settings.PaymentName,
		"price":          settings.Price,
		"updated_at":     settings.UpdatedAt,
	})
	if err != nil {
		return domain.Settings{}, backendError("save settings", err)
	}
	return settings, nil
}

// ParseID parses a numeric request id from a path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidInput, "invalid request id", map[string]string{"ID": raw})
	}
	return id, nil
}

func (s *Service) approve(ctx context.Context, paymentID int64, userID string) error {
	now := s.now().UTC()
	if err := s.decide(ctx, domain.TablePayments, paymentID, map[string]any{
		"status":      string(domain.StatusApproved),
		"approved_at": now,
		"updated_at":  now,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return apperrors.WithMetadata(apperrors.CodePartialFailure, "payment approved without a user to verify", map[string]string{"PaymentID": strconv.FormatInt(paymentID, 10)})
	}
	n, err := s.update(ctx, domain.TableProfiles, []backend.Filter{backend.Eq("id", userID)}, map[string]any{
		"verified": true,
	})
	if err != nil {
		return &apperrors.Error{
			Code:     apperrors.CodePartialFailure,
			Message:  "payment approved but user verification failed",
			Metadata: map[string]string{"PaymentID": strconv.FormatInt(paymentID, 10), "UserID": userID},
			Cause:    err,
		}
	}
	if n == 0 {
		return apperrors.WithMetadata(apperrors.CodePartialFailure, "payment approved but user profile not found", map[string]string{"PaymentID": strconv.FormatInt(paymentID, 10), "UserID": userID})
	}
	return nil
}

// decide moves a pending request to a final status. The write only matches
// pending rows, so a request decided elsewhere is reported as not pending.
func (s *Service) decide(ctx context.Context, table string, requestID int64, values map[string]any) error {
	next := domain.Status(fmt.Sprint(values["status"]))
	if !domain.StatusPending.CanTransition(next) {
		return apperrors.New(apperrors.CodeInvalidInput, "unsupported status "+string(next))
	}
	n, err := s.update(ctx, table, []backend.Filter{
		backend.Eq("id", requestID),
		backend.Eq("status", string(domain.StatusPending)),
	}, values)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var rows []struct {
		Status domain.Status `json:"status"`
	}
	if err := s.selectRows(ctx, backend.Query{
		Table:   table,
		Columns: []string{"status"},
		Filters: []backend.Filter{backend.Eq("id", requestID)},
		Limit:   1,
	}, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound, table+" row not found", map[string]string{"ID": strconv.FormatInt(requestID, 10)})
	}
	return apperrors.WithMetadata(apperrors.CodeNotPending, table+" row is no longer pending", map[string]string{"Status": string(rows[0].Status)})
}

func (s *Service) payment(ctx context.Context, paymentID int64) (domain.Payment, error) {
	var payments []domain.Payment
	if err := s.selectRows(ctx, backend.Query{
		Table:   domain.TablePayments,
		Columns: []string{"id", "user_id", "status"},
		Filters: []backend.Filter{backend.Eq("id", paymentID)},
		Limit:   1,
	}, &payments); err != nil {
		return domain.Payment{}, err
	}
	if len(payments) == 0 {
		return domain.Payment{}, apperrors.WithMetadata(apperrors.CodeNotFound, "payment not found", map[string]string{"ID": strconv.FormatInt(paymentID, 10)})
	}
	return payments[0], nil
}

func (s *Service) setMemberStatus(ctx context.Context, memberID string, next domain.MemberStatus) error {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "member id is required")
	}
	var members []domain.Member
	if err := s.selectRows(ctx, backend.Query{
		Table:   domain.TableProfiles,
		Columns: []string{"id", "status"},
		Filters: []backend.Filter{backend.Eq("id", memberID)},
		Limit:   1,
	}, &members); err != nil {
		return err
	}
	if len(members) == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound, "member not found", map[string]string{"ID": memberID})
	}
	current := members[0].Status
	if current == "" {
		current = domain.MemberActive
	}
	if !current.CanTransition(next) {
		return apperrors.WithMetadata(apperrors.CodeInvalidInput, "member is already "+string(current), map[string]string{"Status": string(current)})
	}
	n, err := s.update(ctx, domain.TableProfiles, []backend.Filter{backend.Eq("id", memberID)}, map[string]any{
		"status": string(next),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound, "member not found", map[string]string{"ID": memberID})
	}
	return nil
}
