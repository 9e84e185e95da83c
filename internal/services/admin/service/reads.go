package service

import (
	"context"
	"log"

	"github.com/louisbranch/paydesk/internal/platform/fanout"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
	"github.com/louisbranch/paydesk/internal/services/admin/domain"
)

// Overview task names, reported by fanout.Failed.
const (
	TaskStats   = "stats"
	TaskPending = "pending"
)

// Overview is the dashboard landing data. Fields of failed tasks are zero.
type Overview struct {
	Stats   domain.Stats
	Pending []domain.Payment
}

// RecentPayments returns the newest payment requests of any status.
func (s *Service) RecentPayments(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.selectRows(ctx, backend.Query{
		Table: domain.TablePayments,
		Order: []backend.Order{{Column: "created_at", Descending: true}},
		Limit: RecentLimit,
	}, &payments)
	return payments, err
}

// PendingPayments returns every payment request awaiting review, newest first.
func (s *Service) PendingPayments(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.selectRows(ctx, backend.Query{
		Table:   domain.TablePayments,
		Filters: []backend.Filter{backend.Eq("status", string(domain.StatusPending))},
		Order:   []backend.Order{{Column: "created_at", Descending: true}},
	}, &payments)
	return payments, err
}

// ApprovedPayments returns the most recently settled payments.
func (s *Service) ApprovedPayments(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.selectRows(ctx, backend.Query{
		Table:   domain.TablePayments,
		Filters: []backend.Filter{backend.In("status", string(domain.StatusApproved), string(domain.StatusCompleted))},
		Order:   []backend.Order{{Column: "updated_at", Descending: true}},
		Limit:   ApprovedLimit,
	}, &payments)
	return payments, err
}

// PendingWithdrawals returns every withdrawal awaiting review, newest first.
func (s *Service) PendingWithdrawals(ctx context.Context) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	err := s.selectRows(ctx, backend.Query{
		Table:   domain.TableWithdrawals,
		Filters: []backend.Filter{backend.Eq("status", string(domain.StatusPending))},
		Order:   []backend.Order{{Column: "created_at", Descending: true}},
	}, &withdrawals)
	return withdrawals, err
}

// Members returns client and mentor profiles, newest first.
func (s *Service) Members(ctx context.Context) ([]domain.Member, error) {
	var members []domain.Member
	err := s.selectRows(ctx, backend.Query{
		Table:   domain.TableProfiles,
		Filters: []backend.Filter{backend.In("role", string(domain.RoleClient), string(domain.RoleMentor))},
		Order:   []backend.Order{{Column: "created_at", Descending: true}},
	}, &members)
	return members, err
}

// Stats loads the header cards. The three reads run concurrently; any
// failure fails the whole panel and the joined error names each failed read.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	var (
		payments    []domain.Payment
		withdrawals []domain.Withdrawal
		members     []domain.Member
	)
	err := fanout.Run(ctx, fanout.DefaultLimit,
		fanout.Task{Name: "payments", Run: func(ctx context.Context) error {
			return s.selectRows(ctx, backend.Query{
				Table:   domain.TablePayments,
				Columns: []string{"amount", "status", "created_at"},
			}, &payments)
		}},
		fanout.Task{Name: "withdrawals", Run: func(ctx context.Context) error {
			return s.selectRows(ctx, backend.Query{
				Table:   domain.TableWithdrawals,
				Columns: []string{"id"},
				Filters: []backend.Filter{backend.Eq("status", string(domain.StatusPending))},
			}, &withdrawals)
		}},
		fanout.Task{Name: "members", Run: func(ctx context.Context) error {
			return s.selectRows(ctx, backend.Query{
				Table:   domain.TableProfiles,
				Columns: []string{"id"},
				Filters: []backend.Filter{
					backend.Eq("role", string(domain.RoleClient)),
					backend.Eq("status", string(domain.MemberActive)),
				},
			}, &members)
		}},
	)
	if err != nil {
		return domain.Stats{}, err
	}
	stats := domain.ComputeStats(payments, s.now(), s.loc)
	stats.PendingWithdrawals = len(withdrawals)
	stats.ActiveMembers = len(members)
	return stats, nil
}

// Overview loads stats and the pending list together. The returned error joins
// the failures of each part; fanout.Failed names them so the caller can render
// the parts that did load.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var overview Overview
	err := fanout.Run(ctx, 2,
		fanout.Task{Name: TaskStats, Run: func(ctx context.Context) error {
			stats, err := s.Stats(ctx)
			overview.Stats = stats
			return err
		}},
		fanout.Task{Name: TaskPending, Run: func(ctx context.Context) error {
			pending, err := s.PendingPayments(ctx)
			overview.Pending = pending
			return err
		}},
	)
	return overview, err
}

// Settings loads the payment settings row. A missing row yields zero
// settings; older rows stored under the legacy key are found too.
func (s *Service) Settings(ctx context.Context) (domain.Settings, error) {
	var rows []domain.SettingsRow
	if err := s.selectRows(ctx, backend.Query{
		Table:   domain.TableSettings,
		Filters: []backend.Filter{backend.Eq("id", domain.SettingsRowID)},
		Limit:   1,
	}, &rows); err != nil {
		return domain.Settings{}, err
	}
	if len(rows) == 0 {
		if err := s.selectRows(ctx, backend.Query{
			Table:   domain.TableSettings,
			Filters: []backend.Filter{backend.Eq("key", domain.SettingsLegacyKey)},
			Limit:   1,
		}, &rows); err != nil {
			return domain.Settings{}, err
		}
	}
	if len(rows) == 0 {
		return domain.Settings{}, nil
	}
	settings, err := rows[0].Settings()
	if err != nil {
		log.Printf("decode legacy settings value: %v", err)
	}
	return settings, nil
}
