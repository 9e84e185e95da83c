package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/paydesk/internal/platform/errors"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
)

const (
	// RecentLimit caps the recent payments panel.
	RecentLimit = 10
	// ApprovedLimit caps the approved payments panel.
	ApprovedLimit = 10
)

// Config configures a Service.
type Config struct {
	Tables   backend.Tables
	Location *time.Location
	Now      func() time.Time
}

// Service reads panel rows and applies admin decisions.
type Service struct {
	tables backend.Tables
	loc    *time.Location
	now    func() time.Time
}

// New builds a Service. A nil Location means UTC.
func New(cfg Config) (*Service, error) {
	if cfg.Tables == nil {
		return nil, errors.New("backend tables are required")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{tables: cfg.Tables, loc: cfg.Location, now: cfg.Now}, nil
}

// Location returns the zone dates are shown in.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) selectRows(ctx context.Context, query backend.Query, dest any) error {
	if err := s.tables.Select(ctx, query, dest); err != nil {
		return backendError("load "+query.Table, err)
	}
	return nil
}

func (s *Service) update(ctx context.Context, table string, filters []backend.Filter, values map[string]any) (int, error) {
	n, err := s.tables.Update(ctx, table, filters, values)
	if err != nil {
		return 0, backendError("update "+table, err)
	}
	return n, nil
}

// backendError classifies a driver failure. Rejected tokens mean the admin's
// backend session is gone; everything else is the backend being unavailable.
func backendError(op string, err error) error {
	var backendErr *backend.Error
	if errors.As(err, &backendErr) && backendErr.Unauthorized() {
		return apperrors.Wrap(apperrors.CodeSessionExpired, op, err)
	}
	if apperrors.GetCode(err) != apperrors.CodeUnknown {
		return err
	}
	return apperrors.Wrap(apperrors.CodeBackendUnavailable, fmt.Sprintf("%s: %v", op, err), err)
}
