package leavebalance

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const driftTolerance = 0.01

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	// GetBalance returns the cached row, or a zeroed default when no
	// balance-affecting event has touched the key yet.
	GetBalance(ctx context.Context, key BalanceKey) (BalanceResponse, error)
	GetAllBalances(ctx context.Context, tenantID, employeeID string, year int) ([]BalanceResponse, error)
	// VerifyBalances replays the ledger for each of the employee's
	// balances and flags drift. Diagnostic only; it never repairs.
	VerifyBalances(ctx context.Context, tenantID, employeeID string, year int) ([]BalanceSummary, error)
	GetLedger(ctx context.Context, key BalanceKey) ([]LedgerEntryResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetBalance(ctx context.Context, key BalanceKey) (BalanceResponse, error) {
	b, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{LeaveTypeID: key.LeaveTypeID, Year: key.Year}, nil
		}
		return BalanceResponse{}, err
	}
	return mapBalance(*b), nil
}

func (s *service) GetAllBalances(ctx context.Context, tenantID, employeeID string, year int) ([]BalanceResponse, error) {
	balances, err := s.repo.FindAllByEmployee(ctx, tenantID, employeeID, year)
	if err != nil {
		return nil, err
	}
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapBalance(b)
	}
	return resp, nil
}

func (s *service) VerifyBalances(ctx context.Context, tenantID, employeeID string, year int) ([]BalanceSummary, error) {
	balances, err := s.repo.FindAllByEmployee(ctx, tenantID, employeeID, year)
	if err != nil {
		return nil, err
	}

	summaries := make([]BalanceSummary, 0, len(balances))
	for _, b := range balances {
		key := BalanceKey{
			TenantID:    tenantID,
			EmployeeID:  employeeID,
			LeaveTypeID: b.LeaveTypeID.String(),
			Year:        year,
		}
		entries, err := s.repo.ListLedger(ctx, key)
		if err != nil {
			return nil, err
		}
		replayed, err := Replay(entries)
		if err != nil {
			return nil, err
		}

		verified := within(b.TotalDays, replayed.Total) &&
			within(b.UsedDays, replayed.Used) &&
			within(b.PendingDays, replayed.Pending) &&
			within(b.CarryForward, replayed.Carry)

		if !verified {
			s.logger.Warn("balance cache drifted from ledger",
				zap.String("tenant_id", tenantID),
				zap.String("employee_id", employeeID),
				zap.String("leave_type_id", key.LeaveTypeID),
				zap.Int("year", year),
				zap.Float64("cached_total", b.TotalDays),
				zap.Float64("ledger_total", replayed.Total),
			)
		}

		summaries = append(summaries, BalanceSummary{
			BalanceResponse:    mapBalance(b),
			LedgerVerified:     verified,
			LedgerTotalDays:    replayed.Total,
			LedgerUsedDays:     replayed.Used,
			LedgerPendingDays:  replayed.Pending,
			LedgerCarryForward: replayed.Carry,
		})
	}

	return summaries, nil
}

func (s *service) GetLedger(ctx context.Context, key BalanceKey) ([]LedgerEntryResponse, error) {
	entries, err := s.repo.ListLedger(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = LedgerEntryResponse{
			ID:              e.ID.String(),
			TransactionType: e.TransactionType,
			Days:            e.Days,
			BalanceBefore:   e.BalanceBefore,
			BalanceAfter:    e.BalanceAfter,
			Year:            e.Year,
			EffectiveDate:   e.EffectiveDate.Format("2006-01-02"),
			Description:     e.Description,
			CreatedBy:       e.CreatedBy,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func within(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < driftTolerance
}

func mapBalance(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		LeaveTypeID:   b.LeaveTypeID.String(),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		PendingDays:   b.PendingDays,
		CarryForward:  b.CarryForward,
		AvailableDays: b.AvailableDays(),
	}
}
