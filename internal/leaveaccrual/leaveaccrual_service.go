package leaveaccrual

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/employee"
	"github.com/dashpratyush277/hrms-1/internal/leavebalance"
	"github.com/dashpratyush277/hrms-1/internal/leavepolicy"
	"github.com/dashpratyush277/hrms-1/internal/leavetype"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SystemActor is the creator identity stamped on ledger rows written by
// scheduled jobs rather than a person.
const SystemActor = "SYSTEM"

//go:generate mockgen -source=leaveaccrual_service.go -destination=mock/leaveaccrual_service_mock.go -package=mock
type Service interface {
	// CalculateAccrual computes the days an employee should earn for the
	// given type and year under the effective default policy. Zero when
	// no policy applies or the employee fails its eligibility filters.
	CalculateAccrual(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int) (float64, error)
	// RecordAccrual posts an ACCRUAL ledger entry and bumps the cached
	// total, atomically.
	RecordAccrual(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int, days float64, policyID string, description string) error
	// ProcessAnnualAccruals accrues every active employee against every
	// active type that has an ANNUAL default policy. Per-employee
	// failures are isolated; partial success is the expected outcome.
	ProcessAnnualAccruals(ctx context.Context, tenantID string, year int) (BatchSummary, error)
	// ProcessCarryForward rolls unused balance from fromYear into the
	// next year for carry-enabled policies, capped by the policy limit;
	// the un-carried remainder lapses when the policy says so.
	ProcessCarryForward(ctx context.Context, tenantID string, fromYear int) (BatchSummary, error)
}

type service struct {
	db         *gorm.DB
	policyRepo leavepolicy.Repository
	typeRepo   leavetype.Repository
	directory  employee.Directory
	books      *leavebalance.Books
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	policyRepo leavepolicy.Repository,
	typeRepo leavetype.Repository,
	directory employee.Directory,
	books *leavebalance.Books,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaveaccrual.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveaccrual.service")
	}
	return &service{
		db:         db,
		policyRepo: policyRepo,
		typeRepo:   typeRepo,
		directory:  directory,
		books:      books,
		logger:     l,
	}
}

func (s *service) CalculateAccrual(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int) (float64, error) {
	policy, err := s.policyRepo.FindEffectiveDefault(ctx, tenantID, leaveTypeID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	emp, err := s.directory.FindByIDAndTenant(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if !eligible(policy, emp) {
		return 0, nil
	}

	var days float64
	switch policy.AccrualType {
	case leavepolicy.AccrualAnnual:
		days = policy.AccrualDays
	case leavepolicy.AccrualMonthly:
		// Annualized monthly rate.
		days = policy.AccrualDays / float64(policy.AccrualPeriod) * 12
	case leavepolicy.AccrualProrated:
		days = prorated(policy, emp, year)
	case leavepolicy.AccrualNone:
		days = 0
	}

	return round2(days), nil
}

func eligible(policy *leavepolicy.LeavePolicy, emp *employee.Employee) bool {
	if len(policy.LocationFilter) > 0 && emp.Location != "" {
		if !contains(policy.LocationFilter, emp.Location) {
			return false
		}
	}
	if len(policy.GradeFilter) > 0 && emp.DesignationID != nil {
		if !contains(policy.GradeFilter, emp.DesignationID.String()) {
			return false
		}
	}
	return true
}

func prorated(policy *leavepolicy.LeavePolicy, emp *employee.Employee, year int) float64 {
	if !policy.ProratedForJoiners || emp.DateOfJoining == nil {
		return policy.AccrualDays
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	start := yearStart
	if emp.DateOfJoining.After(yearStart) {
		start = *emp.DateOfJoining
	}

	daysWorked := yearEnd.Sub(start).Hours() / 24
	return policy.AccrualDays * daysWorked / 365
}

func (s *service) RecordAccrual(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int, days float64, policyID string, description string) error {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return err
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return err
	}
	leaveTypeUUID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return err
	}

	var policyUUID *uuid.UUID
	if policyID != "" {
		parsed, err := uuid.Parse(policyID)
		if err != nil {
			return err
		}
		policyUUID = &parsed
	}

	if description == "" {
		description = fmt.Sprintf("Accrual for %d", year)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
			TenantID:        tenantUUID,
			EmployeeID:      employeeUUID,
			LeaveTypeID:     leaveTypeUUID,
			LeavePolicyID:   policyUUID,
			TransactionType: leavebalance.TxAccrual,
			Days:            days,
			Year:            year,
			EffectiveDate:   time.Now().UTC(),
			Description:     description,
			CreatedBy:       SystemActor,
		})
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("accrual recorded",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.Float64("days", days),
	)
	return nil
}

func (s *service) ProcessAnnualAccruals(ctx context.Context, tenantID string, year int) (BatchSummary, error) {
	employees, err := s.directory.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return BatchSummary{}, err
	}
	types, err := s.typeRepo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return BatchSummary{}, err
	}

	summary := BatchSummary{Year: year}

	for _, lt := range types {
		if !lt.IsActive {
			continue
		}

		policy, err := s.policyRepo.FindDefaultByAccrualType(ctx, tenantID, lt.ID.String(), leavepolicy.AccrualAnnual)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return summary, err
		}

		for _, emp := range employees {
			summary.Processed++
			result := AccrualResult{
				EmployeeID:  emp.ID.String(),
				LeaveTypeID: lt.ID.String(),
			}

			days, err := s.CalculateAccrual(ctx, tenantID, emp.ID.String(), lt.ID.String(), year)
			if err == nil && days > 0 {
				err = s.RecordAccrual(
					ctx, tenantID, emp.ID.String(), lt.ID.String(), year,
					days, policy.ID.String(),
					fmt.Sprintf("Annual accrual for %d", year),
				)
			}

			if err != nil {
				// One employee's failure must not starve the rest.
				result.Error = err.Error()
				summary.Failed++
				s.logger.Error("annual accrual failed",
					zap.String("tenant_id", tenantID),
					zap.String("employee_id", emp.ID.String()),
					zap.String("leave_type_id", lt.ID.String()),
					zap.Error(err),
				)
			} else if days > 0 {
				result.Days = days
				summary.Accrued++
			}

			summary.Results = append(summary.Results, result)
		}
	}

	return summary, nil
}

func (s *service) ProcessCarryForward(ctx context.Context, tenantID string, fromYear int) (BatchSummary, error) {
	employees, err := s.directory.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return BatchSummary{}, err
	}
	types, err := s.typeRepo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return BatchSummary{}, err
	}

	summary := BatchSummary{Year: fromYear + 1}

	for _, lt := range types {
		if !lt.IsActive {
			continue
		}

		policy, err := s.policyRepo.FindEffectiveDefault(ctx, tenantID, lt.ID.String(), time.Now().UTC())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return summary, err
		}
		if !policy.CarryForwardEnabled {
			continue
		}

		for _, emp := range employees {
			summary.Processed++
			result := AccrualResult{
				EmployeeID:  emp.ID.String(),
				LeaveTypeID: lt.ID.String(),
			}

			carried, err := s.carryForwardOne(ctx, tenantID, emp.ID, lt.ID, policy, fromYear)
			if err != nil {
				result.Error = err.Error()
				summary.Failed++
				s.logger.Error("carry forward failed",
					zap.String("tenant_id", tenantID),
					zap.String("employee_id", emp.ID.String()),
					zap.String("leave_type_id", lt.ID.String()),
					zap.Error(err),
				)
			} else if carried > 0 {
				result.Days = carried
				summary.Accrued++
			}

			summary.Results = append(summary.Results, result)
		}
	}

	return summary, nil
}

func (s *service) carryForwardOne(
	ctx context.Context,
	tenantID string,
	employeeID, leaveTypeID uuid.UUID,
	policy *leavepolicy.LeavePolicy,
	fromYear int,
) (float64, error) {
	var carried float64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key := leavebalance.BalanceKey{
			TenantID:    tenantID,
			EmployeeID:  employeeID.String(),
			LeaveTypeID: leaveTypeID.String(),
			Year:        fromYear,
		}

		bal, err := s.books.LockBalance(ctx, tx, key)
		if err != nil {
			return err
		}

		available := bal.AvailableDays()
		if available <= 0 {
			return nil
		}

		carried = available
		if policy.CarryForwardLimit != nil && carried > float64(*policy.CarryForwardLimit) {
			carried = float64(*policy.CarryForwardLimit)
		}

		tenantUUID := bal.TenantID
		now := time.Now().UTC()

		if carried > 0 {
			_, err = s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
				TenantID:        tenantUUID,
				EmployeeID:      employeeID,
				LeaveTypeID:     leaveTypeID,
				LeavePolicyID:   &policy.ID,
				TransactionType: leavebalance.TxCarryForward,
				Days:            round2(carried),
				Year:            fromYear + 1,
				EffectiveDate:   now,
				Description:     fmt.Sprintf("Carry forward from %d", fromYear),
				CreatedBy:       SystemActor,
			})
			if err != nil {
				return err
			}
		}

		// Whatever could not be carried lapses from the closing year when
		// the policy lapses balances.
		remainder := round2(available - carried)
		if policy.LapsingEnabled && remainder > 0 {
			_, err = s.books.Post(ctx, tx, &leavebalance.LedgerEntry{
				TenantID:        tenantUUID,
				EmployeeID:      employeeID,
				LeaveTypeID:     leaveTypeID,
				LeavePolicyID:   &policy.ID,
				TransactionType: leavebalance.TxLapse,
				Days:            -remainder,
				Year:            fromYear,
				EffectiveDate:   now,
				Description:     fmt.Sprintf("Lapse of unused balance for %d", fromYear),
				CreatedBy:       SystemActor,
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}
	return round2(carried), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
