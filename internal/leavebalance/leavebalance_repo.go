package leavebalance

import (
	"context"

	"github.com/dashpratyush277/hrms-1/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, key BalanceKey) (*LeaveBalance, error)
	// FindForUpdate takes a row-level lock on the balance row for the rest
	// of the enclosing transaction. Callers must already be inside a tx.
	FindForUpdate(ctx context.Context, key BalanceKey) (*LeaveBalance, error)
	FindAllByEmployee(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveBalance, error)
	Create(ctx context.Context, b *LeaveBalance) error
	Save(ctx context.Context, b *LeaveBalance) error
	AppendLedger(ctx context.Context, e *LedgerEntry) error
	ListLedger(ctx context.Context, key BalanceKey) ([]LedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) keyed(ctx context.Context, key BalanceKey) *gorm.DB {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(key.TenantID)).
		Where("employee_id = ?", key.EmployeeID).
		Where("leave_type_id = ?", key.LeaveTypeID).
		Where("year = ?", key.Year)
}

func (r *repository) Find(ctx context.Context, key BalanceKey) (*LeaveBalance, error) {
	var b LeaveBalance
	if err := r.keyed(ctx, key).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindForUpdate(ctx context.Context, key BalanceKey) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.keyed(ctx, key).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) Save(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) AppendLedger(ctx context.Context, e *LedgerEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) ListLedger(ctx context.Context, key BalanceKey) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(key.TenantID)).
		Where("employee_id = ?", key.EmployeeID).
		Where("leave_type_id = ?", key.LeaveTypeID).
		Where("year = ?", key.Year).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
