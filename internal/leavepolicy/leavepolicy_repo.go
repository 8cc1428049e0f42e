package leavepolicy

import (
	"context"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavepolicy_repo.go -destination=mock/leavepolicy_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, p *LeavePolicy) error
	FindAllByTenant(ctx context.Context, tenantID string, leaveTypeID *string) ([]LeavePolicy, error)
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeavePolicy, error)
	Update(ctx context.Context, p *LeavePolicy) error
	Delete(ctx context.Context, tenantID, id string) error
	// ClearDefaults unsets is_default on every policy of (tenant, type).
	// Runs inside the same tx as the write that sets the new default.
	ClearDefaults(ctx context.Context, tenantID, leaveTypeID string) error
	// FindActive returns the policy effective at asOf, preferring defaults,
	// then the latest effective_from.
	FindActive(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*LeavePolicy, error)
	// FindEffectiveDefault returns the default policy whose effective
	// window contains asOf; accrual decisions key off this one.
	FindEffectiveDefault(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*LeavePolicy, error)
	// FindDefaultByAccrualType returns the default policy of the given
	// accrual type, effective window ignored (used by batch jobs).
	FindDefaultByAccrualType(ctx context.Context, tenantID, leaveTypeID, accrualType string) (*LeavePolicy, error)
	LeaveTypeExists(ctx context.Context, tenantID, leaveTypeID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, p *LeavePolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string, leaveTypeID *string) ([]LeavePolicy, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("effective_from DESC")

	if leaveTypeID != nil && *leaveTypeID != "" {
		db = db.Where("leave_type_id = ?", *leaveTypeID)
	}

	var policies []LeavePolicy
	err := db.Find(&policies).Error
	return policies, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *LeavePolicy) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&LeavePolicy{}, "id = ?", id).Error
}

func (r *repository) ClearDefaults(ctx context.Context, tenantID, leaveTypeID string) error {
	return r.db.WithContext(ctx).
		Model(&LeavePolicy{}).
		Scopes(tenant.Scope(tenantID)).
		Where("leave_type_id = ?", leaveTypeID).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

func (r *repository) FindActive(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("leave_type_id = ?", leaveTypeID).
		Where("effective_from <= ?", asOf).
		Where("effective_to IS NULL OR effective_to >= ?", asOf).
		Order("is_default DESC, effective_from DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindEffectiveDefault(ctx context.Context, tenantID, leaveTypeID string, asOf time.Time) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("leave_type_id = ?", leaveTypeID).
		Where("is_default = ?", true).
		Where("effective_from <= ?", asOf).
		Where("effective_to IS NULL OR effective_to >= ?", asOf).
		Order("effective_from DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindDefaultByAccrualType(ctx context.Context, tenantID, leaveTypeID, accrualType string) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("leave_type_id = ?", leaveTypeID).
		Where("is_default = ?", true).
		Where("accrual_type = ?", accrualType).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) LeaveTypeExists(ctx context.Context, tenantID, leaveTypeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_types").
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", leaveTypeID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
