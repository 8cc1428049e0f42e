package leavetype

import (
	"context"
	"strings"

	"github.com/dashpratyush277/hrms-1/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lt *LeaveType) error
	FindAllByTenant(ctx context.Context, tenantID string) ([]LeaveType, error)
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveType, error)
	Update(ctx context.Context, lt *LeaveType) error
	Delete(ctx context.Context, tenantID, id string) error
	// CodeExists matches case-insensitively; excludeID skips a record when
	// checking during update.
	CodeExists(ctx context.Context, tenantID, code string, excludeID *string) (bool, error)
	HasApplications(ctx context.Context, tenantID, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&lt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) Update(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&LeaveType{}, "id = ?", id).Error
}

func (r *repository) CodeExists(ctx context.Context, tenantID, code string, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveType{}).
		Scopes(tenant.Scope(tenantID)).
		Where("LOWER(code) = ?", strings.ToLower(code))

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) HasApplications(ctx context.Context, tenantID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_applications").
		Scopes(tenant.Scope(tenantID)).
		Where("leave_type_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
