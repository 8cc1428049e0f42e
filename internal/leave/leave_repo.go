package leave

import (
	"context"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, app *LeaveApplication) error
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveApplication, error)
	FindAllByTenant(ctx context.Context, tenantID string, filter ApplicationFilter) ([]LeaveApplication, int64, error)
	FindByEmployees(ctx context.Context, tenantID string, employeeIDs []string, filter ApplicationFilter) ([]LeaveApplication, int64, error)
	Update(ctx context.Context, app *LeaveApplication) error
	AppendHistory(ctx context.Context, h *LeaveApprovalHistory) error
	ListHistory(ctx context.Context, tenantID, applicationID string) ([]LeaveApprovalHistory, error)
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

func (r *repository) Create(ctx context.Context, app *LeaveApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveApplication, error) {
	var app LeaveApplication
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&app, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string, filter ApplicationFilter) ([]LeaveApplication, int64, error) {
	return r.findFiltered(ctx, tenantID, nil, filter)
}

func (r *repository) FindByEmployees(ctx context.Context, tenantID string, employeeIDs []string, filter ApplicationFilter) ([]LeaveApplication, int64, error) {
	if len(employeeIDs) == 0 {
		return nil, 0, nil
	}
	return r.findFiltered(ctx, tenantID, employeeIDs, filter)
}

func (r *repository) findFiltered(ctx context.Context, tenantID string, employeeIDs []string, filter ApplicationFilter) ([]LeaveApplication, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Scopes(tenant.Scope(tenantID))

	if len(employeeIDs) > 0 {
		db = db.Where("employee_id IN ?", employeeIDs)
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil && *filter.Status != "" {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.From != nil && *filter.From != "" {
		if from, err := time.Parse("2006-01-02", *filter.From); err == nil {
			db = db.Where("end_date >= ?", from)
		}
	}
	if filter.To != nil && *filter.To != "" {
		if to, err := time.Parse("2006-01-02", *filter.To); err == nil {
			db = db.Where("start_date <= ?", to)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var apps []LeaveApplication
	err := db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&apps).Error
	return apps, total, err
}

func (r *repository) Update(ctx context.Context, app *LeaveApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *repository) AppendHistory(ctx context.Context, h *LeaveApprovalHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) ListHistory(ctx context.Context, tenantID, applicationID string) ([]LeaveApprovalHistory, error) {
	var history []LeaveApprovalHistory
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&history).Error
	return history, err
}
