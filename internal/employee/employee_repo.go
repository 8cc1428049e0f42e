package employee

import (
	"context"

	"github.com/dashpratyush277/hrms-1/internal/tenant"

	"gorm.io/gorm"
)

// Directory is the read-only view of the employee store the leave engine
// consumes: reporting line, join date, eligibility attributes, and the
// actor's platform role.
//
//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Directory interface {
	FindByIDAndTenant(ctx context.Context, tenantID, employeeID string) (*Employee, error)
	ListActiveByTenant(ctx context.Context, tenantID string) ([]Employee, error)
	ListActiveByManager(ctx context.Context, tenantID, managerID string) ([]Employee, error)
	// FindHRAdminEmployee returns the employee record linked to the tenant's
	// first active HR_ADMIN user, or gorm.ErrRecordNotFound.
	FindHRAdminEmployee(ctx context.Context, tenantID string) (*Employee, error)
	// ActorRole returns the platform role of the user linked to employeeID,
	// empty string when no active user is linked.
	ActorRole(ctx context.Context, tenantID, employeeID string) (string, error)
}

type directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &directory{db: db}
}

func (d *directory) FindByIDAndTenant(ctx context.Context, tenantID, employeeID string) (*Employee, error) {
	var e Employee
	err := d.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&e, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (d *directory) ListActiveByTenant(ctx context.Context, tenantID string) ([]Employee, error) {
	var employees []Employee
	err := d.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("is_active = ?", true).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (d *directory) ListActiveByManager(ctx context.Context, tenantID, managerID string) ([]Employee, error) {
	var employees []Employee
	err := d.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("reporting_manager_id = ?", managerID).
		Where("is_active = ?", true).
		Find(&employees).Error
	return employees, err
}

func (d *directory) FindHRAdminEmployee(ctx context.Context, tenantID string) (*Employee, error) {
	var u User
	err := d.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("role = ?", RoleHRAdmin).
		Where("is_active = ?", true).
		Where("employee_id IS NOT NULL").
		Order("created_at ASC").
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return d.FindByIDAndTenant(ctx, tenantID, u.EmployeeID.String())
}

func (d *directory) ActorRole(ctx context.Context, tenantID, employeeID string) (string, error) {
	var u User
	err := d.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("is_active = ?", true).
		First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return u.Role, nil
}
