package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee    = "EMPLOYEE"
	RoleManager     = "MANAGER"
	RoleHRAdmin     = "HR_ADMIN"
	RoleTenantAdmin = "TENANT_ADMIN"
)

type Employee struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_employees_tenant"`
	ReportingManagerID *uuid.UUID `gorm:"type:uuid"`
	DesignationID      *uuid.UUID `gorm:"type:uuid"`
	FullName           string     `gorm:"type:varchar(200)"`
	Email              string     `gorm:"type:varchar(200);uniqueIndex"`
	Gender             string     `gorm:"type:varchar(10)"`
	Location           string     `gorm:"type:varchar(100)"`
	DateOfJoining      *time.Time `gorm:"type:date"`
	IsActive           bool       `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// User links a platform login to an employee record. The engine reads it
// only for role recognition; authentication lives outside this module.
type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_users_tenant_role"`
	EmployeeID *uuid.UUID `gorm:"type:uuid"`
	Role       string     `gorm:"type:varchar(30);not null;default:'EMPLOYEE';index:idx_users_tenant_role"`
	IsActive   bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
