package leavepolicy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AccrualAnnual   = "ANNUAL"
	AccrualMonthly  = "MONTHLY"
	AccrualProrated = "PRORATED"
	AccrualNone     = "NONE"
)

// LeavePolicy is a versioned accrual rule for one leave type. Effective
// windows let old and new policies coexist; rows are replaced by new
// versions rather than rewritten for history purposes.
type LeavePolicy struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_policies_tenant_type"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_policies_tenant_type"`

	Name               string  `gorm:"type:varchar(100);not null"`
	AccrualType        string  `gorm:"type:varchar(20);not null;default:'ANNUAL'"`
	AccrualDays        float64 `gorm:"type:numeric(6,2);not null"`
	AccrualPeriod      int     `gorm:"type:int;not null;default:12"` // months
	ProratedForJoiners bool    `gorm:"not null;default:true"`

	CarryForwardEnabled bool `gorm:"not null;default:false"`
	CarryForwardLimit   *int `gorm:"type:int"`
	CarryForwardExpiry  *int `gorm:"type:int"` // days until carried balance expires

	EncashmentEnabled bool `gorm:"not null;default:false"`
	EncashmentLimit   *int `gorm:"type:int"`

	LapsingEnabled bool       `gorm:"not null;default:false"`
	LapsingDate    *time.Time `gorm:"type:date"`

	LocationFilter []string `gorm:"type:jsonb;serializer:json"`
	GradeFilter    []string `gorm:"type:jsonb;serializer:json"`

	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`

	// At most one default policy per (tenant, leave type) at a time.
	IsDefault bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_policies_deleted_at"`
}

func (LeavePolicy) TableName() string {
	return "leave_policies"
}
