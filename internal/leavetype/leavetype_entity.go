package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderAll    = "ALL"
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

type LeaveType struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_types_tenant"`

	Name string `gorm:"type:varchar(100);not null"`
	// Code is unique per tenant, case-insensitively.
	Code string `gorm:"type:varchar(20);not null"`

	MaxDays           *int `gorm:"type:int"`
	CarryForward      bool `gorm:"not null;default:false"`
	CarryForwardLimit *int `gorm:"type:int"`

	RequiresApproval   bool `gorm:"not null;default:true"`
	IsPaid             bool `gorm:"not null;default:true"`
	HalfDayAllowed     bool `gorm:"not null;default:false"`
	AttachmentRequired bool `gorm:"not null;default:false"`
	MaxDaysPerRequest  *int `gorm:"type:int"`

	GenderEligibility   string   `gorm:"type:varchar(10);not null;default:'ALL'"`
	LocationEligibility []string `gorm:"type:jsonb;serializer:json"`
	GradeEligibility    []string `gorm:"type:jsonb;serializer:json"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_types_deleted_at"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}
