package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	FirstHalf  = "FIRST_HALF"
	SecondHalf = "SECOND_HALF"
)

const (
	HistoryActionApprove = "APPROVE"
	HistoryActionReject  = "REJECT"
	HistoryActionCancel  = "CANCEL"
)

// LeaveApplication is a single leave request. PENDING is the only
// non-terminal state; APPROVED, REJECTED and CANCELLED never transition
// again.
type LeaveApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_tenant"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_employee"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Days        float64   `gorm:"type:numeric(6,2);not null"`
	IsHalfDay   bool      `gorm:"not null;default:false"`
	HalfDayType *string   `gorm:"type:varchar(15)"`

	Reason      string   `gorm:"type:text"`
	Attachments []string `gorm:"type:jsonb;serializer:json"`

	Status            string     `gorm:"type:varchar(15);not null;default:'PENDING';index:idx_leave_applications_status"`
	CurrentApproverID *uuid.UUID `gorm:"type:uuid"`

	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancelledAt        *time.Time
	CancellationReason *string `gorm:"type:text"`

	Comments *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}

// IsTerminal reports whether the application can no longer transition.
func (a LeaveApplication) IsTerminal() bool {
	return a.Status != StatusPending
}

// LeaveApprovalHistory records one decision on an application. The
// ledger tracks days; this tracks who decided what, append-only.
type LeaveApprovalHistory struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_approval_history_app"`

	// ApproverID is the deciding identity: an employee id, or "SYSTEM"
	// for auto-approvals.
	ApproverID      string  `gorm:"type:varchar(64);not null"`
	Action          string  `gorm:"type:varchar(15);not null"`
	ResultingStatus string  `gorm:"type:varchar(15);not null"`
	Comments        *string `gorm:"type:text"`

	CreatedAt time.Time
}

func (LeaveApprovalHistory) TableName() string {
	return "leave_approval_history"
}
