package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// Ledger transaction types. An entry's Days value is the signed movement
// of the bucket the type posts to, so replaying entries in order always
// reproduces the cached balance row.
const (
	TxAccrual      = "ACCRUAL"       // total += days
	TxCarryForward = "CARRY_FORWARD" // carry_forward += days
	TxApplication  = "APPLICATION"   // pending += days
	TxApproval     = "APPROVAL"      // used += days, pending -= days
	TxRejection    = "REJECTION"     // pending += days (negative)
	TxCancellation = "CANCELLATION"  // pending += days (negative)
	TxEncashment   = "ENCASHMENT"    // total += days (negative)
	TxLapse        = "LAPSE"         // total += days (negative)
)

// LeaveBalance is the denormalized per-(employee, type, year) snapshot.
// It is a materialized view of the ledger, maintained in lockstep with
// every ledger append, and is never deleted.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	Year        int       `gorm:"type:int;not null;uniqueIndex:uq_leave_balances_key"`

	TotalDays    float64 `gorm:"type:numeric(6,2);not null;default:0"`
	UsedDays     float64 `gorm:"type:numeric(6,2);not null;default:0"`
	PendingDays  float64 `gorm:"type:numeric(6,2);not null;default:0"`
	CarryForward float64 `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// AvailableDays is the only availability formula in the engine; every
// check and every ledger snapshot derives from it.
func (b LeaveBalance) AvailableDays() float64 {
	available := b.TotalDays + b.CarryForward - b.UsedDays - b.PendingDays
	if available < 0 {
		return 0
	}
	return available
}

// LedgerEntry is one row of the append-only leave accrual ledger, the
// authoritative history of every balance-affecting event. Rows are never
// updated or deleted after insertion.
type LedgerEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_ledger_key"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_ledger_key"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_ledger_key"`
	Year        int       `gorm:"type:int;not null;index:idx_leave_ledger_key"`

	LeavePolicyID      *uuid.UUID `gorm:"type:uuid"`
	LeaveApplicationID *uuid.UUID `gorm:"type:uuid"`

	TransactionType string  `gorm:"type:varchar(20);not null"`
	Days            float64 `gorm:"type:numeric(6,2);not null"`

	// Available-day snapshots at the time of the write.
	BalanceBefore float64 `gorm:"type:numeric(6,2);not null"`
	BalanceAfter  float64 `gorm:"type:numeric(6,2);not null"`

	EffectiveDate time.Time `gorm:"type:date;not null"`
	Description   string    `gorm:"type:text"`
	CreatedBy     string    `gorm:"type:varchar(64);not null"`
	CreatedAt     time.Time
}

func (LedgerEntry) TableName() string {
	return "leave_accrual_ledger"
}

// BalanceKey identifies one balance row and its ledger slice.
type BalanceKey struct {
	TenantID    string
	EmployeeID  string
	LeaveTypeID string
	Year        int
}
