package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveApplied   = "leave.applied"
	LeaveEdited    = "leave.edited"
	LeaveApproved  = "leave.approved"
	LeaveRejected  = "leave.rejected"
	LeaveCancelled = "leave.cancelled"
)

type LeaveLifecycleEvent struct {
	EventType     string    `json:"event_type"`
	ApplicationID string    `json:"application_id"`
	TenantID      string    `json:"tenant_id"`
	EmployeeID    string    `json:"employee_id"`
	LeaveTypeID   string    `json:"leave_type_id"`
	Status        string    `json:"status"`
	Days          float64   `json:"days"`
	OccurredAt    time.Time `json:"occurred_at"`
}
