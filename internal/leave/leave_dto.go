package leave

type ApplyLeaveRequest struct {
	LeaveTypeID string   `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
	IsHalfDay   bool     `json:"is_half_day"`
	HalfDayType *string  `json:"half_day_type,omitempty"`
	Reason      string   `json:"reason" binding:"required"`
	Attachments []string `json:"attachments,omitempty"`
}

// EditLeaveRequest updates a PENDING application; nil fields keep the
// stored value.
type EditLeaveRequest struct {
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
	IsHalfDay   *bool    `json:"is_half_day,omitempty"`
	HalfDayType *string  `json:"half_day_type,omitempty"`
	Reason      *string  `json:"reason,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type CancelLeaveRequest struct {
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

type ApproveLeaveRequest struct {
	Comments *string `json:"comments,omitempty"`
}

type ApplicationFilter struct {
	EmployeeID *string
	Status     *string
	From       *string
	To         *string
	Page       int
	PageSize   int
}

type LeaveApplicationResponse struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`

	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Days        float64 `json:"days"`
	IsHalfDay   bool    `json:"is_half_day"`
	HalfDayType *string `json:"half_day_type,omitempty"`

	Reason      string   `json:"reason"`
	Attachments []string `json:"attachments,omitempty"`

	Status            string  `json:"status"`
	CurrentApproverID *string `json:"current_approver_id,omitempty"`

	ApprovedBy *string `json:"approved_by,omitempty"`
	ApprovedAt *string `json:"approved_at,omitempty"`

	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	CancelledBy        *string `json:"cancelled_by,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`

	Comments *string `json:"comments,omitempty"`

	CreatedAt string `json:"created_at"`
}

type ApprovalHistoryResponse struct {
	ID              string  `json:"id"`
	ApproverID      string  `json:"approver_id"`
	Action          string  `json:"action"`
	ResultingStatus string  `json:"resulting_status"`
	Comments        *string `json:"comments,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type LeaveApplicationDetail struct {
	LeaveApplicationResponse
	History []ApprovalHistoryResponse `json:"history"`
}
