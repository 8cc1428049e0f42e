package leaveaccrual

// AccrualResult reports one employee × leave-type outcome of a batch
// run. A failed employee never aborts the rest of the batch; callers
// inspect Error per row.
type AccrualResult struct {
	EmployeeID  string  `json:"employee_id"`
	LeaveTypeID string  `json:"leave_type_id"`
	Days        float64 `json:"days"`
	Error       string  `json:"error,omitempty"`
}

type BatchSummary struct {
	Year      int             `json:"year"`
	Processed int             `json:"processed"`
	Accrued   int             `json:"accrued"`
	Failed    int             `json:"failed"`
	Results   []AccrualResult `json:"results"`
}
