package leavebalance

type BalanceResponse struct {
	LeaveTypeID   string  `json:"leave_type_id"`
	Year          int     `json:"year"`
	TotalDays     float64 `json:"total_days"`
	UsedDays      float64 `json:"used_days"`
	PendingDays   float64 `json:"pending_days"`
	CarryForward  float64 `json:"carry_forward"`
	AvailableDays float64 `json:"available_days"`
}

// BalanceSummary extends the cached view with a ledger replay, used to
// detect drift between the cache and the authoritative history.
type BalanceSummary struct {
	BalanceResponse
	LedgerVerified     bool    `json:"ledger_verified"`
	LedgerTotalDays    float64 `json:"ledger_total_days"`
	LedgerUsedDays     float64 `json:"ledger_used_days"`
	LedgerPendingDays  float64 `json:"ledger_pending_days"`
	LedgerCarryForward float64 `json:"ledger_carry_forward"`
}

type LedgerEntryResponse struct {
	ID              string  `json:"id"`
	TransactionType string  `json:"transaction_type"`
	Days            float64 `json:"days"`
	BalanceBefore   float64 `json:"balance_before"`
	BalanceAfter    float64 `json:"balance_after"`
	Year            int     `json:"year"`
	EffectiveDate   string  `json:"effective_date"`
	Description     string  `json:"description"`
	CreatedBy       string  `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
}
