package leavepolicy

type CreateLeavePolicyRequest struct {
	LeaveTypeID         string   `json:"leave_type_id" binding:"required,uuid"`
	Name                string   `json:"name" binding:"required"`
	AccrualType         string   `json:"accrual_type" binding:"omitempty,oneof=ANNUAL MONTHLY PRORATED NONE"`
	AccrualDays         float64  `json:"accrual_days" binding:"min=0"`
	AccrualPeriod       *int     `json:"accrual_period" binding:"omitempty,min=1"`
	ProratedForJoiners  *bool    `json:"prorated_for_joiners"`
	CarryForwardEnabled bool     `json:"carry_forward_enabled"`
	CarryForwardLimit   *int     `json:"carry_forward_limit" binding:"omitempty,min=0"`
	CarryForwardExpiry  *int     `json:"carry_forward_expiry" binding:"omitempty,min=0"`
	EncashmentEnabled   bool     `json:"encashment_enabled"`
	EncashmentLimit     *int     `json:"encashment_limit" binding:"omitempty,min=0"`
	LapsingEnabled      bool     `json:"lapsing_enabled"`
	LapsingDate         *string  `json:"lapsing_date"`
	LocationFilter      []string `json:"location_filter"`
	GradeFilter         []string `json:"grade_filter"`
	EffectiveFrom       string   `json:"effective_from" binding:"required"`
	EffectiveTo         *string  `json:"effective_to"`
	IsDefault           bool     `json:"is_default"`
}

type UpdateLeavePolicyRequest struct {
	Name                *string  `json:"name"`
	AccrualType         *string  `json:"accrual_type" binding:"omitempty,oneof=ANNUAL MONTHLY PRORATED NONE"`
	AccrualDays         *float64 `json:"accrual_days" binding:"omitempty,min=0"`
	AccrualPeriod       *int     `json:"accrual_period" binding:"omitempty,min=1"`
	ProratedForJoiners  *bool    `json:"prorated_for_joiners"`
	CarryForwardEnabled *bool    `json:"carry_forward_enabled"`
	CarryForwardLimit   *int     `json:"carry_forward_limit" binding:"omitempty,min=0"`
	CarryForwardExpiry  *int     `json:"carry_forward_expiry" binding:"omitempty,min=0"`
	EncashmentEnabled   *bool    `json:"encashment_enabled"`
	EncashmentLimit     *int     `json:"encashment_limit" binding:"omitempty,min=0"`
	LapsingEnabled      *bool    `json:"lapsing_enabled"`
	LapsingDate         *string  `json:"lapsing_date"`
	LocationFilter      []string `json:"location_filter"`
	GradeFilter         []string `json:"grade_filter"`
	EffectiveFrom       *string  `json:"effective_from"`
	EffectiveTo         *string  `json:"effective_to"`
	IsDefault           *bool    `json:"is_default"`
}

type LeavePolicyResponse struct {
	ID                  string   `json:"id"`
	TenantID            string   `json:"tenant_id"`
	LeaveTypeID         string   `json:"leave_type_id"`
	Name                string   `json:"name"`
	AccrualType         string   `json:"accrual_type"`
	AccrualDays         float64  `json:"accrual_days"`
	AccrualPeriod       int      `json:"accrual_period"`
	ProratedForJoiners  bool     `json:"prorated_for_joiners"`
	CarryForwardEnabled bool     `json:"carry_forward_enabled"`
	CarryForwardLimit   *int     `json:"carry_forward_limit,omitempty"`
	CarryForwardExpiry  *int     `json:"carry_forward_expiry,omitempty"`
	EncashmentEnabled   bool     `json:"encashment_enabled"`
	EncashmentLimit     *int     `json:"encashment_limit,omitempty"`
	LapsingEnabled      bool     `json:"lapsing_enabled"`
	LapsingDate         *string  `json:"lapsing_date,omitempty"`
	LocationFilter      []string `json:"location_filter,omitempty"`
	GradeFilter         []string `json:"grade_filter,omitempty"`
	EffectiveFrom       string   `json:"effective_from"`
	EffectiveTo         *string  `json:"effective_to,omitempty"`
	IsDefault           bool     `json:"is_default"`
}
