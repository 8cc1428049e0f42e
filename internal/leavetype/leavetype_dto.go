package leavetype

type CreateLeaveTypeRequest struct {
	Name                string   `json:"name" binding:"required"`
	Code                string   `json:"code" binding:"required"`
	MaxDays             *int     `json:"max_days" binding:"omitempty,min=0"`
	CarryForward        bool     `json:"carry_forward"`
	CarryForwardLimit   *int     `json:"carry_forward_limit" binding:"omitempty,min=0"`
	RequiresApproval    *bool    `json:"requires_approval"`
	IsPaid              *bool    `json:"is_paid"`
	HalfDayAllowed      bool     `json:"half_day_allowed"`
	AttachmentRequired  bool     `json:"attachment_required"`
	MaxDaysPerRequest   *int     `json:"max_days_per_request" binding:"omitempty,min=1"`
	GenderEligibility   string   `json:"gender_eligibility" binding:"omitempty,oneof=ALL MALE FEMALE OTHER"`
	LocationEligibility []string `json:"location_eligibility"`
	GradeEligibility    []string `json:"grade_eligibility"`
	IsActive            *bool    `json:"is_active"`
}

type UpdateLeaveTypeRequest struct {
	Name                *string  `json:"name"`
	Code                *string  `json:"code"`
	MaxDays             *int     `json:"max_days" binding:"omitempty,min=0"`
	CarryForward        *bool    `json:"carry_forward"`
	CarryForwardLimit   *int     `json:"carry_forward_limit" binding:"omitempty,min=0"`
	RequiresApproval    *bool    `json:"requires_approval"`
	IsPaid              *bool    `json:"is_paid"`
	HalfDayAllowed      *bool    `json:"half_day_allowed"`
	AttachmentRequired  *bool    `json:"attachment_required"`
	MaxDaysPerRequest   *int     `json:"max_days_per_request" binding:"omitempty,min=1"`
	GenderEligibility   *string  `json:"gender_eligibility" binding:"omitempty,oneof=ALL MALE FEMALE OTHER"`
	LocationEligibility []string `json:"location_eligibility"`
	GradeEligibility    []string `json:"grade_eligibility"`
	IsActive            *bool    `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID                  string   `json:"id"`
	TenantID            string   `json:"tenant_id"`
	Name                string   `json:"name"`
	Code                string   `json:"code"`
	MaxDays             *int     `json:"max_days,omitempty"`
	CarryForward        bool     `json:"carry_forward"`
	CarryForwardLimit   *int     `json:"carry_forward_limit,omitempty"`
	RequiresApproval    bool     `json:"requires_approval"`
	IsPaid              bool     `json:"is_paid"`
	HalfDayAllowed      bool     `json:"half_day_allowed"`
	AttachmentRequired  bool     `json:"attachment_required"`
	MaxDaysPerRequest   *int     `json:"max_days_per_request,omitempty"`
	GenderEligibility   string   `json:"gender_eligibility"`
	LocationEligibility []string `json:"location_eligibility,omitempty"`
	GradeEligibility    []string `json:"grade_eligibility,omitempty"`
	IsActive            bool     `json:"is_active"`
}
