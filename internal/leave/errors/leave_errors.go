package leaveerrors

import (
	"net/http"

	"github.com/dashpratyush277/hrms-1/internal/shared/apperror"
)

var (
	ErrInvalidTenantID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid tenant id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrApplicationNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave application not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeInactive = apperror.New(
		apperror.CodeInvalidInput,
		"leave type is not active",
		http.StatusBadRequest,
	)
	ErrHalfDayNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"half-day leave is not allowed for this leave type",
		http.StatusBadRequest,
	)
	ErrInvalidHalfDayType = apperror.New(
		apperror.CodeInvalidInput,
		"half_day_type must be FIRST_HALF or SECOND_HALF",
		http.StatusBadRequest,
	)
	ErrAttachmentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"this leave type requires an attachment",
		http.StatusBadRequest,
	)
	ErrOverMaxDaysPerRequest = apperror.New(
		apperror.CodeInvalidInput,
		"requested days exceed the maximum allowed per request",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"leave application is already processed",
		http.StatusBadRequest,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending applications can be modified",
		http.StatusBadRequest,
	)
	ErrCancelApproved = apperror.New(
		apperror.CodeInvalidState,
		"approved leave cannot be cancelled, contact HR",
		http.StatusBadRequest,
	)
	ErrNotApplicant = apperror.New(
		apperror.CodeForbidden,
		"only the applicant can modify this application",
		http.StatusForbidden,
	)
	ErrNotAuthorizedApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not authorized to act on this application",
		http.StatusForbidden,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
)
