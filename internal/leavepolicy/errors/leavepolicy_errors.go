package leavepolicyerrors

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
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave policy not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrInvalidEffectiveWindow = apperror.New(
		apperror.CodeInvalidInput,
		"effective_to must be on or after effective_from",
		http.StatusBadRequest,
	)
)
