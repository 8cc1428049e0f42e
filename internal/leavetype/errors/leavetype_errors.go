package leavetypeerrors

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
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"leave type with this code already exists",
		http.StatusConflict,
	)
	ErrTypeInUse = apperror.New(
		apperror.CodeConflict,
		"cannot delete leave type with existing applications",
		http.StatusConflict,
	)
)
