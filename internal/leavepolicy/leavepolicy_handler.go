package leavepolicy

import (
	"net/http"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/shared/apperror"
	"github.com/dashpratyush277/hrms-1/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leavepolicy.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavepolicy.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave policy request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("employee_id")

	var req CreateLeavePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var leaveTypeID *string
	if v := c.Query("leave_type_id"); v != "" {
		leaveTypeID = &v
	}

	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("tenant_id"), leaveTypeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("tenant_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetActive(c *gin.Context) {
	asOf := time.Time{}
	if v := c.Query("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid as_of date, expected YYYY-MM-DD", nil)
			return
		}
		asOf = parsed
	}

	p, err := h.service.GetActivePolicy(c.Request.Context(), c.GetString("tenant_id"), c.Param("leaveTypeId"), asOf)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapToResponse(*p), nil)
}

func (h *Handler) Update(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("employee_id")

	var req UpdateLeavePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), tenantID, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("employee_id")

	if err := h.service.Delete(c.Request.Context(), tenantID, actorID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
