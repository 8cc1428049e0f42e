package leave

import (
	"net/http"
	"strconv"
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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Apply(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("employee_id")

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	// Replayed verbatim by the idempotency middleware on a retried apply.
	c.Set("idempotency_response", resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("employee_id")

	var req EditLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Edit(c.Request.Context(), tenantID, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("employee_id")

	var req CancelLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), tenantID, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("employee_id")

	var req ApproveLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), tenantID, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("employee_id")

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), tenantID, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := bindFilter(c)

	resp, total, err := h.service.GetAll(c.Request.Context(), c.GetString("tenant_id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("tenant_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetTeam(c *gin.Context) {
	filter := bindFilter(c)

	resp, total, err := h.service.GetTeamApplications(c.Request.Context(), c.GetString("tenant_id"), c.GetString("employee_id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetBalances(c *gin.Context) {
	employeeID := c.GetString("employee_id")
	if v := c.Query("employee_id"); v != "" {
		employeeID = v
	}

	year := time.Now().UTC().Year()
	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid year", nil)
			return
		}
		year = parsed
	}

	resp, err := h.service.GetBalances(c.Request.Context(), c.GetString("tenant_id"), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func bindFilter(c *gin.Context) ApplicationFilter {
	var filter ApplicationFilter
	if v := c.Query("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("from"); v != "" {
		filter.From = &v
	}
	if v := c.Query("to"); v != "" {
		filter.To = &v
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return filter
}
