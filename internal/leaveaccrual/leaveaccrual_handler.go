package leaveaccrual

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
	l := zap.L().Named("leaveaccrual.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveaccrual.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("accrual request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func yearParam(c *gin.Context, name string) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return time.Now().UTC().Year(), true
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 2000 || year > 2200 {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid "+name, nil)
		return 0, false
	}
	return year, true
}

// ProcessAnnual runs the annual accrual batch for the caller's tenant.
func (h *Handler) ProcessAnnual(c *gin.Context) {
	year, ok := yearParam(c, "year")
	if !ok {
		return
	}

	summary, err := h.service.ProcessAnnualAccruals(c.Request.Context(), c.GetString("tenant_id"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}

// ProcessCarryForward rolls balances from from_year into the next year.
func (h *Handler) ProcessCarryForward(c *gin.Context) {
	fromYear, ok := yearParam(c, "from_year")
	if !ok {
		return
	}

	summary, err := h.service.ProcessCarryForward(c.Request.Context(), c.GetString("tenant_id"), fromYear)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}
