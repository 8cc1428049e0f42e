package leaveaccrual

import (
	"github.com/dashpratyush277/hrms-1/internal/middleware"
	"github.com/dashpratyush277/hrms-1/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	accruals := r.Group("/leave-accruals")
	accruals.Use(middleware.AuthMiddleware())
	{
		accruals.POST("/process", middleware.RBACAuthorize(rbacService, "leave_config", "manage"), handler.ProcessAnnual)
		accruals.POST("/carry-forward", middleware.RBACAuthorize(rbacService, "leave_config", "manage"), handler.ProcessCarryForward)
	}
}
