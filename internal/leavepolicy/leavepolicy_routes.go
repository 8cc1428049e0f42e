package leavepolicy

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
	policies := r.Group("/leave-policies")
	policies.Use(middleware.AuthMiddleware())
	{
		policies.GET("", middleware.RBACAuthorize(rbacService, "leave_config", "read"), handler.GetAll)
		policies.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_config", "read"), handler.GetByID)
		policies.GET("/active/:leaveTypeId", middleware.RBACAuthorize(rbacService, "leave_config", "read"), handler.GetActive)
		policies.POST("", middleware.RBACAuthorize(rbacService, "leave_config", "manage"), handler.Create)
		policies.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_config", "manage"), handler.Update)
		policies.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_config", "manage"), handler.Delete)
	}
}
