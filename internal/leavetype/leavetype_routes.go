package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "leave_config", "read"), handler.GetAll)
		types.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_config", "read"), handler.GetByID)
		types.POST("", middleware.RBACAuthorize(rbacService, "leave_config", "manage"), handler.Create)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_config", "manage"), handler.Update)
		types.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_config", "manage"), handler.Delete)
	}
}
