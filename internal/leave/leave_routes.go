package leave

import (
	"github.com/dashpratyush277/hrms-1/internal/middleware"
	"github.com/dashpratyush277/hrms-1/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	idempotency gin.HandlerFunc,
) {
	leaves := r.Group("/leave-applications")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/team", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.GetTeam)
		leaves.GET("/balances", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetBalances)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), idempotency, handler.Apply)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Edit)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Cancel)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
	}
}
