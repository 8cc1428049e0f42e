package app

import (
	"github.com/dashpratyush277/hrms-1/internal/audit"
	"github.com/dashpratyush277/hrms-1/internal/employee"
	"github.com/dashpratyush277/hrms-1/internal/leave"
	"github.com/dashpratyush277/hrms-1/internal/leaveaccrual"
	"github.com/dashpratyush277/hrms-1/internal/leavebalance"
	"github.com/dashpratyush277/hrms-1/internal/leavepolicy"
	"github.com/dashpratyush277/hrms-1/internal/leavetype"
	"github.com/dashpratyush277/hrms-1/internal/messaging/kafka"
	"github.com/dashpratyush277/hrms-1/internal/middleware"
	"github.com/dashpratyush277/hrms-1/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	typeRepo := leavetype.NewRepository(gormDB)
	policyRepo := leavepolicy.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	directory := employee.NewDirectory(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Collaborators ---
	auditor := audit.NewZapLogger()
	books := leavebalance.NewBooks(balanceRepo, snapshotModeFromEnv())

	// --- Services ---
	typeService := leavetype.NewService(gormDB, typeRepo, auditor)
	policyService := leavepolicy.NewService(gormDB, policyRepo, auditor)
	balanceService := leavebalance.NewService(balanceRepo)
	accrualService := leaveaccrual.NewService(gormDB, policyRepo, typeRepo, directory, books)
	leaveService := leave.NewService(gormDB, leaveRepo, typeRepo, directory, books, balanceService, outboxRepo, auditor)

	// --- Handlers ---
	typeHandler := leavetype.NewHandler(typeService)
	policyHandler := leavepolicy.NewHandler(policyService)
	accrualHandler := leaveaccrual.NewHandler(accrualService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leavetype.RegisterRoutes(api, typeHandler, rbacService)
		leavepolicy.RegisterRoutes(api, policyHandler, rbacService)
		leaveaccrual.RegisterRoutes(api, accrualHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, middleware.Idempotency(rdb))
	}

	return nil
}
