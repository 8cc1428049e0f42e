package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dashpratyush277/hrms-1/internal/employee"
	"github.com/dashpratyush277/hrms-1/internal/leaveaccrual"
	"github.com/dashpratyush277/hrms-1/internal/leavebalance"
	"github.com/dashpratyush277/hrms-1/internal/leavepolicy"
	"github.com/dashpratyush277/hrms-1/internal/leavetype"
	"github.com/dashpratyush277/hrms-1/internal/shared/connection"

	"go.uber.org/zap"
)

// RunAccrual executes the annual accrual batch for one tenant and
// exits. It is meant to be invoked from a scheduler.
func RunAccrual(tenantID string, year int, carryForward bool) error {
	logger := zap.L().Named("app.accrual")

	if tenantID == "" {
		return fmt.Errorf("tenant id is required")
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	balanceRepo := leavebalance.NewRepository(gormDB)
	books := leavebalance.NewBooks(balanceRepo, snapshotModeFromEnv())
	service := leaveaccrual.NewService(
		gormDB,
		leavepolicy.NewRepository(gormDB),
		leavetype.NewRepository(gormDB),
		employee.NewDirectory(gormDB),
		books,
	)

	ctx := context.Background()

	var summary leaveaccrual.BatchSummary
	if carryForward {
		summary, err = service.ProcessCarryForward(ctx, tenantID, year)
	} else {
		summary, err = service.ProcessAnnualAccruals(ctx, tenantID, year)
	}
	if err != nil {
		return err
	}

	logger.Info("accrual batch finished",
		zap.String("tenant_id", tenantID),
		zap.Int("year", summary.Year),
		zap.Int("processed", summary.Processed),
		zap.Int("accrued", summary.Accrued),
		zap.Int("failed", summary.Failed),
	)
	return nil
}

// snapshotModeFromEnv keeps the legacy APPROVAL snapshot unless
// explicitly switched.
func snapshotModeFromEnv() leavebalance.ApprovalSnapshot {
	if v, err := strconv.ParseBool(os.Getenv("APPROVAL_SNAPSHOT_NEUTRAL")); err == nil && v {
		return leavebalance.SnapshotNeutral
	}
	return leavebalance.SnapshotDebit
}
