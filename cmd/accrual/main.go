package main

import (
	"flag"

	"github.com/dashpratyush277/hrms-1/internal/app"
	"github.com/dashpratyush277/hrms-1/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	tenantID := flag.String("tenant", "", "tenant id to accrue for")
	year := flag.Int("year", 0, "accrual year, defaults to the current year")
	carryForward := flag.Bool("carry-forward", false, "roll balances from the given year into the next instead of accruing")
	flag.Parse()

	if err := app.RunAccrual(*tenantID, *year, *carryForward); err != nil {
		logger.Fatal("run accrual failed", zap.Error(err))
	}
}
