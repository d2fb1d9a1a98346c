package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "natillera-backend/internal/adapter/http"
	appmw "natillera-backend/internal/adapter/middleware"
	"natillera-backend/internal/adapter/repository/mysql"
	"natillera-backend/internal/config"
	"natillera-backend/internal/domain/latefee"
	"natillera-backend/internal/domain/ledger"
	"natillera-backend/internal/domain/liquidation"
	"natillera-backend/internal/domain/loan"
	"natillera-backend/internal/domain/member"
	"natillera-backend/internal/infrastructure/cache"
	"natillera-backend/internal/infrastructure/db"
	latefeeuc "natillera-backend/internal/usecase/latefee"
	ledgeruc "natillera-backend/internal/usecase/ledger"
	liquc "natillera-backend/internal/usecase/liquidation"
	loanuc "natillera-backend/internal/usecase/loan"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&ledger.Movement{},
		&latefee.Record{},
		&latefee.PaymentEntry{},
		&loan.Loan{},
		&loan.Movement{},
		&liquidation.Batch{},
		&member.Member{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	uow := mysql.NewGormUoW(gdb)
	ledgerRepo := mysql.NewLedgerRepository(gdb)
	lateFeeRepo := mysql.NewLateFeeRepository(gdb)
	lateFeePayRepo := mysql.NewLateFeePaymentRepository(gdb)
	loanRepo := mysql.NewLoanRepository(gdb)
	loanMovRepo := mysql.NewLoanMovementRepository(gdb)

	ledgerUC := ledgeruc.NewUsecase(ledgerRepo, uow)
	lateFeeUC := latefeeuc.NewUsecase(lateFeeRepo, lateFeePayRepo, uow, cfg.Engine)
	loanUC := loanuc.NewUsecase(loanRepo, loanMovRepo, uow)
	liqUC := liquc.NewUsecase(uow, cfg.Engine)

	h := httpadp.NewHandler()
	ledgerH := httpadp.NewLedgerHandler(ledgerUC)
	lateFeeH := httpadp.NewLateFeeHandler(lateFeeUC)
	loanH := httpadp.NewLoanHandler(loanUC)
	liqH := httpadp.NewLiquidationHandler(liqUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idem := appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	e.GET("/ledger/balance", ledgerH.Balance)
	e.GET("/ledger/movements", ledgerH.List)
	e.POST("/ledger/movements", ledgerH.Append, idem)
	e.POST("/ledger/movements/:movement_id/reverse", ledgerH.Reverse, idem)

	e.GET("/late-fees", lateFeeH.Outstanding)
	e.POST("/late-fees/assessments", lateFeeH.Assess, idem)
	e.POST("/late-fees/:record_id/payments", lateFeeH.AllocatePayment, idem)
	e.DELETE("/late-fees/payments/:entry_id", lateFeeH.ReversePayment, idem)

	e.POST("/loans", loanH.CreateLoan, idem)
	e.GET("/loans/:loan_id/extract", loanH.Extract)
	e.POST("/loans/:loan_id/movements", loanH.ApplyMovement, idem)

	e.POST("/liquidations/preview", liqH.Preview)
	e.POST("/liquidations", liqH.Commit, idem)
	e.DELETE("/liquidations/:batch_id", liqH.Revert, idem)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
