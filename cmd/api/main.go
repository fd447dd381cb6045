package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "microloan-backend/internal/adapter/http"
	appmw "microloan-backend/internal/adapter/middleware"
	"microloan-backend/internal/adapter/repository/mysql"
	"microloan-backend/internal/config"
	approvalDomain "microloan-backend/internal/domain/approval"
	"microloan-backend/internal/domain/audit"
	customerDomain "microloan-backend/internal/domain/customer"
	loanDomain "microloan-backend/internal/domain/loan"
	riskDomain "microloan-backend/internal/domain/risk"
	"microloan-backend/internal/infrastructure/cache"
	"microloan-backend/internal/infrastructure/db"
	approvalUC "microloan-backend/internal/usecase/approval"
	loanUC "microloan-backend/internal/usecase/loan"
	riskUC "microloan-backend/internal/usecase/risk"
)

func main() {
	// .env is optional; real deployments set the environment directly.
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
		&customerDomain.Customer{},
		&loanDomain.Product{},
		&loanDomain.Application{},
		&loanDomain.ScheduleEntry{},
		&approvalDomain.Record{},
		&riskDomain.Assessment{},
		&audit.Entry{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	// repositories
	loanRepo := mysql.NewLoanRepository(gdb)
	approvalRepo := mysql.NewApprovalRepository(gdb)
	riskRepo := mysql.NewRiskRepository(gdb)
	customerRepo := mysql.NewCustomerRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	// usecases
	loans := loanUC.NewUsecase(loanRepo, customerRepo, uow)
	approvals := approvalUC.NewUsecase(approvalRepo, uow)
	risks := riskUC.NewUsecase(loanRepo, riskRepo, customerRepo, customerRepo, uow)

	// handlers
	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loans)
	ah := httpadp.NewApprovalHandler(approvals)
	rh := httpadp.NewRiskHandler(risks)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(appmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/applications", lh.CreateApplication)
	e.GET("/applications/:id", lh.GetApplication)
	e.GET("/applications/code/:code", lh.GetApplicationByCode)
	e.PATCH("/applications/:id", lh.UpdateApplication)
	e.POST("/applications/:id/submit", lh.SubmitApplication)

	e.POST("/applications/:id/approvals/:level", ah.Decide)
	e.POST("/applications/:id/escalate", ah.Escalate)
	e.GET("/applications/:id/approvals", ah.History)
	e.POST("/approvals/bulk", ah.Bulk)
	e.GET("/approvals/pending", ah.ListPending)

	e.POST("/applications/:id/risk-assessments", rh.Assess)
	e.GET("/applications/:id/risk-assessments/latest", rh.Latest)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
