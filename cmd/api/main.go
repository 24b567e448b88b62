package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "microloan-backend/internal/adapter/http"
	appmw "microloan-backend/internal/adapter/middleware"
	"microloan-backend/internal/adapter/repository/sqldb"
	"microloan-backend/internal/config"
	"microloan-backend/internal/domain/uow"
	"microloan-backend/internal/infrastructure/cache"
	"microloan-backend/internal/infrastructure/db"
	"microloan-backend/internal/scoring"
	"microloan-backend/internal/usecase/underwriting"
	"microloan-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	// Fitted artifacts are mandatory: without them there is no decision path.
	model, err := scoring.Load(cfg.ModelPath)
	if err != nil {
		log.Fatal("load model artifact", zap.String("path", cfg.ModelPath), zap.Error(err))
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}

	repos := uow.Repos{
		Users:        sqldb.NewUserRepository(gdb),
		Loans:        sqldb.NewLoanRepository(gdb),
		Repayments:   sqldb.NewRepaymentRepository(gdb),
		Gamification: sqldb.NewGamificationRepository(gdb),
	}
	uc := underwriting.NewUsecase(repos, sqldb.NewGormUoW(gdb), model)

	h := httpadp.NewHandler()
	uh := httpadp.NewUnderwritingHandler(uc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	if cfg.RedisAddr != "" {
		rdb, err := cache.Open(cfg)
		if err != nil {
			log.Fatal("open redis", zap.Error(err))
		}
		e.Use(appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
		log.Info("idempotency middleware enabled", zap.String("redis", cfg.RedisAddr))
	}

	// routes
	e.GET("/health", h.Health)
	e.POST("/loan/apply", uh.Apply)
	e.GET("/user/progress/:user_id", uh.Progress)
	e.POST("/repayment/record", uh.Repay)

	addr := ":" + cfg.AppPort
	log.Info("listening", zap.String("addr", addr), zap.String("db", cfg.DBDriver))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
