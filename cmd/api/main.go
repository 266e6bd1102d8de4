package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/config"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/settings"
	appHTTP "github.com/cmlabs-hris/payroll-rules-engine/internal/handler/http"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/payroll-rules-engine/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/attendance"
	offboardingService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/offboarding"
	payrollService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/payroll"
	settingsService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	rulesRepo := postgresql.NewRulesRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	settlementRepo := postgresql.NewSettlementRepository(db)
	companyDirectory := postgresql.NewCompanyDirectory(db)

	var cache settings.Cache
	if addr := cfg.RedisAddr(); addr != "" {
		client, err := redisRepo.NewClient(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("Settings cache unavailable, reading from database", "addr", addr, "error", err)
		} else {
			defer client.Close()
			cache = redisRepo.NewSettingsCache(client, cfg.Redis.TTL)
		}
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	settingsSvc := settingsService.NewSettingsService(payrollRepo, rulesRepo, cache)
	payrollSvc := payrollService.NewPayrollService(transactor, payrollRepo, employeeRepo, settingsSvc, cfg.Payroll.WorkerLimit)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, shiftRepo, settingsSvc)
	offboardingSvc := offboardingService.NewOffboardingService(transactor, settlementRepo, employeeRepo, settingsSvc)

	var rateLimit func(http.Handler) http.Handler
	if cfg.RateLimit.Rate != "" {
		rateLimit, err = middleware.RateLimit(cfg.RateLimit.Rate)
		if err != nil {
			log.Fatal("Error configuring rate limit: ", err)
		}
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        cfg.App.Version,
			AllowedOrigins: cfg.App.AllowedOrigins,
			RateLimit:      rateLimit,
		},
		JWTService,
		appHTTP.Handlers{
			Payroll:     appHTTP.NewPayrollHandler(payrollSvc),
			Attendance:  appHTTP.NewAttendanceHandler(attendanceSvc),
			Offboarding: appHTTP.NewOffboardingHandler(offboardingSvc),
			Settings:    appHTTP.NewSettingsHandler(settingsSvc),
		},
	)

	scheduler := cron.NewScheduler(ctx)
	if cfg.Cron.Enabled {
		jobs := cron.NewAttendanceJobs(attendanceRepo, employeeRepo, shiftRepo, settingsSvc, companyDirectory, nil)
		jobs.RegisterJobs(scheduler, cfg.Cron.Interval)
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	scheduler.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
