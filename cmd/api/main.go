package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/puantaj-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository"
	attendanceService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/puantaj-backend-go/internal/service/auth"
	backupService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/backup"
	dashboardService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/service/file"
	payrollService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/report"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.Name, cfg.App.Version, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := repository.Open(ctx, cfg.Database, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer repos.Close()

	fileStorage, filesDir, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	fileService := file.NewFileService(fileStorage)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.JWT.SecureCookie)
	calculator := payrollService.NewCalculator()

	authService := serviceAuth.NewAuthService(repos.User, repos.RefreshToken, JWTService)
	employeeSvc := employeeService.NewEmployeeService(repos.Employee)
	attendanceSvc := attendanceService.NewAttendanceService(repos.Attendance, repos.Employee, calculator)
	payrollSvc := payrollService.NewPayrollService(repos.Employee, repos.Attendance, calculator)
	dashboardSvc := dashboardService.NewDashboardService(repos.Employee, repos.Attendance, calculator)
	reportSvc := reportService.NewReportService(repos.Employee, repos.Attendance, payrollSvc, calculator, fileService)
	backupSvc := backupService.NewBackupService(repos.Snapshot, fileService)

	if _, err := authService.EnsureDefaultAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return err
	}

	scheduler := cron.NewScheduler()
	if err := cron.NewBackupJobs(backupSvc, cfg.Backup.Schedule, cfg.Backup.Interval, cfg.Backup.Retention).RegisterJobs(scheduler); err != nil {
		return err
	}
	if err := cron.NewSessionJobs(authService).RegisterJobs(scheduler); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			FilesDir:       filesDir,
		},
		JWTService,
		appHTTP.NewAuthHandler(authService, JWTService),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewBackupHandler(backupSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
