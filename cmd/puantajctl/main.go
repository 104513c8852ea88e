package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/cli"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/config"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository"
	serviceAuth "github.com/cmlabs-hris/puantaj-backend-go/internal/service/auth"
	backupService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/service/file"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "puantajctl:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Only warnings go to stderr so command output stays clean.
	slog.SetDefault(logger.New(os.Stderr, cfg.App.Name+"-ctl", cfg.App.Version, cfg.App.Env, "warn"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repos, err := repository.Open(ctx, cfg.Database, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer repos.Close()

	fileStorage, _, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.JWT.SecureCookie)
	app := cli.NewApp(
		serviceAuth.NewAuthService(repos.User, repos.RefreshToken, jwtService),
		backupService.NewBackupService(repos.Snapshot, file.NewFileService(fileStorage)),
		os.Stdout,
	)
	return app.Run(ctx, os.Args[1:])
}
