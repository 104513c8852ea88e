// Package repository selects a storage backend and vends its repositories.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/config"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository/sqlite"
)

// Repositories bundles one backend's implementations of every repository.
type Repositories struct {
	Employee     employee.EmployeeRepository
	Attendance   attendance.AttendanceRepository
	User         user.UserRepository
	RefreshToken auth.RefreshTokenRepository
	Snapshot     backup.SnapshotRepository

	close func() error
}

// Close releases the backend's resources.
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open connects to the backend named by cfg.Driver, applying migrations for
// the SQL backends.
func Open(ctx context.Context, cfg config.DatabaseConfig, postgresURL string) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store, err := memory.Open(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		slog.Info("Using in-memory store", "data_file", cfg.DataFile)
		return &Repositories{
			Employee:     memory.NewEmployeeRepository(store),
			Attendance:   memory.NewAttendanceRepository(store),
			User:         memory.NewUserRepository(store),
			RefreshToken: memory.NewRefreshTokenRepository(store),
			Snapshot:     memory.NewSnapshotRepository(store),
			close:        store.Close,
		}, nil

	case config.DriverSQLite:
		store, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("Using SQLite store", "path", cfg.SQLitePath)
		return &Repositories{
			Employee:     sqlite.NewEmployeeRepository(store),
			Attendance:   sqlite.NewAttendanceRepository(store),
			User:         sqlite.NewUserRepository(store),
			RefreshToken: sqlite.NewRefreshTokenRepository(store),
			Snapshot:     sqlite.NewSnapshotRepository(store),
			close:        store.Close,
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, postgresURL, database.WithMaxConns(cfg.MaxConns))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.MigratePostgreSQL(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("Using PostgreSQL store", "host", cfg.Host, "database", cfg.Name)
		return &Repositories{
			Employee:     postgresql.NewEmployeeRepository(db),
			Attendance:   postgresql.NewAttendanceRepository(db),
			User:         postgresql.NewUserRepository(db),
			RefreshToken: postgresql.NewJWTRepository(db),
			Snapshot:     postgresql.NewSnapshotRepository(db),
			close: func() error {
				db.Close()
				return nil
			},
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
