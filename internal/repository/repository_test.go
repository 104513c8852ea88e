package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	for _, cfg := range []config.DatabaseConfig{
		{Driver: config.DriverMemory, DataFile: filepath.Join(dir, "data.json")},
		{Driver: config.DriverSQLite, SQLitePath: filepath.Join(dir, "data.db")},
	} {
		t.Run(cfg.Driver, func(t *testing.T) {
			repos, err := Open(ctx, cfg, "")
			require.NoError(t, err)
			defer repos.Close()

			count, err := repos.User.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)

			snapshot, err := repos.Snapshot.Dump(ctx)
			require.NoError(t, err)
			assert.Empty(t, snapshot.Employees)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql"}, "")
	assert.Error(t, err)
}
