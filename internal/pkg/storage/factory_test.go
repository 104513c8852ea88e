package storage

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("local", func(t *testing.T) {
		dir := t.TempDir()
		s, served, err := NewFromConfig(ctx, config.StorageConfig{Type: config.StorageLocal, BasePath: dir})
		require.NoError(t, err)
		assert.IsType(t, &LocalStorage{}, s)
		assert.NotEmpty(t, served)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := NewFromConfig(ctx, config.StorageConfig{Type: "ftp"})
		assert.Error(t, err)
	})
}
