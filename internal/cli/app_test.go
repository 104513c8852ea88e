package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository/memory"
	serviceAuth "github.com/cmlabs-hris/puantaj-backend-go/internal/service/auth"
	backupService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPasswords feeds answers to readPassword in order.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer, auth.AuthService) {
	t.Helper()

	store, err := memory.Open("")
	require.NoError(t, err)
	fileStorage, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	authService := serviceAuth.NewAuthService(
		memory.NewUserRepository(store),
		memory.NewRefreshTokenRepository(store),
		jwt.NewJWTService("secret", time.Hour, time.Hour, false),
	)
	backups := backupService.NewBackupService(memory.NewSnapshotRepository(store), file.NewFileService(fileStorage))

	var out bytes.Buffer
	return NewApp(authService, backups, &out), &out, authService
}

func TestApp_UseraddAndPasswd(t *testing.T) {
	ctx := context.Background()
	app, out, authService := newTestApp(t)

	stubPasswords(t, "secret1", "secret1")
	require.NoError(t, app.Run(ctx, []string{"useradd", "-username", "veli", "-name", "Veli Demir"}))
	assert.Contains(t, out.String(), "created user veli")

	_, err := authService.Login(ctx, auth.LoginRequest{Username: "veli", Password: "secret1"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	stubPasswords(t, "secret2", "secret2")
	require.NoError(t, app.Run(ctx, []string{"passwd", "-username", "veli"}))
	_, err = authService.Login(ctx, auth.LoginRequest{Username: "veli", Password: "secret2"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"users"}))
	assert.Contains(t, out.String(), "Veli Demir")
}

func TestApp_Errors(t *testing.T) {
	ctx := context.Background()
	app, _, _ := newTestApp(t)

	assert.Error(t, app.Run(ctx, nil))
	assert.Error(t, app.Run(ctx, []string{"frobnicate"}))
	assert.Error(t, app.Run(ctx, []string{"useradd"}))
	assert.Error(t, app.Run(ctx, []string{"restore"}))

	stubPasswords(t, "one", "two")
	assert.ErrorIs(t, app.Run(ctx, []string{"useradd", "-username", "x"}), errPasswordsDiffer)

	stubPasswords(t, "abc", "abc")
	assert.ErrorIs(t, app.Run(ctx, []string{"passwd", "-username", "ghost"}), user.ErrUserNotFound)
}

func TestApp_ExportArchiveRestore(t *testing.T) {
	ctx := context.Background()
	app, out, authService := newTestApp(t)

	_, err := authService.EnsureDefaultAdmin(ctx, "admin", "123")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, app.Run(ctx, []string{"export", "-out", path}))
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, app.Run(ctx, []string{"archive"}))
	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"archives"}))
	assert.Contains(t, out.String(), "Personel_Takip_Yedek_")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"restore", "-in", path}))
	assert.Contains(t, out.String(), "1 users")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	assert.Error(t, app.Run(ctx, []string{"restore", "-in", bad}))
}
