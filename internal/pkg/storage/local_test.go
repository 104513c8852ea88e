package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files/")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader(`{"ok":true}`), "backups/a.json", "application/json")
	require.NoError(t, err)
	assert.Equal(t, "backups/a.json", key)

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))

	url, err := s.GetURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/backups/a.json", url)
}

func TestLocalStorage_TraversalStaysInside(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("x"), "../../etc/escape.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/escape.txt", key)

	_, err = s.Upload(ctx, strings.NewReader("x"), "..", "text/plain")
	assert.Error(t, err)
}

func TestLocalStorage_MissingFile(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Download(ctx, "nope.json")
	assert.True(t, errors.Is(err, ErrObjectNotFound))

	exists, err := s.Exists(ctx, "nope.json")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, s.Delete(ctx, "nope.json"))
}

func TestLocalStorage_ListByPrefix(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	for _, key := range []string{"backups/one.json", "backups/two.json", "exports/x.xlsx"} {
		_, err := s.Upload(ctx, strings.NewReader(key), key, "")
		require.NoError(t, err)
	}

	objects, err := s.List(ctx, "backups/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	keys := []string{objects[0].Key, objects[1].Key}
	assert.ElementsMatch(t, []string{"backups/one.json", "backups/two.json"}, keys)

	require.NoError(t, s.Delete(ctx, "backups/one.json"))
	objects, err = s.List(ctx, "backups/")
	require.NoError(t, err)
	assert.Len(t, objects, 1)
}
