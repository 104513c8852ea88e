package response

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithMeta(rec, []string{"a", "b"}, &Meta{Page: 1, Limit: 2, TotalItems: 3, TotalPages: 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
		Meta    Meta     `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, Attachment{
		Name:        "Bordro_Ayşe_Yılmaz_2025-04.xlsx",
		ContentType: "application/octet-stream",
		Data:        []byte("PK\x03\x04"),
		StoragePath: "exports/Bordro_Ayşe_Yılmaz_2025-04.xlsx",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "exports/Bordro_Ayşe_Yılmaz_2025-04.xlsx", rec.Header().Get("X-Storage-Path"))

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "Bordro_Ayşe_Yılmaz_2025-04.xlsx", params["filename"])
}

func TestFile_WithoutStoragePath(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, Attachment{Name: "backup.json", ContentType: "application/json", Data: []byte("{}")})

	assert.Empty(t, rec.Header().Get("X-Storage-Path"))
	assert.Equal(t, "{}", rec.Body.String())
}
