package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "wrong password",
			body:       map[string]string{"username": handlerTestUsername, "password": "nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			body:       map[string]string{"username": "ghost", "password": "123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing fields",
			body:       map[string]string{},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed body",
			body:       "{",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	t.Run("success sets refresh cookie", func(t *testing.T) {
		token, cookie := login(t, h)
		assert.NotEmpty(t, token)
		assert.True(t, cookie.HttpOnly)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	h := newTestServer(t)

	body := map[string]string{
		"name":             "Mehmet Kaya",
		"username":         "mehmet",
		"password":         "s3cret",
		"confirm_password": "s3cret",
	}

	rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "mehmet", created["username"])
	assert.NotContains(t, created, "password_hash")

	rec = doRequest(t, h, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	mismatch := map[string]string{
		"name":             "Ali",
		"username":         "ali",
		"password":         "abc",
		"confirm_password": "abd",
	}
	rec = doRequest(t, h, http.MethodPost, "/api/v1/auth/register", "", mismatch)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	h := newTestServer(t)
	_, cookie := login(t, h)

	t.Run("from cookie", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/refresh", "", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var data struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
		assert.NotEmpty(t, data.AccessToken)
	})

	t.Run("from body", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
			"refresh_token": cookie.Value,
		})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/refresh", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		access, _ := login(t, h)
		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
			"refresh_token": access,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	h := newTestServer(t)
	token, cookie := login(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/employees", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/auth/logout", token, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == jwt.RefreshTokenCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/employees", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "access token must be revoked")

	rec = doRequest(t, h, http.MethodPost, "/api/v1/auth/refresh", "", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh token must be revoked")

	t.Run("without session", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/logout", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	h := newTestServer(t)
	token, _ := login(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/change-password", token, map[string]string{
		"current_password":     "wrong",
		"new_password":         "yeni-sifre",
		"confirm_new_password": "yeni-sifre",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/auth/change-password", token, map[string]string{
		"current_password":     handlerTestPassword,
		"new_password":         "yeni-sifre",
		"confirm_new_password": "yeni-sifre",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": handlerTestUsername,
		"password": "yeni-sifre",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_ListUsers(t *testing.T) {
	h := newTestServer(t)
	token, _ := login(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, handlerTestUsername, users[0]["username"])
}
