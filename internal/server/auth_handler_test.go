package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-verifier/internal/config"
	"github.com/jonathan/resume-verifier/internal/types"
)

// setupTestAuthHandler creates an AuthHandler backed by the in-memory store.
func setupTestAuthHandler(_ *testing.T) *AuthHandler {
	jwtConfig := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 24,
	}
	return NewAuthHandler(newTestUserService(), NewJWTService(jwtConfig))
}

func registerRequest(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler := setupTestAuthHandler(t)

	body, _ := json.Marshal(map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "password123",
	})
	w := httptest.NewRecorder()
	handler.Register(w, registerRequest(body))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "Jane Doe", resp.User.Name)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	handler := setupTestAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, registerRequest([]byte("invalid json")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		reqBody map[string]string
	}{
		{
			name:    "missing name",
			reqBody: map[string]string{"email": "test@example.com", "password": "password123"},
		},
		{
			name:    "empty name",
			reqBody: map[string]string{"name": "", "email": "test@example.com", "password": "password123"},
		},
		{
			name:    "invalid email",
			reqBody: map[string]string{"name": "Test User", "email": "invalid-email", "password": "password123"},
		},
		{
			name:    "missing email",
			reqBody: map[string]string{"name": "Test User", "password": "password123"},
		},
		{
			name:    "password too short",
			reqBody: map[string]string{"name": "Test User", "email": "test@example.com", "password": "short"},
		},
		{
			name:    "missing password",
			reqBody: map[string]string{"name": "Test User", "email": "test@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupTestAuthHandler(t)

			body, _ := json.Marshal(tt.reqBody)
			w := httptest.NewRecorder()
			handler.Register(w, registerRequest(body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler := setupTestAuthHandler(t)

	body, _ := json.Marshal(map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "password123",
	})

	w := httptest.NewRecorder()
	handler.Register(w, registerRequest(body))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	handler.Register(w, registerRequest(body))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestAuthHandler_Login(t *testing.T) {
	handler := setupTestAuthHandler(t)

	registerBody, _ := json.Marshal(map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "password123",
	})
	w := httptest.NewRecorder()
	handler.Register(w, registerRequest(registerBody))
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "jane@example.com",
			"password": "password123",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.Login(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp types.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "jane@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "jane@example.com",
			"password": "not-the-password",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid email or password")
	})

	t.Run("unknown email", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	handler := setupTestAuthHandler(t)

	registerBody, _ := json.Marshal(map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "password123",
	})
	w := httptest.NewRecorder()
	handler.Register(w, registerRequest(registerBody))
	require.Equal(t, http.StatusCreated, w.Code)

	var created types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w = httptest.NewRecorder()
	handler.Me(w, req, created.User.ID)

	require.Equal(t, http.StatusOK, w.Code)

	var user types.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, created.User.ID, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	handler := setupTestAuthHandler(t)

	registerBody, _ := json.Marshal(map[string]string{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "oldpassword1",
	})
	w := httptest.NewRecorder()
	handler.Register(w, registerRequest(registerBody))
	require.Equal(t, http.StatusCreated, w.Code)

	var created types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("wrong current password", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"current_password": "not-the-password",
			"new_password":     "newpassword1",
		})
		req := httptest.NewRequest(http.MethodPut, "/api/users/me/password", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.UpdatePassword(w, req, created.User.ID)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("new password too short", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"current_password": "oldpassword1",
			"new_password":     "short",
		})
		req := httptest.NewRequest(http.MethodPut, "/api/users/me/password", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.UpdatePassword(w, req, created.User.ID)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation error")
	})

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"current_password": "oldpassword1",
			"new_password":     "newpassword1",
		})
		req := httptest.NewRequest(http.MethodPut, "/api/users/me/password", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.UpdatePassword(w, req, created.User.ID)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Password updated successfully")

		// Login only works with the new password now
		loginBody, _ := json.Marshal(map[string]string{
			"email":    "jane@example.com",
			"password": "newpassword1",
		})
		loginReq := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(loginBody))
		w = httptest.NewRecorder()
		handler.Login(w, loginReq)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
