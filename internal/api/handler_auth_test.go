package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/auth/register", "", map[string]any{
		"name":     "Alex Rivera",
		"email":    "alex@example.com",
		"password": "Secret!pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	decode(t, w, &registered)
	assert.Equal(t, "alex@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "bearer", registered.TokenType)
	assert.Equal(t, 3600, registered.ExpiresIn)

	// The password hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "password_hash")

	w = env.do(t, "POST", "/api/auth/login", "", map[string]any{
		"email":    "alex@example.com",
		"password": "Secret!pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var session struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &session)

	w = env.do(t, "GET", "/api/auth/me", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decode(t, w, &me)
	assert.Equal(t, registered.User.ID, me.ID)
}

func TestRegister_Rejections(t *testing.T) {
	env := newTestEnv(t)

	// Weak password
	w := env.do(t, "POST", "/api/auth/register", "", map[string]any{
		"name":     "Alex",
		"email":    "alex@example.com",
		"password": "weakpass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Valid registration, then a duplicate email
	w = env.do(t, "POST", "/api/auth/register", "", map[string]any{
		"name":     "Alex",
		"email":    "alex@example.com",
		"password": "Secret!pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "POST", "/api/auth/register", "", map[string]any{
		"name":     "Also Alex",
		"email":    "alex@example.com",
		"password": "Secret!pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestLogin_Rejections(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/auth/register", "", map[string]any{
		"name":     "Alex",
		"email":    "alex@example.com",
		"password": "Secret!pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "POST", "/api/auth/login", "", map[string]any{
		"email":    "alex@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, "POST", "/api/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "Secret!pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Account not found")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, w.Body.String())

	w = env.do(t, "GET", "/api/requests", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid or expired token"}`, w.Body.String())
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedTechnician(t, "tech")

	w := env.do(t, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out")
}

func TestGetVAPIDPublicKey(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/vapid_public_key", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"test-public-key"}`, w.Body.String())
}
