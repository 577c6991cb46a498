package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/config"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/auth"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/db"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/store"
)

// testEnv wires a full router against an in-memory SQLite database.
type testEnv struct {
	router *gin.Engine
	store  store.Store
	tokens *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Server: config.ServerConfig{
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
			CacheTTLSeconds: 1,
		},
	}
	appStore := store.NewGormStore(gormDB)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	passwords := auth.NewPasswordHasher(bcrypt.MinCost)
	handler := NewHandler(appStore, tokens, passwords, &webpush.Options{VAPIDPublicKey: "test-public-key"})

	return &testEnv{
		router: NewRouter(handler, tokens, cfg),
		store:  appStore,
		tokens: tokens,
	}
}

// seedTechnician inserts a user and returns it with a valid bearer token.
func (e *testEnv) seedTechnician(t *testing.T, name string) (model.User, string) {
	t.Helper()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         "technician",
		IsTechnician: true,
		IsActive:     true,
	}
	require.NoError(t, e.store.DB().Create(&user).Error)

	token, err := e.tokens.Issue(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return user, token
}

// do performs a JSON request against the test router. The Cache-Control
// header bypasses the response cache so every call hits the handlers.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
