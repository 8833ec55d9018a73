package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pcparts-backend/internal/config"
	"pcparts-backend/internal/models"
	"pcparts-backend/internal/server"
	"pcparts-backend/internal/storage"
)

func newTestEnv(t *testing.T) (*gin.Engine, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	return newRouterFor(t, store), store
}

func newRouterFor(t *testing.T, store storage.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		BcryptRounds:   bcrypt.MinCost,
		Environment:    "test",
		AllowedOrigins: []string{"*"},
	}
	return server.New(store, cfg).Router()
}

func do(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func seedUser(t *testing.T, store *storage.MemStore, username, password, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Password: string(hash),
		Name:     "Test " + username,
		Role:     role,
	}
	require.NoError(t, store.InsertUser(context.Background(), user))
	return user
}

func seedItem(t *testing.T, store *storage.MemStore, name, category string, price float64, stock int) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		Name:     name,
		Category: category,
		Brand:    "TestBrand",
		Price:    price,
		Stock:    stock,
	}
	require.NoError(t, store.InsertItem(context.Background(), item))
	return item
}

func loginToken(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/auth/login", gin.H{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
