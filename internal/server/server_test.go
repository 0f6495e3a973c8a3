package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testOwnerPassword = "correct horse battery staple"

// fakeMailer satisfies both notification interfaces and records calls.
type fakeMailer struct {
	mu       sync.Mutex
	likes    int
	comments int
	contact  []string
	fail     error
}

func (f *fakeMailer) NotifyLike(ctx context.Context, visitorName, contentPreview string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes++
	return f.fail
}

func (f *fakeMailer) NotifyComment(ctx context.Context, visitorName, commentText, contentPreview string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments++
	return f.fail
}

func (f *fakeMailer) counts() (likes, comments int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likes, f.comments
}

func (f *fakeMailer) SendContactMessage(ctx context.Context, name, email, subject, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.contact = append(f.contact, subject)
	return nil
}

func newTestServer(t *testing.T) (*fiber.App, *Server, *fakeMailer) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	hash, err := bcrypt.GenerateFromPassword([]byte(testOwnerPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              "0",
		Env:               "test",
		JWTSecret:         "test-secret",
		DBDriver:          "sqlite",
		DBName:            ":memory:",
		OwnerEmail:        "owner@example.com",
		OwnerPasswordHash: string(hash),
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisCache := cache.New(mr.Addr())

	m := &fakeMailer{}
	srv := NewServerWithDeps(cfg, db, redisCache, m, m)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return app, srv, m
}

// doJSON performs a request with a JSON body and decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload), "body: %s", raw)

	return resp.StatusCode, payload
}

func ownerToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "owner@example.com",
		"password": testOwnerPassword,
	}, "")
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthCheck(t *testing.T) {
	app, _, _ := newTestServer(t)

	status, body := doJSON(t, app, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestGetIPPrefersForwardedFor(t *testing.T) {
	app, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "203.0.113.7", body["ip"])
}

func TestRecordVisitor(t *testing.T) {
	app, srv, _ := newTestServer(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/visitor", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	n, err := srv.visitorRepo.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLogin(t *testing.T) {
	app, _, _ := newTestServer(t)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token := ownerToken(t, app)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "owner@example.com",
			"password": "nope",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, false, body["success"])
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "intruder@example.com",
			"password": testOwnerPassword,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("missing fields are a validation error", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{}, "")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _, _ := newTestServer(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{
		"content": "hello",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/posts/some-id", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodPut, "/api/posts/some-id/like", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
