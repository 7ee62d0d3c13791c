package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "enjez/docs"
	"enjez/internal/api/handlers"
	"enjez/internal/dto"
	"enjez/internal/models"
	"enjez/internal/service"
	"enjez/pkg/auth"
	"enjez/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAnswerer struct {
	questions []string
}

func (f *fakeAnswerer) Answer(_ context.Context, question string, topK int) *dto.ChatResponse {
	f.questions = append(f.questions, question)
	return &dto.ChatResponse{
		Answer:  "Plumbing costs 250 EGP.",
		Sources: []*models.ScoredRecord{},
		Status:  dto.AnswerStatusAnswered,
	}
}

type fakeInitializer struct{}

func (fakeInitializer) EnsureInitialized(context.Context) *service.InitResult {
	return &service.InitResult{Status: service.InitStatusReady}
}

func newTestApp(t *testing.T) (*fiber.App, *fakeAnswerer, *auth.JWTManager) {
	t.Helper()
	answerer := &fakeAnswerer{}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, time.Hour)
	app := SetupRouter(&Handlers{
		Chat: handlers.NewChatHandler(answerer, fakeInitializer{}, zap.NewNop()),
	}, &config.ServerConfig{}, jwtManager, zap.NewNop())
	return app, answerer, jwtManager
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func TestHealth(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, payload := doJSON(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", payload["status"])
}

func TestSwaggerDoc(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, payload := doJSON(t, app, http.MethodGet, "/swagger/doc.json", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "2.0", payload["swagger"])

	paths, ok := payload["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/api/v1/chat")
	assert.Contains(t, paths, "/user/auth/register")
}

func TestChatEndpoint(t *testing.T) {
	app, answerer, _ := newTestApp(t)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/chat", `{"question":"  how much is plumbing? "}`, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "answered", payload["status"])
	assert.Equal(t, "Plumbing costs 250 EGP.", payload["answer"])
	assert.Equal(t, []string{"how much is plumbing?"}, answerer.questions)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/chat", `{"question":"   "}`, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/chat", `{"question":"hi","top_k":99}`, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/chat", `not json`, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChatInitEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/chat/init", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", payload["status"])
}

func TestProtectedRoutes(t *testing.T) {
	app, _, jwtManager := newTestApp(t)

	clientToken, err := jwtManager.GenerateToken("6f1c1b8e-4d5e-4c1a-9a56-2f7a1d7f3e10", "mona", "mona@example.com", "client")
	require.NoError(t, err)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/bookings", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/bookings", "", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/admin/knowledge/rebuild", "", clientToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Insufficient permissions", payload["error"])

	refresh, err := jwtManager.GenerateRefreshToken("6f1c1b8e-4d5e-4c1a-9a56-2f7a1d7f3e10")
	require.NoError(t, err)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/recommendations", "", refresh)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
