package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"english-tutor-be/internal/dto"
	"english-tutor-be/internal/pkg/logger"
	"english-tutor-be/internal/pkg/serverutils"
	"english-tutor-be/internal/repository/memory"
	"english-tutor-be/internal/service"
	"english-tutor-be/pkg/llm/llmtest"
	"english-tutor-be/pkg/tutor/engine"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(fake *llmtest.Provider) *fiber.App {
	log := logger.NewNopLogger()
	svc := service.NewTutorService(
		engine.New(fake, engine.DefaultConfig(), log),
		memory.NewSessionRepository(time.Hour),
		memory.NewSessionLocker(),
		nil,
		log,
	)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(log)})
	NewTutorController(svc, "fake", false, time.Hour).RegisterRoutes(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, "test-session")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestChatEndpoint(t *testing.T) {
	fake := llmtest.New().
		Reply(`{"errors":[{"original":"I has","corrected":"I have","explanation":"Use 'have' with 'I'."}]}`).
		Reply("Nice! Do you like fruit?")
	app := newTestApp(fake)

	resp, body := do(t, app, http.MethodPost, "/api/chat", `{"message":"I has a apple"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Nice! Do you like fruit?", body["message"])
	assert.Equal(t, "tutor", body["mode"])
	assert.Equal(t, float64(1), body["messages_count"])
	require.Len(t, body["corrections"], 1)
}

func TestChatEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		fake       *llmtest.Provider
		body       string
		wantStatus int
		wantType   string
		wantDraft  string
	}{
		{"missing message", llmtest.New(), `{}`, http.StatusBadRequest, serverutils.ErrorTypeValidation, ""},
		{"blank message", llmtest.New(), `{"message":"   "}`, http.StatusBadRequest, serverutils.ErrorTypeValidation, ""},
		{"broken json", llmtest.New(), `{"message":`, http.StatusBadRequest, serverutils.ErrorTypeValidation, ""},
		{"provider down", llmtest.New().Fail(errors.New("503")), `{"message":"Hello there"}`, http.StatusBadGateway, serverutils.ErrorTypeProvider, "Hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, newTestApp(tt.fake), http.MethodPost, "/api/chat", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantType, body["error_type"])
			if tt.wantDraft != "" {
				assert.Equal(t, tt.wantDraft, body["draft"])
				assert.Equal(t, serverutils.MessageProviderFailure, body["message"])
			}
		})
	}
}

func TestModeEndpoint(t *testing.T) {
	app := newTestApp(llmtest.New())

	resp, body := do(t, app, http.MethodPost, "/api/mode", `{"mode":"chat"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, body = do(t, app, http.MethodPost, "/api/mode", `{"mode":"exam"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, serverutils.ErrorTypeValidation, body["error_type"])

	_, body = do(t, app, http.MethodGet, "/api/session", "")
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "chat", data["mode"])
}

func TestFeedbackEndpoint(t *testing.T) {
	fake := llmtest.New().
		Reply(`{"errors":[]}`).
		Reply("Great!").
		Reply(`{"overall_score": 7, "strengths": ["clear"], "encouragement": "Keep it up"}`)
	app := newTestApp(fake)

	resp, body := do(t, app, http.MethodGet, "/api/feedback", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, serverutils.ErrorTypeInsufficientData, body["error_type"])
	assert.Equal(t, serverutils.MessageNoMessages, body["message"])

	do(t, app, http.MethodPost, "/api/chat", `{"message":"I walked to work"}`)

	resp, body = do(t, app, http.MethodGet, "/api/feedback", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(70), body["overall_score"])
	assert.Equal(t, float64(1), body["total_messages"])
	assert.Equal(t, "Keep it up", body["encouragement"])
}

func TestClearEndpoint(t *testing.T) {
	app := newTestApp(llmtest.New().Reply(`{"errors":[]}`).Reply("Hi!"))
	do(t, app, http.MethodPost, "/api/chat", `{"message":"Hello"}`)

	resp, body := do(t, app, http.MethodPost, "/api/clear", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	_, body = do(t, app, http.MethodGet, "/api/session", "")
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["messages_count"])
}

func TestHealthEndpoint(t *testing.T) {
	resp, body := do(t, newTestApp(llmtest.New()), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var health dto.HealthResponse
	raw, _ := json.Marshal(body["data"])
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "fake", health.LLMProvider)
}

func TestSessionCookieIssuedWithoutHeader(t *testing.T) {
	app := newTestApp(llmtest.New())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/session", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, cookie.Value, resp.Header.Get(SessionHeader))

	// The issued cookie identifies the same session on the next call.
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie.Value})
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get(SessionHeader))

	var body struct {
		Data dto.SessionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, cookie.Value, body.Data.SessionId)
}
