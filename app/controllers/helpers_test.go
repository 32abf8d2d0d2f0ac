package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/controllers"
	"github.com/gilanghuda/goal-tracker-backend/app/queries/querytest"
	"github.com/gilanghuda/goal-tracker-backend/pkg/middleware"
	"github.com/gilanghuda/goal-tracker-backend/pkg/routes"
	"github.com/gilanghuda/goal-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 8, 7, 10, 0, 0, 0, time.UTC)

const strongPassword = "Passw0rd!"

type stubVerifier struct {
	configured bool
	success    bool
	calls      int
}

func (s *stubVerifier) IsConfigured() bool { return s.configured }

func (s *stubVerifier) Verify(context.Context, string) utils.VerifyResult {
	s.calls++
	return utils.VerifyResult{Success: s.success}
}

type testServer struct {
	t        *testing.T
	app      *fiber.App
	store    *querytest.Store
	verifier *stubVerifier
	now      time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{t: t, store: querytest.New(), verifier: &stubVerifier{}, now: testNow}
	clock := func() time.Time { return s.now }
	issuer := utils.NewTokenIssuer("test-secret", 0)

	ctl := controllers.New(controllers.Controller{
		Users:     s.store,
		Tokens:    s.store,
		Goals:     s.store,
		Tasks:     s.store,
		Issuer:    issuer,
		Turnstile: utils.TurnstileRule{Verifier: s.verifier, Message: utils.DefaultTurnstileMessage},
		Log:       zap.NewNop(),
		Now:       clock,
	})

	s.app = fiber.New()
	routes.Register(s.app, ctl, middleware.Auth{
		Issuer: issuer,
		Tokens: s.store,
		Users:  s.store,
		Log:    zap.NewNop(),
		Now:    clock,
	}, 1000)
	return s
}

type response struct {
	status int
	body   map[string]any
	raw    string
}

func (r response) object(key string) map[string]any {
	obj, _ := r.body[key].(map[string]any)
	return obj
}

func (r response) list(key string) []any {
	items, _ := r.body[key].([]any)
	return items
}

// fieldError returns the first message for field in a 422 body.
func (r response) fieldError(field string) string {
	errs, _ := r.body["errors"].(map[string]any)
	msgs, _ := errs[field].([]any)
	if len(msgs) == 0 {
		return ""
	}
	msg, _ := msgs[0].(string)
	return msg
}

func (s *testServer) do(method, path, token string, body any) response {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	r := response{status: resp.StatusCode, raw: string(raw)}
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &r.body), string(raw))
	}
	return r
}

func signUpBody(email string) map[string]any {
	return map[string]any{
		"name":                  "Test User",
		"email":                 email,
		"password":              strongPassword,
		"password_confirmation": strongPassword,
	}
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	r := s.do(fiber.MethodPost, "/api/auth/register", "", signUpBody(email))
	require.Equal(s.t, fiber.StatusCreated, r.status, r.raw)
	token, ok := r.body["token"].(string)
	require.True(s.t, ok)
	return token
}

func (s *testServer) createGoal(token, title string) string {
	s.t.Helper()
	r := s.do(fiber.MethodPost, "/api/goals", token, map[string]any{"title": title})
	require.Equal(s.t, fiber.StatusCreated, r.status, r.raw)
	return r.object("goal")["uuid"].(string)
}

func (s *testServer) createTask(token, goalUUID string, body map[string]any) map[string]any {
	s.t.Helper()
	r := s.do(fiber.MethodPost, "/api/goals/"+goalUUID+"/tasks", token, body)
	require.Equal(s.t, fiber.StatusCreated, r.status, r.raw)
	return r.object("task")
}

func simpleTask(title string) map[string]any {
	return map[string]any{"title": title, "type": "simple"}
}
