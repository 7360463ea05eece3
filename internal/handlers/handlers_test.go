package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/repositories"
	"alfredoptarigan/interview-ace/internal/services"
)

type queuedGateway struct {
	replies []string
}

func (g *queuedGateway) Send(ctx context.Context, transcript []models.Turn) (string, error) {
	if len(g.replies) == 0 {
		return "", &services.ModelCallError{Message: "no reply queued"}
	}
	next := g.replies[0]
	g.replies = g.replies[1:]
	return next, nil
}

type staticAuth struct{}

func (staticAuth) Signup(name, email, password string) (*models.User, error) {
	return &models.User{Name: name, Email: email}, nil
}

func (staticAuth) Login(email, password string) (string, time.Time, error) {
	if password != "secret-pass" {
		return "", time.Time{}, services.ErrInvalidCredentials
	}
	return "good-token", time.Now().Add(time.Hour), nil
}

func (staticAuth) Authenticate(token string) (string, error) {
	if strings.TrimPrefix(token, "Bearer ") != "good-token" {
		return "", services.ErrUnauthorized
	}
	return "user-1", nil
}

type testServer struct {
	app      *fiber.App
	gateway  *queuedGateway
	sessions *services.SessionManager
	repo     *repositories.MemoryInterviewRepository
}

func newTestServer(replies ...string) *testServer {
	ts := &testServer{
		gateway:  &queuedGateway{replies: replies},
		sessions: services.NewSessionManager(),
		repo:     repositories.NewMemoryInterviewRepository(),
	}

	interviewService := services.NewInterviewService(
		ts.sessions,
		services.NewTurnOrchestrator(ts.gateway, time.Second),
		ts.repo,
		nil,
		services.InterviewOptions{},
	)

	ts.app = fiber.New()
	Register(ts.app, Handlers{
		Interview: NewInterviewHandler(interviewService, services.NewPDFParserService(), staticAuth{}, 1<<20),
		Auth:      NewAuthHandler(staticAuth{}),
		History:   NewHistoryHandler(services.NewHistoryService(ts.repo, nil, nil)),
		Report:    NewReportHandler(nil, 1<<20),
	})
	return ts
}

func startRequest(t *testing.T, files map[string]string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, filename := range files {
		part, err := writer.CreateFormFile(name, filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, "Go engineer with five years of experience")
		require.NoError(t, err)
	}
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/start", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

const reportJSON = `{"overallPerformance":{"rating":4,"summary":"Good"},"finalVerdict":{"status":"Hire","summary":"Ready"}}`

func TestInterviewFlow(t *testing.T) {
	ts := newTestServer("Q1: tell me about goroutines", "Nice. Q2", "```json\n"+reportJSON+"\n```")

	resp, err := ts.app.Test(startRequest(t,
		map[string]string{"resume": "resume.txt", "jobDescription": "jd.md"},
		map[string]string{"difficultyLevel": "Hard"},
	), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var started models.StartInterviewResponse
	decode(t, resp, &started)
	assert.Equal(t, "Q1: tell me about goroutines", started.Question)
	assert.Equal(t, started.SessionID, resp.Header.Get(SessionHeader))

	// JSON answer
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/turn", strings.NewReader(`{"text":"They are cheap threads."}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, started.SessionID)
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var turn models.TurnResponse
	decode(t, resp, &turn)
	assert.Equal(t, "Nice. Q2", turn.Reply)

	// Ending without a token leaves the session alive
	req = httptest.NewRequest(http.MethodPost, "/api/v1/interview/end", nil)
	req.Header.Set(SessionHeader, started.SessionID)
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, ts.sessions.Count())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/interview/end", nil)
	req.Header.Set(SessionHeader, started.SessionID)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	interviewID := resp.Header.Get("X-Interview-Id")
	assert.NotEmpty(t, interviewID)

	var report models.FeedbackReport
	decode(t, resp, &report)
	assert.Equal(t, "Hire", report.FinalVerdict.Status)
	assert.Equal(t, []string{}, report.Strengths)

	// Archived under the token's user and visible in history
	req = httptest.NewRequest(http.MethodGet, "/api/v1/interviews/"+interviewID, nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var record models.InterviewRecord
	decode(t, resp, &record)
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, "Hard", record.Difficulty)
	assert.Len(t, record.Transcript, 6)

	// The handle is gone
	req = httptest.NewRequest(http.MethodPost, "/api/v1/interview/turn", strings.NewReader("raw answer"))
	req.Header.Set(SessionHeader, started.SessionID)
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleStart_Validation(t *testing.T) {
	ts := newTestServer("Q1")

	resp, err := ts.app.Test(startRequest(t, nil, map[string]string{"interviewType": "HR"}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = ts.app.Test(startRequest(t, map[string]string{"resume": "resume.docx"}, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, ts.sessions.Count())
}

func TestHandleTurn_RawBodyAndErrors(t *testing.T) {
	ts := newTestServer("Q1", "Q2")

	resp, err := ts.app.Test(startRequest(t, map[string]string{"resume": "resume.txt"}, nil), -1)
	require.NoError(t, err)
	handle := resp.Header.Get(SessionHeader)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/turn", strings.NewReader("plain text answer"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set(SessionHeader, handle)
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	session, err := ts.sessions.Get(handle)
	require.NoError(t, err)
	turns := session.Transcript.Snapshot()
	assert.Equal(t, "plain text answer", turns[2].Text())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/interview/turn", strings.NewReader("   "))
	req.Header.Set(SessionHeader, handle)
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/interview/turn", strings.NewReader("answer"))
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Model outage degrades instead of failing
	req = httptest.NewRequest(http.MethodPost, "/api/v1/interview/turn", strings.NewReader("another answer"))
	req.Header.Set(SessionHeader, handle)
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var turn models.TurnResponse
	decode(t, resp, &turn)
	assert.True(t, turn.Degraded)
	assert.True(t, strings.HasPrefix(turn.Reply, "An error occurred during the API call: "))
}

func TestHandleEnd_FeedbackFailure(t *testing.T) {
	ts := newTestServer("Q1", "not a report")

	resp, err := ts.app.Test(startRequest(t, map[string]string{"resume": "resume.txt"}, nil), -1)
	require.NoError(t, err)
	handle := resp.Header.Get(SessionHeader)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview/end", nil)
	req.Header.Set(SessionHeader, handle)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, 1, ts.sessions.Count())
}

func TestHandleAbandon(t *testing.T) {
	ts := newTestServer("Q1")

	resp, err := ts.app.Test(startRequest(t, map[string]string{"resume": "resume.txt"}, nil), -1)
	require.NoError(t, err)
	handle := resp.Header.Get(SessionHeader)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/interview", nil)
	req.Header.Set(SessionHeader, handle)
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAuthHandlers(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.co","password":"secret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login models.LoginResponse
	decode(t, resp, &login)
	assert.Equal(t, "good-token", login.Token)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.co","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/interviews", nil)
	resp, err = ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHistorySearchUnavailable(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/search?q=channels", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestRoutes_AuthScopedToProtectedPrefixes(t *testing.T) {
	ts := newTestServer()

	resp, err := ts.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	for _, path := range []string{"/api/v1/interviews", "/api/v1/interview-video/reports", "/api/v1/videos/abc"} {
		resp, err := ts.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}
