package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/admin"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/config"
	apperrors "github.com/1990jr/mindelo-lausanne-time-bridge/pkg/errors"
)

const testSecret = "router-test-secret"

func TestRouter_InsightSuccess(t *testing.T) {
	facts := insight.PickDailyFacts("2026-02-13", "fr")
	resp := insight.Response{
		DailyContent: insight.BuildSafeFallbackPayload("fr", facts),
		Model:        "m",
		Day:          "2026-02-13",
		Mode:         insight.ModeFallbackGrounded,
	}
	svc := &stubInsight{
		insightFn: func(ctx context.Context, req insight.Request) (insight.Response, error) {
			require.Equal(t, "fr", req.Lang)
			require.JSONEq(t, `{"lang":"fr","tz":"Europe/Zurich"}`, string(req.Context))
			return resp, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/insight", `{"lang":"fr","tz":"Europe/Zurich"}`, "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "public, max-age=86400", recorder.Header().Get("Cache-Control"))
	require.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	require.NotEmpty(t, recorder.Header().Get(requestIDHeader))

	var got insight.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp, got)
}

func TestRouter_InsightIgnoresNonStringLang(t *testing.T) {
	for _, body := range []string{`{"lang":7}`, `[]`, `"en"`, `{}`} {
		svc := &stubInsight{
			insightFn: func(ctx context.Context, req insight.Request) (insight.Response, error) {
				require.Empty(t, req.Lang)
				return insight.Response{}, nil
			},
		}
		recorder := performRequest(http.MethodPost, "/api/insight", body, "", newRouterUnderTest(t, svc))
		require.Equal(t, http.StatusOK, recorder.Code, body)
	}
}

func TestRouter_InsightInvalidJSON(t *testing.T) {
	svc := &stubInsight{}
	for _, body := range []string{`{"lang":`, ``, `not json`} {
		recorder := performRequest(http.MethodPost, "/api/insight", body, "", newRouterUnderTest(t, svc))
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		errBody := decodeErrorBody(t, recorder.Body.Bytes())
		require.Equal(t, "invalid_request", errBody["error"]["code"])
		require.Equal(t, "Invalid JSON body", errBody["error"]["message"])
	}
	require.Zero(t, svc.insightCalls)
}

func TestRouter_InsightRunnerUnavailable(t *testing.T) {
	svc := &stubInsight{
		insightFn: func(ctx context.Context, req insight.Request) (insight.Response, error) {
			return insight.Response{}, apperrors.Wrap("runner_unavailable", "Workers AI binding is missing", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/insight", `{"lang":"en"}`, "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "runner_unavailable", errBody["error"]["code"])
	require.Equal(t, "Workers AI binding is missing", errBody["error"]["message"])
}

func TestRouter_PreflightAndHealth(t *testing.T) {
	server := newRouterUnderTest(t, &stubInsight{})

	recorder := performRequest(http.MethodOptions, "/anything", "", "", server)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), "POST")

	recorder = performRequest(http.MethodGet, "/health", "", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, true, body["ok"])
	require.Equal(t, "mindelo-ai-bridge", body["service"])
	require.Equal(t, "workersai", body["provider"])
	require.Equal(t, "single-pass", body["mode"])

	recorder = performRequest(http.MethodGet, "/missing", "", "", server)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_InsightOnlyUnderAPIPath(t *testing.T) {
	svc := &stubInsight{}
	recorder := performRequest(http.MethodPost, "/", `{"lang":"en"}`, "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.Zero(t, svc.insightCalls)
}

func TestRouter_BudgetAndHistory(t *testing.T) {
	svc := &stubInsight{
		budget: insight.BudgetStatus{Day: "2026-02-13", Used: 3, Limit: 20, Remaining: 17},
		historyFn: func(ctx context.Context, lang string, limit int) ([]insight.ArchiveEntry, error) {
			require.Equal(t, "pt", lang)
			require.Equal(t, 2, limit)
			return []insight.ArchiveEntry{{ID: 1, Day: "2026-02-13", Lang: "pt", Mode: insight.ModeGenerated}}, nil
		},
	}
	server := newRouterUnderTest(t, svc)

	recorder := performRequest(http.MethodGet, "/api/insight/budget", "", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"day":"2026-02-13","used":3,"limit":20,"remaining":17}`, recorder.Body.String())

	recorder = performRequest(http.MethodGet, "/api/insight/history?lang=pt&limit=2", "", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Items []insight.ArchiveEntry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)

	recorder = performRequest(http.MethodGet, "/api/insight/history?limit=many", "", "", server)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_AdminPurge(t *testing.T) {
	svc := &stubInsight{}
	server := newRouterUnderTest(t, svc)
	auth := admin.NewAuthenticator(admin.Config{Secret: testSecret, Issuer: "mindelo-insight"})

	recorder := performRequest(http.MethodDelete, "/api/admin/cache/2026-02-13/en", "", "", server)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performRequest(http.MethodDelete, "/api/admin/cache/2026-02-13/en", "", "Bearer nope", server)
	require.Equal(t, http.StatusForbidden, recorder.Code)
	require.Empty(t, svc.purged)

	token, err := auth.Issue("ops", time.Minute)
	require.NoError(t, err)
	recorder = performRequest(http.MethodDelete, "/api/admin/cache/2026-02-13/en", "", "Bearer "+token, server)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, []string{"2026-02-13/en"}, svc.purged)

	svc.purgeErr = apperrors.Wrap("invalid_input", "day must be YYYY-MM-DD", nil)
	recorder = performRequest(http.MethodDelete, "/api/admin/cache/yesterday/en", "", "Bearer "+token, server)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testRouterConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := NewRouter(cfg, NewHandler(&stubInsight{}, testHandlerInfo(), newTestLogger()), admin.NewAuthenticator(admin.Config{}))

	first := performRequest(http.MethodGet, "/health", "", "", server)
	require.Equal(t, http.StatusOK, first.Code)
	second := performRequest(http.MethodGet, "/health", "", "", server)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, second.Body.Bytes())["error"]["code"])
}

func TestIPRateLimiter_ForgetsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 1})
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))

	now = now.Add(10 * time.Minute)
	require.True(t, limiter.allow("10.0.0.2"))
	require.Len(t, limiter.visitors, 1)
}

func TestResolveOrigin(t *testing.T) {
	require.Equal(t, "*", resolveOrigin("https://a.example", nil))
	require.Equal(t, "https://A.example", resolveOrigin("https://A.example", []string{"https://b.example", "https://a.example"}))
	require.Equal(t, "https://b.example", resolveOrigin("https://evil.example", []string{"https://b.example"}))
}

func performRequest(method, path, body, authorization string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func testRouterConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func testHandlerInfo() HandlerInfo {
	return HandlerInfo{Provider: "workersai", Model: "m", Store: "memory", CacheTTL: 24 * time.Hour}
}

func newRouterUnderTest(t *testing.T, svc insight.Service) *http.Server {
	t.Helper()
	handler := NewHandler(svc, testHandlerInfo(), newTestLogger())
	auth := admin.NewAuthenticator(admin.Config{Secret: testSecret, Issuer: "mindelo-insight"})
	return NewRouter(testRouterConfig(), handler, auth)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubInsight struct {
	insightFn    func(ctx context.Context, req insight.Request) (insight.Response, error)
	historyFn    func(ctx context.Context, lang string, limit int) ([]insight.ArchiveEntry, error)
	budget       insight.BudgetStatus
	purgeErr     error
	purged       []string
	insightCalls int
}

func (s *stubInsight) Insight(ctx context.Context, req insight.Request) (insight.Response, error) {
	s.insightCalls++
	if s.insightFn != nil {
		return s.insightFn(ctx, req)
	}
	return insight.Response{}, nil
}

func (s *stubInsight) Budget(context.Context) (insight.BudgetStatus, error) {
	return s.budget, nil
}

func (s *stubInsight) History(ctx context.Context, lang string, limit int) ([]insight.ArchiveEntry, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, lang, limit)
	}
	return []insight.ArchiveEntry{}, nil
}

func (s *stubInsight) Purge(_ context.Context, day, lang string) error {
	if s.purgeErr != nil {
		return s.purgeErr
	}
	s.purged = append(s.purged, day+"/"+lang)
	return nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
