package integration__test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/cache"
	"github.com/Hitesh2006-org/FINANCE/internal/config"
	apphttp "github.com/Hitesh2006-org/FINANCE/internal/http"
	"github.com/Hitesh2006-org/FINANCE/internal/migrate"
	"github.com/Hitesh2006-org/FINANCE/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

func testConfig() config.Config {
	return config.Config{
		Env:                 "test",
		Port:                0,
		JWTSecret:           "test-secret-key",
		JWTAccessTTLMinutes: 60,
		RateLimit:           1000,
		RateLimitWindow:     time.Minute,
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping API integration test")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}

	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := migrate.New(pool, logger, nil).Run(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	router := apphttp.NewRouter(testConfig(), logger, pool, cache.New(time.Second), reg, prom)

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE user_profile, transactions, holdings, savings_goals, config, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type tokenResponse struct {
	UserID      int64  `json:"userId"`
	AccessToken string `json:"accessToken"`
}

func registerUser(t *testing.T, r *gin.Engine, username string) tokenResponse {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/auth/register", "",
		`{"username": "`+username+`", "password": "secret1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body=%s", username, w.Code, w.Body.String())
	}

	var tok tokenResponse

	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil {
		t.Fatalf("unmarshal register response: %v", err)
	}

	return tok
}

func TestRegisterLoginFlow(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	tok := registerUser(t, router, "alice")

	if tok.AccessToken == "" || tok.UserID <= 0 {
		t.Fatalf("bad register response: %+v", tok)
	}

	// login again with the same credentials
	w := doRequest(t, router, http.MethodPost, "/auth/login", "",
		`{"username": "alice", "password": "secret1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body=%s", w.Code, w.Body.String())
	}

	// wrong password and unknown user are indistinguishable
	wrong := doRequest(t, router, http.MethodPost, "/auth/login", "",
		`{"username": "alice", "password": "nope"}`)
	unknown := doRequest(t, router, http.MethodPost, "/auth/login", "",
		`{"username": "ghost", "password": "secret1"}`)

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", wrong.Code, unknown.Code)
	}

	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("login failures leak information:\n%s\n%s", wrong.Body.String(), unknown.Body.String())
	}
}

func TestAPIRejectsMissingToken(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	w := doRequest(t, router, http.MethodGet, "/api/holdings", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
}

func TestHoldingsIsolationBetweenUsers(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	w := doRequest(t, router, http.MethodPost, "/api/holdings", alice.AccessToken,
		`{"symbol": "AAPL", "shares": 10}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("create holding: status %d body=%s", w.Code, w.Body.String())
	}

	var created struct {
		ID int64 `json:"id"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created holding: %v", err)
	}

	// bob sees nothing
	w = doRequest(t, router, http.MethodGet, "/api/holdings", bob.AccessToken, "")

	if w.Code != http.StatusOK {
		t.Fatalf("bob list: status %d", w.Code)
	}

	var bobList struct {
		Holdings []json.RawMessage `json:"holdings"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &bobList); err != nil {
		t.Fatalf("unmarshal bob list: %v", err)
	}

	if len(bobList.Holdings) != 0 {
		t.Fatalf("bob can see alice's holdings: %s", w.Body.String())
	}

	// bob deleting alice's row answers 204 and changes nothing
	w = doRequest(t, router, http.MethodDelete, "/api/holdings/1", bob.AccessToken, "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("bob delete: status %d", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/api/holdings", alice.AccessToken, "")

	var aliceList struct {
		Holdings []json.RawMessage `json:"holdings"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &aliceList); err != nil {
		t.Fatalf("unmarshal alice list: %v", err)
	}

	if len(aliceList.Holdings) != 1 {
		t.Fatalf("alice's holding did not survive bob's delete: %s", w.Body.String())
	}
}

func TestSettingsSharedAcrossUsers(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	// unset key reports not found
	w := doRequest(t, router, http.MethodGet, "/api/settings/market-data-key", alice.AccessToken, "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before the key is set, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodPut, "/api/settings/market-data-key", alice.AccessToken,
		`{"api_key": "alpha-vantage-123"}`)

	if w.Code != http.StatusNoContent {
		t.Fatalf("set key: status %d body=%s", w.Code, w.Body.String())
	}

	// config is instance wide, so bob reads what alice wrote
	w = doRequest(t, router, http.MethodGet, "/api/settings/market-data-key", bob.AccessToken, "")

	if w.Code != http.StatusOK {
		t.Fatalf("bob get key: status %d", w.Code)
	}

	var body struct {
		APIKey string `json:"api_key"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal key: %v", err)
	}

	if body.APIKey != "alpha-vantage-123" {
		t.Fatalf("expected shared key, got %q", body.APIKey)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	alice := registerUser(t, router, "alice")

	// registration attached the defaults
	w := doRequest(t, router, http.MethodGet, "/api/profile", alice.AccessToken, "")

	if w.Code != http.StatusOK {
		t.Fatalf("get profile: status %d", w.Code)
	}

	var profile struct {
		UserType      string  `json:"userType"`
		SavingsGoal   float64 `json:"savingsGoal"`
		RiskTolerance string  `json:"riskTolerance"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}

	if profile.UserType != "general" || profile.RiskTolerance != "moderate" {
		t.Fatalf("unexpected default profile: %+v", profile)
	}

	w = doRequest(t, router, http.MethodPut, "/api/profile", alice.AccessToken,
		`{"userType": "student", "savingsGoal": 1500, "riskTolerance": "low"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("update profile: status %d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodGet, "/api/profile", alice.AccessToken, "")

	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("unmarshal updated profile: %v", err)
	}

	if profile.UserType != "student" || profile.SavingsGoal != 1500 || profile.RiskTolerance != "low" {
		t.Fatalf("profile update not persisted: %+v", profile)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	if w := doRequest(t, router, http.MethodGet, "/healthz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", w.Code)
	}

	if w := doRequest(t, router, http.MethodGet, "/readyz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("readyz: status %d", w.Code)
	}

	if w := doRequest(t, router, http.MethodGet, "/metrics", "", ""); w.Code != http.StatusOK {
		t.Fatalf("metrics: status %d", w.Code)
	}
}
