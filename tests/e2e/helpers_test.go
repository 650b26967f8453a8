//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/pallettrack-backend/internal/adapter/badgerstore"
	"github.com/heartmarshall/pallettrack-backend/internal/adapter/memstore"
	authpkg "github.com/heartmarshall/pallettrack-backend/internal/auth"
	"github.com/heartmarshall/pallettrack-backend/internal/config"
	authsvc "github.com/heartmarshall/pallettrack-backend/internal/service/auth"
	trackersvc "github.com/heartmarshall/pallettrack-backend/internal/service/tracker"
	"github.com/heartmarshall/pallettrack-backend/internal/transport/rest"
)

const (
	testJWTSecret    = "e2e-test-secret-key-0123456789abcdef"
	operatorPassword = "operator-pass"
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL     string
	Client  *http.Client
	Store   *badgerstore.Store
	Tracker *trackersvc.Service
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// setupTestServer builds the whole service on an in-memory store and serves
// it over httptest. Closing is registered via t.Cleanup.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := badgerstore.Open(badgerstore.Options{InMemory: true, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return setupTestServerWithStore(t, logger, store)
}

// setupTestServerWithStore builds the service around an existing store so
// tests can simulate a restart by reusing the store directory.
func setupTestServerWithStore(t *testing.T, logger *slog.Logger, store *badgerstore.Store) *testServer {
	t.Helper()

	authCfg := config.AuthConfig{
		JWTSecret:            testJWTSecret,
		JWTIssuer:            "pallettrack",
		AccessTokenTTL:       time.Hour,
		OperatorPasswordHash: hashPassword(t, operatorPassword),
	}
	trackerCfg := config.TrackerConfig{
		DailyQuota:   15,
		StaleAfter:   12 * time.Hour,
		AssumedShift: 8 * time.Hour,
	}

	jwtManager := authpkg.NewJWTManager(authCfg.JWTSecret, authCfg.JWTIssuer, authCfg.AccessTokenTTL)
	authService := authsvc.NewService(logger, store, memstore.New(), jwtManager, authCfg)

	trackerService := trackersvc.NewService(logger, store, trackerCfg)
	require.NoError(t, trackerService.Load(t.Context()))

	router := rest.NewRouter(rest.RouterDeps{
		Log:       logger,
		Auth:      rest.NewAuthHandler(authService, logger),
		Tracker:   rest.NewTrackerHandler(trackerService, logger),
		Health:    rest.NewHealthHandler(store, "e2e"),
		Validator: authService,
		CORS:      config.CORSConfig{AllowedOrigins: "*"},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:     srv.URL,
		Client:  srv.Client(),
		Store:   store,
		Tracker: trackerService,
	}
}

// loginOperator logs in the built-in operator account and returns its token.
func loginOperator(t *testing.T, ts *testServer) string {
	t.Helper()

	body := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "operator",
		"password": operatorPassword,
	}, http.StatusOK)

	token, ok := body["accessToken"].(string)
	require.True(t, ok, "expected accessToken in login response")
	require.NotEmpty(t, token)
	return token
}

// doJSON performs a JSON request and decodes the JSON object response.
func doJSON(t *testing.T, ts *testServer, method, path, token string, payload any, wantStatus int) map[string]any {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "unexpected status for %s %s: %s", method, path, raw)

	if len(raw) == 0 {
		return nil
	}
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return body
}

// confirmToken extracts the confirmation token from a confirmation response.
func confirmToken(t *testing.T, body map[string]any) string {
	t.Helper()
	token, ok := body["token"].(string)
	require.True(t, ok, "expected token in confirmation: %v", body)
	return token
}

// confirmPending accepts the pending confirmation and returns the result.
func confirmPending(t *testing.T, ts *testServer, token, confirmationToken string) map[string]any {
	t.Helper()
	return doJSON(t, ts, http.MethodPost, "/api/tracker/confirm", token, map[string]any{
		"token": confirmationToken,
	}, http.StatusOK)
}

// startCheck drives the request-then-confirm sequence of starting a check.
func startCheck(t *testing.T, ts *testServer, token, code string, boxCount int) {
	t.Helper()
	conf := doJSON(t, ts, http.MethodPost, "/api/tracker/checks/start-request", token, map[string]any{
		"code":     code,
		"boxCount": boxCount,
	}, http.StatusOK)
	confirmPending(t, ts, token, confirmToken(t, conf))
}

func statusField(t *testing.T, ts *testServer, token, field string) any {
	t.Helper()
	body := doJSON(t, ts, http.MethodGet, "/api/tracker/status", token, nil, http.StatusOK)
	return body[field]
}
