package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wardline/sentinel/internal/api"
	"github.com/wardline/sentinel/internal/challenge"
	"github.com/wardline/sentinel/internal/config"
	"github.com/wardline/sentinel/internal/evaluator"
	"github.com/wardline/sentinel/internal/tracker"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Load("")
	cfg.StaticDir = t.TempDir()
	return api.NewRouter(cfg, zap.NewNop(), challenge.New(), tracker.New(nil))
}

func TestIssueChallenge(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/challenge", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["challengeId"])
	assert.True(t, strings.HasPrefix(body["challenge"].(string), "(function(){return "))
}

func TestAnalyze_EarlyRejectOnEmptyBundle(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/bot", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var v evaluator.Verdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, evaluator.VerdictBot, v.Verdict)
	assert.Equal(t, evaluator.CodeAnalysisWithoutPrerequisite, v.Code)
	assert.Equal(t, 100, v.Score)
}

func TestVisit_ReturnsNoContent(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/visit", strings.NewReader(`{"loadTime":120}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestVisitStatus_NoSessionIsPending(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/visit-status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pending", body["verdict"])
}

func TestVerifyChallenge_UnknownIDReturnsInvalid(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"challengeId":"nonexistent12","answer":0,"timingProof":"","executionTime":15}`
	req := httptest.NewRequest(http.MethodPost, "/api/challenge/verify", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["valid"])
}
