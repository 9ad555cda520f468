package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/agent"
	"github.com/scamshield/honeypot/internal/core"
	"github.com/scamshield/honeypot/internal/intel"
)

const testAPIKey = "test-key"

type stubClient struct {
	response string
}

func (s *stubClient) Generate(context.Context, string, string, float32) (string, error) {
	return s.response, nil
}

func (s *stubClient) IsAvailable() bool { return true }
func (s *stubClient) Name() string      { return "stub" }

func newTestServer(t *testing.T, verdict string) *Server {
	t.Helper()

	client := &stubClient{response: verdict}
	logger := zap.NewNop()

	responder := agent.NewWithPersona(client, logger, nil, agent.Persona{
		Name:       "Ramesh Kumar",
		Age:        58,
		Occupation: "Retired government employee",
		Traits:     []string{"trusting"},
	})
	service := core.NewHoneypotService(
		core.NewDetector(client, logger),
		responder, nil, intel.ExtractAll, logger, false, 0)

	return NewServer(service, "127.0.0.1:0", testAPIKey, logger)
}

func analyzeBody() string {
	return `{
		"sessionId": "s-1",
		"message": {"sender": "scammer", "text": "Your KYC is blocked. Send to fraud@ybl", "timestamp": "2026-08-01T10:00:00Z"},
		"conversationHistory": [],
		"metadata": {"channel": "SMS", "language": "en", "locale": "IN"}
	}`
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(t, `{"is_scam": false}`)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "online", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, `{"is_scam": false}`)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	srv := newTestServer(t, `{"is_scam": false}`)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(analyzeBody()))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Missing API key", body["error"])
}

func TestAnalyzeRejectsWrongAPIKey(t *testing.T) {
	srv := newTestServer(t, `{"is_scam": false}`)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(analyzeBody()))
	req.Header.Set("x-api-key", "wrong-key")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid API key", body["error"])
}

func TestAnalyzeRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, `{"is_scam": false}`)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{not json"))
	req.Header.Set("x-api-key", testAPIKey)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeScamResponse(t *testing.T) {
	srv := newTestServer(t, `{"is_scam": true, "confidence": 0.9, "scam_type": "kyc_scam", "reasoning": "urgency", "risk_level": "high"}`)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(analyzeBody()))
	req.Header.Set("x-api-key", testAPIKey)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var resp core.HoneypotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.ScamDetected)
	assert.Equal(t, 1, resp.EngagementMetrics.TotalMessagesExchanged)
	require.NotNil(t, resp.ExtractedIntelligence)
	assert.Contains(t, resp.ExtractedIntelligence.UpiIDs, "fraud@ybl")
	assert.NotEmpty(t, resp.AgentNotes)
}

func TestAnalyzeBenignResponse(t *testing.T) {
	srv := newTestServer(t, `{"is_scam": false, "confidence": 0.05, "reasoning": "ordinary", "risk_level": "low"}`)

	rec := httptest.NewRecorder()
	body := `{
		"message": {"sender": "user", "text": "Has my order shipped?"},
		"conversationHistory": [],
		"metadata": {"channel": "SMS"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("x-api-key", testAPIKey)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp core.HoneypotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.ScamDetected)
	assert.Equal(t, "Message analyzed. No scam indicators detected.", resp.AgentNotes)
	assert.Empty(t, resp.ExtractedIntelligence.UpiIDs)
}
