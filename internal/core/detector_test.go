package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubClient is a canned LLMClient for exercising the parsing paths.
type stubClient struct {
	name     string
	response string
	err      error
	prompts  []string
}

func (s *stubClient) Generate(_ context.Context, prompt, _ string, _ float32) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubClient) IsAvailable() bool { return true }

func (s *stubClient) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func detectorRequest(text string) *HoneypotRequest {
	return &HoneypotRequest{
		SessionID: "session-1",
		Message: Message{
			Sender:    SenderScammer,
			Text:      text,
			Timestamp: Timestamp{time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
		},
		Metadata: Metadata{Channel: "SMS"},
	}
}

func TestDetectCleanJSON(t *testing.T) {
	client := &stubClient{response: `{"is_scam": true, "confidence": 0.9, "scam_type": "kyc_scam", "reasoning": "KYC urgency pattern", "risk_level": "high"}`}
	detector := NewDetector(client, zap.NewNop())

	analysis := detector.Detect(context.Background(), detectorRequest("verify your kyc now"))

	assert.True(t, analysis.IsScam)
	assert.Equal(t, 0.9, analysis.Confidence)
	assert.Equal(t, "kyc_scam", analysis.ScamType)
	assert.Equal(t, "KYC urgency pattern", analysis.Reasoning)
	assert.Equal(t, RiskHigh, analysis.RiskLevel)
}

func TestDetectFencedJSON(t *testing.T) {
	client := &stubClient{response: "```json\n{\"is_scam\": true, \"confidence\": 0.8, \"risk_level\": \"high\"}\n```"}
	detector := NewDetector(client, zap.NewNop())

	analysis := detector.Detect(context.Background(), detectorRequest("you won a prize"))

	assert.True(t, analysis.IsScam)
	assert.Equal(t, 0.8, analysis.Confidence)
	assert.Equal(t, RiskHigh, analysis.RiskLevel)
	// Absent fields take defaults.
	assert.Equal(t, "No reasoning provided", analysis.Reasoning)
}

func TestDetectPartialJSONDefaults(t *testing.T) {
	client := &stubClient{response: `{"is_scam": false}`}
	detector := NewDetector(client, zap.NewNop())

	analysis := detector.Detect(context.Background(), detectorRequest("hello"))

	assert.False(t, analysis.IsScam)
	assert.Equal(t, 0.0, analysis.Confidence)
	assert.Equal(t, "No reasoning provided", analysis.Reasoning)
	assert.Equal(t, RiskLow, analysis.RiskLevel)
}

func TestDetectHeuristicFallback(t *testing.T) {
	client := &stubClient{response: `The message looks dangerous: is_scam would be true here.`}
	detector := NewDetector(client, zap.NewNop())

	analysis := detector.Detect(context.Background(), detectorRequest("send money"))

	assert.True(t, analysis.IsScam)
	assert.Equal(t, 0.5, analysis.Confidence)
	assert.Equal(t, "unknown", analysis.ScamType)
	assert.Equal(t, RiskMedium, analysis.RiskLevel)
	assert.Equal(t, "Parsed from unstructured response", analysis.Reasoning)
}

func TestDetectHeuristicFallbackNegative(t *testing.T) {
	client := &stubClient{response: `I cannot produce JSON, sorry.`}
	detector := NewDetector(client, zap.NewNop())

	analysis := detector.Detect(context.Background(), detectorRequest("hello"))

	assert.False(t, analysis.IsScam)
	assert.Equal(t, 0.2, analysis.Confidence)
	assert.Equal(t, RiskLow, analysis.RiskLevel)
}

func TestDetectBackendErrorDegrades(t *testing.T) {
	client := &stubClient{err: &BackendError{Provider: "openai", Err: ErrBackendUnavailable}}
	detector := NewDetector(client, zap.NewNop())

	analysis := detector.Detect(context.Background(), detectorRequest("send money now"))

	assert.False(t, analysis.IsScam)
	assert.Equal(t, 0.0, analysis.Confidence)
	assert.Equal(t, RiskLow, analysis.RiskLevel)
	assert.Contains(t, analysis.Reasoning, "Detection error")
}

func TestDetectPromptCarriesContext(t *testing.T) {
	client := &stubClient{response: `{"is_scam": false}`}
	detector := NewDetector(client, zap.NewNop())

	req := detectorRequest("check my order status")
	req.ConversationHistory = []Message{
		{Sender: SenderScammer, Text: "you won a lottery"},
		{Sender: SenderUser, Text: "really?"},
	}
	detector.Detect(context.Background(), req)

	if assert.Len(t, client.prompts, 1) {
		prompt := client.prompts[0]
		assert.Contains(t, prompt, "check my order status")
		assert.Contains(t, prompt, "SCAMMER: you won a lottery")
		assert.Contains(t, prompt, "USER: really?")
		assert.Contains(t, prompt, "SMS")
	}
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "", FormatHistory(nil))

	history := []Message{
		{Sender: SenderScammer, Text: "first"},
		{Sender: SenderUser, Text: "second"},
	}
	assert.Equal(t, "SCAMMER: first\nUSER: second", FormatHistory(history))
}

func TestFormatHistoryWindow(t *testing.T) {
	var history []Message
	for i := 0; i < 15; i++ {
		history = append(history, Message{Sender: SenderUser, Text: string(rune('a' + i))})
	}

	formatted := FormatHistory(history)
	assert.Len(t, strings.Split(formatted, "\n"), 10)
	// Window keeps the trailing messages.
	assert.Contains(t, formatted, "USER: o")
	assert.NotContains(t, formatted, "USER: a")
}
