package core

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAgent struct {
	reply     string
	notes     string
	replyErr  error
	notesErr  error
	summaries []*InteractionSummary
}

func (f *fakeAgent) Reply(_ context.Context, _ *HoneypotRequest, _ *ScamAnalysis, _ *ExtractedIntelligence) (string, error) {
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func (f *fakeAgent) Notes(_ context.Context, summary *InteractionSummary) (string, error) {
	f.summaries = append(f.summaries, summary)
	if f.notesErr != nil {
		return "", f.notesErr
	}
	return f.notes, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*VerdictEntry
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*VerdictEntry{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (*VerdictEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	entry, ok := f.entries[key]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

func (f *fakeCache) Set(_ context.Context, entry *VerdictEntry, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.entries[entry.Key] = entry
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) Cleanup(context.Context) error { return nil }

// fakeExtract records the text it saw and returns a fixed result.
func fakeExtract(seen *string) func(string) *ExtractedIntelligence {
	return func(text string) *ExtractedIntelligence {
		*seen = text
		intel := NewExtractedIntelligence()
		intel.UpiIDs = append(intel.UpiIDs, "fraud@ybl")
		return intel
	}
}

func scamVerdict() string {
	return `{"is_scam": true, "confidence": 0.9, "scam_type": "kyc_scam", "reasoning": "urgency", "risk_level": "high"}`
}

func TestAnalyzeScamPath(t *testing.T) {
	client := &stubClient{response: scamVerdict()}
	agent := &fakeAgent{reply: "Ji ji, batayein?", notes: "KYC scam, one UPI handle captured."}
	var seen string

	svc := NewHoneypotService(
		NewDetector(client, zap.NewNop()),
		agent, nil, fakeExtract(&seen), zap.NewNop(), false, 0)

	req := detectorRequest("Your KYC is blocked, verify at fraud@ybl")
	req.ConversationHistory = []Message{
		{Sender: SenderScammer, Text: "hello", Timestamp: Timestamp{time.Date(2026, 8, 1, 9, 58, 0, 0, time.UTC)}},
	}

	resp, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.ScamDetected)
	assert.Equal(t, "KYC scam, one UPI handle captured.", resp.AgentNotes)
	assert.Equal(t, []string{"fraud@ybl"}, resp.ExtractedIntelligence.UpiIDs)
	assert.Equal(t, 2, resp.EngagementMetrics.TotalMessagesExchanged)
	assert.Equal(t, 120, resp.EngagementMetrics.EngagementDurationSeconds)

	// Extraction covers both the current message and the history.
	assert.True(t, strings.Contains(seen, "Your KYC is blocked") && strings.Contains(seen, "hello"))

	// The notes summary carries the pipeline outputs.
	if assert.Len(t, agent.summaries, 1) {
		summary := agent.summaries[0]
		assert.True(t, summary.ScamDetected)
		assert.Equal(t, 2, summary.MessageCount)
		assert.Equal(t, "Ji ji, batayein?", summary.AgentResponse)
	}
}

func TestAnalyzeBenignPath(t *testing.T) {
	client := &stubClient{response: `{"is_scam": false, "confidence": 0.1, "reasoning": "ordinary", "risk_level": "low"}`}
	agent := &fakeAgent{reply: "should not be called"}
	var seen string

	svc := NewHoneypotService(
		NewDetector(client, zap.NewNop()),
		agent, nil, fakeExtract(&seen), zap.NewNop(), false, 0)

	resp, err := svc.Analyze(context.Background(), detectorRequest("Has my order shipped?"))
	require.NoError(t, err)

	assert.False(t, resp.ScamDetected)
	assert.Equal(t, "Message analyzed. No scam indicators detected.", resp.AgentNotes)
	assert.Empty(t, agent.summaries)
	assert.Equal(t, 1, resp.EngagementMetrics.TotalMessagesExchanged)
	assert.Equal(t, 0, resp.EngagementMetrics.EngagementDurationSeconds)
}

func TestAnalyzeVerdictCache(t *testing.T) {
	client := &stubClient{response: scamVerdict()}
	agent := &fakeAgent{reply: "ok", notes: "note"}
	cache := newFakeCache()
	var seen string

	svc := NewHoneypotService(
		NewDetector(client, zap.NewNop()),
		agent, cache, fakeExtract(&seen), zap.NewNop(), true, time.Hour)

	req := detectorRequest("Your KYC is blocked")
	_, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	// Second request is served from the cache without another backend call.
	assert.Len(t, client.prompts, 1)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
}

func TestAnalyzeCacheDisabled(t *testing.T) {
	client := &stubClient{response: scamVerdict()}
	cache := newFakeCache()
	var seen string

	svc := NewHoneypotService(
		NewDetector(client, zap.NewNop()),
		&fakeAgent{}, cache, fakeExtract(&seen), zap.NewNop(), false, time.Hour)

	req := detectorRequest("Your KYC is blocked")
	_, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, client.prompts, 2)
	assert.Equal(t, 0, cache.gets)
}

func TestAnalyzeNotesErrorFallsBackToDefaultNote(t *testing.T) {
	client := &stubClient{response: scamVerdict()}
	agent := &fakeAgent{reply: "ok", notesErr: assert.AnError}
	var seen string

	svc := NewHoneypotService(
		NewDetector(client, zap.NewNop()),
		agent, nil, fakeExtract(&seen), zap.NewNop(), false, 0)

	resp, err := svc.Analyze(context.Background(), detectorRequest("Your KYC is blocked"))
	require.NoError(t, err)

	assert.True(t, resp.ScamDetected)
	assert.Equal(t, "Message analyzed. No scam indicators detected.", resp.AgentNotes)
}

func TestEngagementDurationEstimate(t *testing.T) {
	svc := NewHoneypotService(nil, nil, nil, nil, zap.NewNop(), false, 0)

	// History present but timestamps missing: estimate 30s per message.
	req := &HoneypotRequest{
		Message:             Message{Text: "hi"},
		ConversationHistory: []Message{{Text: "a"}, {Text: "b"}},
	}
	assert.Equal(t, 90, svc.engagementDuration(req, 3))

	// Clock skew never yields a negative duration.
	req = &HoneypotRequest{
		Message: Message{Text: "hi", Timestamp: Timestamp{time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}},
		ConversationHistory: []Message{
			{Text: "a", Timestamp: Timestamp{time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}},
		},
	}
	assert.Equal(t, 0, svc.engagementDuration(req, 2))
}
