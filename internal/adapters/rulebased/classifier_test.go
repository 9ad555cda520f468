package rulebased

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/core"
)

func detectionPrompt(message, history string) string {
	return fmt.Sprintf(`Analyze the following message for scam intent:

MESSAGE: %s

SENDER: scammer
CHANNEL: SMS
TIMESTAMP: 2026-08-01T10:00:00Z

CONVERSATION HISTORY:
%s

Respond with a JSON object containing:
{
    "is_scam": <boolean>
}

Remember: Analyze silently.`, message, history)
}

func generate(t *testing.T, c *Classifier, prompt string) core.ScamAnalysis {
	t.Helper()
	raw, err := c.Generate(context.Background(), prompt, "", 0.3)
	require.NoError(t, err)

	var analysis core.ScamAnalysis
	require.NoError(t, json.Unmarshal([]byte(raw), &analysis))
	return analysis
}

func TestClassifierAlwaysAvailable(t *testing.T) {
	c := New(zap.NewNop(), nil)
	assert.True(t, c.IsAvailable())
	assert.Equal(t, "rulebased", c.Name())
}

func TestClassifyKycScam(t *testing.T) {
	c := New(zap.NewNop(), nil)
	prompt := detectionPrompt("Your bank account will be blocked today. Verify immediately.", "No previous conversation")

	analysis := generate(t, c, prompt)

	assert.True(t, analysis.IsScam)
	assert.Equal(t, "kyc_scam", analysis.ScamType)
	assert.Contains(t, []string{core.RiskMedium, core.RiskHigh}, analysis.RiskLevel)
	assert.Greater(t, analysis.Confidence, 0.4)
}

func TestClassifyLotteryScam(t *testing.T) {
	c := New(zap.NewNop(), nil)
	prompt := detectionPrompt("Congratulations! You won the lottery. Pay fee to claim prize now!", "No previous conversation")

	analysis := generate(t, c, prompt)

	assert.True(t, analysis.IsScam)
	assert.Equal(t, "lottery_scam", analysis.ScamType)
}

func TestClassifyBenignMessage(t *testing.T) {
	c := New(zap.NewNop(), nil)
	prompt := detectionPrompt("Hello, I wanted to check if my order has been shipped.", "No previous conversation")

	analysis := generate(t, c, prompt)

	assert.False(t, analysis.IsScam)
	assert.Equal(t, core.RiskLow, analysis.RiskLevel)
	assert.Empty(t, analysis.ScamType)
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(zap.NewNop(), nil)
	prompt := detectionPrompt("Send money urgently, account suspended, share your upi", "No previous conversation")

	first := generate(t, c, prompt)
	second := generate(t, c, prompt)

	assert.Equal(t, first, second)
}

func TestClassifyConfidenceScaling(t *testing.T) {
	c := New(zap.NewNop(), nil)

	// One high-confidence phrase: 0.5 + 0.2
	one := generate(t, c, detectionPrompt("please send money", "No previous conversation"))
	assert.True(t, one.IsScam)
	assert.InDelta(t, 0.7, one.Confidence, 0.0001)

	// Confidence is capped at 0.95 no matter how many phrases match
	many := generate(t, c, detectionPrompt(
		"lottery send money pay fee processing fee advance payment kyc blocked account suspended",
		"No previous conversation"))
	assert.True(t, many.IsScam)
	assert.LessOrEqual(t, many.Confidence, 0.95)
}

func TestClassifyUsesConversationHistory(t *testing.T) {
	c := New(zap.NewNop(), nil)

	// The message alone is harmless; the history carries the scam signals.
	prompt := detectionPrompt("ok", "SCAMMER: your bank account will be blocked today, verify now")

	analysis := generate(t, c, prompt)
	assert.True(t, analysis.IsScam)
}

func TestClassifyIgnoresPromptInstructions(t *testing.T) {
	c := New(zap.NewNop(), nil)

	// Keyword counting must not see the prompt's own instruction text,
	// which mentions "scam_type", "lottery_scam" etc past the history stop
	// markers.
	prompt := detectionPrompt("Hello, how are you today?", "USER: fine thanks")

	analysis := generate(t, c, prompt)
	assert.False(t, analysis.IsScam)
}

func TestEngagementMode(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := New(zap.NewNop(), rng)

	reply, err := c.Generate(context.Background(), "Reply to this message as a naive person.", "", 0.8)
	require.NoError(t, err)
	assert.Contains(t, engagementResponses, reply)
}

func TestEngagementModeDeterministicWithSeed(t *testing.T) {
	first := New(zap.NewNop(), rand.New(rand.NewSource(7)))
	second := New(zap.NewNop(), rand.New(rand.NewSource(7)))

	a, err := first.Generate(context.Background(), "hello there", "", 0.8)
	require.NoError(t, err)
	b, err := second.Generate(context.Background(), "hello there", "", 0.8)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSectionAfter(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		marker string
		stops  []string
		want   string
	}{
		{
			name:   "stops at earliest marker",
			text:   "MESSAGE: hello there SENDER: bob CHANNEL: SMS",
			marker: "MESSAGE:",
			stops:  []string{"SENDER:", "CHANNEL:"},
			want:   "hello there",
		},
		{
			name:   "runs to end without stop markers",
			text:   "MESSAGE: tail text",
			marker: "MESSAGE:",
			stops:  []string{"SENDER:"},
			want:   "tail text",
		},
		{
			name:   "absent marker yields empty",
			text:   "no marker here",
			marker: "MESSAGE:",
			stops:  []string{"SENDER:"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sectionAfter(tt.text, tt.marker, tt.stops))
		})
	}
}
