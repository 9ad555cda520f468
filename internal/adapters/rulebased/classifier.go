// Package rulebased implements the terminal fallback backend: a keyword
// classifier that serves the same capability interface as the network
// backends without ever making a call. It is deliberately blunt and exists so
// the pipeline keeps answering when no provider credential is configured.
package rulebased

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/core"
)

// High-confidence scam phrases. A single hit classifies the text as a scam.
var highConfidenceKeywords = []string{
	"lottery", "won prize", "claim prize", "congratulations you won",
	"send money", "pay fee", "processing fee", "advance payment",
	"kyc blocked", "account suspended", "account suspension", "verify immediately",
	"click here to claim", "limited time offer", "will be blocked",
	"share your upi", "share upi", "avoid suspension", "blocked today",
	"verify now", "account will be", "bank account blocked",
}

// Broader single indicators. Three or more are needed for a scam verdict.
var scamKeywords = []string{
	"prize", "winner", "lottery", "won", "congratulations", "claim",
	"urgent", "immediately", "verify", "kyc", "suspend", "blocked",
	"account", "update", "otp", "password", "pin", "cvv",
	"bank", "transfer", "payment", "upi", "send money",
	"reward", "bonus", "offer", "free", "gift",
	"click here", "link", "verify now", "act now",
	"limited time", "expire", "deadline",
	"government", "rbi", "income tax", "refund",
	"loan", "credit", "approved", "eligible",
	"job", "work from home", "earn money", "investment",
}

var engagementResponses = []string{
	"Ji ji, main samajh raha hoon. Kripya thoda aur batayein.",
	"Acha ji? Ye toh bahut acchi baat hai! Mujhe kya karna hoga?",
	"Main thoda confused hoon, aap zaroor genuine honge. Batayein kaise aage badhein?",
	"Shukriya ji aapka. Mujhe trust hai aap par. Details share karein please.",
	"Haan ji bilkul. Main ready hoon. Aap batayein kya karna hai.",
	"Ye account number ya UPI ID bata dijiye jahan payment karni hai.",
	"Main abhi kar deta hoon. Bas confirmation ke liye ek baar repeat kar dijiye.",
	"Ji haan, main senior citizen hoon. Technology mein thoda weak hoon. Help kar dijiye.",
}

// Classifier is the always-available rule-based backend.
type Classifier struct {
	logger *zap.Logger
	mu     sync.Mutex
	rng    *rand.Rand
}

// New creates a rule-based classifier. rng may be nil, in which case the
// engagement-reply pick uses the global source; tests inject a seeded one.
func New(logger *zap.Logger, rng *rand.Rand) *Classifier {
	return &Classifier{
		logger: logger,
		rng:    rng,
	}
}

// Name implements core.LLMClient.
func (c *Classifier) Name() string {
	return "rulebased"
}

// IsAvailable implements core.LLMClient. The fallback is always usable.
func (c *Classifier) IsAvailable() bool {
	return true
}

// Generate implements core.LLMClient. Classification-shaped prompts get a
// serialized verdict; everything else gets a canned engagement reply.
func (c *Classifier) Generate(_ context.Context, prompt, _ string, _ float32) (string, error) {
	lower := strings.ToLower(prompt)
	if strings.Contains(lower, "analyze") && strings.Contains(lower, "scam") {
		return c.classify(prompt), nil
	}
	return c.pickResponse(), nil
}

func (c *Classifier) pickResponse() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rng != nil {
		return engagementResponses[c.rng.Intn(len(engagementResponses))]
	}
	return engagementResponses[rand.Intn(len(engagementResponses))]
}

// classify scrapes the detection prompt's fixed markers, counts keyword
// occurrences over the combined window, and emits a verdict JSON object. The
// marker set mirrors the prompt template and must change with it.
func (c *Classifier) classify(prompt string) string {
	message := sectionAfter(prompt, "MESSAGE:",
		[]string{"SENDER:", "CHANNEL:", "TIMESTAMP:", "CONVERSATION"})
	history := sectionAfter(prompt, "CONVERSATION HISTORY:",
		[]string{"Respond with", "Remember:", "{", "JSON"})

	window := strings.ToLower(message + " " + history)

	highCount := 0
	for _, keyword := range highConfidenceKeywords {
		if strings.Contains(window, keyword) {
			highCount++
		}
	}

	regularCount := 0
	for _, keyword := range scamKeywords {
		if strings.Contains(window, keyword) {
			regularCount++
		}
	}

	var confidence float64
	var isScam bool
	if highCount >= 1 {
		confidence = min95(0.5 + float64(highCount)*0.2)
		isScam = true
	} else {
		confidence = min95(float64(regularCount) * 0.1)
		isScam = regularCount >= 3 && confidence > 0.25
	}

	analysis := core.ScamAnalysis{
		IsScam:     isScam,
		Confidence: confidence,
		Reasoning: fmt.Sprintf("Detected %d high-confidence and %d regular scam indicators",
			highCount, regularCount),
		RiskLevel: riskLevel(confidence),
	}
	if isScam {
		analysis.ScamType = scamType(window)
	}

	result, err := json.Marshal(analysis)
	if err != nil {
		// ScamAnalysis marshals unconditionally; keep the degrade path anyway.
		c.logger.Error("Failed to marshal rule-based verdict", zap.Error(err))
		return `{"is_scam": false, "confidence": 0.0, "risk_level": "low"}`
	}
	return string(result)
}

// sectionAfter extracts the text following marker up to the earliest of the
// stop markers, trimmed. Returns "" when the marker is absent.
func sectionAfter(text, marker string, stops []string) string {
	idx := strings.Index(text, marker)
	if idx == -1 {
		return ""
	}
	start := idx + len(marker)

	end := len(text)
	for _, stop := range stops {
		if pos := strings.Index(text[start:], stop); pos != -1 && start+pos < end {
			end = start + pos
		}
	}
	return strings.TrimSpace(text[start:end])
}

// scamType assigns a category in fixed priority order.
func scamType(window string) string {
	switch {
	case containsAny(window, "prize", "lottery", "winner", "won"):
		return "lottery_scam"
	case containsAny(window, "kyc", "verify", "blocked", "suspended"):
		return "kyc_scam"
	case containsAny(window, "bank", "transfer", "upi", "payment"):
		return "financial_scam"
	case containsAny(window, "job", "work from home", "investment"):
		return "job_investment_scam"
	default:
		return "unknown"
	}
}

func riskLevel(confidence float64) string {
	switch {
	case confidence > 0.7:
		return core.RiskHigh
	case confidence > 0.4:
		return core.RiskMedium
	default:
		return core.RiskLow
	}
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func min95(v float64) float64 {
	if v > 0.95 {
		return 0.95
	}
	return v
}
