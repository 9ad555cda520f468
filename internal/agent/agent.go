// Package agent generates the honeypot persona replies and analyst notes
// that keep a detected scammer engaged while intelligence accumulates.
package agent

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/core"
	"github.com/scamshield/honeypot/internal/prompts"
)

const (
	replyTemperature = 0.8
	notesTemperature = 0.5

	maxReplyLength = 300
	maxNotesLength = 500
)

// Persona describes the human identity the agent plays.
type Persona struct {
	Name       string
	Age        int
	Occupation string
	Traits     []string
}

var personas = []Persona{
	{
		Name:       "Ramesh Kumar",
		Age:        58,
		Occupation: "Retired government employee",
		Traits:     []string{"trusting", "confused with technology", "polite", "eager to help"},
	},
	{
		Name:       "Sunita Devi",
		Age:        62,
		Occupation: "Retired school teacher",
		Traits:     []string{"caring", "naive about online scams", "talkative", "religious"},
	},
	{
		Name:       "Mohan Lal",
		Age:        55,
		Occupation: "Small shop owner",
		Traits:     []string{"busy", "impatient", "slightly greedy", "easily impressed"},
	},
	{
		Name:       "Kamla Sharma",
		Age:        65,
		Occupation: "Housewife",
		Traits:     []string{"lonely", "trusting of strangers", "talkative", "slow with technology"},
	},
}

// Canned replies used when the backend cannot produce one.
var fallbackReplies = map[string][]string{
	"lottery_scam": {
		"Arey wah! Main jeet gaya? Ye toh bahut acchi baat hai! Kaise claim karun ye prize?",
		"Sach mein? Itne paise? Main toh believe nahi kar sakta. Kya karna hoga mujhe?",
		"Ji ji, main bahut khush hoon. Batayein kahan payment receive karun?",
	},
	"kyc_scam": {
		"Haan ji, mera account block ho gaya? Oh no! Kya karna padega verification ke liye?",
		"Ji main kar deta hoon KYC. Kaunse documents chahiye aapko?",
		"Accha accha, main samajh gaya. Aap bata dijiye kahan details bhejni hain.",
	},
	"financial_scam": {
		"Theek hai ji, main payment kar deta hoon. UPI ID bata dijiye please.",
		"Haan ji, kitna bhejna hai? Account number ya UPI ID dijiye.",
		"Main abhi transfer kar deta hoon. Confirm kar lijiye details ek baar.",
	},
	"phishing": {
		"Ye link khol loon? Ek minute, main try karta hoon.",
		"Ji haan, main click kar raha hoon. Kya fill karna hai isme?",
		"Arey ye page khul nahi raha. Koi aur link hai kya aapke paas?",
	},
	"default": {
		"Ji ji, main sun raha hoon. Aage batayein please.",
		"Accha ji? Thoda aur explain karenge please?",
		"Haan bilkul, main ready hoon. Kya karna hai mujhe?",
		"Theek hai ji, main aapki baat maan leta hoon. Details dijiye.",
	},
}

// Agent engages scammers in character. It implements core.ResponderAgent.
type Agent struct {
	client  core.LLMClient
	persona Persona
	logger  *zap.Logger
	rng     *rand.Rand
}

// New creates an agent with a randomly chosen persona. rng may be nil; tests
// pass a seeded source for deterministic persona and fallback picks.
func New(client core.LLMClient, logger *zap.Logger, rng *rand.Rand) *Agent {
	a := &Agent{
		client: client,
		logger: logger,
		rng:    rng,
	}
	a.persona = personas[a.intn(len(personas))]
	return a
}

// NewWithPersona creates an agent with a fixed persona.
func NewWithPersona(client core.LLMClient, logger *zap.Logger, rng *rand.Rand, persona Persona) *Agent {
	return &Agent{
		client:  client,
		persona: persona,
		logger:  logger,
		rng:     rng,
	}
}

// Persona returns the identity the agent is playing.
func (a *Agent) Persona() Persona {
	return a.persona
}

// Reply implements core.ResponderAgent. It never fails: backend errors
// degrade to a canned per-scam-type reply.
func (a *Agent) Reply(ctx context.Context, req *core.HoneypotRequest, analysis *core.ScamAnalysis, intel *core.ExtractedIntelligence) (string, error) {
	systemPrompt := prompts.AgentSystemPrompt(
		a.persona.Name, a.persona.Age, a.persona.Occupation, a.persona.Traits)

	userPrompt := prompts.AgentUserPrompt(
		a.persona.Name,
		orUnknown(analysis.ScamType),
		analysis.RiskLevel,
		req.Message.Text,
		a.formatHistory(req.ConversationHistory),
		joinOr(intel.BankAccounts, "None found yet"),
		joinOr(intel.UpiIDs, "None found yet"),
		joinOr(intel.PhishingLinks, "None found yet"),
	)

	response, err := a.client.Generate(ctx, userPrompt, systemPrompt, replyTemperature)
	if err != nil {
		a.logger.Error("Agent reply generation failed, using fallback",
			zap.String("backend", a.client.Name()),
			zap.Error(err))
		return a.fallbackReply(analysis.ScamType), nil
	}

	reply := a.cleanReply(response)

	a.logger.Info("Agent generated reply",
		zap.String("persona", a.persona.Name),
		zap.Int("length", len(reply)))

	return reply, nil
}

// Notes implements core.ResponderAgent. Backend errors degrade to a
// deterministic summary.
func (a *Agent) Notes(ctx context.Context, summary *core.InteractionSummary) (string, error) {
	prompt := prompts.NotesUserPrompt(
		summary.ScamDetected,
		orUnknown(summary.Analysis.ScamType),
		summary.Analysis.RiskLevel,
		summary.MessageCount,
		summary.DurationSeconds,
		joinOr(summary.Intelligence.BankAccounts, "None"),
		joinOr(summary.Intelligence.UpiIDs, "None"),
		joinOr(summary.Intelligence.PhishingLinks, "None"),
		summary.LatestMessage,
		summary.AgentResponse,
	)

	notes, err := a.client.Generate(ctx, prompt, prompts.NotesSystemPrompt, notesTemperature)
	if err != nil {
		a.logger.Error("Notes generation failed, using fallback", zap.Error(err))
		return fallbackNotes(summary), nil
	}

	if len(notes) > maxNotesLength {
		notes = notes[:maxNotesLength]
	}
	return notes, nil
}

func (a *Agent) formatHistory(history []core.Message) string {
	if len(history) == 0 {
		return ""
	}

	window := history
	if len(window) > 10 {
		window = window[len(window)-10:]
	}

	lines := make([]string, 0, len(window))
	for _, msg := range window {
		role := "ME"
		if strings.EqualFold(msg.Sender, core.SenderScammer) {
			role = "SCAMMER"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Text))
	}
	return strings.Join(lines, "\n")
}

// cleanReply strips common model artifacts and bounds the reply length.
func (a *Agent) cleanReply(response string) string {
	response = strings.TrimSpace(response)

	artifacts := []string{
		"Here's my response:",
		"As " + a.persona.Name + ":",
		"Response:",
		"*",
		"[",
		"(",
	}
	for _, artifact := range artifacts {
		if strings.HasPrefix(response, artifact) {
			response = strings.TrimSpace(strings.TrimPrefix(response, artifact))
		}
	}

	if len(response) > maxReplyLength {
		sentences := strings.Split(response, ".")
		if len(sentences) > 2 {
			sentences = sentences[:2]
		}
		response = strings.Join(sentences, ".") + "."
	}

	return response
}

func (a *Agent) fallbackReply(scamType string) string {
	pool, ok := fallbackReplies[scamType]
	if !ok {
		pool = fallbackReplies["default"]
	}
	return pool[a.intn(len(pool))]
}

func (a *Agent) intn(n int) int {
	if a.rng != nil {
		return a.rng.Intn(n)
	}
	return rand.Intn(n)
}

func fallbackNotes(summary *core.InteractionSummary) string {
	if !summary.ScamDetected {
		return "No scam indicators detected in this interaction."
	}

	scamType := summary.Analysis.ScamType
	intelCount := len(summary.Intelligence.BankAccounts) +
		len(summary.Intelligence.UpiIDs) +
		len(summary.Intelligence.PhishingLinks)

	if intelCount > 0 {
		if scamType == "" {
			scamType = "Scam"
		}
		return fmt.Sprintf(
			"%s detected with %s risk. Extracted %d intelligence items across %d messages. Agent successfully maintaining engagement.",
			scamType, summary.Analysis.RiskLevel, intelCount, summary.MessageCount)
	}

	if scamType == "" {
		scamType = "Potential scam"
	}
	return fmt.Sprintf("%s detected. Continuing engagement to extract actionable intelligence.", scamType)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func joinOr(values []string, placeholder string) string {
	if len(values) == 0 {
		return placeholder
	}
	return strings.Join(values, ", ")
}
