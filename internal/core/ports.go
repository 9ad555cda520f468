package core

import (
	"context"
	"time"
)

// LLMClient defines the text-generation capability shared by all backends.
// Any caller may submit an arbitrary prompt/system-prompt pair at an
// arbitrary temperature.
type LLMClient interface {
	// Generate produces text for the given prompt. It returns
	// ErrBackendUnavailable when the backend cannot be used and a
	// *BackendError when the attempted call failed.
	Generate(ctx context.Context, prompt, systemPrompt string, temperature float32) (string, error)

	// IsAvailable reports whether the backend can serve requests. It must be
	// side-effect-free and safe to call repeatedly.
	IsAvailable() bool

	// Name identifies the backend in logs and selection messages.
	Name() string
}

// VerdictCache defines the interface for caching classification verdicts.
type VerdictCache interface {
	// Get retrieves a cached verdict by key.
	Get(ctx context.Context, key string) (*VerdictEntry, error)

	// Set stores a verdict with the given TTL.
	Set(ctx context.Context, entry *VerdictEntry, ttl time.Duration) error

	// Delete removes a cached verdict.
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}

// ResponderAgent generates the honeypot persona reply and the analyst note
// for a detected scam conversation.
type ResponderAgent interface {
	Reply(ctx context.Context, req *HoneypotRequest, analysis *ScamAnalysis, intel *ExtractedIntelligence) (string, error)
	Notes(ctx context.Context, summary *InteractionSummary) (string, error)
}

// InteractionSummary is the input for analyst-note generation.
type InteractionSummary struct {
	ScamDetected    bool
	Analysis        *ScamAnalysis
	Intelligence    *ExtractedIntelligence
	MessageCount    int
	DurationSeconds int
	LatestMessage   string
	AgentResponse   string
}
