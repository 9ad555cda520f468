package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sender roles as they appear on the wire.
const (
	SenderScammer = "scammer"
	SenderUser    = "user"
)

// Risk levels for a scam verdict.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Timestamp accepts either an ISO-8601 string or an epoch-millisecond number
// in JSON and normalizes both to a UTC instant.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	if s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		return t.parseString(raw)
	}

	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t *Timestamp) parseString(raw string) error {
	raw = strings.TrimSpace(raw)
	// Both "Z"-suffixed and offset-less forms occur in the wild
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	// Numeric strings are treated as epoch milliseconds
	if ms, err := strconv.ParseFloat(raw, 64); err == nil {
		t.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

// String returns the normalized ISO-8601 form, or the empty string when unset.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Message is one inbound or historical conversation message.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
}

// Metadata carries channel and locale information for a request.
type Metadata struct {
	Channel  string `json:"channel"`
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

// HoneypotRequest is the inbound analysis request: the latest message plus
// all prior conversation, oldest first.
type HoneypotRequest struct {
	SessionID           string    `json:"sessionId,omitempty"`
	Message             Message   `json:"message"`
	ConversationHistory []Message `json:"conversationHistory"`
	Metadata            Metadata  `json:"metadata"`
}

// ScamAnalysis is the structured classification verdict.
type ScamAnalysis struct {
	IsScam     bool    `json:"is_scam"`
	Confidence float64 `json:"confidence"`
	ScamType   string  `json:"scam_type,omitempty"`
	Reasoning  string  `json:"reasoning"`
	RiskLevel  string  `json:"risk_level"`
}

// ExtractedIntelligence holds deduplicated threat artifacts pulled out of the
// conversation text. Each list is capped at 10 entries.
type ExtractedIntelligence struct {
	BankAccounts  []string `json:"bankAccounts"`
	UpiIDs        []string `json:"upiIds"`
	PhishingLinks []string `json:"phishingLinks"`
}

// NewExtractedIntelligence returns an empty result with non-nil slices so the
// boundary always serializes arrays, not nulls.
func NewExtractedIntelligence() *ExtractedIntelligence {
	return &ExtractedIntelligence{
		BankAccounts:  []string{},
		UpiIDs:        []string{},
		PhishingLinks: []string{},
	}
}

// EngagementMetrics tracks how long and how deep the engagement has run.
type EngagementMetrics struct {
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
}

// HoneypotResponse is the boundary payload assembled per request.
type HoneypotResponse struct {
	Status                string                 `json:"status"`
	ScamDetected          bool                   `json:"scamDetected"`
	EngagementMetrics     EngagementMetrics      `json:"engagementMetrics"`
	ExtractedIntelligence *ExtractedIntelligence `json:"extractedIntelligence"`
	AgentNotes            string                 `json:"agentNotes"`
}

// VerdictEntry is a cached classification verdict.
type VerdictEntry struct {
	Key       string
	Analysis  ScamAnalysis
	LastSeen  time.Time
	ExpiresAt time.Time
}
