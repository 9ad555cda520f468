package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/prompts"
)

// detectionTemperature keeps classification output consistent across calls.
const detectionTemperature = 0.3

// historyWindow bounds how many trailing history messages are rendered into
// the detection prompt.
const historyWindow = 10

// Detector classifies messages for scam intent through the selected LLM
// backend, with tolerant parsing of the model output.
type Detector struct {
	client LLMClient
	logger *zap.Logger
}

// NewDetector creates a new scam detector.
func NewDetector(client LLMClient, logger *zap.Logger) *Detector {
	return &Detector{
		client: client,
		logger: logger,
	}
}

// Detect analyzes the incoming message for scam intent. It never returns an
// error: any backend failure degrades to a conservative non-scam verdict.
func (d *Detector) Detect(ctx context.Context, req *HoneypotRequest) *ScamAnalysis {
	prompt := prompts.DetectionUserPrompt(
		req.Message.Text,
		req.Message.Sender,
		req.Metadata.Channel,
		req.Message.Timestamp.String(),
		FormatHistory(req.ConversationHistory),
	)

	response, err := d.client.Generate(ctx, prompt, prompts.DetectionSystemPrompt, detectionTemperature)
	if err != nil {
		d.logger.Error("Scam detection failed, returning safe default",
			zap.String("backend", d.client.Name()),
			zap.Error(err))
		return &ScamAnalysis{
			IsScam:     false,
			Confidence: 0.0,
			Reasoning:  fmt.Sprintf("Detection error: %v", err),
			RiskLevel:  RiskLow,
		}
	}

	analysis := d.parseResponse(response)

	d.logger.Info("Scam detection result",
		zap.Bool("is_scam", analysis.IsScam),
		zap.Float64("confidence", analysis.Confidence),
		zap.String("backend", d.client.Name()))

	return analysis
}

// FormatHistory renders the last 10 history messages as "ROLE: text" lines,
// oldest first within the window.
func FormatHistory(history []Message) string {
	if len(history) == 0 {
		return ""
	}

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	lines := make([]string, 0, len(window))
	for _, msg := range window {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(msg.Sender), msg.Text))
	}
	return strings.Join(lines, "\n")
}

// verdictPayload mirrors the JSON contract the backends are instructed to
// emit. Missing fields fall back to conservative defaults.
type verdictPayload struct {
	IsScam     *bool    `json:"is_scam"`
	Confidence *float64 `json:"confidence"`
	ScamType   *string  `json:"scam_type"`
	Reasoning  *string  `json:"reasoning"`
	RiskLevel  *string  `json:"risk_level"`
}

func (d *Detector) parseResponse(response string) *ScamAnalysis {
	cleaned := strings.TrimSpace(response)

	// Strip markdown fences: drop every line that is itself a fence marker.
	if strings.HasPrefix(cleaned, "```") {
		var kept []string
		for _, line := range strings.Split(cleaned, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		cleaned = strings.Join(kept, "\n")
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		d.logger.Warn("Failed to parse detection response as JSON", zap.Error(err))
		return heuristicVerdict(response)
	}

	analysis := &ScamAnalysis{
		Reasoning: "No reasoning provided",
		RiskLevel: RiskLow,
	}
	if payload.IsScam != nil {
		analysis.IsScam = *payload.IsScam
	}
	if payload.Confidence != nil {
		analysis.Confidence = *payload.Confidence
	}
	if payload.ScamType != nil {
		analysis.ScamType = *payload.ScamType
	}
	if payload.Reasoning != nil {
		analysis.Reasoning = *payload.Reasoning
	}
	if payload.RiskLevel != nil {
		analysis.RiskLevel = *payload.RiskLevel
	}
	return analysis
}

// heuristicVerdict scans unparseable output for the literal tokens that an
// affirmative structured verdict would have contained.
func heuristicVerdict(response string) *ScamAnalysis {
	lower := strings.ToLower(response)
	isScam := strings.Contains(lower, "true") && strings.Contains(lower, "is_scam")

	analysis := &ScamAnalysis{
		IsScam:     isScam,
		Confidence: 0.2,
		Reasoning:  "Parsed from unstructured response",
		RiskLevel:  RiskLow,
	}
	if isScam {
		analysis.Confidence = 0.5
		analysis.ScamType = "unknown"
		analysis.RiskLevel = RiskMedium
	}
	return analysis
}
