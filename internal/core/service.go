package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
)

// noScamNote is the analyst note attached when no scam indicators are found.
const noScamNote = "Message analyzed. No scam indicators detected."

// estimatedSecondsPerMessage is used when history timestamps cannot be
// parsed into a real engagement duration.
const estimatedSecondsPerMessage = 30

// HoneypotService runs the full analysis pipeline: intelligence extraction,
// scam classification, engagement metrics and the honeypot agent reply.
type HoneypotService struct {
	detector     *Detector
	agent        ResponderAgent
	cache        VerdictCache
	extract      func(text string) *ExtractedIntelligence
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewHoneypotService creates a new honeypot service.
func NewHoneypotService(
	detector *Detector,
	agent ResponderAgent,
	cache VerdictCache,
	extract func(text string) *ExtractedIntelligence,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *HoneypotService {
	return &HoneypotService{
		detector:     detector,
		agent:        agent,
		cache:        cache,
		extract:      extract,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
	}
}

// Analyze processes one honeypot request end to end.
func (s *HoneypotService) Analyze(ctx context.Context, req *HoneypotRequest) (*HoneypotResponse, error) {
	started := time.Now()

	// Intelligence extraction runs over the current message plus the full
	// conversation, unwindowed.
	var sb strings.Builder
	sb.WriteString(req.Message.Text)
	for _, msg := range req.ConversationHistory {
		sb.WriteString(" ")
		sb.WriteString(msg.Text)
	}
	intel := s.extract(sb.String())

	analysis := s.detectWithCache(ctx, req)

	messageCount := len(req.ConversationHistory) + 1
	duration := s.engagementDuration(req, messageCount)

	agentNotes := noScamNote
	if analysis.IsScam {
		reply, err := s.agent.Reply(ctx, req, analysis, intel)
		if err != nil {
			// Reply generation has its own canned fallback; an error here
			// means even that path failed.
			s.logger.Error("Agent reply generation failed", zap.Error(err))
			reply = ""
		}

		notes, err := s.agent.Notes(ctx, &InteractionSummary{
			ScamDetected:    true,
			Analysis:        analysis,
			Intelligence:    intel,
			MessageCount:    messageCount,
			DurationSeconds: duration,
			LatestMessage:   req.Message.Text,
			AgentResponse:   reply,
		})
		if err != nil {
			s.logger.Error("Agent notes generation failed", zap.Error(err))
		} else {
			agentNotes = notes
		}
	}

	s.logger.Info("Request processed",
		zap.Duration("elapsed", time.Since(started)),
		zap.Bool("scam_detected", analysis.IsScam),
		zap.String("session_id", req.SessionID))

	return &HoneypotResponse{
		Status:       "success",
		ScamDetected: analysis.IsScam,
		EngagementMetrics: EngagementMetrics{
			EngagementDurationSeconds: duration,
			TotalMessagesExchanged:    messageCount,
		},
		ExtractedIntelligence: intel,
		AgentNotes:            agentNotes,
	}, nil
}

// detectWithCache consults the verdict cache before invoking the detector.
// Identical scam texts arrive in bulk, so verdicts are keyed by message body.
func (s *HoneypotService) detectWithCache(ctx context.Context, req *HoneypotRequest) *ScamAnalysis {
	if !s.cacheEnabled || s.cache == nil {
		return s.detector.Detect(ctx, req)
	}

	key := verdictKey(req.Message.Text)
	if entry, err := s.cache.Get(ctx, key); err == nil && entry != nil {
		s.logger.Debug("Verdict cache hit", zap.String("key", key))
		analysis := entry.Analysis
		return &analysis
	}

	analysis := s.detector.Detect(ctx, req)

	entry := &VerdictEntry{
		Key:      key,
		Analysis: *analysis,
		LastSeen: time.Now(),
	}
	if err := s.cache.Set(ctx, entry, s.cacheTTL); err != nil {
		s.logger.Error("Failed to update verdict cache", zap.Error(err))
	}

	return analysis
}

func verdictKey(messageText string) string {
	sum := sha256.Sum256([]byte(messageText))
	return hex.EncodeToString(sum[:])
}

// engagementDuration derives the elapsed conversation time from the first
// history timestamp, falling back to a per-message estimate.
func (s *HoneypotService) engagementDuration(req *HoneypotRequest, messageCount int) int {
	if len(req.ConversationHistory) == 0 {
		return 0
	}

	first := req.ConversationHistory[0].Timestamp
	current := req.Message.Timestamp
	if first.IsZero() || current.IsZero() {
		s.logger.Warn("Missing timestamps, estimating engagement duration")
		return messageCount * estimatedSecondsPerMessage
	}

	seconds := int(current.Sub(first.Time).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}
