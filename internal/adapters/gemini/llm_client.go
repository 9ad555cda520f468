package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/scamshield/honeypot/internal/core"
)

// Client is an implementation of the core.LLMClient interface using Google
// Gemini
type Client struct {
	client    *genai.Client
	apiKey    string
	modelName string
	maxTokens int
	logger    *zap.Logger
}

// NewClient creates a new Gemini client. Without an API key the backend is
// constructed unavailable; with one, client creation errors are real errors.
func NewClient(ctx context.Context, apiKey, modelName string, maxTokens int, logger *zap.Logger) (*Client, error) {
	c := &Client{
		apiKey:    apiKey,
		modelName: modelName,
		maxTokens: maxTokens,
		logger:    logger,
	}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Name implements core.LLMClient.
func (c *Client) Name() string {
	return "gemini"
}

// IsAvailable implements core.LLMClient.
func (c *Client) IsAvailable() bool {
	return c.client != nil && c.apiKey != ""
}

// Generate implements core.LLMClient. A fresh model handle is configured per
// call so concurrent requests with different temperatures don't race.
func (c *Client) Generate(ctx context.Context, prompt, systemPrompt string, temperature float32) (string, error) {
	if !c.IsAvailable() {
		return "", core.ErrBackendUnavailable
	}

	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(int32(c.maxTokens))
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &core.BackendError{Provider: c.Name(), Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &core.BackendError{Provider: c.Name(), Err: fmt.Errorf("empty response from Gemini")}
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	c.logger.Debug("Gemini completion succeeded", zap.String("model", c.modelName))

	return text, nil
}
