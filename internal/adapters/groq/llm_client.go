// Package groq implements the preferred backend against the Groq API, which
// speaks the OpenAI chat-completion protocol on its own base URL.
package groq

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/core"
)

// Client is an implementation of the core.LLMClient interface using Groq
type Client struct {
	client    *openai.Client
	apiKey    string
	modelName string
	maxTokens int
	logger    *zap.Logger
}

// NewClient creates a new Groq client. A missing API key leaves the backend
// unavailable rather than failing construction.
func NewClient(apiKey, baseURL, modelName string, maxTokens int, logger *zap.Logger) *Client {
	c := &Client{
		apiKey:    apiKey,
		modelName: modelName,
		maxTokens: maxTokens,
		logger:    logger,
	}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		c.client = openai.NewClientWithConfig(cfg)
	}
	return c
}

// Name implements core.LLMClient.
func (c *Client) Name() string {
	return "groq"
}

// IsAvailable implements core.LLMClient.
func (c *Client) IsAvailable() bool {
	return c.client != nil && c.apiKey != ""
}

// Generate implements core.LLMClient.
func (c *Client) Generate(ctx context.Context, prompt, systemPrompt string, temperature float32) (string, error) {
	if !c.IsAvailable() {
		return "", core.ErrBackendUnavailable
	}

	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
		TopP:        1,
	})
	if err != nil {
		return "", &core.BackendError{Provider: c.Name(), Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &core.BackendError{Provider: c.Name(), Err: fmt.Errorf("empty response from Groq")}
	}

	c.logger.Debug("Groq completion succeeded",
		zap.String("model", c.modelName),
		zap.String("processing_id", resp.ID))

	return resp.Choices[0].Message.Content, nil
}
