package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/core"
)

// Client is an implementation of the core.LLMClient interface using Amazon
// Bedrock. It is opt-in via configuration and probed last among the network
// backends.
type Client struct {
	client    *bedrockruntime.Client
	enabled   bool
	modelID   string
	maxTokens int
	topP      float32
	logger    *zap.Logger
}

// NewClient creates a new Bedrock client.
func NewClient(client *bedrockruntime.Client, enabled bool, modelID string, maxTokens int, topP float32, logger *zap.Logger) *Client {
	return &Client{
		client:    client,
		enabled:   enabled,
		modelID:   modelID,
		maxTokens: maxTokens,
		topP:      topP,
		logger:    logger,
	}
}

// Name implements core.LLMClient.
func (c *Client) Name() string {
	return "bedrock"
}

// IsAvailable implements core.LLMClient.
func (c *Client) IsAvailable() bool {
	return c.enabled && c.client != nil
}

// Generate implements core.LLMClient.
func (c *Client) Generate(ctx context.Context, prompt, systemPrompt string, temperature float32) (string, error) {
	if !c.IsAvailable() {
		return "", core.ErrBackendUnavailable
	}

	// Bedrock text models take a single prompt string; the system
	// instruction is prepended.
	fullPrompt := prompt
	if systemPrompt != "" {
		fullPrompt = systemPrompt + "\n\n" + prompt
	}

	payload, err := c.buildPayload(fullPrompt, temperature)
	if err != nil {
		return "", &core.BackendError{Provider: c.Name(), Err: fmt.Errorf("failed to marshal request payload: %w", err)}
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", &core.BackendError{Provider: c.Name(), Err: fmt.Errorf("failed to invoke Bedrock model: %w", err)}
	}

	text, err := c.parseResponse(resp.Body)
	if err != nil {
		return "", &core.BackendError{Provider: c.Name(), Err: err}
	}

	c.logger.Debug("Bedrock completion succeeded", zap.String("model_id", c.modelID))

	return text, nil
}

func (c *Client) buildPayload(prompt string, temperature float32) ([]byte, error) {
	if c.isAnthropicModel() {
		return json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          temperature,
			"top_p":                c.topP,
		})
	}
	if c.isAmazonTitanModel() {
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   temperature,
				"topP":          c.topP,
			},
		})
	}
	return json.Marshal(map[string]interface{}{
		"prompt":      prompt,
		"max_tokens":  c.maxTokens,
		"temperature": temperature,
		"top_p":       c.topP,
	})
}

func (c *Client) parseResponse(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	default:
		return string(body), nil
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *Client) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *Client) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
