package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/config"
	"github.com/scamshield/honeypot/internal/core"
	"github.com/scamshield/honeypot/internal/factory"
	"github.com/scamshield/honeypot/internal/intel"
	"github.com/scamshield/honeypot/internal/logging"
)

var (
	// Backend flags
	groqAPIKey    = flag.String("groq-api-key", "", "API key for Groq")
	openaiAPIKey  = flag.String("openai-api-key", "", "API key for OpenAI")
	geminiAPIKey  = flag.String("gemini-api-key", "", "API key for Google Gemini")
	openaiModel   = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")
	geminiModel   = flag.String("gemini-model", "gemini-1.5-flash", "Gemini model name")
	bedrockEnable = flag.Bool("bedrock", false, "Enable the Amazon Bedrock backend")
	bedrockRegion = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModel  = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Input flags
	messageText = flag.String("text", "", "Message text to analyze (use stdin if not specified)")
	sender      = flag.String("sender", "scammer", "Message sender role")
	channel     = flag.String("channel", "SMS", "Message channel")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog     = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile  = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	// Read the message
	text := *messageText
	if text == "" {
		logger.Info("Reading message from stdin")
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("Failed to read message from stdin", zap.Error(err))
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		logger.Fatal("No message text to analyze")
	}

	// Select the backend
	llmFactory := factory.NewLLMFactory(cfg, logger)
	llmClient, err := llmFactory.SelectClient()
	if err != nil {
		logger.Fatal("Failed to select LLM backend", zap.Error(err))
	}

	req := &core.HoneypotRequest{
		Message: core.Message{
			Sender:    *sender,
			Text:      text,
			Timestamp: core.Timestamp{Time: time.Now().UTC()},
		},
		Metadata: core.Metadata{Channel: *channel, Language: "English", Locale: "IN"},
	}

	fmt.Printf("\n=== Message Summary ===\n")
	fmt.Printf("Sender: %s\n", *sender)
	fmt.Printf("Channel: %s\n", *channel)
	fmt.Printf("Text length: %d bytes\n", len(text))

	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Backend: %s\n", llmClient.Name())

	startTime := time.Now()

	detector := core.NewDetector(llmClient, logger)
	analysis := detector.Detect(context.Background(), req)
	intelligence := intel.ExtractAll(text)

	duration := time.Since(startTime)

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Is scam: %t\n", analysis.IsScam)
	fmt.Printf("Confidence: %.4f\n", analysis.Confidence)
	if analysis.ScamType != "" {
		fmt.Printf("Scam type: %s\n", analysis.ScamType)
	}
	fmt.Printf("Risk level: %s\n", analysis.RiskLevel)
	fmt.Printf("Reasoning: %s\n", analysis.Reasoning)
	fmt.Printf("Processing time: %v\n", duration)

	fmt.Printf("\n=== Extracted Intelligence ===\n")
	fmt.Printf("Bank accounts: %s\n", joinOrNone(intelligence.BankAccounts))
	fmt.Printf("UPI IDs: %s\n", joinOrNone(intelligence.UpiIDs))
	fmt.Printf("Phishing links: %s\n", joinOrNone(intelligence.PhishingLinks))

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("groq.api_key", *groqAPIKey)
	v.Set("openai.api_key", *openaiAPIKey)
	v.Set("openai.model_name", *openaiModel)
	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModel)
	v.Set("bedrock.enabled", *bedrockEnable)
	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModel)

	return config.NewFromViper(v)
}
