package config

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress string
	APIKey        string
}

// GroqConfig represents the configuration for Groq
type GroqConfig struct {
	APIKey    string
	BaseURL   string
	ModelName string
	MaxTokens int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey    string
	ModelName string
	MaxTokens int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey    string
	ModelName string
	MaxTokens int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Enabled   bool
	Region    string
	ModelID   string
	MaxTokens int
	TopP      float32
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		APIKey:        c.GetString("server.api_key"),
	}
}

// GetGroq returns the Groq configuration
func (c *Config) GetGroq() GroqConfig {
	return GroqConfig{
		APIKey:    c.GetString("groq.api_key"),
		BaseURL:   c.GetString("groq.base_url"),
		ModelName: c.GetString("groq.model_name"),
		MaxTokens: c.GetInt("groq.max_tokens"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:    c.GetString("openai.api_key"),
		ModelName: c.GetString("openai.model_name"),
		MaxTokens: c.GetInt("openai.max_tokens"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:    c.GetString("gemini.api_key"),
		ModelName: c.GetString("gemini.model_name"),
		MaxTokens: c.GetInt("gemini.max_tokens"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Enabled:   c.GetBool("bedrock.enabled"),
		Region:    c.GetString("bedrock.region"),
		ModelID:   c.GetString("bedrock.model_id"),
		MaxTokens: c.GetInt("bedrock.max_tokens"),
		TopP:      float32(c.GetFloat64("bedrock.top_p")),
	}
}
