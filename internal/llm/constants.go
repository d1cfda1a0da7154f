package llm

import "time"

// Defaults shared by the provider clients.
const (
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 2048

	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultOpenAIURL   = "https://api.openai.com/v1"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)
