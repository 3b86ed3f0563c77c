package llm

import (
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ProviderType selects which OpenAI-compatible backend serves completions.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderGroq   ProviderType = "groq"
)

// Gemini and Groq both expose OpenAI-compatible endpoints, so every provider
// goes through the same go-openai client with a different base URL.
const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	groqBaseURL   = "https://api.groq.com/openai/v1"
)

// ProviderConfig holds provider selection plus model tuning.
type ProviderConfig struct {
	Type ProviderType

	OpenAIKey string
	GeminiKey string
	GroqKey   string

	Model       string
	Temperature float32
	MaxTokens   int
}

// NewClientFromConfig builds the chat client for the configured provider.
func NewClientFromConfig(cfg *ProviderConfig) (*Client, error) {
	switch cfg.Type {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewClient(openai.NewClient(cfg.OpenAIKey), cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		apiCfg := openai.DefaultConfig(cfg.GeminiKey)
		apiCfg.BaseURL = geminiBaseURL
		return NewClient(openai.NewClientWithConfig(apiCfg), cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required")
		}
		apiCfg := openai.DefaultConfig(cfg.GroqKey)
		apiCfg.BaseURL = groqBaseURL
		return NewClient(openai.NewClientWithConfig(apiCfg), cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}

// LoadProviderFromEnv reads provider selection from environment variables.
func LoadProviderFromEnv() *ProviderConfig {
	providerType := os.Getenv("LLM_PROVIDER")
	if providerType == "" {
		providerType = "openai" // default
	}

	cfg := &ProviderConfig{
		Type:      ProviderType(providerType),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		GeminiKey: os.Getenv("GEMINI_API_KEY"),
		GroqKey:   os.Getenv("GROQ_API_KEY"),
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		cfg.Model = model
	} else {
		// Provider-specific defaults
		switch cfg.Type {
		case ProviderOpenAI:
			cfg.Model = "gpt-4o-mini"
		case ProviderGemini:
			cfg.Model = "gemini-2.0-flash"
		case ProviderGroq:
			cfg.Model = "llama-3.3-70b-versatile"
		}
	}

	cfg.Temperature = 0.7
	cfg.MaxTokens = 1024

	return cfg
}
