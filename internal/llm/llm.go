// Package llm selects the language model provider.
package llm

import (
	"fmt"
	"os"
	"strings"
	"time"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/llm/claude"
	"bullbear-qa/internal/llm/llmobs"
	"bullbear-qa/internal/llm/noop"
	"bullbear-qa/internal/llm/openai"
)

const (
	ProviderOpenAI   = "OPENAI"
	ProviderDeepSeek = "DEEPSEEK"
	ProviderClaude   = "CLAUDE"
	ProviderNoop     = "NOOP"
)

// Params selects a provider. API keys are read from the environment.
type Params struct {
	Provider    string
	Model       string
	Endpoint    string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// New returns the configured provider wrapped with observability. An empty
// provider, or NOOP, yields a model whose calls always fail.
func New(p Params) (interfaces.LLM, error) {
	provider := strings.ToUpper(p.Provider)
	var (
		model interfaces.LLM
		err   error
	)
	switch provider {
	case "", ProviderNoop:
		return noop.New(), nil
	case ProviderOpenAI, ProviderDeepSeek:
		keyVar, base := "OPENAI_API_KEY", openai.DefaultBaseURL
		if provider == ProviderDeepSeek {
			keyVar, base = "DEEPSEEK_API_KEY", openai.DeepSeekBaseURL
		}
		if p.Endpoint != "" {
			base = p.Endpoint
		}
		model, err = openai.New(openai.Params{
			APIKey:      os.Getenv(keyVar),
			BaseURL:     base,
			Model:       p.Model,
			Temperature: p.Temperature,
			MaxTokens:   p.MaxTokens,
			Timeout:     p.Timeout,
		})
	case ProviderClaude:
		endpoint := p.Endpoint
		if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
			endpoint = ep
		}
		model, err = claude.New(claude.Params{
			APIKey:      os.Getenv("CLAUDE_API_KEY"),
			Endpoint:    endpoint,
			Model:       p.Model,
			Temperature: p.Temperature,
			MaxTokens:   p.MaxTokens,
			Timeout:     p.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", p.Provider)
	}
	if err != nil {
		return nil, err
	}
	return llmobs.Wrap(model, provider), nil
}
