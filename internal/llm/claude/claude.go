// Package claude implements the language model capability on the
// Anthropic Messages API.
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bullbear-qa/internal/api"
)

const (
	DefaultEndpoint  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// Params configures a Client. Endpoint may point at a proxy.
type Params struct {
	APIKey      string
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements interfaces.LLM.
type Client struct {
	http        *api.Client
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
}

func New(p Params) (*Client, error) {
	if p.APIKey == "" {
		return nil, errors.New("claude: API key missing")
	}
	if p.Endpoint == "" {
		p.Endpoint = DefaultEndpoint
	}
	if p.Timeout <= 0 {
		p.Timeout = 60 * time.Second
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = 1024
	}
	return &Client{
		http: api.NewClient(
			api.WithTimeout(p.Timeout),
			api.WithHeader("x-api-key", p.APIKey),
			api.WithHeader("anthropic-version", anthropicVersion),
		),
		endpoint:    p.Endpoint,
		model:       p.Model,
		temperature: p.Temperature,
		maxTokens:   p.MaxTokens,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	req := api.NewRequest("POST", c.endpoint).WithContext(ctx).WithBody(messagesRequest{
		Model:       c.model,
		System:      system,
		Messages:    []message{{Role: "user", Content: user}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	resp, err := c.http.DoWithRetry(req, api.DefaultRetryConfig())
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}
	text, err := extractText(resp.Body)
	if err != nil {
		return "", err
	}
	return text, nil
}

// extractText reads the concatenated text blocks of a Messages response.
// Proxies that flatten the reply into "completion" are accepted too.
func extractText(body []byte) (string, error) {
	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Completion string `json:"completion"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("claude decode: %w", err)
	}

	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" || block.Type == "" {
			sb.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		out = strings.TrimSpace(r.Completion)
	}
	if out == "" {
		return "", errors.New("claude: empty response")
	}
	return out, nil
}

// Classify asks for exactly one of labels. The reply is returned as-is.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (string, error) {
	system := "Answer with exactly one word from: " + strings.Join(labels, ", ") + "."
	return c.complete(ctx, system, text, 0, 16)
}

func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	return c.complete(ctx, system, prompt, c.temperature, c.maxTokens)
}
