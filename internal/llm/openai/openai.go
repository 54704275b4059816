// Package openai talks to OpenAI-compatible chat completion endpoints.
// DeepSeek is served by the same client with a different base URL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bullbear-qa/internal/api"
)

const (
	DefaultBaseURL  = "https://api.openai.com/v1"
	DeepSeekBaseURL = "https://api.deepseek.com/v1"
)

// Params configures a Client.
type Params struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements interfaces.LLM over /chat/completions.
type Client struct {
	http        *api.Client
	model       string
	temperature float64
	maxTokens   int
}

func New(p Params) (*Client, error) {
	if p.APIKey == "" {
		return nil, errors.New("openai: API key missing")
	}
	if p.BaseURL == "" {
		p.BaseURL = DefaultBaseURL
	}
	if p.Timeout <= 0 {
		p.Timeout = 60 * time.Second
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = 1024
	}
	return &Client{
		http: api.NewClient(
			api.WithBaseURL(strings.TrimRight(p.BaseURL, "/")),
			api.WithTimeout(p.Timeout),
			api.WithHeader("Authorization", "Bearer "+p.APIKey),
		),
		model:       p.Model,
		temperature: p.Temperature,
		maxTokens:   p.MaxTokens,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) chat(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: user})

	req := api.NewRequest("POST", "/chat/completions").
		WithContext(ctx).
		WithBody(chatRequest{Model: c.model, Messages: msgs, Temperature: temperature, MaxTokens: maxTokens})
	resp, err := c.http.DoWithRetry(req, api.DefaultRetryConfig())
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	var r chatResponse
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("chat completion: no choices")
	}
	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}

// Classify asks for exactly one of labels at temperature 0. The reply is
// returned as-is for the caller to validate.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (string, error) {
	system := "Answer with exactly one word from: " + strings.Join(labels, ", ") + "."
	return c.chat(ctx, system, text, 0, 16)
}

func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	return c.chat(ctx, system, prompt, c.temperature, c.maxTokens)
}
