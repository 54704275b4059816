package llm

import (
	"context"
	"testing"

	"bullbear-qa/internal/llm/noop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNoop(t *testing.T) {
	m, err := New(Params{})
	require.NoError(t, err)
	_, err = m.Classify(context.Background(), "q", []string{"a"})
	assert.ErrorIs(t, err, noop.ErrNotConfigured)
	_, err = m.Generate(context.Background(), "s", "p")
	assert.ErrorIs(t, err, noop.ErrNotConfigured)
}

func TestNewRequiresKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("CLAUDE_API_KEY", "")

	for _, p := range []string{ProviderOpenAI, ProviderDeepSeek, ProviderClaude} {
		_, err := New(Params{Provider: p})
		assert.Error(t, err, p)
	}
}

func TestNewDeepSeek(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "ds-key")
	m, err := New(Params{Provider: "deepseek", Model: "deepseek-chat"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewUnknown(t *testing.T) {
	_, err := New(Params{Provider: "palm"})
	assert.Error(t, err)
}
