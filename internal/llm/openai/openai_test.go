package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAndGenerate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"  technical \n"}}]}`))
	}))
	defer srv.Close()

	c, err := New(Params{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "gpt-4o-mini", Temperature: 0.7})
	require.NoError(t, err)

	label, err := c.Classify(context.Background(), "Is AAPL overbought?", []string{"fundamental", "technical"})
	require.NoError(t, err)
	assert.Equal(t, "technical", label)
	assert.Equal(t, 0.0, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[0].Content, "fundamental, technical")

	_, err = c.Generate(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Len(t, got.Messages, 1)
	assert.Equal(t, "gpt-4o-mini", got.Model)
}

func TestNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, err := New(Params{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), "s", "p")
	assert.Error(t, err)
}

func TestMissingKey(t *testing.T) {
	_, err := New(Params{})
	assert.Error(t, err)
}
