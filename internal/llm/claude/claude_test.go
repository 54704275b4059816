package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "be brief", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		w.Write([]byte(`{"content":[{"type":"text","text":"Hold. "},{"type":"text","text":"Valuation is fair."}]}`))
	}))
	defer srv.Close()

	c, err := New(Params{APIKey: "key", Endpoint: srv.URL, Model: "claude-3-5-sonnet-latest"})
	require.NoError(t, err)
	out, err := c.Generate(context.Background(), "be brief", "AAPL?")
	require.NoError(t, err)
	assert.Equal(t, "Hold. Valuation is fair.", out)
}

func TestExtractText(t *testing.T) {
	out, err := extractText([]byte(`{"completion":" sentiment "}`))
	require.NoError(t, err)
	assert.Equal(t, "sentiment", out)

	_, err = extractText([]byte(`{"content":[]}`))
	assert.Error(t, err)

	_, err = extractText([]byte(`not json`))
	assert.Error(t, err)
}
