package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: level, Format: "json", Output: &buf}))
	return &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestRouteEvent(t *testing.T) {
	buf := capture(t, "INFO")
	Route(context.Background(), "technical", []string{"AAPL"}, "high", "rule")

	rec := lastRecord(t, buf)
	assert.Equal(t, "Question routed", rec["msg"])
	assert.Equal(t, "ROUTE", rec["type"])
	assert.Equal(t, "technical", rec["intent"])
	assert.Equal(t, []any{"AAPL"}, rec["tickers"])
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, "WARN")
	Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	ErrorWithErr(context.Background(), "boom", errors.New("bad"), "symbol", "MSFT")
	rec := lastRecord(t, buf)
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "bad", rec["error"])
	assert.Equal(t, "MSFT", rec["symbol"])
}

func TestDebugNeedsDetailedLogging(t *testing.T) {
	buf := capture(t, "DEBUG")
	Debug(context.Background(), "quiet")
	assert.Zero(t, buf.Len())
}

func TestToAttrsSkipsUnsupported(t *testing.T) {
	attrs := toAttrs([]any{"a", "x", "b", 2, "c", struct{}{}, 7, "odd", "dangling"})
	require.Len(t, attrs, 2)
	assert.Equal(t, "a", string(attrs[0].Key))
	assert.Equal(t, int64(2), attrs[1].Value.AsInt64())
}
