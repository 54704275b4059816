package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bullbear-qa/internal/marketdata"
	"bullbear-qa/internal/news"
	"bullbear-qa/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

type fakeNews struct {
	headlines []news.Headline
	err       error
}

func (f *fakeNews) Headlines(ctx context.Context, symbol string, n int) ([]news.Headline, error) {
	return f.headlines, f.err
}

type fakeAnalyzer struct {
	text   string
	err    error
	called int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, question string, tickers []string) (string, error) {
	f.called++
	return f.text, f.err
}

func market() *marketdata.Static {
	return marketdata.NewStatic(map[string]float64{"AAPL": 190, "MSFT": 410, "NVDA": 120, "AMZN": 180, "GOOG": 170, "META": 500})
}

func TestFundamentalUsesModel(t *testing.T) {
	llm := &fakeLLM{out: "AAPL looks undervalued with strong cash flow."}
	f := NewFundamental(Deps{Market: market(), LLM: llm})

	out, err := f.Analyze(context.Background(), "AAPL基本面如何", []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, "AAPL looks undervalued with strong cash flow.", out)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Last price: 190.00")
}

func TestFundamentalRawFallback(t *testing.T) {
	f := NewFundamental(Deps{Market: market(), LLM: &fakeLLM{err: errors.New("timeout")}})
	out, err := f.Analyze(context.Background(), "q", []string{"AAPL"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, rawDataNotice))
	assert.Contains(t, out, "Symbol: AAPL")
}

func TestFundamentalErrors(t *testing.T) {
	f := NewFundamental(Deps{Market: market()})
	_, err := f.Analyze(context.Background(), "q", nil)
	assert.ErrorIs(t, err, errNoTicker)

	_, err = f.Analyze(context.Background(), "q", []string{"ZZZZ"})
	assert.ErrorIs(t, err, marketdata.ErrUnavailable)
}

func TestTechnicalSnapshot(t *testing.T) {
	tech := NewTechnical(Deps{Market: market()})
	out, err := tech.Analyze(context.Background(), "q", []string{"MSFT"})
	require.NoError(t, err)
	assert.Contains(t, out, "Symbol: MSFT (120 daily bars)")
	assert.Contains(t, out, "RSI14:")
}

func TestSentiment(t *testing.T) {
	src := &fakeNews{headlines: []news.Headline{{Title: "Nvidia upgrade", Source: "Test", PublishedAt: "1h"}}}
	s := NewSentiment(Deps{Market: market(), News: src})
	out, err := s.Analyze(context.Background(), "q", []string{"NVDA"})
	require.NoError(t, err)
	assert.Contains(t, out, "1. [Test] Nvidia upgrade (1h)")

	_, err = NewSentiment(Deps{Market: market()}).Analyze(context.Background(), "q", []string{"NVDA"})
	assert.Error(t, err)

	src.err = errors.New("blocked")
	_, err = s.Analyze(context.Background(), "q", []string{"NVDA"})
	assert.Error(t, err)
}

func TestComparisonLimits(t *testing.T) {
	c := NewComparison(Deps{Market: market()})

	_, err := c.Analyze(context.Background(), "q", []string{"AAPL"})
	assert.ErrorIs(t, err, ErrNeedTwoSymbols)

	out, err := c.Analyze(context.Background(), "q", []string{"AAPL", "MSFT", "NVDA", "AMZN", "GOOG", "META"})
	require.NoError(t, err)
	assert.Contains(t, out, "dropped META")
	assert.NotContains(t, out, "500.00")

	out, err = c.Analyze(context.Background(), "q", []string{"AAPL", "ZZZZ"})
	require.NoError(t, err)
	assert.Contains(t, out, "unavailable")

	_, err = c.Analyze(context.Background(), "q", []string{"YYYY", "ZZZZ"})
	assert.Error(t, err)
}

func TestComparisonNoteSurvivesModelProse(t *testing.T) {
	c := NewComparison(Deps{Market: market(), LLM: &fakeLLM{out: "MSFT is stronger."}})
	out, err := c.Analyze(context.Background(), "q", []string{"AAPL", "MSFT", "NVDA", "AMZN", "GOOG", "META"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Note: compared the first 5 symbols"))
	assert.Contains(t, out, "MSFT is stronger.")
}

func TestDispatchSelectsOneAnalyzer(t *testing.T) {
	fa, ta, sa, ca := &fakeAnalyzer{text: "f"}, &fakeAnalyzer{text: "t"}, &fakeAnalyzer{text: "s"}, &fakeAnalyzer{text: "c"}
	d := NewDispatcher(fa, ta, sa, ca, 0)

	out := d.Dispatch(context.Background(), "q", types.RoutingDecision{Intent: types.IntentTechnical, Tickers: []string{"AAPL"}})
	require.Len(t, out, 1)
	assert.Equal(t, types.AnalyzerOutput{Intent: types.IntentTechnical, Text: "t"}, out[0])
	assert.Equal(t, 0, fa.called)
	assert.Equal(t, 1, ta.called)
	assert.Equal(t, 0, sa.called+ca.called)
}

func TestDispatchFailureBecomesText(t *testing.T) {
	ca := &fakeAnalyzer{err: ErrNeedTwoSymbols}
	d := NewDispatcher(&fakeAnalyzer{}, &fakeAnalyzer{}, &fakeAnalyzer{}, ca, 0)

	out := d.Dispatch(context.Background(), "q", types.RoutingDecision{Intent: types.IntentComparison, Tickers: []string{"AAPL"}})
	require.Len(t, out, 1)
	assert.True(t, out[0].Failed)
	assert.Equal(t, "Comparison analysis failed: comparison needs at least two ticker symbols", out[0].Text)

	out = d.Dispatch(context.Background(), "q", types.RoutingDecision{Intent: "macro"})
	require.Len(t, out, 1)
	assert.True(t, out[0].Failed)
	assert.Contains(t, out[0].Text, "no analyzer")
}
