package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullbear-qa/internal/types"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func out(intent types.Intent, text string) types.AnalyzerOutput {
	return types.AnalyzerOutput{Intent: intent, Text: text}
}

func TestScoreCountsEachKeywordOnce(t *testing.T) {
	table := Table{{"增长", 10}, {"风险", -10}, {"strong", 5}}
	assert.Equal(t, 10, Score("增长增长增长", table))
	assert.Equal(t, 5, Score("STRONG growth, some 风险, 增长", table))
	assert.Equal(t, 0, Score("", table))
}

func TestDimensionScoreIsClamped(t *testing.T) {
	table := Table{{"a1", 30}, {"a2", 30}, {"b1", -30}, {"b2", -30}}
	assert.Equal(t, 85, DimensionScore("a1 a2", table))
	assert.Equal(t, 15, DimensionScore("b1 b2", table))
	assert.Equal(t, 50, DimensionScore("nothing", table))
}

func TestEmptyOutputsScoreNeutral(t *testing.T) {
	s := New(nil, Options{}).Score(nil)
	assert.Equal(t, 50, s.Score)
	assert.Equal(t, types.RatingHold, s.Rating)
	assert.Empty(t, s.Breakdown)
}

func TestAbsentDimensionsAreRenormalized(t *testing.T) {
	// technical alone at 70 must give 70, not a 0.3-weighted blend with zeros
	s := Combine(map[types.Dimension]int{types.DimensionTechnical: 70}, DefaultWeights, ThreeTier)
	assert.Equal(t, 70, s.Score)
	assert.Equal(t, types.RatingBuy, s.Rating)
	assert.Equal(t, map[types.Dimension]int{types.DimensionTechnical: 20}, s.Breakdown)

	s = Combine(map[types.Dimension]int{
		types.DimensionFundamental: 80,
		types.DimensionTechnical:   40,
		types.DimensionSentiment:   50,
	}, DefaultWeights, ThreeTier)
	// 0.4*80 + 0.3*40 + 0.3*50 = 59
	assert.Equal(t, 59, s.Score)
	assert.Equal(t, types.RatingHold, s.Rating)
}

func TestCombineIsDeterministic(t *testing.T) {
	dims := map[types.Dimension]int{types.DimensionFundamental: 65, types.DimensionSentiment: 35}
	first := Combine(dims, DefaultWeights, FiveTier)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Combine(dims, DefaultWeights, FiveTier))
	}
}

func TestScoreStaysInRange(t *testing.T) {
	j := New(nil, Options{})
	texts := []string{
		"强劲 增长 超预期 利好 买入 看涨 上涨 积极 优秀 金叉 突破",
		"疲软 看跌 卖出 下跌 风险 担忧 不及预期 消极 利空 死叉",
		"",
	}
	for _, text := range texts {
		for _, intent := range types.Intents() {
			s := j.Score([]types.AnalyzerOutput{out(intent, text)})
			assert.GreaterOrEqual(t, s.Score, 15)
			assert.LessOrEqual(t, s.Score, 85)
			assert.Equal(t, ThreeTier.Rate(s.Score), s.Rating)
		}
	}
}

func TestScoreDirection(t *testing.T) {
	j := New(nil, Options{})

	bull := j.Score([]types.AnalyzerOutput{out(types.IntentTechnical, "MACD 金叉, 放量突破, 看涨")})
	assert.Equal(t, 80, bull.Score)
	assert.Equal(t, types.RatingBuy, bull.Rating)

	bear := j.Score([]types.AnalyzerOutput{out(types.IntentSentiment, "分析师下调评级, 市场悲观, 利空不断")})
	assert.Equal(t, 20, bear.Score)
	assert.Equal(t, types.RatingSell, bear.Rating)
}

func TestComparisonFeedsFundamental(t *testing.T) {
	s := New(nil, Options{}).Score([]types.AnalyzerOutput{out(types.IntentComparison, "AAPL 增长更强劲")})
	require.True(t, s.Has(types.DimensionFundamental))
	assert.Equal(t, 20, s.Breakdown[types.DimensionFundamental])
}

func TestFailedOutputsCarryNoEvidence(t *testing.T) {
	s := New(nil, Options{}).Score([]types.AnalyzerOutput{
		{Intent: types.IntentFundamental, Text: "fundamental analysis failed: 风险", Failed: true},
	})
	assert.Equal(t, 50, s.Score)
	assert.Empty(t, s.Breakdown)
}

func TestRatingSchemes(t *testing.T) {
	cases := []struct {
		scheme Scheme
		score  int
		want   types.Rating
	}{
		{ThreeTier, 100, types.RatingBuy},
		{ThreeTier, 70, types.RatingBuy},
		{ThreeTier, 69, types.RatingHold},
		{ThreeTier, 40, types.RatingHold},
		{ThreeTier, 39, types.RatingSell},
		{ThreeTier, 0, types.RatingSell},
		{FiveTier, 80, types.RatingStrongBuy},
		{FiveTier, 79, types.RatingBuy},
		{FiveTier, 60, types.RatingBuy},
		{FiveTier, 59, types.RatingHold},
		{FiveTier, 20, types.RatingSell},
		{FiveTier, 19, types.RatingStrongSell},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.scheme.Rate(c.score), "%s %d", c.scheme.Name, c.score)
	}

	s, err := SchemeByName("FIVE_TIER")
	require.NoError(t, err)
	assert.Equal(t, FiveTier.Name, s.Name)
	_, err = SchemeByName("seven")
	assert.Error(t, err)
}

func TestSynthesizeSingleOutputSkipsGenerator(t *testing.T) {
	g := &fakeGenerator{reply: "merged"}
	report := New(g, Options{}).Synthesize(context.Background(), "q", []types.AnalyzerOutput{
		out(types.IntentTechnical, "  RSI 55  "),
	})
	assert.Zero(t, g.calls)
	assert.Equal(t, "## Technical Analysis\n\nRSI 55", report)
}

func TestSynthesizeMultipleUsesGenerator(t *testing.T) {
	g := &fakeGenerator{reply: "Summary\nall good\n"}
	report := New(g, Options{}).Synthesize(context.Background(), "AAPL?", []types.AnalyzerOutput{
		out(types.IntentFundamental, "PE 30"),
		out(types.IntentSentiment, "news calm"),
	})
	assert.Equal(t, 1, g.calls)
	assert.Equal(t, "Summary\nall good", report)
	assert.Contains(t, g.prompt, "[Fundamental Analysis]\nPE 30")
	assert.Contains(t, g.prompt, "[Market Sentiment]\nnews calm")
	assert.Contains(t, g.prompt, "Key Risks")
}

func TestSynthesizeFallsBackOnGeneratorFailure(t *testing.T) {
	outputs := []types.AnalyzerOutput{
		out(types.IntentFundamental, "PE 30"),
		out(types.IntentTechnical, "RSI 55"),
	}

	for _, g := range []*fakeGenerator{{err: errors.New("rate limited")}, {reply: "   "}} {
		report := New(g, Options{}).Synthesize(context.Background(), "q", outputs)
		assert.Contains(t, report, degradedNotice)
		assert.Contains(t, report, "## Fundamental Analysis\n\nPE 30")
		assert.Contains(t, report, "## Technical Analysis\n\nRSI 55")
	}

	report := New(nil, Options{}).Synthesize(context.Background(), "q", outputs)
	assert.Contains(t, report, degradedNotice)
}

func TestSynthesizeAllFailed(t *testing.T) {
	g := &fakeGenerator{reply: "should not be used"}
	outputs := []types.AnalyzerOutput{
		{Intent: types.IntentFundamental, Text: "fundamental analysis failed: timeout", Failed: true},
		{Intent: types.IntentTechnical, Text: "technical analysis failed: timeout", Failed: true},
	}
	report := New(g, Options{}).Synthesize(context.Background(), "q", outputs)
	assert.Zero(t, g.calls)
	assert.Contains(t, report, allFailedNotice)
	assert.Contains(t, report, "timeout")

	single := New(g, Options{}).Synthesize(context.Background(), "q", outputs[:1])
	assert.Contains(t, single, allFailedNotice)

	assert.Equal(t, noEvidenceReport, New(g, Options{}).Synthesize(context.Background(), "q", nil))
}
