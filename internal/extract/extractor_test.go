package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"cjk boundaries", "比较AAPL和MSFT", []string{"AAPL", "MSFT"}},
		{"lowercase words are not symbols", "how is aapl doing", []string{}},
		{"common word colliding with symbol", "Is now a good time to buy NVDA?", []string{"NVDA"}},
		{"capitalized word colliding with symbol", "Now is the time, AAPL?", []string{"AAPL"}},
		{"word after symbol", "Is AAPL near its 52-week low?", []string{"AAPL"}},
		{"name inside word", "pineapple stocks", []string{}},
		{"mixed case token", "NVDAs rally", []string{}},
		{"chinese names", "特斯拉和英伟达哪个好", []string{"TSLA", "NVDA"}},
		{"mixed name and symbol order", "微软还是AAPL", []string{"MSFT", "AAPL"}},
		{"dedup symbol and name", "苹果 AAPL 的估值", []string{"AAPL"}},
		{"stop words", "MA and RSI on PE", []string{}},
		{"unknown symbol", "ZZZZ 怎么样", []string{}},
		{"positional suffix", "NVDA的PE是多少", []string{"NVDA"}},
		{"positional prefix", "分析TSLA", []string{"TSLA"}},
		{"too long", "AAPLXYZ", []string{}},
		{"single letter symbols", "compare F vs GM", []string{"F", "GM"}},
		{"overlapping names", "阿里巴巴的财务", []string{"BABA"}},
		{"english name", "Is Apple better than Microsoft?", []string{"AAPL", "MSFT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text))
		})
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	e := New()
	first := e.Extract("苹果、微软、谷歌和亚马逊对比")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Extract("苹果、微软、谷歌和亚马逊对比"))
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL", "AMZN"}, first)
}

func TestExtractOptions(t *testing.T) {
	e := New(WithSymbols("infy"), WithNames(map[string]string{"印孚瑟斯": "INFY"}))
	assert.Equal(t, []string{"INFY"}, e.Extract("INFY 怎么样"))
	assert.Equal(t, []string{"INFY"}, e.Extract("印孚瑟斯的估值"))
	assert.Equal(t, []string{}, e.Extract("infy 怎么样"))
}
