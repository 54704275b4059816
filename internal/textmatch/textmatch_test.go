package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	tests := []struct {
		text, kw string
		want     bool
	}{
		{"rsi is 70", "rsi", true},
		{"the market is calm", "ma", false},
		{"ma20 crossed", "ma", false},
		{"price above ma, volume up", "ma", true},
		{"市盈率pe偏高", "pe", true},
		{"people think", "pe", false},
		{"strong cash flow growth", "cash flow", true},
		{"p/e of 30", "p/e", true},
		{"基本面稳健", "基本面", true},
		{"anything", "", false},
		{"rsi rsi2", "rsi2", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Contains(tt.text, tt.kw), "%q in %q", tt.kw, tt.text)
	}
}

func TestCountCountsEachKeywordOnce(t *testing.T) {
	assert.Equal(t, 2, Count("rsi rsi rsi macd", []string{"rsi", "macd", "kdj"}))
	assert.True(t, Any("看涨", []string{"看跌", "看涨"}))
	assert.False(t, Any("", []string{"x"}))
}

func TestIndexReportsBoundedMatch(t *testing.T) {
	assert.Equal(t, 10, Index("pineapple apple", "apple"))
	assert.Equal(t, -1, Index("pineapple", "apple"))
	assert.Equal(t, 6, Index("买入苹果", "苹果"))
	assert.Equal(t, -1, Index("anything", ""))
}
