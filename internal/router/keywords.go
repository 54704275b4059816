package router

import "bullbear-qa/internal/types"

// Keyword tables are lowercase. Latin keywords match whole tokens only, so
// "ma" does not fire on "market"; CJK keywords match as substrings.
var categoryKeywords = map[types.Intent][]string{
	types.IntentFundamental: {
		"基本面", "财务", "估值", "市盈率", "pe", "市净率", "pb", "roe", "营收", "利润",
		"负债", "现金流", "资产", "收益",
		"fundamental", "fundamentals", "valuation", "earnings", "revenue", "profit",
		"debt", "cash flow", "eps", "p/e",
	},
	types.IntentTechnical: {
		"技术面", "技术指标", "rsi", "macd", "均线", "ma", "布林带", "kdj", "成交量",
		"趋势", "支撑", "阻力", "突破",
		"technical", "technicals", "moving average", "bollinger", "volume", "trend",
		"support", "resistance", "breakout", "chart",
	},
	types.IntentSentiment: {
		"新闻", "舆情", "情绪", "消息", "市场看法", "分析师", "评级", "热度", "关注", "舆论",
		"news", "sentiment", "headlines", "analyst", "analysts", "buzz", "hype",
	},
}

var comparisonKeywords = []string{
	"对比", "比较", "横向", "vs", "versus", "哪个好", "哪个更好", "哪只", "选择", "还是",
	"compare", "comparison", "which is better",
}

var conjunctionMarkers = []string{"和", "and"}

// scoredCategories is the tie-break priority for the hit-count pass.
var scoredCategories = []types.Intent{
	types.IntentFundamental,
	types.IntentTechnical,
	types.IntentSentiment,
}
