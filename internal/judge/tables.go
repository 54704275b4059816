package judge

import "bullbear-qa/internal/types"

// Keyword is a scoring term and its signed weight.
type Keyword struct {
	Term   string
	Weight int
}

// Table is a keyword dictionary for one dimension. Terms are lowercase.
type Table []Keyword

func positive(weight int, terms ...string) Table {
	t := make(Table, 0, len(terms))
	for _, term := range terms {
		t = append(t, Keyword{Term: term, Weight: weight})
	}
	return t
}

func negative(weight int, terms ...string) Table {
	return positive(-weight, terms...)
}

func join(tables ...Table) Table {
	var out Table
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}

// Terms shared by every dimension.
var (
	commonPositive = positive(10, "优秀", "强劲", "看涨", "买入", "上涨", "增长", "超预期", "积极", "利好",
		"strong", "bullish", "buy", "growth", "outperform")
	commonNegative = negative(10, "疲软", "看跌", "卖出", "下跌", "风险", "担忧", "不及预期", "消极", "利空",
		"weak", "bearish", "sell", "underperform", "concern")
)

// DefaultTables holds the positive and negative dictionaries per dimension.
var DefaultTables = map[types.Dimension]Table{
	types.DimensionFundamental: join(commonPositive, commonNegative,
		positive(10, "低估", "稳健", "盈利能力强", "现金流充裕", "undervalued", "profitable", "beat estimates"),
		negative(10, "高估", "亏损", "负债率高", "下滑", "overvalued", "net loss", "missed estimates"),
	),
	types.DimensionTechnical: join(commonPositive, commonNegative,
		positive(10, "金叉", "突破", "多头排列", "超卖", "golden cross", "breakout", "uptrend", "oversold"),
		negative(10, "死叉", "跌破", "空头排列", "超买", "death cross", "breakdown", "downtrend", "overbought"),
	),
	types.DimensionSentiment: join(commonPositive, commonNegative,
		positive(10, "乐观", "看好", "上调", "热捧", "optimistic", "upgrade", "positive"),
		negative(10, "悲观", "看空", "下调", "抛售", "pessimistic", "downgrade", "negative"),
	),
}
