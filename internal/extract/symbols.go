package extract

// knownSymbols is the curated set of US-listed symbols the extractor accepts.
var knownSymbols = []string{
	// tech
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "META", "NVDA", "AMD", "INTC", "TSLA",
	"NFLX", "ADBE", "CRM", "ORCL", "CSCO", "IBM", "QCOM", "AVGO", "TXN", "NOW",
	// financials
	"JPM", "BAC", "WFC", "C", "GS", "MS", "BLK", "SCHW", "AXP", "V", "MA", "PYPL",
	// consumer
	"WMT", "HD", "NKE", "MCD", "SBUX", "TGT", "COST", "LOW", "DIS", "CMCSA",
	// healthcare
	"JNJ", "UNH", "PFE", "ABBV", "TMO", "ABT", "LLY", "MRK", "DHR", "BMY",
	// industrials
	"BA", "CAT", "GE", "HON", "MMM", "UPS", "FDX", "RTX", "LMT", "DE",
	// energy
	"XOM", "CVX", "COP", "SLB", "EOG", "PXD", "MPC", "PSX", "VLO", "OXY",
	// staples
	"PG", "KO", "PEP", "PM", "MO", "CL", "EL", "MDLZ", "KHC", "GIS",
	// China ADRs
	"BABA", "JD", "PDD", "NIO", "XPEV", "LI", "BILI", "IQ", "BIDU", "TME",
	// growth
	"UBER", "LYFT", "ABNB", "COIN", "SHOP", "SQ", "RBLX", "U", "SNOW", "PLTR",
	// telecom
	"T", "VZ", "TMUS", "CHTR",
	// autos
	"GM", "F", "RIVN", "LCID",
}

// companyNames maps natural-language company references to symbols. Keys are
// matched case-insensitively.
var companyNames = map[string]string{
	"苹果": "AAPL", "微软": "MSFT", "谷歌": "GOOGL", "亚马逊": "AMZN",
	"英伟达": "NVDA", "脸书": "META", "facebook": "META", "特斯拉": "TSLA",
	"阿里巴巴": "BABA", "阿里": "BABA", "京东": "JD", "拼多多": "PDD",
	"蔚来": "NIO", "小鹏": "XPEV", "理想": "LI", "奈飞": "NFLX",
	"迪士尼": "DIS", "英特尔": "INTC", "超微": "AMD", "超威": "AMD",
	"可口可乐": "KO", "百事": "PEP", "麦当劳": "MCD", "星巴克": "SBUX",
	"沃尔玛": "WMT", "耐克": "NKE", "波音": "BA", "通用": "GM", "福特": "F",
	"apple": "AAPL", "microsoft": "MSFT", "google": "GOOGL", "amazon": "AMZN",
	"nvidia": "NVDA", "tesla": "TSLA", "netflix": "NFLX", "alibaba": "BABA",
}

// stopWords are short tokens that are never symbols, even when they collide
// with one (MA is Mastercard but far more often "moving average").
var stopWords = []string{
	"THE", "AND", "OR", "IS", "ARE", "WAS", "WERE", "VS", "VERSUS",
	"PE", "PB", "ROE", "RSI", "MA", "KDJ", "MACD", "A", "I", "IN", "ON", "AT",
}
