package domain

// DerivedViews 由目录快照整体重算出的各个市场视图。
// 永远整体替换，不做增量修补。
type DerivedViews struct {
	Favorites []Token
	Trending  []Token // 按 |ChangePercent| 降序的前 10 名
	Gainers   []Token // ChangePercent > 0，降序
	Losers    []Token // ChangePercent < 0，升序（跌幅最大的在前）
}

// Category 市场分类标签
type Category string

const (
	CategoryAI   Category = "ai"
	CategoryDeFi Category = "defi"
	CategoryL1   Category = "l1"
	CategoryMeme Category = "meme"
	CategoryRWA  Category = "rwa"
)

// CategorySymbols 各分类包含的代币符号（大写）
var CategorySymbols = map[Category][]string{
	CategoryAI:   {"TAO", "RENDER", "FET", "OCEAN", "AGIX"},
	CategoryDeFi: {"AAVE", "UNI", "ENA", "MKR", "CRV", "PENDLE", "JUP"},
	CategoryL1:   {"BTC", "ETH", "SOL", "BNB", "ADA", "DOT", "AVAX", "SUI", "SEI", "APT"},
	CategoryMeme: {"DOGE", "PEPE", "SHIB", "WIF", "BONK", "FLOKI", "MEME"},
	CategoryRWA:  {"LINK", "ONDO", "RWA", "TRU", "MPL"},
}
