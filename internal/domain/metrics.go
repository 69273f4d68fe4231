package domain

// MarketMetrics 市场情绪与主导率指标。
// 拉取失败时保留上一次的值，不回退为零。
type MarketMetrics struct {
	FearGreedScore float64 `json:"fearGreedScore"` // 恐惧贪婪指数 0-100，默认 50
	BTCDominance   float64 `json:"btcDominance"`   // BTC 市值占比（%）
	ETHDominance   float64 `json:"ethDominance"`   // ETH 市值占比（%）
}

// DefaultMarketMetrics 冷启动默认值
func DefaultMarketMetrics() MarketMetrics {
	return MarketMetrics{FearGreedScore: 50}
}
