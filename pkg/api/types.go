package api

// TokenPriceInfo 批量价格响应中的单条记录。
// 两个字段都可能缺失，缺失时保留已存储的值。
type TokenPriceInfo struct {
	USD          *float64 `json:"usd"`
	USD24hChange *float64 `json:"usd_24h_change"`
}

// SearchTokenResponse 地址搜索响应（所有字段都可能缺失）
type SearchTokenResponse struct {
	ID              string   `json:"id"`
	Source          string   `json:"source"`
	ChainID         *int     `json:"chainId"`
	ContractAddress string   `json:"contractAddress"`
	Name            string   `json:"name"`
	Symbol          string   `json:"symbol"`
	Price           *float64 `json:"price"`
	ChangePercent   *float64 `json:"changePercent"`
	ImageName       string   `json:"imageName"`
}

// FearGreedResponse 恐惧贪婪指数响应
type FearGreedResponse struct {
	Name string          `json:"name"`
	Data []FearGreedData `json:"data"`
}

// FearGreedData 单条指数记录（value 是字符串）
type FearGreedData struct {
	Value               string `json:"value"`
	ValueClassification string `json:"value_classification"`
	Timestamp           string `json:"timestamp"`
}

// DominanceResponse 市值主导率响应
type DominanceResponse struct {
	Data DominanceData `json:"data"`
}

// DominanceData BTC/ETH 主导率
type DominanceData struct {
	BTCDominance float64 `json:"btc_dominance"`
	ETHDominance float64 `json:"eth_dominance"`
}
