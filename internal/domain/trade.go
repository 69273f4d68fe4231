package domain

// TradeSide 交易方向
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// IsValid 验证交易方向
func (s TradeSide) IsValid() bool {
	return s == SideBuy || s == SideSell
}
