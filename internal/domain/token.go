package domain

// ZeroAddress 全零合约地址（EVM 链上的占位地址，不是真实部署）
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// TokenDeployment 单条链上部署信息
type TokenDeployment struct {
	ChainID      int      `json:"chainId"`
	ChainName    string   `json:"chainName"`
	LiquidityUSD *float64 `json:"liquidityUsd,omitempty"`
	Address      string   `json:"address"`
	Decimals     int      `json:"decimals"`
}

// Token 代币领域模型。
// 身份完全由 ID 决定：Price/ChangePercent/IsFavorite 原地变更，不影响身份。
type Token struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Symbol           string            `json:"symbol"`
	Logo             string            `json:"logo"`
	Deployments      []TokenDeployment `json:"deployments,omitempty"`
	NativeIdentifier string            `json:"native_identifier,omitempty"`
	Decimals         int               `json:"decimal,omitempty"`

	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
	IsFavorite    bool    `json:"isFavorite"`
}

// ContractAddress 展示用合约地址：
// 优先使用非全零的 native identifier，否则取第一条部署的地址，都没有则为空。
func (t *Token) ContractAddress() string {
	if t.NativeIdentifier != "" && t.NativeIdentifier != ZeroAddress {
		return t.NativeIdentifier
	}
	if len(t.Deployments) > 0 {
		return t.Deployments[0].Address
	}
	return ""
}

// IsNative 是否为原生资产（只有 native identifier、没有链上部署）
func (t *Token) IsNative() bool {
	return t.NativeIdentifier != "" && len(t.Deployments) == 0
}

// IsValid 验证代币基础字段是否完整
func (t *Token) IsValid() bool {
	return t.ID != "" && t.Symbol != ""
}
