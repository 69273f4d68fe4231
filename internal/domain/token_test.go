package domain

import "testing"

func TestContractAddress(t *testing.T) {
	tests := []struct {
		name  string
		token Token
		want  string
	}{
		{
			name:  "native identifier 优先",
			token: Token{NativeIdentifier: "bitcoin"},
			want:  "bitcoin",
		},
		{
			name: "全零地址回退到部署地址",
			token: Token{
				NativeIdentifier: ZeroAddress,
				Deployments:      []TokenDeployment{{Address: "0xabc"}},
			},
			want: "0xabc",
		},
		{
			name:  "没有任何地址",
			token: Token{},
			want:  "",
		},
		{
			name: "没有 native identifier 时取第一条部署",
			token: Token{
				Deployments: []TokenDeployment{{Address: "0x111"}, {Address: "0x222"}},
			},
			want: "0x111",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.ContractAddress(); got != tt.want {
				t.Errorf("ContractAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsNative(t *testing.T) {
	native := Token{NativeIdentifier: "solana"}
	if !native.IsNative() {
		t.Error("只有 native identifier 的代币应为原生资产")
	}
	deployed := Token{NativeIdentifier: "x", Deployments: []TokenDeployment{{Address: "0x1"}}}
	if deployed.IsNative() {
		t.Error("有链上部署的代币不是原生资产")
	}
}

func TestTokenIsValid(t *testing.T) {
	if !(&Token{ID: "a", Symbol: "A"}).IsValid() {
		t.Error("完整字段应有效")
	}
	if (&Token{Symbol: "A"}).IsValid() || (&Token{ID: "a"}).IsValid() {
		t.Error("缺 id 或 symbol 应无效")
	}
}

func TestTradeSideIsValid(t *testing.T) {
	if !SideBuy.IsValid() || !SideSell.IsValid() {
		t.Error("buy/sell 应有效")
	}
	if TradeSide("hold").IsValid() {
		t.Error("未知方向应无效")
	}
}
