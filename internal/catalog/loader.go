package catalog

import (
	"encoding/json"
	"os"

	"github.com/Satyam78612/fluxor/internal/domain"
	"github.com/pkg/errors"
)

// LoadBaseList 从 JSON 文件读取基础代币列表。
// 列表只含静态元数据，价格和涨跌幅由首次同步填充。
func LoadBaseList(path string) ([]domain.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read base token list")
	}
	var tokens []domain.Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, errors.Wrap(err, "decode base token list")
	}
	return tokens, nil
}
