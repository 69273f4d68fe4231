package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FetchPrices 批量获取代币价格。
// 请求携带逗号拼接的 id 列表；响应是 id -> 价格信息的映射。
func (c *Client) FetchPrices(ctx context.Context, ids []string) (map[string]TokenPriceInfo, error) {
	if len(ids) == 0 {
		return map[string]TokenPriceInfo{}, nil
	}

	var out map[string]TokenPriceInfo
	err := c.GetJSON(ctx, "/api/portfolio/prices", map[string]string{
		"ids": strings.Join(ids, ","),
	}, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "fetch prices")
	}
	return out, nil
}

// SearchToken 按合约地址搜索代币
func (c *Client) SearchToken(ctx context.Context, address string) (*SearchTokenResponse, error) {
	var out SearchTokenResponse
	err := c.GetJSON(ctx, "/api/search", map[string]string{
		"address": address,
	}, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "search token")
	}
	return &out, nil
}

// FetchFearGreed 获取最新恐惧贪婪指数（0-100）。
// value 在响应中是字符串，解析失败视为解码错误。
func (c *Client) FetchFearGreed(ctx context.Context) (float64, error) {
	var out FearGreedResponse
	err := c.GetJSON(ctx, "/fng/", map[string]string{"limit": "1"}, nil, &out)
	if err != nil {
		return 0, errors.Wrap(err, "fetch fear/greed")
	}
	if len(out.Data) == 0 {
		return 0, &DecodeError{Err: errors.New("empty fng data")}
	}
	score, perr := strconv.ParseFloat(out.Data[0].Value, 64)
	if perr != nil {
		return 0, &DecodeError{Err: perr}
	}
	return score, nil
}

// FetchDominance 获取 BTC/ETH 市值主导率（需要 CMC API Key）
func (c *Client) FetchDominance(ctx context.Context, apiKey string) (btc, eth float64, err error) {
	var out DominanceResponse
	err = c.GetJSON(ctx, "/v1/global-metrics/quotes/latest", nil, map[string]string{
		"X-CMC_PRO_API_KEY": apiKey,
	}, &out)
	if err != nil {
		return 0, 0, errors.Wrap(err, "fetch dominance")
	}
	return out.Data.BTCDominance, out.Data.ETHDominance, nil
}
