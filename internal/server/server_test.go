package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Satyam78612/fluxor/internal/catalog"
	"github.com/Satyam78612/fluxor/internal/domain"
	"github.com/Satyam78612/fluxor/internal/services"
	"github.com/Satyam78612/fluxor/pkg/api"
)

func newTestServer() (*Server, *catalog.Catalog) {
	cat := catalog.New(nil)
	cat.Load([]domain.Token{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Price: 65000, ChangePercent: 2.5},
		{ID: "ethereum", Name: "Ethereum", Symbol: "ETH", Price: 3200, ChangePercent: -1.2},
		{ID: "dogecoin", Name: "Dogecoin", Symbol: "DOGE", Price: 0.1, ChangePercent: 9.9},
	})
	views := catalog.NewViews(cat)
	metrics := services.NewMetricsSync(api.NewClient("http://unused"), api.NewClient("http://unused"), "", time.Hour)
	resolver := services.NewSearchResolver(api.NewClient("http://unused"), cat, time.Hour)
	return New(cat, views, metrics, resolver), cat
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer()
	w := doRequest(t, srv, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Errorf("code = %d", w.Code)
	}
}

func TestTokensList(t *testing.T) {
	srv, _ := newTestServer()
	w := doRequest(t, srv, http.MethodGet, "/api/tokens", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}

	var resp struct {
		Tokens []domain.Token `json:"tokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Tokens) != 3 {
		t.Errorf("len = %d, want 3", len(resp.Tokens))
	}
}

func TestTokensListByCategory(t *testing.T) {
	srv, _ := newTestServer()
	w := doRequest(t, srv, http.MethodGet, "/api/tokens?category=meme", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var resp struct {
		Tokens []domain.Token `json:"tokens"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Tokens) != 1 || resp.Tokens[0].ID != "dogecoin" {
		t.Errorf("tokens = %+v", resp.Tokens)
	}

	if w := doRequest(t, srv, http.MethodGet, "/api/tokens?category=nope", ""); w.Code != http.StatusBadRequest {
		t.Errorf("未知分类应返回 400, got %d", w.Code)
	}
}

func TestTokensListByCategoryNoMatches(t *testing.T) {
	srv, _ := newTestServer()
	// ai 是有效分类，但测试目录里没有对应符号
	w := doRequest(t, srv, http.MethodGet, "/api/tokens?category=ai", "")
	if w.Code != http.StatusOK {
		t.Fatalf("有效分类无匹配应返回 200, got %d", w.Code)
	}
	var resp struct {
		Tokens []domain.Token `json:"tokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Tokens == nil || len(resp.Tokens) != 0 {
		t.Errorf("应返回空列表而不是 null: %s", w.Body.String())
	}
}

func TestTokenGetNotFound(t *testing.T) {
	srv, _ := newTestServer()
	if w := doRequest(t, srv, http.MethodGet, "/api/tokens/unknown", ""); w.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", w.Code)
	}
}

func TestFavoriteToggle(t *testing.T) {
	srv, cat := newTestServer()

	w := doRequest(t, srv, http.MethodPost, "/api/tokens/bitcoin/favorite", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	tok, _ := cat.Get("bitcoin")
	if !tok.IsFavorite {
		t.Error("翻转后应为收藏")
	}

	if w := doRequest(t, srv, http.MethodPost, "/api/tokens/unknown/favorite", ""); w.Code != http.StatusNotFound {
		t.Errorf("未知 id 应返回 404, got %d", w.Code)
	}
}

func TestViewsEndpoint(t *testing.T) {
	srv, _ := newTestServer()
	w := doRequest(t, srv, http.MethodGet, "/api/views", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var resp struct {
		Trending []domain.Token `json:"trending"`
		Gainers  []domain.Token `json:"gainers"`
		Losers   []domain.Token `json:"losers"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Trending) != 3 || resp.Trending[0].ID != "dogecoin" {
		t.Errorf("trending = %+v", resp.Trending)
	}
	if resp.Losers[0].ID != "ethereum" {
		t.Errorf("losers[0] = %s", resp.Losers[0].ID)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer()
	w := doRequest(t, srv, http.MethodGet, "/api/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var m domain.MarketMetrics
	json.Unmarshal(w.Body.Bytes(), &m)
	if m.FearGreedScore != 50 {
		t.Errorf("默认分数 = %v, want 50", m.FearGreedScore)
	}
}

func TestQuoteEndpoint(t *testing.T) {
	srv, _ := newTestServer()

	w := doRequest(t, srv, http.MethodPost, "/api/quote", `{"side":"buy","amount":250,"price":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var resp struct {
		Result float64 `json:"result"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Result != 2.5 {
		t.Errorf("result = %v, want 2.5", resp.Result)
	}

	if w := doRequest(t, srv, http.MethodPost, "/api/quote", `{"side":"hold","amount":1,"price":1}`); w.Code != http.StatusBadRequest {
		t.Errorf("非法方向应返回 400, got %d", w.Code)
	}
}

func TestSearchEndpoints(t *testing.T) {
	srv, _ := newTestServer()

	if w := doRequest(t, srv, http.MethodPost, "/api/search", `{"text":"0xabc"}`); w.Code != http.StatusAccepted {
		t.Errorf("code = %d, want 202", w.Code)
	}

	w := doRequest(t, srv, http.MethodGet, "/api/search", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["loading"] != true {
		t.Errorf("防抖窗口内应处于 loading: %+v", resp)
	}

	if w := doRequest(t, srv, http.MethodPost, "/api/search", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("非法请求体应返回 400, got %d", w.Code)
	}
}
