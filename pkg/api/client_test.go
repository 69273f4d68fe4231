package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "bitcoin,ethereum" {
			t.Errorf("ids = %s", r.URL.Query().Get("ids"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":65000,"usd_24h_change":2.5},"ethereum":{"usd":3200}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	prices, err := c.FetchPrices(context.Background(), []string{"bitcoin", "ethereum"})
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 2 {
		t.Fatalf("len = %d", len(prices))
	}
	btc := prices["bitcoin"]
	if btc.USD == nil || *btc.USD != 65000 {
		t.Errorf("btc.USD = %v", btc.USD)
	}
	eth := prices["ethereum"]
	if eth.USD24hChange != nil {
		t.Error("缺失字段应解析为 nil")
	}
}

func TestFetchPricesEmptyIDs(t *testing.T) {
	c := NewClient("http://unused")
	prices, err := c.FetchPrices(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 0 {
		t.Errorf("空 id 列表应直接返回空映射: %v", prices)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("network", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1") // 端口不可达
		_, err := c.FetchPrices(context.Background(), []string{"x"})
		if !IsNetworkError(err) {
			t.Errorf("应为网络错误: %v", err)
		}
	})

	t.Run("http status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		_, err := c.FetchPrices(context.Background(), []string{"x"})
		if !IsHTTPStatusError(err) {
			t.Fatalf("应为状态码错误: %v", err)
		}
		var httpErr *HTTPStatusError
		if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusTooManyRequests {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("decode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		_, err := c.FetchPrices(context.Background(), []string{"x"})
		if !IsDecodeError(err) {
			t.Errorf("应为解码错误: %v", err)
		}
	})
}

func TestFetchFearGreedParsesStringValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Fear and Greed Index","data":[{"value":"63","value_classification":"Greed"}]}`))
	}))
	defer srv.Close()

	score, err := NewClient(srv.URL).FetchFearGreed(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if score != 63 {
		t.Errorf("score = %v, want 63", score)
	}
}

func TestFetchFearGreedBadValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"fng","data":[{"value":"not-a-number"}]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchFearGreed(context.Background())
	if !IsDecodeError(err) {
		t.Errorf("非数字 value 应为解码错误: %v", err)
	}
}

func TestFetchDominanceSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CMC_PRO_API_KEY") != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"btc_dominance":52.1,"eth_dominance":18.4}}`))
	}))
	defer srv.Close()

	btc, eth, err := NewClient(srv.URL).FetchDominance(context.Background(), "secret")
	if err != nil {
		t.Fatal(err)
	}
	if btc != 52.1 || eth != 18.4 {
		t.Errorf("dominance = %v/%v", btc, eth)
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchPrices(ctx, []string{"x"})
	if err == nil {
		t.Fatal("已取消的 context 应返回错误")
	}
}
