package services

import (
	"context"
	"sync"
	"time"

	"github.com/Satyam78612/fluxor/internal/domain"
	"github.com/Satyam78612/fluxor/pkg/api"
	"github.com/Satyam78612/fluxor/pkg/logger"
)

// MetricsSync 市场情绪指标同步服务（恐惧贪婪指数 + BTC/ETH 主导率）。
// 两个来源相互独立：任一来源失败只保留上一次的值，不影响另一个。
type MetricsSync struct {
	fngClient *api.Client
	cmcClient *api.Client
	cmcAPIKey string
	interval  time.Duration

	mu      sync.RWMutex
	current domain.MarketMetrics

	lifeMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMetricsSync 创建指标同步服务
func NewMetricsSync(fngClient, cmcClient *api.Client, cmcAPIKey string, interval time.Duration) *MetricsSync {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MetricsSync{
		fngClient: fngClient,
		cmcClient: cmcClient,
		cmcAPIKey: cmcAPIKey,
		interval:  interval,
		current:   domain.DefaultMarketMetrics(),
	}
}

// Current 返回最近一次成功同步的指标
func (s *MetricsSync) Current() domain.MarketMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Start 启动同步循环。重复调用为 no-op。
func (s *MetricsSync) Start(ctx context.Context) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)
	logger.Infof("情绪指标同步服务已启动: interval=%s", s.interval)
}

// Stop 停止同步循环并等待退出
func (s *MetricsSync) Stop() {
	s.lifeMu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.lifeMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logger.Info("情绪指标同步服务已停止")
}

func (s *MetricsSync) loop(ctx context.Context) {
	defer close(s.done)

	s.RefreshOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce 拉取一轮指标，失败的来源保留旧值
func (s *MetricsSync) RefreshOnce(ctx context.Context) {
	if score, err := s.fngClient.FetchFearGreed(ctx); err != nil {
		logger.Warnf("恐惧贪婪指数刷新失败: %v", err)
	} else {
		s.mu.Lock()
		s.current.FearGreedScore = score
		s.mu.Unlock()
	}

	if s.cmcAPIKey == "" {
		return
	}
	if btc, eth, err := s.cmcClient.FetchDominance(ctx, s.cmcAPIKey); err != nil {
		logger.Warnf("市值主导率刷新失败: %v", err)
	} else {
		s.mu.Lock()
		s.current.BTCDominance = btc
		s.current.ETHDominance = eth
		s.mu.Unlock()
	}
}
