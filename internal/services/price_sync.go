package services

import (
	"context"
	"sync"
	"time"

	"github.com/Satyam78612/fluxor/internal/catalog"
	"github.com/Satyam78612/fluxor/pkg/api"
	"github.com/Satyam78612/fluxor/pkg/logger"
)

// PriceSync 周期性价格同步服务。
// 启动后立即刷新一次，之后按固定间隔刷新；失败只记录日志，
// 下一个周期照常到来（固定周期本身就是重试机制，不做指数退避）。
type PriceSync struct {
	client   *api.Client
	catalog  *catalog.Catalog
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPriceSync 创建价格同步服务
func NewPriceSync(client *api.Client, cat *catalog.Catalog, interval time.Duration) *PriceSync {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &PriceSync{
		client:   client,
		catalog:  cat,
		interval: interval,
	}
}

// Start 启动同步循环。重复调用为 no-op。
func (s *PriceSync) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)
	logger.Infof("价格同步服务已启动: interval=%s", s.interval)
}

// Stop 停止同步循环并等待退出
func (s *PriceSync) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logger.Info("价格同步服务已停止")
}

func (s *PriceSync) loop(ctx context.Context) {
	defer close(s.done)

	// 启动后立即刷新一次
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

// RefreshOnce 执行一轮刷新：拉取全部目录代币的价格并合并。
// 只有实际发生变化的条目才计入变更；一条都没变则不广播事件。
func (s *PriceSync) RefreshOnce(ctx context.Context) {
	ids := s.catalog.IDs()
	if len(ids) == 0 {
		return
	}

	prices, err := s.client.FetchPrices(ctx, ids)
	if err != nil {
		logger.Warnf("价格刷新失败: %v", err)
		return
	}

	var changed []string
	for id, info := range prices {
		stored, ok := s.catalog.Get(id)
		if !ok {
			continue
		}
		// 缺失字段回退到已存储的值
		price := stored.Price
		if info.USD != nil {
			price = *info.USD
		}
		change := stored.ChangePercent
		if info.USD24hChange != nil {
			change = *info.USD24hChange
		}
		if s.catalog.ApplyPriceUpdate(id, price, change) {
			changed = append(changed, id)
		}
	}

	if len(changed) > 0 {
		s.catalog.NotifyPriceChanges(changed)
		logger.Debugf("价格刷新完成: %d/%d 条变更", len(changed), len(ids))
	}
}
