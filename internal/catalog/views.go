package catalog

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Satyam78612/fluxor/internal/domain"
	"github.com/Satyam78612/fluxor/pkg/logger"
)

// trendingLimit 热门榜最大长度
const trendingLimit = 10

// Recompute 从目录快照整体重算派生视图（纯函数）。
// favorites 保持快照顺序；trending 按涨跌幅绝对值降序取前 10；
// gainers 只含上涨的、按涨跌幅降序；losers 只含下跌的、按涨跌幅升序。
// 排序使用稳定排序，同分时保持快照顺序。
func Recompute(tokens []domain.Token, favoriteIDs map[string]bool) domain.DerivedViews {
	views := domain.DerivedViews{}

	for _, t := range tokens {
		if favoriteIDs[t.ID] {
			views.Favorites = append(views.Favorites, t)
		}
	}

	trending := make([]domain.Token, len(tokens))
	copy(trending, tokens)
	sort.SliceStable(trending, func(i, j int) bool {
		return math.Abs(trending[i].ChangePercent) > math.Abs(trending[j].ChangePercent)
	})
	if len(trending) > trendingLimit {
		trending = trending[:trendingLimit]
	}
	views.Trending = trending

	var gainers []domain.Token
	for _, t := range tokens {
		if t.ChangePercent > 0 {
			gainers = append(gainers, t)
		}
	}
	sort.SliceStable(gainers, func(i, j int) bool {
		return gainers[i].ChangePercent > gainers[j].ChangePercent
	})
	views.Gainers = gainers

	var losers []domain.Token
	for _, t := range tokens {
		if t.ChangePercent < 0 {
			losers = append(losers, t)
		}
	}
	sort.SliceStable(losers, func(i, j int) bool {
		return losers[i].ChangePercent < losers[j].ChangePercent
	})
	views.Losers = losers

	return views
}

// Views 派生视图的物化器：订阅目录变更事件，每次事件后整体重算并缓存结果。
// 读取方拿到的始终是最近一次重算的快照。
type Views struct {
	catalog *Catalog

	mu      sync.RWMutex
	current domain.DerivedViews

	cancel context.CancelFunc
	done   chan struct{}
}

// NewViews 创建物化器并做一次初始重算
func NewViews(c *Catalog) *Views {
	v := &Views{catalog: c}
	v.RecomputeNow()
	return v
}

// Start 启动事件循环。重复调用为 no-op。
func (v *Views) Start(ctx context.Context) {
	if v.cancel != nil {
		return
	}
	ctx, v.cancel = context.WithCancel(ctx)
	v.done = make(chan struct{})
	events := v.catalog.Subscribe()

	go func() {
		defer close(v.done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				v.RecomputeNow()
				logger.Debugf("派生视图已重算: kind=%s ids=%d", ev.Kind, len(ev.IDs))
			}
		}
	}()
}

// Stop 停止事件循环并等待退出
func (v *Views) Stop() {
	if v.cancel == nil {
		return
	}
	v.cancel()
	<-v.done
	v.cancel = nil
}

// RecomputeNow 立即从目录快照重算
func (v *Views) RecomputeNow() {
	views := Recompute(v.catalog.All(), v.catalog.FavoriteIDs())
	v.mu.Lock()
	v.current = views
	v.mu.Unlock()
}

// Snapshot 返回最近一次重算结果
func (v *Views) Snapshot() domain.DerivedViews {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}
