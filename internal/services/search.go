package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Satyam78612/fluxor/internal/catalog"
	"github.com/Satyam78612/fluxor/internal/domain"
	"github.com/Satyam78612/fluxor/pkg/api"
	"github.com/Satyam78612/fluxor/pkg/cache"
	"github.com/Satyam78612/fluxor/pkg/logger"
)

// searchCacheTTL 已解析地址的缓存时长
const searchCacheTTL = 5 * time.Minute

// SearchResolver 地址搜索解析器。
// 每次输入重启防抖计时器；计时器触发后最新请求胜出：
// 发起请求前后都用单调递增的序号和当前文本做双重过期检查，
// 过期的响应直接丢弃，不会覆盖更新的结果。
type SearchResolver struct {
	client   *api.Client
	catalog  *catalog.Catalog
	debounce time.Duration
	cache    *cache.InMemoryCache[string, domain.Token]

	latest atomic.Uint64

	mu            sync.Mutex
	text          string
	timer         *time.Timer
	inFlight      context.CancelFunc
	inFlightToken uint64
	pinned        *domain.Token
	loading       bool
}

// NewSearchResolver 创建搜索解析器
func NewSearchResolver(client *api.Client, cat *catalog.Catalog, debounce time.Duration) *SearchResolver {
	if debounce <= 0 {
		debounce = 600 * time.Millisecond
	}
	return &SearchResolver{
		client:   client,
		catalog:  cat,
		debounce: debounce,
		cache:    cache.NewInMemoryCache[string, domain.Token](searchCacheTTL),
	}
}

// Input 接收一次搜索输入。
// 空文本立即清除置顶结果；长度不足 2 不触发搜索；
// 其余情况重启防抖计时器，窗口内的旧请求作废。
func (s *SearchResolver) Input(text string) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.stopPendingLocked()

	if text == "" {
		s.pinned = nil
		s.loading = false
		return
	}
	if len(text) <= 1 {
		s.loading = false
		return
	}

	s.loading = true
	token := s.latest.Add(1)
	s.timer = time.AfterFunc(s.debounce, func() {
		s.resolve(token, text)
	})
}

// Pinned 返回当前置顶的搜索结果
func (s *SearchResolver) Pinned() (domain.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinned == nil {
		return domain.Token{}, false
	}
	return *s.pinned, true
}

// Loading 是否有搜索在途
func (s *SearchResolver) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Stop 取消待触发的计时器和在途请求
func (s *SearchResolver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPendingLocked()
	s.loading = false
}

// stopPendingLocked 停掉计时器并取消在途请求（调用方持锁）
func (s *SearchResolver) stopPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.inFlight != nil {
		s.inFlight()
		s.inFlight = nil
	}
}

// stale 检查序号和文本是否仍是最新
func (s *SearchResolver) stale(token uint64, text string) bool {
	if token != s.latest.Load() {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text != text
}

// resolve 防抖窗口结束后执行实际解析
func (s *SearchResolver) resolve(token uint64, text string) {
	if s.stale(token, text) {
		return
	}

	cacheKey := strings.ToLower(text)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.apply(token, text, cached)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.inFlight = cancel
	s.inFlightToken = token
	s.mu.Unlock()

	resp, err := s.client.SearchToken(ctx, text)
	cancel()

	// 只清理自己登记的句柄，避免抹掉更新请求的取消入口
	s.mu.Lock()
	if s.inFlightToken == token {
		s.inFlight = nil
	}
	s.mu.Unlock()

	if s.stale(token, text) {
		return
	}
	if err != nil {
		logger.Warnf("地址搜索失败: address=%s err=%v", text, err)
		s.mu.Lock()
		s.pinned = nil
		s.loading = false
		s.mu.Unlock()
		return
	}

	result := tokenFromSearch(resp, text)
	s.cache.Set(cacheKey, result, 0)
	s.apply(token, text, result)
}

// apply 把解析结果落地：
// 已知 id 只合并价格并置顶目录里的那一条；新 id 作为置顶结果展示，不进目录。
// 写入 pinned 前在同一把锁里再做一次过期检查，
// 防止检查和写入之间有新输入进来时被旧结果覆盖。
func (s *SearchResolver) apply(token uint64, text string, result domain.Token) {
	if s.stale(token, text) {
		return
	}

	if existing, ok := s.catalog.Get(result.ID); ok {
		if s.catalog.ApplyPriceUpdate(result.ID, result.Price, result.ChangePercent) {
			s.catalog.NotifyPriceChanges([]string{result.ID})
		}
		merged, _ := s.catalog.Get(existing.ID)
		result = merged
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.latest.Load() || s.text != text {
		return
	}
	s.pinned = &result
	s.loading = false
}

// tokenFromSearch 把搜索响应映射成领域模型（缺失字段按文档回退）
func tokenFromSearch(resp *api.SearchTokenResponse, address string) domain.Token {
	t := domain.Token{
		ID:     resp.ID,
		Name:   resp.Name,
		Symbol: resp.Symbol,
		Logo:   resp.ImageName,
	}
	if t.ID == "" {
		t.ID = strings.ToLower(address)
	}
	if t.Name == "" {
		t.Name = "Unknown"
	}
	if t.Symbol == "" {
		t.Symbol = "UNK"
	}
	if t.Logo == "" {
		t.Logo = "questionmark.circle"
	}
	if resp.Price != nil {
		t.Price = *resp.Price
	}
	if resp.ChangePercent != nil {
		t.ChangePercent = *resp.ChangePercent
	}

	addr := resp.ContractAddress
	if addr == "" {
		addr = address
	}
	dep := domain.TokenDeployment{
		ChainName: "Unknown",
		Address:   addr,
		Decimals:  18,
	}
	if resp.ChainID != nil {
		dep.ChainID = *resp.ChainID
	}
	t.Deployments = []domain.TokenDeployment{dep}
	return t
}
