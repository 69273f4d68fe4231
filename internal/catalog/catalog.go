package catalog

import (
	"strings"
	"sync"

	"github.com/Satyam78612/fluxor/internal/domain"
	"github.com/Satyam78612/fluxor/pkg/logger"
)

// ChangeKind 目录变更类型
type ChangeKind string

const (
	ChangeLoaded    ChangeKind = "loaded"    // 基础列表载入
	ChangePrices    ChangeKind = "prices"    // 一批价格合并完成
	ChangeFavorites ChangeKind = "favorites" // 收藏标记翻转
)

// ChangeEvent 目录变更事件（订阅通道的载荷）
type ChangeEvent struct {
	Kind ChangeKind
	IDs  []string // 受影响的代币 id（Loaded 时为空）
}

// FavoriteStore 收藏持久化协作者
type FavoriteStore interface {
	Load() (map[string]bool, error)
	Save(map[string]bool) error
}

// Catalog 代币目录：进程内唯一的可变代币集合。
// 写入方（价格同步、地址搜索）把变更合并进来，订阅方收到事件后整体重算派生视图。
// 所有读取返回副本，调用方不会拿到内部指针。
type Catalog struct {
	mu        sync.RWMutex
	tokens    map[string]*domain.Token
	order     []string // 载入顺序，派生视图同分时按此顺序稳定排序
	favorites map[string]bool
	favStore  FavoriteStore
	saveMu    sync.Mutex // 串行化收藏保存，保证落盘顺序和内存状态一致

	subMu sync.Mutex
	subs  []chan ChangeEvent
}

// New 创建目录并从持久化层恢复收藏集合。
// 收藏加载失败只降级为空集合，不阻塞启动。
func New(favStore FavoriteStore) *Catalog {
	c := &Catalog{
		tokens:    make(map[string]*domain.Token),
		favorites: make(map[string]bool),
		favStore:  favStore,
	}
	if favStore != nil {
		if favs, err := favStore.Load(); err != nil {
			logger.Warnf("加载收藏集合失败: %v", err)
		} else {
			c.favorites = favs
		}
	}
	return c
}

// Load 用基础列表整体替换目录内容（冷启动时调用一次）。
// 已恢复的收藏标记会套用到新列表上。
func (c *Catalog) Load(tokens []domain.Token) {
	c.mu.Lock()
	c.tokens = make(map[string]*domain.Token, len(tokens))
	c.order = make([]string, 0, len(tokens))
	for i := range tokens {
		t := tokens[i]
		if !t.IsValid() {
			logger.Warnf("跳过无效代币记录: id=%q symbol=%q", t.ID, t.Symbol)
			continue
		}
		if _, exists := c.tokens[t.ID]; exists {
			continue
		}
		t.IsFavorite = c.favorites[t.ID]
		c.tokens[t.ID] = &t
		c.order = append(c.order, t.ID)
	}
	count := len(c.order)
	c.mu.Unlock()

	logger.Infof("目录已载入 %d 个代币", count)
	c.publish(ChangeEvent{Kind: ChangeLoaded})
}

// ApplyPriceUpdate 合并一条价格更新。
// 只有价格或涨跌幅和已存储值不同才算变更；未知 id 为 no-op。
// 不触发事件：批量合并由调用方在批次结束后统一 NotifyPriceChanges。
func (c *Catalog) ApplyPriceUpdate(id string, price, change float64) (changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tokens[id]
	if !ok {
		return false
	}
	if t.Price == price && t.ChangePercent == change {
		return false
	}
	t.Price = price
	t.ChangePercent = change
	return true
}

// NotifyPriceChanges 宣告一批价格合并完成，触发订阅方重算
func (c *Catalog) NotifyPriceChanges(ids []string) {
	if len(ids) == 0 {
		return
	}
	c.publish(ChangeEvent{Kind: ChangePrices, IDs: ids})
}

// ToggleFavorite 翻转收藏标记（未知 id 为 no-op）。
// 翻转后立即保存收藏集合；连续翻转两次回到原始状态。
func (c *Catalog) ToggleFavorite(id string) {
	c.mu.Lock()
	t, ok := c.tokens[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	if c.favorites[id] {
		delete(c.favorites, id)
		t.IsFavorite = false
	} else {
		c.favorites[id] = true
		t.IsFavorite = true
	}
	c.mu.Unlock()

	// 快照在拿到 saveMu 之后再取：并发翻转时后保存的一定是更新的集合
	if c.favStore != nil {
		c.saveMu.Lock()
		c.mu.RLock()
		snapshot := c.copyFavoritesLocked()
		c.mu.RUnlock()
		if err := c.favStore.Save(snapshot); err != nil {
			logger.Errorf("保存收藏集合失败: %v", err)
		}
		c.saveMu.Unlock()
	}
	c.publish(ChangeEvent{Kind: ChangeFavorites, IDs: []string{id}})
}

// Get 按 id 查询（返回副本）
func (c *Catalog) Get(id string) (domain.Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tokens[id]
	if !ok {
		return domain.Token{}, false
	}
	return *t, true
}

// All 返回目录快照（载入顺序）
func (c *Catalog) All() []domain.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Token, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.tokens[id])
	}
	return out
}

// ByPredicate 按条件筛选（载入顺序）
func (c *Catalog) ByPredicate(fn func(domain.Token) bool) []domain.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.Token
	for _, id := range c.order {
		if fn(*c.tokens[id]) {
			out = append(out, *c.tokens[id])
		}
	}
	return out
}

// ByCategory 按市场分类筛选（符号匹配）
func (c *Catalog) ByCategory(cat domain.Category) []domain.Token {
	symbols, ok := domain.CategorySymbols[cat]
	if !ok {
		return nil
	}
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		set[s] = true
	}
	return c.ByPredicate(func(t domain.Token) bool {
		return set[strings.ToUpper(t.Symbol)]
	})
}

// IDs 返回当前全部代币 id（载入顺序）
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// FavoriteIDs 返回收藏 id 集合的副本
func (c *Catalog) FavoriteIDs() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyFavoritesLocked()
}

// Size 目录大小
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}

// Subscribe 订阅目录变更事件。
// 通道带缓冲；订阅方消费过慢时事件被丢弃（订阅方总是整体重算，丢事件无害）。
func (c *Catalog) Subscribe() <-chan ChangeEvent {
	ch := make(chan ChangeEvent, 16)
	c.subMu.Lock()
	c.subs = append(c.subs, ch)
	c.subMu.Unlock()
	return ch
}

// publish 向所有订阅者广播（非阻塞）
func (c *Catalog) publish(ev ChangeEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (c *Catalog) copyFavoritesLocked() map[string]bool {
	out := make(map[string]bool, len(c.favorites))
	for id := range c.favorites {
		out[id] = true
	}
	return out
}
