package shutdown

import (
	"context"
	"sync"

	"github.com/Satyam78612/fluxor/pkg/logger"
)

// Step 单个关闭步骤
type Step func(ctx context.Context) error

type entry struct {
	name string
	step Step
}

// Manager 优雅关闭管理器。
// 步骤按注册顺序的逆序依次执行（后启动的先关闭），
// 单个步骤失败只记录日志，不中断后续步骤。
type Manager struct {
	mu      sync.Mutex
	entries []entry
}

// NewManager 创建关闭管理器
func NewManager() *Manager {
	return &Manager{}
}

// Register 注册一个命名的关闭步骤
func (m *Manager) Register(name string, step Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{name: name, step: step})
}

// Run 执行所有关闭步骤（阻塞调用）。
// ctx 应带超时；超时后剩余步骤被跳过。
func (m *Manager) Run(ctx context.Context) {
	m.mu.Lock()
	entries := make([]entry, len(m.entries))
	copy(entries, m.entries)
	m.mu.Unlock()

	if len(entries) == 0 {
		return
	}
	logger.Infof("开始优雅关闭，共 %d 个步骤", len(entries))

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		select {
		case <-ctx.Done():
			logger.Warnf("关闭超时，跳过剩余 %d 个步骤: %v", i+1, ctx.Err())
			return
		default:
		}
		if err := e.step(ctx); err != nil {
			logger.Errorf("关闭步骤 %s 失败: %v", e.name, err)
		} else {
			logger.Debugf("关闭步骤 %s 已完成", e.name)
		}
	}
	logger.Info("所有关闭步骤已完成")
}
