package emitter

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lk2023060901/packet-garden-go/internal/packets"
	"github.com/lk2023060901/packet-garden-go/pkg/log"
	"github.com/lk2023060901/packet-garden-go/pkg/metrics"
	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
	"github.com/lk2023060901/packet-garden-go/pkg/util/typeutil"
)

// Manager 维护当前所有在线发送器的索引。
//
// 职责说明：
//   - 只负责发送器的注册、查询和移除，不直接创建或关闭底层连接；
//   - 发送器的具体生命周期（何时创建/关闭）由上层调用方决定；
//   - 业务层可以基于 Manager 实现广播、按 ID 定向发送等能力。
type Manager struct {
	log.Binder

	mu       sync.RWMutex
	emitters map[uint64]*Emitter
}

// NewManager 创建一个空的 Manager。
func NewManager() *Manager {
	m := &Manager{
		emitters: make(map[uint64]*Emitter),
	}
	m.SetLogger(log.With(log.FieldComponent("emitter-manager")))
	return m
}

// Register 将一个已创建好的发送器注册到管理器中。
//
// 要求 e.ID() 全局唯一；存在相同 ID 时返回错误，避免覆盖旧发送器。
func (m *Manager) Register(e *Emitter) error {
	if e == nil {
		return nil
	}
	id := e.ID()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emitters[id]; exists {
		return merr.WrapErrEmitterDuplicate(id)
	}
	m.emitters[id] = e

	metrics.EmittersActive.Set(float64(len(m.emitters)))
	m.Logger().Info("emitter registered", zap.Uint64("emitter", id))
	return nil
}

// Get 根据 ID 查找发送器。
func (m *Manager) Get(id uint64) (*Emitter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.emitters[id]
	return e, ok
}

// Unregister 从管理器中移除指定 ID 的发送器。
//
// 说明：
//   - 仅删除索引，不负责调用 e.Close()；
//   - 一般在发送器关闭后，由上层组件调用 Unregister 做清理。
func (m *Manager) Unregister(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emitters[id]; !exists {
		return merr.WrapErrEmitterNotFound(id)
	}
	delete(m.emitters, id)

	metrics.EmittersActive.Set(float64(len(m.emitters)))
	return nil
}

// Range 遍历当前所有在线发送器。
//
// 遍历前复制一份快照，避免在持锁情况下执行用户回调；
// 当 fn 返回 false 时，中断遍历。
func (m *Manager) Range(fn func(e *Emitter) bool) {
	if fn == nil {
		return
	}

	for _, e := range m.snapshot() {
		if !fn(e) {
			return
		}
	}
}

// Count 返回当前已注册的发送器数量。
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.emitters)
}

// Broadcast 将同一报文投递到除 except 之外的所有发送器。
//
// 返回各发送器投递失败的聚合错误；单个发送器失败不影响其它发送器。
func (m *Manager) Broadcast(b packets.Builder, except ...uint64) error {
	excluded := typeutil.NewSet(except...)

	var errs []error
	for _, e := range m.snapshot() {
		if excluded.Contain(e.ID()) {
			continue
		}
		if err := e.Send(b); err != nil {
			errs = append(errs, err)
		}
	}
	return merr.Combine(errs...)
}

// CloseAll 并发关闭所有发送器并清空索引。
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	emitters := m.emitters
	m.emitters = make(map[uint64]*Emitter)
	m.mu.Unlock()

	var group errgroup.Group
	for _, e := range emitters {
		group.Go(e.Close)
	}
	err := group.Wait()

	metrics.EmittersActive.Set(0)
	m.Logger().Info("all emitters closed", zap.Int("count", len(emitters)), zap.Error(err))
	return err
}

func (m *Manager) snapshot() []*Emitter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Emitter, 0, len(m.emitters))
	for _, e := range m.emitters {
		out = append(out, e)
	}
	return out
}
