package log

import "go.uber.org/atomic"

var (
	_ WithLogger   = &Binder{}
	_ LoggerBinder = &Binder{}
)

// WithLogger 表示组件持有可访问的本地 Logger。
type WithLogger interface {
	Logger() *MLogger
}

// LoggerBinder 表示组件支持绑定 Logger。
type LoggerBinder interface {
	SetLogger(logger *MLogger)
}

// Binder 供组件嵌入，统一管理组件级 Logger 的绑定与读取。
type Binder struct {
	logger atomic.Pointer[MLogger]
}

// SetLogger 绑定组件级 Logger，可在运行期并发调用。
func (w *Binder) SetLogger(logger *MLogger) {
	w.logger.Store(logger)
}

// Logger 返回当前绑定的 Logger，尚未绑定时退回全局 Logger。
func (w *Binder) Logger() *MLogger {
	l := w.logger.Load()
	if l == nil {
		return With()
	}
	return l
}
