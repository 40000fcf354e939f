package emitter

import (
	"github.com/lk2023060901/packet-garden-go/pkg/util/conc"
)

// options 为发送器的可配置参数。
type options struct {
	queueSize    int
	finalizePool *conc.Pool[[]byte]
}

func defaultOptions() *options {
	return &options{
		queueSize: defaultSendQueueSize,
	}
}

// Option 用于调整发送器行为的选项函数。
type Option func(*options)

// WithQueueSize 设置发送队列容量。
func WithQueueSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.queueSize = size
		}
	}
}

// WithFinalizePool 设置用于异步最终化 Builder 的协程池。
//
// 多个发送器可以共享同一个池；报文写出顺序仍按投递顺序保证。
func WithFinalizePool(pool *conc.Pool[[]byte]) Option {
	return func(o *options) {
		o.finalizePool = pool
	}
}
