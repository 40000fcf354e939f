// Package emitter 提供面向连接的只写报文发送器。
//
// 设计目标：
//   - 每个发送器独占一个发送协程，保证报文按投递顺序完整写出，不会交叉；
//   - Builder 的最终化与字节发送解耦：投递方只交付 Builder，
//     发送协程负责写出与刷写；
//   - 发送器只发不收，读方向不在本包职责范围内。
package emitter

import (
	"context"
	"io"
	"net"
	"strconv"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lk2023060901/packet-garden-go/internal/network"
	"github.com/lk2023060901/packet-garden-go/internal/packets"
	"github.com/lk2023060901/packet-garden-go/internal/pool/bytebuffer"
	"github.com/lk2023060901/packet-garden-go/internal/pool/ringbuffer"
	"github.com/lk2023060901/packet-garden-go/pkg/log"
	"github.com/lk2023060901/packet-garden-go/pkg/metrics"
	"github.com/lk2023060901/packet-garden-go/pkg/util/conc"
	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
	"github.com/lk2023060901/packet-garden-go/pkg/util/retry"
)

// defaultSendQueueSize 为每个发送器的发送队列容量。
const defaultSendQueueSize = 1024

// outboundPacket 表示一条待发送的报文。
//
// future 不为 nil 时表示报文正在协程池中异步最终化，
// 发送协程会按投递顺序等待其结果，顺序保证不受异步化影响。
type outboundPacket struct {
	builder packets.Builder
	future  *conc.Future[[]byte]
}

// Emitter 将 Builder 最终化为完整报文并按顺序写入底层连接。
type Emitter struct {
	id uint64

	ctx    context.Context
	cancel context.CancelFunc

	conn net.Conn

	// sendBuf 为发送缓冲区（字节级环形队列）。
	//   - 待发送的完整报文先写入该缓冲区，再统一刷到底层连接；
	//   - 仅发送协程访问，无需加锁。
	sendBuf *ringbuffer.RingBuffer

	// sendQueue 为待发送报文的对象级队列。
	//   - Send 仅负责将报文投递到该队列；
	//   - 独立的发送协程从队列中取出报文，最终化并刷到底层连接。
	sendQueue chan outboundPacket

	// seq 为当前发送器维护的本地自增序号，记录已写出的报文数。
	seq atomic.Uint64

	// finalizePool 不为 nil 时，Builder 的最终化在协程池中异步执行。
	finalizePool *conc.Pool[[]byte]

	queueDepth *atomic.Int64

	// logger 供投递路径使用，队列满告警经限流分组输出，避免高压下刷屏。
	logger *log.MLogger

	// sendMu 串行化投递方，保证容量检查与入队原子进行。
	sendMu sync.Mutex

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New 创建一个基于 net.Conn 的发送器。
//
// 参数：
//   - parent：发送器所属的上层上下文；若为 nil，则使用 context.Background()；
//   - id    ：发送器 ID，应由调用侧保证全局唯一；
//   - conn  ：底层网络连接，生命周期随发送器 Close 一并结束。
func New(parent context.Context, id uint64, conn net.Conn, opts ...Option) *Emitter {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	e := &Emitter{
		id:           id,
		ctx:          ctx,
		cancel:       cancel,
		conn:         conn,
		sendBuf:      ringbuffer.Get(),
		finalizePool: options.finalizePool,
		queueDepth:   atomic.NewInt64(0),
		logger: log.With(log.FieldComponent("emitter"), zap.Uint64("emitter", id)).
			WithRateGroup("emitter.queueFull", 1, 60),
	}

	e.sendQueue = make(chan outboundPacket, options.queueSize)
	e.wg.Add(1)
	go e.sendLoop()

	return e
}

// ID 返回发送器 ID。
func (e *Emitter) ID() uint64 {
	return e.id
}

// Context 返回发送器的上下文，Close 后进入 Done 状态。
func (e *Emitter) Context() context.Context {
	return e.ctx
}

// RemoteAddr 返回底层连接的对端地址。
func (e *Emitter) RemoteAddr() net.Addr {
	return e.conn.RemoteAddr()
}

// Seq 返回已写出的报文数量。
func (e *Emitter) Seq() uint64 {
	return e.seq.Load()
}

// Send 将报文投递到发送队列。
//
// 说明：
//   - 仅投递，不等待写出完成；报文按投递顺序写出；
//   - 队列已满时立即返回可重试的队列满错误，不阻塞调用方；
//   - 发送器关闭后返回关闭错误。
func (e *Emitter) Send(b packets.Builder) error {
	if b == nil {
		return merr.WrapErrParameterMissing("builder")
	}

	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	// 关闭后的投递直接拒绝，避免把报文留在无人消费的队列里。
	if err := e.ctx.Err(); err != nil {
		return merr.WrapErrEmitterClosed(e.id)
	}

	// 只有持锁的投递方会写入队列，发送协程只取不放，
	// 因此容量检查通过后入队一定不会阻塞。
	if len(e.sendQueue) == cap(e.sendQueue) {
		metrics.EmitErrors.WithLabelValues(string(network.StageEnqueue)).Inc()
		e.logger.RatedWarn(10, "send queue full", zap.Int("capacity", cap(e.sendQueue)))
		return merr.WrapErrEmitterQueueFull(e.id, cap(e.sendQueue))
	}

	pkt := outboundPacket{builder: b}
	if e.finalizePool != nil {
		// 队列确认能接收后才提交最终化，被拒绝的报文不会产生任何序列化副作用。
		pkt = outboundPacket{
			future: e.finalizePool.Submit(func() ([]byte, error) {
				return packets.Finalize(b), nil
			}),
		}
	}

	e.sendQueue <- pkt
	depth := e.queueDepth.Inc()
	metrics.EmitterQueueDepth.WithLabelValues(e.label()).Set(float64(depth))
	return nil
}

// SendWait 与 Send 相同，但在队列满时按退避重试，直到投递成功或 ctx 结束。
func (e *Emitter) SendWait(ctx context.Context, b packets.Builder) error {
	return retry.Do(ctx, func() error {
		return e.Send(b)
	}, retry.RetryErr(merr.IsRetryableErr))
}

// Close 关闭发送器并释放底层连接，可重复调用。
//
// 队列中尚未写出的报文会被丢弃。
func (e *Emitter) Close() error {
	var err error
	e.closeOnce.Do(func() {
		// 取消后立即关闭连接：发送协程可能阻塞在 conn.Write 上，
		// 上下文取消无法打断写调用，关闭连接才能让它出错返回。
		e.cancel()
		if e.conn != nil {
			err = e.conn.Close()
		}
		e.wg.Wait()

		// 归还环形缓冲区到对象池。
		if e.sendBuf != nil {
			ringbuffer.Put(e.sendBuf)
			e.sendBuf = nil
		}

		metrics.EmitterQueueDepth.DeleteLabelValues(e.label())
	})
	return err
}

// sendLoop 为每个发送器启动的专职发送协程。
//
// 行为：
//   - 从 sendQueue 中按顺序取出待发送报文；
//   - 将报文最终化到临时缓冲区，写入 sendBuf 后整体刷到底层连接；
//   - 写出失败视为发送器异常，取消上下文以触发上层清理。
func (e *Emitter) sendLoop() {
	defer e.wg.Done()

	logger := log.Ctx(e.ctx).With(log.FieldComponent("emitter"), zap.Uint64("emitter", e.id))

	for {
		select {
		case <-e.ctx.Done():
			return
		case pkt := <-e.sendQueue:
			depth := e.queueDepth.Dec()
			metrics.EmitterQueueDepth.WithLabelValues(e.label()).Set(float64(depth))

			if err := e.emit(pkt); err != nil {
				logger.Warn("emit packet failed",
					zap.Uint64("seq", e.seq.Load()),
					zap.Error(err))
				e.cancel()
				return
			}
			e.seq.Inc()
		}
	}
}

// emit 将单条报文写出到底层连接。
func (e *Emitter) emit(pkt outboundPacket) error {
	// 发送路径仅在发送协程中执行，避免多协程并发写 conn。
	if pkt.future != nil {
		out, err := pkt.future.Await()
		if err != nil {
			metrics.EmitErrors.WithLabelValues(string(network.StageFinalize)).Inc()
			return err
		}
		return e.writeOut(out)
	}

	// 同步路径使用池化缓冲区，避免为每条报文单独分配。
	buf := bytebuffer.Get()
	defer bytebuffer.Put(buf)

	buf.B = pkt.builder.AppendTo(buf.B)
	return e.writeOut(buf.B)
}

// writeOut 将完整报文写入 sendBuf，再刷写到底层连接。
func (e *Emitter) writeOut(data []byte) error {
	if _, err := e.sendBuf.Write(data); err != nil {
		metrics.EmitErrors.WithLabelValues(string(network.StageFlush)).Inc()
		return merr.WrapErrIoFailed("send buffer", err)
	}

	if err := e.flushSendBuf(); err != nil {
		metrics.EmitErrors.WithLabelValues(string(network.StageFlush)).Inc()
		return merr.WrapErrIoFailed(e.conn.RemoteAddr().String(), err)
	}

	metrics.EmitterBytesSent.WithLabelValues(e.label()).Add(float64(len(data)))
	return nil
}

// flushSendBuf 将 sendBuf 中的所有字节尽可能写入到底层连接。
//
// 说明：
//   - 使用固定大小的临时缓冲区分批写出；
//   - 对单次 Write 的短写情况进行显式处理，直到当前块完全写出。
func (e *Emitter) flushSendBuf() error {
	var tmp [4096]byte

	for e.sendBuf.Buffered() > 0 {
		n, _ := e.sendBuf.Read(tmp[:])
		if n <= 0 {
			break
		}

		written := 0
		for written < n {
			m, err := e.conn.Write(tmp[written:n])
			if err != nil {
				return err
			}
			if m <= 0 {
				// 零字节写入视为短写失败，静默丢弃剩余字节会破坏报文完整性。
				return io.ErrShortWrite
			}
			written += m
		}
	}

	return nil
}

func (e *Emitter) label() string {
	return strconv.FormatUint(e.id, 10)
}
