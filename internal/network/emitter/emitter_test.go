package emitter

import (
	"bytes"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/atomic"

	"github.com/lk2023060901/packet-garden-go/internal/packets"
	"github.com/lk2023060901/packet-garden-go/pkg/util/conc"
	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
)

// sink 持续读取连接对端写出的字节，供断言使用。
type sink struct {
	mu  sync.Mutex
	buf []byte
}

func newSink(conn net.Conn) *sink {
	s := &sink{}
	go func() {
		tmp := make([]byte, 1024)
		for {
			n, err := conn.Read(tmp)
			if n > 0 {
				s.mu.Lock()
				s.buf = append(s.buf, tmp[:n]...)
				s.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return s
}

func (s *sink) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf...)
}

type EmitterSuite struct {
	suite.Suite
}

func (s *EmitterSuite) TestSendPreservesOrder() {
	client, server := net.Pipe()
	defer server.Close()

	out := newSink(server)
	e := New(context.Background(), 1, client)
	defer e.Close()

	var want []byte
	for i := 0; i < 64; i++ {
		payload := []byte{byte(i), byte(i), byte(i)}
		want = append(want, payload...)
		s.NoError(e.Send(packets.NewRawBuilder(payload)))
	}

	s.Eventually(func() bool {
		return len(out.bytes()) == len(want)
	}, time.Second, 5*time.Millisecond)
	s.True(bytes.Equal(want, out.bytes()))
	s.Equal(uint64(64), e.Seq())
}

func (s *EmitterSuite) TestSendWithFinalizePool() {
	client, server := net.Pipe()
	defer server.Close()

	pool := conc.NewPool[[]byte](4)
	defer pool.Release()

	out := newSink(server)
	e := New(context.Background(), 2, client, WithFinalizePool(pool))
	defer e.Close()

	var want []byte
	for i := 0; i < 32; i++ {
		payload := []byte{0xf0, byte(i)}
		want = append(want, payload...)
		s.NoError(e.Send(packets.NewRawBuilder(payload)))
	}

	// 协程池中异步最终化，写出顺序仍与投递顺序一致。
	s.Eventually(func() bool {
		return len(out.bytes()) == len(want)
	}, time.Second, 5*time.Millisecond)
	s.True(bytes.Equal(want, out.bytes()))
}

func (s *EmitterSuite) TestSendNilBuilder() {
	client, server := net.Pipe()
	defer server.Close()
	newSink(server)

	e := New(context.Background(), 3, client)
	defer e.Close()

	s.ErrorIs(e.Send(nil), merr.ErrParameterMissing)
}

func (s *EmitterSuite) TestQueueFull() {
	// 对端不读取，发送协程会阻塞在写出上，队列很快被填满。
	client, server := net.Pipe()

	e := New(context.Background(), 4, client, WithQueueSize(1))

	var queueFull error
	for i := 0; i < 8; i++ {
		if err := e.Send(packets.NewRawBuilder([]byte{byte(i)})); err != nil {
			queueFull = err
			break
		}
	}
	s.ErrorIs(queueFull, merr.ErrEmitterQueueFull)
	s.True(merr.IsRetryableErr(queueFull))

	// 先关闭对端让阻塞中的写出返回，发送协程才能退出。
	server.Close()
	e.Close()
}

func (s *EmitterSuite) TestSendWait() {
	client, server := net.Pipe()
	defer server.Close()

	out := newSink(server)
	e := New(context.Background(), 5, client, WithQueueSize(1))
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var want []byte
	for i := 0; i < 16; i++ {
		payload := []byte{byte(0x80 + i)}
		want = append(want, payload...)
		s.NoError(e.SendWait(ctx, packets.NewRawBuilder(payload)))
	}

	s.Eventually(func() bool {
		return len(out.bytes()) == len(want)
	}, time.Second, 5*time.Millisecond)
	s.True(bytes.Equal(want, out.bytes()))
}

func (s *EmitterSuite) TestCloseIdempotent() {
	client, server := net.Pipe()
	defer server.Close()
	newSink(server)

	e := New(context.Background(), 6, client)

	s.NoError(e.Close())
	s.NoError(e.Close())

	// 关闭后的投递立即失败。
	s.ErrorIs(e.Send(packets.NewRawBuilder([]byte{0x01})), merr.ErrEmitterClosed)

	select {
	case <-e.Context().Done():
	default:
		s.Fail("context should be done after close")
	}
}

func (s *EmitterSuite) TestParentContextCancel() {
	client, server := net.Pipe()
	defer server.Close()
	newSink(server)

	ctx, cancel := context.WithCancel(context.Background())
	e := New(ctx, 7, client)
	defer e.Close()

	cancel()
	s.Eventually(func() bool {
		err := e.Send(packets.NewRawBuilder([]byte{0x01}))
		return errors.Is(err, merr.ErrEmitterClosed)
	}, time.Second, 5*time.Millisecond)
}

func (s *EmitterSuite) TestCloseUnblocksStalledWrite() {
	// 对端既不读也不关闭，发送协程会卡在 conn.Write 上。
	client, server := net.Pipe()
	defer server.Close()

	e := New(context.Background(), 8, client)
	s.NoError(e.Send(packets.NewRawBuilder([]byte{0x01, 0x02})))

	// 等待发送协程进入写调用。
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		e.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.Fail("close blocked on a stalled peer")
	}
}

// zeroWriteConn 模拟始终报告写入 0 字节且不返回错误的连接。
type zeroWriteConn struct {
	net.Conn
}

func (c zeroWriteConn) Write(b []byte) (int, error) {
	return 0, nil
}

func (s *EmitterSuite) TestZeroWriteFailsEmit() {
	client, server := net.Pipe()
	defer server.Close()

	e := New(context.Background(), 9, zeroWriteConn{Conn: client})
	defer e.Close()

	s.NoError(e.Send(packets.NewRawBuilder([]byte{0x01})))

	// 零字节写入不是成功：发送协程必须把它当作失败并终止。
	s.Eventually(func() bool {
		select {
		case <-e.Context().Done():
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

// countingBuilder 记录 AppendTo 被调用的次数。
type countingBuilder struct {
	size int
	hits *atomic.Int32
}

func (b *countingBuilder) Size() int {
	return b.size
}

func (b *countingBuilder) AppendTo(dst []byte) []byte {
	b.hits.Inc()
	return append(dst, make([]byte, b.size)...)
}

func (s *EmitterSuite) TestRejectedSendNotFinalized() {
	// 对端不读取，队列很快被填满。
	client, server := net.Pipe()

	pool := conc.NewPool[[]byte](2)
	defer pool.Release()

	e := New(context.Background(), 10, client, WithQueueSize(1), WithFinalizePool(pool))

	hits := atomic.NewInt32(0)
	accepted := 0
	var queueFull error
	for i := 0; i < 8; i++ {
		if err := e.Send(&countingBuilder{size: 4, hits: hits}); err != nil {
			queueFull = err
			break
		}
		accepted++
	}
	s.ErrorIs(queueFull, merr.ErrEmitterQueueFull)

	// 被接收的报文最终都会被最终化，被拒绝的报文一次都不会。
	s.Eventually(func() bool {
		return int(hits.Load()) == accepted
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	s.Equal(accepted, int(hits.Load()))

	server.Close()
	e.Close()
}

func TestEmitter(t *testing.T) {
	suite.Run(t, new(EmitterSuite))
}
