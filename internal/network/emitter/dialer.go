package emitter

import (
	"context"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/lk2023060901/packet-garden-go/internal/network"
	"github.com/lk2023060901/packet-garden-go/pkg/log"
	"github.com/lk2023060901/packet-garden-go/pkg/metrics"
	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
)

// Dial 以指数退避重试的方式建立到 addr 的连接。
//
// 说明：
//   - maxElapsed 为整个拨号过程允许的最长耗时，为 0 时不限制；
//   - ctx 结束时立即停止重试并返回；
//   - 成功后连接交由调用方处理，通常随后传给 New 创建发送器。
func Dial(ctx context.Context, netw, addr string, maxElapsed time.Duration) (net.Conn, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := log.Ctx(ctx).With(log.FieldComponent("dialer"), zap.String("address", addr))

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = maxElapsed

	var conn net.Conn
	dial := func() error {
		var err error
		conn, err = (&net.Dialer{}).DialContext(ctx, netw, addr)
		if err != nil {
			metrics.EmitErrors.WithLabelValues(string(network.StageDial)).Inc()
			return merr.WrapErrConnDialFailed(addr, err)
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("dial failed, retrying",
			zap.Duration("next_interval", next),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(dial, backoff.WithContext(bo, ctx), notify); err != nil {
		return nil, err
	}

	logger.Info("dial succeeded")
	return conn, nil
}

// DialEmitter 建立连接并创建挂在其上的发送器。
func DialEmitter(ctx context.Context, netw, addr string, id uint64, maxElapsed time.Duration, opts ...Option) (*Emitter, error) {
	conn, err := Dial(ctx, netw, addr, maxElapsed)
	if err != nil {
		return nil, err
	}
	return New(ctx, id, conn, opts...), nil
}
