package network

// Stage 表示报文发送链路中的处理阶段。
//
// 主要用于在日志与指标中标记错误发生的位置，便于监控与排查。
// 具体的错误对象统一由 pkg/util/merr 构造，这里只提供阶段标签。
type Stage string

const (
	StageDial     Stage = "dial"     // 建立底层连接
	StageFinalize Stage = "finalize" // Builder -> 完整报文字节
	StageEnqueue  Stage = "enqueue"  // 报文进入发送队列
	StageFlush    Stage = "flush"    // 发送缓冲区刷写到底层连接
)
