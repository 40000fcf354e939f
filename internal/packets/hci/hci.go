// Package hci 定义一组 HCI 风格的具体报文构建器。
//
// 三类报文（Command / Event / ACL）覆盖了构建层的全部组合方式：
// 定宽整数字段、单字节长度字段、嵌套构建器与可分片载荷。
// 所有多字节字段均按小端序写出。
package hci

import (
	"github.com/lk2023060901/packet-garden-go/internal/packets"
	"github.com/lk2023060901/packet-garden-go/internal/packets/serializer"
	"github.com/lk2023060901/packet-garden-go/pkg/metrics"
	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
)

// OpCode 为命令报文的 2 字节操作码。
type OpCode uint16

// EventCode 为事件报文的 1 字节事件码。
type EventCode uint8

// 单字节长度字段能表示的最大载荷字节数。
const maxParamLength = 255

// CommandBuilder 构建命令报文。
//
// 布局：opcode(2, LE) | param_length(1) | parameters。
type CommandBuilder struct {
	opcode  OpCode
	payload packets.Builder
}

var _ packets.Builder = (*CommandBuilder)(nil)

// NewCommandBuilder 创建一个命令报文构建器。
//
// payload 可以为 nil，表示无参数命令；
// 参数长度超过单字节长度字段的表示范围时返回错误。
func NewCommandBuilder(opcode OpCode, payload packets.Builder) (*CommandBuilder, error) {
	if payload != nil && payload.Size() > maxParamLength {
		return nil, merr.WrapErrPayloadTooLarge(payload.Size(), maxParamLength)
	}
	return &CommandBuilder{opcode: opcode, payload: payload}, nil
}

// Size 实现 packets.Builder.Size。
func (b *CommandBuilder) Size() int {
	size := 3
	if b.payload != nil {
		size += b.payload.Size()
	}
	return size
}

// AppendTo 实现 packets.Builder.AppendTo。
func (b *CommandBuilder) AppendTo(dst []byte) []byte {
	dst = serializer.AppendInteger(dst, uint16(b.opcode), serializer.LittleEndian)
	if b.payload == nil {
		dst = serializer.AppendInteger(dst, uint8(0), serializer.LittleEndian)
	} else {
		dst = serializer.AppendInteger(dst, uint8(b.payload.Size()), serializer.LittleEndian)
		dst = b.payload.AppendTo(dst)
	}

	metrics.PacketsBuilt.WithLabelValues(metrics.PacketTypeCommand).Inc()
	return dst
}

// EventBuilder 构建事件报文。
//
// 布局：event_code(1) | payload_length(1) | payload。
// payload 由若干嵌套构建器按加入顺序拼接而成。
type EventBuilder struct {
	code     EventCode
	payloads []packets.Builder
}

var _ packets.Builder = (*EventBuilder)(nil)

// NewEventBuilder 创建一个事件报文构建器。
func NewEventBuilder(code EventCode) *EventBuilder {
	return &EventBuilder{code: code}
}

// Add 追加一段事件载荷。
//
// 累计载荷超过单字节长度字段的表示范围时返回错误，此时本段不会被加入。
func (b *EventBuilder) Add(payload packets.Builder) error {
	if b.payloadSize()+payload.Size() > maxParamLength {
		return merr.WrapErrPayloadTooLarge(b.payloadSize()+payload.Size(), maxParamLength)
	}
	b.payloads = append(b.payloads, payload)
	return nil
}

func (b *EventBuilder) payloadSize() int {
	size := 0
	for _, p := range b.payloads {
		size += p.Size()
	}
	return size
}

// Size 实现 packets.Builder.Size。
func (b *EventBuilder) Size() int {
	return 2 + b.payloadSize()
}

// AppendTo 实现 packets.Builder.AppendTo。
func (b *EventBuilder) AppendTo(dst []byte) []byte {
	dst = serializer.AppendInteger(dst, uint8(b.code), serializer.LittleEndian)
	dst = serializer.AppendInteger(dst, uint8(b.payloadSize()), serializer.LittleEndian)
	for _, p := range b.payloads {
		dst = p.AppendTo(dst)
	}

	metrics.PacketsBuilt.WithLabelValues(metrics.PacketTypeEvent).Inc()
	return dst
}

// PacketBoundary 为 ACL 报文的 2 位分组边界标志。
type PacketBoundary uint8

const (
	// BoundaryFirstNonFlushable 表示首个不可冲刷分片。
	BoundaryFirstNonFlushable PacketBoundary = 0x0
	// BoundaryContinuing 表示后续分片。
	BoundaryContinuing PacketBoundary = 0x1
	// BoundaryFirstFlushable 表示首个可冲刷分片。
	BoundaryFirstFlushable PacketBoundary = 0x2
)

// ACLBuilder 构建 ACL 数据报文。
//
// 布局：handle|pb|bc(2, LE) | payload_length(2, LE) | payload。
// 其中 handle 占低 12 位，pb 占第 12-13 位，bc 占第 14-15 位。
type ACLBuilder struct {
	handle    uint16
	boundary  PacketBoundary
	broadcast uint8
	payload   []byte
}

var _ packets.Builder = (*ACLBuilder)(nil)

// NewACLBuilder 创建一个 ACL 报文构建器。
//
// handle 超出 12 位表示范围时返回错误。
func NewACLBuilder(handle uint16, boundary PacketBoundary, broadcast uint8, payload []byte) (*ACLBuilder, error) {
	if handle > 0x0fff {
		return nil, merr.WrapErrParameterInvalid("handle within 12 bits", int64(handle))
	}
	return &ACLBuilder{
		handle:    handle,
		boundary:  boundary,
		broadcast: broadcast,
		payload:   payload,
	}, nil
}

// Handle 返回连接句柄。
func (b *ACLBuilder) Handle() uint16 {
	return b.handle
}

// Boundary 返回分组边界标志。
func (b *ACLBuilder) Boundary() PacketBoundary {
	return b.boundary
}

// Size 实现 packets.Builder.Size。
func (b *ACLBuilder) Size() int {
	return 4 + len(b.payload)
}

// AppendTo 实现 packets.Builder.AppendTo。
func (b *ACLBuilder) AppendTo(dst []byte) []byte {
	word := b.handle | uint16(b.boundary)<<12 | uint16(b.broadcast)<<14
	dst = serializer.AppendInteger(dst, word, serializer.LittleEndian)
	dst = serializer.AppendInteger(dst, uint16(len(b.payload)), serializer.LittleEndian)
	dst = serializer.AppendRawBytes(dst, b.payload)

	metrics.PacketsBuilt.WithLabelValues(metrics.PacketTypeACL).Inc()
	return dst
}

// Fragment 将载荷切分为若干个载荷不超过 maxPayload 字节的 ACL 报文。
//
// 约定：
//   - 首个分片保留原有的分组边界标志，后续分片改用 BoundaryContinuing；
//   - 所有分片的载荷按顺序拼接后与原载荷完全一致；
//   - maxPayload 必须为正数，否则返回错误。
func (b *ACLBuilder) Fragment(maxPayload int) ([]*ACLBuilder, error) {
	raw := packets.NewRawBuilder(b.payload)
	chunks, err := raw.Fragment(maxPayload)
	if err != nil {
		return nil, err
	}

	out := make([]*ACLBuilder, 0, len(chunks))
	for i, chunk := range chunks {
		boundary := b.boundary
		if i > 0 {
			boundary = BoundaryContinuing
		}
		out = append(out, &ACLBuilder{
			handle:    b.handle,
			boundary:  boundary,
			broadcast: b.broadcast,
			payload:   chunk.Payload(),
		})
	}
	return out, nil
}
