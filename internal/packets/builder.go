// Package packets 提供在字节序列化原语之上拼装完整报文的构建层。
//
// 设计目标：
//   - 每种报文类型实现 Builder 接口，声明自身大小并把字节追加到输出缓冲区；
//   - 输出缓冲区由调用方持有，构建器只追加，绝不回读或改写；
//   - 嵌套构建器按加入顺序写出，保证字段级的确定性布局。
package packets

import (
	"github.com/samber/lo"

	"github.com/lk2023060901/packet-garden-go/internal/packets/serializer"
	"github.com/lk2023060901/packet-garden-go/pkg/metrics"
	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
)

// Builder 是所有报文构建器的统一抽象。
type Builder interface {
	// Size 返回 AppendTo 将写出的字节数。
	Size() int

	// AppendTo 将报文字节追加到 dst 末尾并返回新切片。
	//
	// 实现只允许追加，已有内容必须原样保留。
	AppendTo(dst []byte) []byte
}

// Finalize 按 Builder 声明的大小一次性分配缓冲区，写出完整报文并交还调用方。
func Finalize(b Builder) []byte {
	out := make([]byte, 0, b.Size())
	out = b.AppendTo(out)

	metrics.PacketsFinalized.Inc()
	metrics.BytesSerialized.Add(float64(len(out)))
	return out
}

// RawBuilder 持有一段已经就绪的原始载荷字节。
//
// 载荷按原始顺序整体写出，字节序设置对其没有影响。
type RawBuilder struct {
	payload []byte
}

var _ Builder = (*RawBuilder)(nil)

// NewRawBuilder 创建一个持有 payload 的 RawBuilder。
//
// payload 不会被复制，创建后调用方不应再修改它。
func NewRawBuilder(payload []byte) *RawBuilder {
	return &RawBuilder{payload: payload}
}

// Payload 返回持有的载荷字节，不做复制。
func (b *RawBuilder) Payload() []byte {
	return b.payload
}

// Size 实现 Builder.Size。
func (b *RawBuilder) Size() int {
	return len(b.payload)
}

// AppendTo 实现 Builder.AppendTo。
func (b *RawBuilder) AppendTo(dst []byte) []byte {
	return serializer.AppendRawBytes(dst, b.payload)
}

// Fragment 将载荷切分为若干个大小不超过 maxSize 的 RawBuilder。
//
// 约定：
//   - 分片保持原有字节顺序，所有分片依次写出的结果与整体写出完全一致；
//   - 除最后一片外，每片恰好为 maxSize 字节；
//   - maxSize 必须为正数，否则返回错误。
func (b *RawBuilder) Fragment(maxSize int) ([]*RawBuilder, error) {
	if maxSize <= 0 {
		return nil, merr.WrapErrFragmentSizeInvalid(maxSize)
	}
	if len(b.payload) == 0 {
		return []*RawBuilder{b}, nil
	}

	chunks := lo.Chunk(b.payload, maxSize)
	out := make([]*RawBuilder, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, NewRawBuilder(chunk))
	}

	metrics.FragmentsPerPacket.Observe(float64(len(out)))
	return out, nil
}

// maxCountedBuilders 为 CountedBuilder 计数字节能表示的最大嵌套数量。
const maxCountedBuilders = 255

// CountedBuilder 先写出一个表示嵌套数量的计数字节，再按加入顺序写出各嵌套构建器。
type CountedBuilder struct {
	builders []Builder
}

var _ Builder = (*CountedBuilder)(nil)

// NewCountedBuilder 创建一个空的 CountedBuilder。
func NewCountedBuilder() *CountedBuilder {
	return &CountedBuilder{}
}

// Add 追加一个嵌套构建器。
//
// 计数字段只有一个字节，数量超过 255 时返回错误。
func (b *CountedBuilder) Add(nested Builder) error {
	if len(b.builders) >= maxCountedBuilders {
		return merr.WrapErrFieldCountExceeded(len(b.builders)+1, maxCountedBuilders)
	}
	b.builders = append(b.builders, nested)
	return nil
}

// Count 返回已加入的嵌套构建器数量。
func (b *CountedBuilder) Count() int {
	return len(b.builders)
}

// Size 实现 Builder.Size。
func (b *CountedBuilder) Size() int {
	size := 1
	for _, nested := range b.builders {
		size += nested.Size()
	}
	return size
}

// AppendTo 实现 Builder.AppendTo。
func (b *CountedBuilder) AppendTo(dst []byte) []byte {
	// 计数字节为单字节，字节序在此无关紧要。
	dst = serializer.AppendInteger(dst, uint8(len(b.builders)), serializer.LittleEndian)
	for _, nested := range b.builders {
		dst = nested.AppendTo(dst)
	}
	return dst
}
