// Package serializer 提供按字节序参数化的定宽整数序列化原语。
//
// 约定：
//   - 所有写操作只在输出切片末尾追加，绝不回读或改写已写入的字节；
//   - 字节序仅影响多字节整数的排列方式，对单字节与原始字节序列无效。
package serializer

import "unsafe"

// ByteOrder 表示多字节整数在输出中的字节排列方式。
type ByteOrder uint8

const (
	// LittleEndian 表示最低有效字节在前。
	LittleEndian ByteOrder = iota
	// BigEndian 表示最高有效字节在前。
	BigEndian
)

// String 返回字节序的可读名称，主要用于日志。
func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// FixedWidthInteger 约束了可以被直接序列化的定宽整数类型。
//
// 说明：
//   - 宽度由类型在编译期决定（1/2/4/8 字节），有符号整数按补码位模式逐字节提取；
//   - int、uint、uintptr 的宽度与平台相关，会导致同一调用在不同平台产生
//     不同的输出，因此被有意排除在外；
//   - 非整数类型无法满足该约束，误用在编译期即失败。
type FixedWidthInteger interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// AppendInteger 将 v 的全部字节按 order 指定的顺序追加到 dst 末尾，并返回新切片。
//
// 行为：
//   - 追加的字节数恰好等于 v 的类型宽度，高位零字节不会被省略；
//   - 小端序时第 i 个字节为 v 的第 [i*8, i*8+8) 位；
//   - 大端序时第 i 个字节为 v 的第 [(w-1-i)*8, (w-1-i)*8+8) 位。
func AppendInteger[T FixedWidthInteger](dst []byte, v T, order ByteOrder) []byte {
	// unsafe.Sizeof 对定宽整数是编译期常量，这里仅用于取类型宽度。
	w := int(unsafe.Sizeof(v))
	for i := 0; i < w; i++ {
		shift := uint(i) * 8
		if order == BigEndian {
			shift = uint(w-1-i) * 8
		}
		// 有符号类型的右移为算术移位，截断到 byte 后即为对应补码字节。
		dst = append(dst, byte(v>>shift))
	}
	return dst
}

// AppendIntegerSlice 将 values 中的每个元素依次通过 AppendInteger 追加到 dst。
//
// 输出与对每个元素逐个调用 AppendInteger 的结果完全一致，
// 共追加 len(values) * 元素宽度 个字节。
func AppendIntegerSlice[T FixedWidthInteger](dst []byte, values []T, order ByteOrder) []byte {
	for _, v := range values {
		dst = AppendInteger(dst, v, order)
	}
	return dst
}

// AppendRawBytes 将 src 中的字节按原有顺序逐个追加到 dst。
//
// 适用于字节顺序由领域本身定义的值（例如 6 字节硬件地址），
// 字节序设置对该路径没有任何影响。
func AppendRawBytes(dst []byte, src []byte) []byte {
	return append(dst, src...)
}
