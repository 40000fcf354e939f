package serializer

// Serializer 持有一段只增不减的输出缓冲区，并在构造时绑定固定的字节序。
//
// 设计目标：
//   - 所有写方法都支持链式调用，便于逐字段拼装报文；
//   - 写方法只追加字节，不做任何读取或回退，缓冲区单调增长；
//   - 实例不做内部同步，一次报文拼装过程应由单个 goroutine 独占持有。
type Serializer struct {
	order ByteOrder
	buf   []byte
}

// New 创建一个空缓冲区的 Serializer，字节序在实例生命周期内不再变化。
func New(order ByteOrder) *Serializer {
	return &Serializer{order: order}
}

// NewWithBuffer 基于调用方提供的缓冲区创建 Serializer。
//
// 已有内容会被保留，后续写入在其末尾追加；缓冲区所有权仍归调用方。
func NewWithBuffer(order ByteOrder, buf []byte) *Serializer {
	return &Serializer{order: order, buf: buf}
}

// Order 返回实例绑定的字节序。
func (s *Serializer) Order() ByteOrder {
	return s.order
}

// WriteUint8 追加 1 个字节。
func (s *Serializer) WriteUint8(v uint8) *Serializer {
	s.buf = AppendInteger(s.buf, v, s.order)
	return s
}

// WriteUint16 按实例字节序追加 2 个字节。
func (s *Serializer) WriteUint16(v uint16) *Serializer {
	s.buf = AppendInteger(s.buf, v, s.order)
	return s
}

// WriteUint32 按实例字节序追加 4 个字节。
func (s *Serializer) WriteUint32(v uint32) *Serializer {
	s.buf = AppendInteger(s.buf, v, s.order)
	return s
}

// WriteUint64 按实例字节序追加 8 个字节。
func (s *Serializer) WriteUint64(v uint64) *Serializer {
	s.buf = AppendInteger(s.buf, v, s.order)
	return s
}

// WriteInt8 追加 1 个字节，按补码位模式提取。
func (s *Serializer) WriteInt8(v int8) *Serializer {
	s.buf = AppendInteger(s.buf, v, s.order)
	return s
}

// WriteInt16 按实例字节序追加 2 个字节，按补码位模式提取。
func (s *Serializer) WriteInt16(v int16) *Serializer {
	s.buf = AppendInteger(s.buf, v, s.order)
	return s
}

// WriteInt32 按实例字节序追加 4 个字节，按补码位模式提取。
func (s *Serializer) WriteInt32(v int32) *Serializer {
	s.buf = AppendInteger(s.buf, v, s.order)
	return s
}

// WriteInt64 按实例字节序追加 8 个字节，按补码位模式提取。
func (s *Serializer) WriteInt64(v int64) *Serializer {
	s.buf = AppendInteger(s.buf, v, s.order)
	return s
}

// WriteBytes 将 b 中的字节按原有顺序追加，不受实例字节序影响。
func (s *Serializer) WriteBytes(b []byte) *Serializer {
	s.buf = AppendRawBytes(s.buf, b)
	return s
}

// Bytes 返回当前已写入的全部字节。
//
// 返回的切片与内部缓冲区共享底层数组，调用方应在所有写入完成后再使用。
func (s *Serializer) Bytes() []byte {
	return s.buf
}

// Len 返回已写入的字节数。
func (s *Serializer) Len() int {
	return len(s.buf)
}
