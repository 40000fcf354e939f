package serializer

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SerializerSuite struct {
	suite.Suite
}

func (s *SerializerSuite) TestLittleEndianOrder() {
	got := AppendInteger(nil, uint16(0x1234), LittleEndian)
	s.Equal([]byte{0x34, 0x12}, got)
}

func (s *SerializerSuite) TestBigEndianOrder() {
	got := AppendInteger(nil, uint16(0x1234), BigEndian)
	s.Equal([]byte{0x12, 0x34}, got)
}

func (s *SerializerSuite) TestExactWidth() {
	s.Len(AppendInteger(nil, uint8(0), LittleEndian), 1)
	s.Len(AppendInteger(nil, uint16(1), BigEndian), 2)
	s.Len(AppendInteger(nil, uint32(1), LittleEndian), 4)

	// 数值大小不影响写出宽度，高位零字节一并写出。
	s.Equal([]byte{1, 0, 0, 0, 0, 0, 0, 0}, AppendInteger(nil, uint64(1), LittleEndian))
	s.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 1}, AppendInteger(nil, uint64(1), BigEndian))
}

func (s *SerializerSuite) TestSignedTwosComplement() {
	s.Equal([]byte{0xff}, AppendInteger(nil, int8(-1), LittleEndian))
	s.Equal([]byte{0xfe, 0xff}, AppendInteger(nil, int16(-2), LittleEndian))
	s.Equal([]byte{0xff, 0xfe}, AppendInteger(nil, int16(-2), BigEndian))
	s.Equal([]byte{0x80, 0x00, 0x00, 0x00}, AppendInteger(nil, int32(-1<<31), BigEndian))
}

func (s *SerializerSuite) TestRoundTrip() {
	values := []uint32{0, 1, 0xff, 0x1234, 0xdeadbeef, 1<<32 - 1}
	for _, v := range values {
		le := AppendInteger(nil, v, LittleEndian)
		be := AppendInteger(nil, v, BigEndian)

		var fromLE, fromBE uint32
		for i := 0; i < 4; i++ {
			fromLE |= uint32(le[i]) << (uint(i) * 8)
			fromBE |= uint32(be[i]) << (uint(3-i) * 8)
		}
		s.Equal(v, fromLE)
		s.Equal(v, fromBE)
	}

	signed := []int64{0, -1, 1 << 40, -1 << 40, 1<<63 - 1, -1 << 63}
	for _, v := range signed {
		le := AppendInteger(nil, v, LittleEndian)

		var bits uint64
		for i := 0; i < 8; i++ {
			bits |= uint64(le[i]) << (uint(i) * 8)
		}
		s.Equal(v, int64(bits))
	}
}

func (s *SerializerSuite) TestSliceMatchesElementwise() {
	values := []uint16{0x0102, 0x0304, 0x0506}

	var elementwise []byte
	for _, v := range values {
		elementwise = AppendInteger(elementwise, v, BigEndian)
	}

	got := AppendIntegerSlice(nil, values, BigEndian)
	s.Equal(elementwise, got)
	s.Len(got, len(values)*2)
}

func (s *SerializerSuite) TestRawBytesIgnoreOrder() {
	addr := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	s.Equal(addr, AppendRawBytes(nil, addr))

	// 字节序对原始字节路径没有影响，两种实例产生相同输出。
	le := New(LittleEndian).WriteBytes(addr).Bytes()
	be := New(BigEndian).WriteBytes(addr).Bytes()
	s.Equal(le, be)
}

func (s *SerializerSuite) TestMonotonicAppend() {
	buf := AppendInteger(nil, uint16(0xaabb), LittleEndian)
	snapshot := append([]byte(nil), buf...)

	buf = AppendInteger(buf, uint32(0x11223344), BigEndian)
	buf = AppendRawBytes(buf, []byte{0x7f})

	s.Len(buf, 2+4+1)
	s.Equal(snapshot, buf[:2])
}

func (s *SerializerSuite) TestMixedEndianPacket() {
	var buf []byte
	buf = AppendInteger(buf, uint8(0x01), BigEndian)
	buf = AppendInteger(buf, uint16(0xabcd), LittleEndian)
	buf = AppendRawBytes(buf, []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff})

	s.Equal([]byte{0x01, 0xcd, 0xab, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, buf)
}

func (s *SerializerSuite) TestChainedWriter() {
	w := New(LittleEndian)
	w.WriteUint8(0x01).
		WriteUint16(0x0203).
		WriteUint32(0x04050607).
		WriteInt8(-1).
		WriteBytes([]byte{0xee})

	s.Equal(1+2+4+1+1, w.Len())
	s.Equal([]byte{0x01, 0x03, 0x02, 0x07, 0x06, 0x05, 0x04, 0xff, 0xee}, w.Bytes())
	s.Equal(LittleEndian, w.Order())
}

func (s *SerializerSuite) TestWriterKeepsCallerPrefix() {
	buf := []byte{0xde, 0xad}
	w := NewWithBuffer(BigEndian, buf)
	w.WriteUint16(0xbeef)

	s.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, w.Bytes())
}

func TestSerializer(t *testing.T) {
	suite.Run(t, new(SerializerSuite))
}
