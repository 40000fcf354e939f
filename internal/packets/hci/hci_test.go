package hci

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/packet-garden-go/internal/packets"
	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
)

type HCISuite struct {
	suite.Suite
}

func (s *HCISuite) TestCommandLayout() {
	b, err := NewCommandBuilder(0x0c03, packets.NewRawBuilder([]byte{0x01, 0x02}))
	s.NoError(err)

	s.Equal(5, b.Size())
	// opcode 小端在前，随后是单字节参数长度。
	s.Equal([]byte{0x03, 0x0c, 0x02, 0x01, 0x02}, packets.Finalize(b))
}

func (s *HCISuite) TestCommandNoParams() {
	b, err := NewCommandBuilder(0x0c03, nil)
	s.NoError(err)

	s.Equal(3, b.Size())
	s.Equal([]byte{0x03, 0x0c, 0x00}, packets.Finalize(b))
}

func (s *HCISuite) TestCommandPayloadTooLarge() {
	_, err := NewCommandBuilder(0x0c03, packets.NewRawBuilder(make([]byte, 256)))
	s.ErrorIs(err, merr.ErrPayloadTooLarge)

	b, err := NewCommandBuilder(0x0c03, packets.NewRawBuilder(make([]byte, 255)))
	s.NoError(err)
	s.Equal(258, b.Size())
}

func (s *HCISuite) TestEventLayout() {
	b := NewEventBuilder(0x0e)
	s.NoError(b.Add(packets.NewRawBuilder([]byte{0x01})))
	s.NoError(b.Add(packets.NewRawBuilder([]byte{0x03, 0x0c})))

	s.Equal(5, b.Size())
	s.Equal([]byte{0x0e, 0x03, 0x01, 0x03, 0x0c}, packets.Finalize(b))
}

func (s *HCISuite) TestEventCumulativeLimit() {
	b := NewEventBuilder(0x3e)
	s.NoError(b.Add(packets.NewRawBuilder(make([]byte, 200))))

	// 超限的载荷不会被加入，已有内容保持不变。
	err := b.Add(packets.NewRawBuilder(make([]byte, 56)))
	s.ErrorIs(err, merr.ErrPayloadTooLarge)
	s.Equal(2+200, b.Size())

	s.NoError(b.Add(packets.NewRawBuilder(make([]byte, 55))))
	s.Equal(2+255, b.Size())
}

func (s *HCISuite) TestACLHeaderPacking() {
	b, err := NewACLBuilder(0x0123, BoundaryFirstFlushable, 0x1, []byte{0xaa, 0xbb})
	s.NoError(err)

	// handle=0x123, pb=0x2, bc=0x1 → 0x6123 小端写出。
	s.Equal([]byte{0x23, 0x61, 0x02, 0x00, 0xaa, 0xbb}, packets.Finalize(b))
	s.Equal(uint16(0x0123), b.Handle())
	s.Equal(BoundaryFirstFlushable, b.Boundary())
}

func (s *HCISuite) TestACLHandleOutOfRange() {
	_, err := NewACLBuilder(0x1000, BoundaryFirstNonFlushable, 0, nil)
	s.ErrorIs(err, merr.ErrParameterInvalid)
}

func (s *HCISuite) TestACLFragment() {
	payload := make([]byte, 10)
	for i := range payload {
		payload[i] = byte(i)
	}

	b, err := NewACLBuilder(0x0042, BoundaryFirstFlushable, 0, payload)
	s.NoError(err)

	frags, err := b.Fragment(4)
	s.NoError(err)
	s.Len(frags, 3)

	// 首片保留原边界标志，后续分片变为 Continuing。
	s.Equal(BoundaryFirstFlushable, frags[0].Boundary())
	s.Equal(BoundaryContinuing, frags[1].Boundary())
	s.Equal(BoundaryContinuing, frags[2].Boundary())

	var joined []byte
	for _, f := range frags {
		s.Equal(uint16(0x0042), f.Handle())
		raw := packets.Finalize(f)
		joined = append(joined, raw[4:]...)
	}
	s.True(bytes.Equal(payload, joined))
}

func (s *HCISuite) TestACLFragmentInvalidSize() {
	b, err := NewACLBuilder(0x0042, BoundaryFirstNonFlushable, 0, []byte{1, 2, 3})
	s.NoError(err)

	_, err = b.Fragment(0)
	s.ErrorIs(err, merr.ErrFragmentSizeInvalid)
}

func TestHCI(t *testing.T) {
	suite.Run(t, new(HCISuite))
}
