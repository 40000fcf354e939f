package types

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
)

type AddressSuite struct {
	suite.Suite
}

func (s *AddressSuite) TestParseRoundTrip() {
	addr, err := ParseAddress("aa:bb:cc:dd:ee:ff")
	s.NoError(err)
	s.Equal(Address{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, addr)
	s.Equal("aa:bb:cc:dd:ee:ff", addr.String())
}

func (s *AddressSuite) TestParseInvalid() {
	cases := []string{
		"",
		"aa:bb:cc:dd:ee",
		"aa:bb:cc:dd:ee:ff:00",
		"aa:bb:cc:dd:ee:f",
		"aa:bb:cc:dd:ee:fff",
		"zz:bb:cc:dd:ee:ff",
		"aabbccddeeff",
	}
	for _, c := range cases {
		_, err := ParseAddress(c)
		s.ErrorIs(err, merr.ErrAddressInvalid, c)
	}
}

func (s *AddressSuite) TestEmpty() {
	s.True(EmptyAddress.IsEmpty())

	addr, err := ParseAddress("00:00:00:00:00:01")
	s.NoError(err)
	s.False(addr.IsEmpty())
}

func (s *AddressSuite) TestAppendKeepsStoredOrder() {
	addr := Address{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}

	s.Equal(AddressLength, addr.Size())
	s.Equal([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, addr.AppendTo(nil))
	s.Equal([]byte{0xff, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, addr.AppendTo([]byte{0xff}))
}

func (s *AddressSuite) TestBytesIsCopy() {
	addr := Address{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	got := addr.Bytes()
	got[0] = 0xee
	s.Equal(byte(0x01), addr[0])
}

func TestAddress(t *testing.T) {
	suite.Run(t, new(AddressSuite))
}
