// Package types 定义报文层使用的基础值类型。
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
)

// AddressLength 为硬件地址的固定字节长度。
const AddressLength = 6

// Address 表示一个 6 字节的硬件地址。
//
// 存储顺序即线上传输顺序：地址按原始字节序列整体写出，
// 不参与任何字节序重排。
type Address [AddressLength]byte

// EmptyAddress 为全零地址。
var EmptyAddress = Address{}

// ParseAddress 解析形如 "aa:bb:cc:dd:ee:ff" 的地址字符串。
func ParseAddress(s string) (Address, error) {
	var addr Address

	parts := strings.Split(s, ":")
	if len(parts) != AddressLength {
		return EmptyAddress, merr.WrapErrAddressInvalid(s)
	}

	for i, part := range parts {
		if len(part) != 2 {
			return EmptyAddress, merr.WrapErrAddressInvalid(s)
		}
		b, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return EmptyAddress, merr.WrapErrAddressInvalid(s)
		}
		addr[i] = byte(b)
	}
	return addr, nil
}

// String 返回 "aa:bb:cc:dd:ee:ff" 形式的地址文本。
func (a Address) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		a[0], a[1], a[2], a[3], a[4], a[5])
}

// Bytes 返回地址的字节副本，顺序与存储顺序一致。
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsEmpty 判断地址是否为全零。
func (a Address) IsEmpty() bool {
	return a == EmptyAddress
}

// Size 返回地址写出后的字节数，恒为 AddressLength。
func (a Address) Size() int {
	return AddressLength
}

// AppendTo 将地址按存储顺序追加到 dst，字节序设置对该路径无效。
func (a Address) AppendTo(dst []byte) []byte {
	return append(dst, a[:]...)
}
