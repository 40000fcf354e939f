// Package json 统一封装项目内使用的 JSON 编解码实现。
//
// 底层使用 bytedance/sonic 的标准兼容配置，调用方不直接依赖具体实现，
// 便于后续整体替换编解码方案。
package json

import (
	"io"

	"github.com/bytedance/sonic"
)

var json = sonic.ConfigStd

var (
	// Marshal 将对象编码为 JSON 字节。
	Marshal = json.Marshal
	// Unmarshal 将 JSON 字节解码到目标对象。
	Unmarshal = json.Unmarshal
	// MarshalIndent 以缩进格式编码对象。
	MarshalIndent = json.MarshalIndent
)

// NewEncoder 创建一个写入 w 的 JSON 编码器。
func NewEncoder(w io.Writer) sonic.Encoder {
	return json.NewEncoder(w)
}

// NewDecoder 创建一个从 r 读取的 JSON 解码器。
func NewDecoder(r io.Reader) sonic.Decoder {
	return json.NewDecoder(r)
}
