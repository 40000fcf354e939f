// Package report 为报文构建过程生成 JSON 格式的调试报告。
//
// 报告主要用于排查字段布局问题和编写黄金用例：
// 内容包含报文名称、写出大小、分片数量以及十六进制载荷。
package report

import (
	"encoding/hex"

	"github.com/lk2023060901/packet-garden-go/internal/json"
	"github.com/lk2023060901/packet-garden-go/internal/packets"
)

// BuildReport 描述一次报文构建的结果。
type BuildReport struct {
	// Name 为报文名称，由调用方给定。
	Name string `json:"name"`
	// Size 为写出的字节数。
	Size int `json:"size"`
	// Fragments 为分片数量，未分片时为 0。
	Fragments int `json:"fragments,omitempty"`
	// Payload 为写出字节的十六进制文本。
	Payload string `json:"payload"`
}

// New 构建 b 并生成对应的报告。
func New(name string, b packets.Builder) *BuildReport {
	out := packets.Finalize(b)
	return &BuildReport{
		Name:    name,
		Size:    len(out),
		Payload: hex.EncodeToString(out),
	}
}

// NewFragmented 为一组分片构建器生成汇总报告。
//
// 各分片按顺序写出并拼接，Payload 为拼接后的完整字节。
func NewFragmented(name string, fragments []packets.Builder) *BuildReport {
	var out []byte
	for _, f := range fragments {
		out = f.AppendTo(out)
	}
	return &BuildReport{
		Name:      name,
		Size:      len(out),
		Fragments: len(fragments),
		Payload:   hex.EncodeToString(out),
	}
}

// Marshal 将报告编码为 JSON 字节。
func (r *BuildReport) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
