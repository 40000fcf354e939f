// Package bytebuffer 封装 valyala/bytebufferpool，为发送路径提供可复用的字节缓冲区。
package bytebuffer

import (
	"github.com/valyala/bytebufferpool"
)

// ByteBuffer 是 bytebufferpool.ByteBuffer 的别名，字节内容通过 B 字段访问。
type ByteBuffer = bytebufferpool.ByteBuffer

// 报文构建与发送使用独立的池，避免与其它用途互相干扰大小校准。
var pool bytebufferpool.Pool

// Get 从池中获取一个空缓冲区。
//
// 使用结束后应通过 Put 归还，以减少内存分配。
func Get() *ByteBuffer {
	return pool.Get()
}

// Put 将缓冲区归还到池中。
//
// 注意：归还后的缓冲区不允许再被访问，否则会引发数据竞争。
func Put(b *ByteBuffer) {
	pool.Put(b)
}
