package ring

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoundsUpToPowerOfTwo(t *testing.T) {
	rb := New(100)
	assert.Equal(t, 128, rb.Cap())
	assert.True(t, rb.IsEmpty())
	assert.Equal(t, 0, rb.Buffered())
}

func TestNewZeroSizeGrowsOnWrite(t *testing.T) {
	rb := New(0)
	assert.Equal(t, 0, rb.Len())

	n, err := rb.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, DefaultBufferSize, rb.Cap())
	assert.Equal(t, 5, rb.Buffered())
}

func TestReadEmpty(t *testing.T) {
	rb := New(16)
	_, err := rb.Read(make([]byte, 4))
	assert.ErrorIs(t, err, ErrIsEmpty)
}

func TestWriteReadRoundTrip(t *testing.T) {
	rb := New(16)
	data := []byte("0123456789")

	n, err := rb.Write(data)
	assert.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, len(data), rb.Buffered())

	out := make([]byte, len(data))
	n, err = rb.Read(out)
	assert.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, out)
	assert.True(t, rb.IsEmpty())
}

func TestWrapAround(t *testing.T) {
	rb := New(8)

	// 先写后读一部分，让写指针回绕到切片头部。
	_, err := rb.Write([]byte("abcdef"))
	assert.NoError(t, err)
	out := make([]byte, 4)
	_, err = rb.Read(out)
	assert.NoError(t, err)
	assert.Equal(t, []byte("abcd"), out)

	_, err = rb.Write([]byte("ghijkl"))
	assert.NoError(t, err)
	assert.Equal(t, 8, rb.Buffered())

	got := make([]byte, 8)
	n, err := rb.Read(got)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []byte("efghijkl"), got)
}

func TestGrowPreservesContent(t *testing.T) {
	rb := New(8)
	payload := bytes.Repeat([]byte{0xA5}, 100)

	n, err := rb.Write(payload)
	assert.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.GreaterOrEqual(t, rb.Cap(), len(payload))

	out := make([]byte, len(payload))
	_, err = rb.Read(out)
	assert.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestReset(t *testing.T) {
	rb := New(16)
	_, err := rb.Write([]byte("data"))
	assert.NoError(t, err)
	rb.Reset()
	assert.True(t, rb.IsEmpty())
	assert.Equal(t, 0, rb.Buffered())
	assert.Equal(t, 16, rb.Cap())
}
