package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lk2023060901/packet-garden-go/internal/json"
	"github.com/lk2023060901/packet-garden-go/internal/packets"
)

func TestNew(t *testing.T) {
	r := New("raw", packets.NewRawBuilder([]byte{0x01, 0xcd, 0xab}))

	assert.Equal(t, "raw", r.Name)
	assert.Equal(t, 3, r.Size)
	assert.Equal(t, 0, r.Fragments)
	assert.Equal(t, "01cdab", r.Payload)
}

func TestNewFragmented(t *testing.T) {
	chunks, err := packets.NewRawBuilder([]byte{1, 2, 3, 4, 5}).Fragment(2)
	assert.NoError(t, err)

	builders := make([]packets.Builder, 0, len(chunks))
	for _, c := range chunks {
		builders = append(builders, c)
	}

	r := NewFragmented("fragmented", builders)
	assert.Equal(t, 5, r.Size)
	assert.Equal(t, 3, r.Fragments)
	assert.Equal(t, "0102030405", r.Payload)
}

func TestMarshalRoundTrip(t *testing.T) {
	r := New("cmd", packets.NewRawBuilder([]byte{0xff}))

	raw, err := r.Marshal()
	assert.NoError(t, err)

	var got BuildReport
	assert.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, *r, got)
}
