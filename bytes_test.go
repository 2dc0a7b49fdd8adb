package delta16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackU16(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]byte{0x0d, 0x16}, packU16(0x160d))
	assert.Equal([]byte{0x00, 0x00}, packU16(0))
	assert.Equal([]byte{0xff, 0xff}, packU16(0xffff))
	assert.Panics(func() { packU16(-1) })
	assert.Panics(func() { packU16(1 << 16) })
}

func TestAddrU16(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0x160d, addrU16([]byte{0x0d, 0x16}))
	assert.Equal(0, addrU16([]byte{0x00, 0x00, 0xff}))
}

func TestFletcher16(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0x0403, fletcher16([]byte{0x01, 0x02}))
	assert.Equal(0x0627, fletcher16([]byte("abcdefgh")))
	assert.Equal(0, fletcher16(nil))
}
