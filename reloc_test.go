package delta16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexMapping(t *testing.T) {
	assert := assert.New(t)
	m := IndexMapping{Start: 10, Offset: 5, Length: 4}
	assert.False(m.Empty())
	assert.Equal(14, m.End())
	assert.Equal(15, m.MapStart())
	assert.Equal(19, m.MapEnd())

	mapped, ok := m.Map(10)
	assert.True(ok)
	assert.Equal(15, mapped)

	_, ok = m.Map(14)
	assert.False(ok)

	empty := IndexMapping{Start: 0, Offset: 100, Length: 0}
	assert.True(empty.Empty())
}

func TestRelocationTable(t *testing.T) {
	assert := assert.New(t)

	table := NewRelocationTable([]IndexMapping{
		{Start: 0, Offset: 0, Length: 1024},
		{Start: 512, Offset: 1536, Length: 1024},
	}, 8192, 8192)

	_, ok := table.Relocate(0)
	assert.False(ok, "address outside every entry must fail to relocate")

	got, ok := table.Relocate(512 + 8192)
	assert.True(ok)
	assert.Equal(512+16384, got)

	// The address falls in the second entry's source range, so it is
	// relocated by that entry's offset rather than the first.
	got, ok = table.Relocate(1500 + 8192)
	assert.True(ok)
	assert.Equal(1500+16384+2048-512, got)
}

func TestRelocationTableFirstHitWins(t *testing.T) {
	assert := assert.New(t)

	// Two entries whose source ranges overlap; scan order picks the first.
	table := NewRelocationTable([]IndexMapping{
		{Start: 0, Offset: 100, Length: 10},
		{Start: 5, Offset: 200, Length: 10},
	}, 0, 0)

	got, ok := table.Relocate(5)
	assert.True(ok)
	assert.Equal(105, got)
}

func TestIdentityRelocationTable(t *testing.T) {
	assert := assert.New(t)
	table := NewRelocationTable([]IndexMapping{{Start: 0, Offset: 0, Length: 1 << 16}}, 0, 0)
	got, ok := table.Relocate(0x1234)
	assert.True(ok)
	assert.Equal(0x1234, got)
}
