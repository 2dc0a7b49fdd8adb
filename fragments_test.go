package delta16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindFragmentsExample(t *testing.T) {
	assert := assert.New(t)

	dst := []byte("the lazy dog was jumped by the quick brown fox")
	src := []byte("the quick brown fox jumps over the lazy dog")

	got := findFragments(dst, src, 8)
	want := []IndexMapping{
		{Start: 31, Offset: -31, Length: 12},
		{Start: 0, Offset: 27, Length: 19},
	}
	assert.Equal(want, got)
}

func TestFindFragmentsEmptyInputs(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(findFragments(nil, []byte("x"), 8))
	assert.Nil(findFragments([]byte("x"), nil, 8))
	assert.Nil(findFragments(nil, nil, 8))
}

func TestFindFragmentsMonotonic(t *testing.T) {
	assert := assert.New(t)
	dst := []byte("jumps over the lazy dog does the quick brown fox")
	src := []byte("the quick brown fox jumps over the lazy dog")

	got := findFragments(dst, src, 8)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(got[i].MapStart(), got[i-1].MapEnd(),
			"fragment %d must not overlap fragment %d in destination order", i, i-1)
	}
}
