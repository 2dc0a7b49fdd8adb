package delta16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindOverlap(t *testing.T) {
	assert := assert.New(t)

	start, length, ok := findOverlap(
		[]byte("the quick brown fox"),
		[]byte("THE quick x brown fox"),
		0, 0,
	)
	assert.True(ok)
	assert.Equal(3, start)
	assert.Equal(7, length)

	start, length, ok = findOverlap(
		[]byte("the quick brown fox"),
		[]byte("the QUicK x brown fox"),
		3, 0,
	)
	assert.True(ok)
	assert.Equal(0, start)
	assert.Equal(10, length)
}

func TestFindOverlapNoMatch(t *testing.T) {
	_, _, ok := findOverlap([]byte("abc"), []byte("xyz"), 0, 0)
	assert.False(t, ok)
}

func TestFindOverlapBoundaryInvariant(t *testing.T) {
	assert := assert.New(t)
	a := []byte("aaaaXXXaaaa")
	b := []byte("aaaaYYYaaaa")
	start, length, ok := findOverlap(a, b, 3, 0)
	if assert.True(ok) {
		assert.Equal(a[start], b[start])
		assert.Equal(a[start+length-1], b[start+length-1])
	}
}
