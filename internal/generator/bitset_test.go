package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitset_ClearTest(t *testing.T) {
	b := newBitset(130)
	assert.Len(t, b, 3)
	assert.False(t, b.test(0), "a new bitset is empty")

	b.setFirst(130)
	b.clear(64)
	assert.True(t, b.test(0))
	assert.False(t, b.test(64))
	assert.True(t, b.test(65))
	assert.True(t, b.test(129))

	b.clear(64)
	assert.False(t, b.test(64), "clearing twice is a no-op")
	assert.Equal(t, 129, b.count(0, 130))
}

func TestBitset_SetFirst(t *testing.T) {
	b := newBitset(130)
	b.setFirst(130)

	b.setFirst(70)
	assert.Equal(t, 70, b.count(0, 130))
	assert.True(t, b.test(69))
	assert.False(t, b.test(70))
	assert.False(t, b.test(129), "bits past n are cleared")

	b.setFirst(128)
	assert.Equal(t, 128, b.count(0, 130))
}

func TestBitset_CountRange(t *testing.T) {
	b := newBitset(200)
	b.setFirst(200)

	assert.Equal(t, 200, b.count(0, 200))
	assert.Equal(t, 10, b.count(60, 70))
	assert.Equal(t, 0, b.count(5, 5))

	b.clear(65)
	assert.Equal(t, 9, b.count(60, 70))
	assert.Equal(t, 199, b.count(0, 200))
}
