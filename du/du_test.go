package du

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainSizes(t *testing.T) {
	head := Wrap([]byte{0, 1, 2, 3})
	mid := Wrap([]byte{4, 5, 6})
	tail := Wrap([]byte{7})

	require.NoError(t, mid.Append(tail))
	require.NoError(t, head.Append(mid))

	assert.Equal(t, 4, head.Size())
	assert.Equal(t, 8, head.TotalSize())
	assert.Equal(t, 3, head.Length())
	assert.Equal(t, 4, mid.TotalSize())
	assert.Equal(t, 2, mid.Length())
}

func TestAppendAlreadyChained(t *testing.T) {
	head := Wrap([]byte{0})
	require.NoError(t, head.Append(Wrap([]byte{1})))

	err := head.Append(Wrap([]byte{2}))
	assert.ErrorIs(t, err, ErrAlreadyChained)

	// The existing successor survives the failed append
	assert.Equal(t, []byte{1}, head.Next().Bytes())
	assert.Equal(t, 2, head.Length())
}

func TestPopDetaches(t *testing.T) {
	payload := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	head := Alloc(6)
	require.NoError(t, head.Append(Wrap(payload)))

	popped := head.Pop()
	require.NotNil(t, popped)
	assert.Equal(t, 1, popped.Length())
	assert.Equal(t, payload, popped.Bytes())
	assert.Equal(t, 1, head.Length())
	assert.Nil(t, head.Next())

	assert.Nil(t, head.Pop())
}

func TestNextBorrows(t *testing.T) {
	head := Wrap([]byte{0})
	tail := Wrap([]byte{1})
	require.NoError(t, head.Append(tail))

	// Inspecting the successor does not detach it
	assert.Same(t, tail, head.Next())
	assert.Same(t, tail, head.Next())
	assert.Equal(t, 2, head.Length())
}

func TestAllocZeroed(t *testing.T) {
	d := Alloc(6)
	assert.Equal(t, 6, d.Size())
	assert.Equal(t, make([]byte, 6), d.Bytes())
}

func TestWrapZeroCopy(t *testing.T) {
	buf := []byte{0xAA, 0xBB}
	d := Wrap(buf)

	// The node borrows the caller's memory rather than copying it
	buf[0] = 0xCC
	assert.Equal(t, []byte{0xCC, 0xBB}, d.Bytes())
}
