package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstIndexHasNoGap(t *testing.T) {
	tr := NewTracker()
	_, ok := tr.Previous()
	assert.False(t, ok)

	abs, missing, err := tr.Next(1234)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), abs)
	assert.Equal(t, int64(0), missing)
}

func TestOverflowWithoutLoss(t *testing.T) {
	tr := NewTracker()
	var last int64 = -1
	for _, r := range []uint16{65532, 65533, 65534, 65535, 0, 1, 2, 3} {
		abs, missing, err := tr.Next(r)
		require.NoError(t, err)
		assert.Equal(t, int64(0), missing, "rolling %d", r)
		if last >= 0 {
			assert.Equal(t, last+1, abs)
		}
		last = abs
		if r >= 65532 {
			assert.Equal(t, int64(0), tr.Overflow())
		} else {
			assert.Equal(t, int64(1), tr.Overflow())
		}
	}
	assert.Equal(t, int64(65536+3), last)
}

func TestMissingFrames(t *testing.T) {
	tr := NewTracker()
	_, _, _ = tr.Next(10)
	abs, missing, err := tr.Next(15)
	require.NoError(t, err)
	assert.Equal(t, int64(15), abs)
	assert.Equal(t, int64(4), missing)

	// loss across the wrap
	tr.Reset()
	_, _, _ = tr.Next(65534)
	abs, missing, err = tr.Next(2)
	require.NoError(t, err)
	assert.Equal(t, int64(65536+2), abs)
	assert.Equal(t, int64(3), missing)
}

func TestDuplicateIsNotLoss(t *testing.T) {
	tr := NewTracker()
	_, _, _ = tr.Next(7)
	abs, missing, err := tr.Next(7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), abs)
	assert.Equal(t, int64(0), missing)
}

func TestBackwardJumpIsAnomaly(t *testing.T) {
	tr := NewTracker()
	_, _, _ = tr.Next(1000)
	abs, missing, err := tr.Next(10)
	require.Error(t, err)
	assert.IsType(t, ErrSequenceAnomaly{}, err)
	assert.Equal(t, int64(0), missing)
	assert.Equal(t, int64(1001), abs)
	assert.Equal(t, int64(0), tr.Overflow())

	// tracking continues from the new anchor
	abs, missing, err = tr.Next(12)
	require.NoError(t, err)
	assert.Equal(t, int64(1003), abs)
	assert.Equal(t, int64(1), missing)
}

func TestReset(t *testing.T) {
	tr := NewTracker()
	_, _, _ = tr.Next(65535)
	_, _, _ = tr.Next(0)
	require.Equal(t, int64(1), tr.Overflow())

	tr.Reset()
	_, ok := tr.Previous()
	assert.False(t, ok)
	abs, missing, err := tr.Next(5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), abs)
	assert.Equal(t, int64(0), missing)
}
