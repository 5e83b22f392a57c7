package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEmitsEveryFullWindow(t *testing.T) {
	a := New[int](100)
	samples := make([]int, 250)
	for i := range samples {
		samples[i] = i
	}
	windows := a.Append(samples...)
	require.Len(t, windows, 2)
	assert.Len(t, windows[0], 100)
	assert.Len(t, windows[1], 100)
	assert.Equal(t, 0, windows[0][0])
	assert.Equal(t, 100, windows[1][0])
	assert.Equal(t, 50, a.Len())

	windows = a.Append(samples[:50]...)
	require.Len(t, windows, 1)
	assert.Equal(t, 200, windows[0][0])
	assert.Equal(t, 49, windows[0][99])
	assert.Equal(t, 0, a.Len())
}

func TestWindowsAreNotShared(t *testing.T) {
	a := New[int](2)
	windows := a.Append(1, 2, 3)
	require.Len(t, windows, 1)
	windows[0][0] = 42
	next := a.Append(4)
	assert.Equal(t, [][]int{{3, 4}}, next)
}

func TestClearIsIdempotent(t *testing.T) {
	a := New[float64](10)
	a.Append(1, 2, 3)
	a.Clear()
	once := a.Len()
	a.Clear()
	assert.Equal(t, once, a.Len())
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Append(1))
	assert.Equal(t, 10, a.Size())
}
