package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sine(n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*10*float64(i)/float64(n))
	}
	return out
}

func TestBasicScore(t *testing.T) {
	flat := make([]float64, 250)
	gap := sine(250, 20)
	gap[10] = math.NaN()
	saturated := sine(250, 20)
	for i := 0; i < 100; i++ {
		saturated[i] = 8000
	}

	scores := NewBasic().Score([][]float64{sine(250, 20), flat, gap, saturated, sine(250, 1000)}, 250)
	assert.Equal(t, []float64{1, 0, 0, 0.5, 0.5}, scores)
}

func TestBasicScoreEmpty(t *testing.T) {
	assert.Empty(t, NewBasic().Score(nil, 250))
	assert.Equal(t, []float64{0}, NewBasic().Score([][]float64{{1}}, 250))
}
