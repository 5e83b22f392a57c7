/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package quality

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Engine scores every channel of an EEG window, one score per channel in [0, 1]
type Engine interface {
	Score(channels [][]float64, sampleRate int) []float64
}

const (
	// DefaultFlatline is the standard deviation below which a channel is considered disconnected, in microvolts
	DefaultFlatline = 0.5
	// DefaultNoise is the standard deviation above which a channel is considered noisy, in microvolts
	DefaultNoise = 100.0
	// DefaultSaturation is the share of samples at the peak value that marks a saturated channel
	DefaultSaturation = 0.2
)

// Basic is an amplitude based scorer
type Basic struct {
	Flatline   float64
	Noise      float64
	Saturation float64
}

func NewBasic() *Basic {
	return &Basic{
		Flatline:   DefaultFlatline,
		Noise:      DefaultNoise,
		Saturation: DefaultSaturation,
	}
}

// Score gives 0 to channels with gaps or a flat signal, 0.5 to saturated or noisy
// channels and 1 to the rest
func (b *Basic) Score(channels [][]float64, sampleRate int) []float64 {
	scores := make([]float64, len(channels))
	for i, ch := range channels {
		scores[i] = b.score(ch)
	}
	return scores
}

func (b *Basic) score(ch []float64) float64 {
	if len(ch) < 2 || floats.HasNaN(ch) {
		return 0
	}
	sd := stat.StdDev(ch, nil)
	if sd < b.Flatline {
		return 0
	}
	peak := math.Max(math.Abs(floats.Max(ch)), math.Abs(floats.Min(ch)))
	atPeak := 0
	for _, v := range ch {
		if math.Abs(v) == peak {
			atPeak++
		}
	}
	if float64(atPeak)/float64(len(ch)) >= b.Saturation || sd > b.Noise {
		return 0.5
	}
	return 1
}
