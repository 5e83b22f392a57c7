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

package gapfill

import (
	"math"

	"jinr.ru/greenlab/go-headset/pkg/frame"
)

// Positions returns the decoded positions of frame index preceded by
// missing*samplesPerFrame NaN positions
func Positions(index, missing int64, samplesPerFrame int, decoded []frame.Position) []frame.Position {
	gap, skip := span(missing, samplesPerFrame)
	out := make([]frame.Position, 0, int(gap)+len(decoded))
	nan := math.NaN()
	for i := int64(0); i < gap; i++ {
		out = append(out, frame.Position{
			X: nan, Y: nan, Z: nan,
			Gap:   true,
			Index: index - missing + (skip+i)/int64(samplesPerFrame),
		})
	}
	for _, p := range decoded {
		p.Index = index
		out = append(out, p)
	}
	return out
}
