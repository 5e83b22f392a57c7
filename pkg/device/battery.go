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

package device

import "math"

// BatteryCurve converts the raw battery byte reported by a device into a percentage
type BatteryCurve int

const (
	// BatteryCurveLegacy is a level lookup used by pre-Indus5 headsets
	BatteryCurveLegacy BatteryCurve = iota
	// BatteryCurveIndus5 is the linear curve of Indus5 headsets
	BatteryCurveIndus5
)

var legacyBatteryLevels = []float64{0, 15, 30, 50, 65, 85, 100}

// Percent returns the battery percentage for the raw byte.
// The second value is false when the byte is outside of the curve.
func (c BatteryCurve) Percent(raw byte) (float64, bool) {
	switch c {
	case BatteryCurveLegacy:
		if int(raw) >= len(legacyBatteryLevels) {
			return 0, false
		}
		return legacyBatteryLevels[raw], true
	case BatteryCurveIndus5:
		if raw < 4 {
			return 0, true
		}
		return math.Min(float64(raw-4)*12.5, 100), true
	}
	return 0, false
}

func (c BatteryCurve) String() string {
	if c == BatteryCurveIndus5 {
		return "indus5"
	}
	return "legacy"
}
