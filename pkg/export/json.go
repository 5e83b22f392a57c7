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

package export

import (
	"encoding/json"
	"math"
	"strconv"

	"jinr.ru/greenlab/go-headset/pkg/accounting"
	"jinr.ru/greenlab/go-headset/pkg/recording"
)

// JSONExporter writes an indented JSON document, NaN samples become null
type JSONExporter struct{}

type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

type jsonPosition struct {
	X     jsonFloat `json:"x"`
	Y     jsonFloat `json:"y"`
	Z     jsonFloat `json:"z"`
	Gap   bool      `json:"gap,omitempty"`
	Index int64     `json:"index"`
}

type jsonRecording struct {
	Header    recording.Header         `json:"header"`
	Channels  [][]jsonFloat            `json:"channels"`
	Status    []jsonFloat              `json:"status,omitempty"`
	Gaps      []bool                   `json:"gaps,omitempty"`
	Positions []jsonPosition           `json:"positions,omitempty"`
	Counters  accounting.ErrorCounters `json:"counters"`
	Faults    accounting.Faults        `json:"faults"`
	Missing   jsonFloat                `json:"missingPercent"`
}

func floats(in []float64) []jsonFloat {
	if in == nil {
		return nil
	}
	out := make([]jsonFloat, len(in))
	for i, v := range in {
		out[i] = jsonFloat(v)
	}
	return out
}

func (JSONExporter) Export(r *recording.Recording) error {
	doc := jsonRecording{
		Header:   r.Header,
		Channels: make([][]jsonFloat, len(r.Channels)),
		Status:   floats(r.Status),
		Gaps:     r.Gaps,
		Counters: r.Counters,
		Faults:   r.Faults,
		Missing:  jsonFloat(r.Counters.MissingPercent()),
	}
	for i, ch := range r.Channels {
		doc.Channels[i] = floats(ch)
	}
	for _, p := range r.Positions {
		doc.Positions = append(doc.Positions, jsonPosition{
			X: jsonFloat(p.X), Y: jsonFloat(p.Y), Z: jsonFloat(p.Z), Gap: p.Gap, Index: p.Index,
		})
	}

	f, err := create(r.Header.Target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return f.Sync()
}
