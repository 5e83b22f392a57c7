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
	"fmt"
	"math"
	"time"

	"jinr.ru/greenlab/go-headset/pkg/export/edf"
	"jinr.ru/greenlab/go-headset/pkg/recording"
)

// EDFExporter writes one signal per EEG channel and one data record per second.
// The trailing partial second is padded with gap samples.
type EDFExporter struct{}

func (EDFExporter) Export(r *recording.Recording) error {
	rate := r.Header.Device.SampleRate
	if rate <= 0 {
		return fmt.Errorf("invalid sample rate %d", rate)
	}
	pmin, pmax := physicalRange(r)
	hdr := edf.Header{
		PatientID:      r.Header.DeviceInfo.SerialNumber,
		RecordingID:    r.Header.ID,
		Start:          r.Header.Start,
		RecordDuration: time.Second,
	}
	for i := range r.Channels {
		hdr.Signals = append(hdr.Signals, edf.Signal{
			Label:            fmt.Sprintf("EEG %d", i+1),
			Transducer:       string(r.Header.Device.Kind),
			Dimension:        "uV",
			PhysicalMin:      pmin,
			PhysicalMax:      pmax,
			SamplesPerRecord: rate,
		})
	}
	if r.Status != nil {
		hdr.Signals = append(hdr.Signals, edf.Signal{
			Label:            "Status",
			PhysicalMin:      0,
			PhysicalMax:      255,
			SamplesPerRecord: rate,
		})
	}

	f, err := create(r.Header.Target)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := edf.Create(f, hdr)
	if err != nil {
		return err
	}
	samples := r.Samples()
	for start := 0; start < samples; start += rate {
		var record [][]float64
		for _, ch := range r.Channels {
			record = append(record, window(ch, start, rate))
		}
		if r.Status != nil {
			record = append(record, window(r.Status, start, rate))
		}
		if err := w.WriteRecord(record); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Sync()
}

func window(values []float64, start, size int) []float64 {
	out := make([]float64, size)
	for i := range out {
		if start+i < len(values) {
			out[i] = values[start+i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// physicalRange is the full scale of the headset ADC
func physicalRange(r *recording.Recording) (float64, float64) {
	scale := r.Header.Device.VoltageScale
	if scale <= 0 {
		scale = 1
	}
	return math.MinInt16 * scale, math.MaxInt16 * scale
}
