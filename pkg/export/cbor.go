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
	"github.com/fxamacker/cbor/v2"

	"jinr.ru/greenlab/go-headset/pkg/recording"
)

// CBORExporter writes the recording as a single CBOR document
type CBORExporter struct{}

var cborEncMode, _ = cbor.EncOptions{
	Time: cbor.TimeRFC3339Nano,
}.EncMode()

func (CBORExporter) Export(r *recording.Recording) error {
	data, err := cborEncMode.Marshal(r)
	if err != nil {
		return err
	}
	f, err := create(r.Header.Target)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// ReadCBOR decodes a recording written by CBORExporter
func ReadCBOR(data []byte) (*recording.Recording, error) {
	r := &recording.Recording{}
	if err := cbor.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}
