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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jinr.ru/greenlab/go-headset/pkg/recording"
)

const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
	FormatEDF  = "edf"
)

var exporters = map[string]recording.Exporter{
	FormatJSON: JSONExporter{},
	FormatCBOR: CBORExporter{},
	FormatEDF:  EDFExporter{},
}

// New returns the exporter of a format, it is a recording.ExporterFactory
func New(format string) (recording.Exporter, error) {
	e, ok := exporters[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported recording format %q, must be one of: %s",
			format, strings.Join(Formats(), ", "))
	}
	return e, nil
}

// Formats returns the supported format names
func Formats() []string {
	var formats []string
	for f := range exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// create opens the target file, creating the parent directory
func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
}
