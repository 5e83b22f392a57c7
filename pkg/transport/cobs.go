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

package transport

import (
	"fmt"
)

// Delimiter terminates every COBS encoded frame on a byte stream
const Delimiter = 0x00

// CobsEncode encodes a frame so that it contains no zero byte. The delimiter is not appended.
func CobsEncode(data []byte) []byte {
	out := make([]byte, 1, len(data)+len(data)/254+2)
	codeAt := 0
	code := byte(1)
	for _, b := range data {
		if b == 0 {
			out[codeAt] = code
			codeAt = len(out)
			out = append(out, 0)
			code = 1
			continue
		}
		out = append(out, b)
		code++
		if code == 0xFF {
			out[codeAt] = code
			codeAt = len(out)
			out = append(out, 0)
			code = 1
		}
	}
	out[codeAt] = code
	return out
}

// CobsDecode decodes a COBS frame without the trailing delimiter
func CobsDecode(frame []byte) ([]byte, error) {
	out := make([]byte, 0, len(frame))
	for i := 0; i < len(frame); {
		code := frame[i]
		if code == 0 {
			return nil, fmt.Errorf("invalid COBS code 0x00 at %d", i)
		}
		i++
		n := int(code) - 1
		if i+n > len(frame) {
			return nil, fmt.Errorf("COBS frame truncated")
		}
		out = append(out, frame[i:i+n]...)
		i += n
		if code != 0xFF && i < len(frame) {
			out = append(out, 0)
		}
	}
	return out, nil
}
