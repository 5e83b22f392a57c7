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

package recording

import (
	"fmt"
)

// ErrRecording is returned for recording lifecycle errors and failed exports
type ErrRecording struct {
	What string
}

func (e ErrRecording) Error() string {
	return fmt.Sprintf("Recording error: %s", e.What)
}
