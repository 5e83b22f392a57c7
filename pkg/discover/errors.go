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

package discover

import (
	"fmt"
	"time"
)

// ErrNoAnswer returned when a port does not answer the device name query in time
type ErrNoAnswer struct {
	Port    string
	Timeout time.Duration
}

func (e ErrNoAnswer) Error() string {
	return fmt.Sprintf("No headset answered on %s within %s", e.Port, e.Timeout)
}
