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

import (
	"sigs.k8s.io/yaml"
)

// Info is what the headset reports about itself over the mailbox
type Info struct {
	Kind            Kind    `json:"kind"`
	Name            string  `json:"name,omitempty"`
	FirmwareVersion string  `json:"firmwareVersion,omitempty"`
	HardwareVersion string  `json:"hardwareVersion,omitempty"`
	SerialNumber    string  `json:"serialNumber,omitempty"`
	Battery         float64 `json:"battery"`
	Mtu             int     `json:"mtu,omitempty"`
	TriggerSize     int     `json:"triggerSize,omitempty"`
}

func (i Info) String() string {
	out, err := yaml.Marshal(i)
	if err != nil {
		return string(i.Kind)
	}
	return string(out)
}
