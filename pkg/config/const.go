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

package config

const (
	ConfigDir  = ".go-headset"
	ConfigFile = "config"
	DBFile     = "state.db"

	DefaultLogLevel = "info"

	DefaultDeviceKind = "qplus"
	DefaultDeviceName = "headset"

	DefaultTransportKind     = TransportSerial
	DefaultSerialPort        = "/dev/ttyACM0"
	DefaultSerialBaudRate    = 921600
	DefaultTransportAddress  = "127.0.0.1:19021"
	DefaultTransportMaxFrame = 1024

	DefaultApiAddress = "127.0.0.1"
	DefaultApiPort    = 8010

	DefaultStreamQueueSize     = 256
	DefaultEegBufferTimepoints = 0 // 0 means one EEG frame worth of timepoints
	DefaultTriggerEnabled      = false
	DefaultRecordingDir        = "."
	DefaultRecordingFormat     = "json"
)

const (
	TransportSerial = "serial"
	TransportTCP    = "tcp"
)
