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

package acquire

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-headset/pkg/command"
	"jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/device"
)

const (
	DeviceOptionName    = "device"
	TransportOptionName = "transport"
	PortOptionName      = "port"
	AddressOptionName   = "address"
	ApiPortOptionName   = "api-port"
)

// NewCommand creates the command that runs the acquisition server
func NewCommand() *cobra.Command {
	var kind, transport, port, address string
	var apiPort int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "acquire",
		Short: "Connect to the headset and serve the acquisition API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "" {
				cfg.DeviceConfig.Kind = kind
			}
			if transport != "" {
				cfg.TransportConfig.Kind = transport
			}
			if port != "" {
				cfg.TransportConfig.Port = port
			}
			if address != "" {
				cfg.TransportConfig.Address = address
			}
			if apiPort != 0 {
				cfg.ApiConfig.Port = apiPort
			}
			return command.StartAcquisitionServer(cfg)
		},
	}
	cmd.Flags().StringVar(&kind, DeviceOptionName, "", fmt.Sprintf("Headset kind. One of: %v", device.Kinds()))
	cmd.Flags().StringVar(&transport, TransportOptionName, "",
		fmt.Sprintf("Transport kind: %s or %s", config.TransportSerial, config.TransportTCP))
	cmd.Flags().StringVar(&port, PortOptionName, "", fmt.Sprintf("Serial port. E.g. %s", config.DefaultSerialPort))
	cmd.Flags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("TCP bridge address. E.g. %s", config.DefaultTransportAddress))
	cmd.Flags().IntVar(&apiPort, ApiPortOptionName, 0, fmt.Sprintf("API port. E.g. %d", config.DefaultApiPort))

	return cmd
}
