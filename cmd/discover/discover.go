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

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/device"
	"jinr.ru/greenlab/go-headset/pkg/discover"
)

const (
	ProbeOptionName   = "probe"
	TimeoutOptionName = "timeout"
)

func NewCommand() *cobra.Command {
	var probe bool
	var timeout time.Duration
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List serial ports, optionally asking each of them for a headset name",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := discover.Ports()
			if err != nil {
				return err
			}
			if probe {
				kind, err := device.ParseKind(cfg.DeviceConfig.Kind)
				if err != nil {
					return err
				}
				profile, err := device.ProfileFor(kind)
				if err != nil {
					return err
				}
				discover.Probe(ports, cfg.TransportConfig.BaudRate, profile, timeout)
			}
			for _, p := range ports {
				fmt.Fprintln(cmd.OutOrStdout(), "---")
				fmt.Fprint(cmd.OutOrStdout(), p.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, ProbeOptionName, false, "Ask every port for the device name of the configured headset kind")
	cmd.Flags().DurationVar(&timeout, TimeoutOptionName, discover.DefaultProbeTimeout, "Probe timeout per port")

	return cmd
}
