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

package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-headset/pkg/command"
	"jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/export"
	"jinr.ru/greenlab/go-headset/pkg/recording"
)

// NewCommand creates the command that starts and stops recordings
func NewCommand() *cobra.Command {
	opts := recording.Options{}
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:       "record start|stop",
		Short:     "Start/stop a recording session",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"start", "stop"},
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			switch args[0] {
			case "start":
				header, err := apiClient.StartRecording(opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recording %s started: %s\n", header.ID, header.Target)
				return nil
			case "stop":
				header, err := apiClient.StopRecording()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recording %s stopped after %s\n",
					header.ID, header.Stop.Sub(header.Start).Round(time.Millisecond))
				return nil
			default:
				return errors.New("Wrong recording command. Must be one of start/stop")
			}
		},
	}
	cmd.Flags().StringVar(&opts.Target, "target", "", "Output file, relative paths are resolved against the recording directory")
	cmd.Flags().StringVar(&opts.Format, "format", "", fmt.Sprintf("Output format. One of: %v", export.Formats()))
	cmd.Flags().StringVar(&opts.Comment, "comment", "", "Free text stored in the recording header")
	cmd.Flags().BoolVar(&opts.RecordIms, "ims", false, "Record the IMS positions too")

	return cmd
}
