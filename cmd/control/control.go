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

package control

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-headset/pkg/command"
	"jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/protocol"
)

func printYAML(out io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func NewStatusCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show acquisition status and error counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := command.NewApiClient(cfg).Status()
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), status)
		},
	}
	return cmd
}

func NewDeviceCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Show what the headset reported about itself",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := command.NewApiClient(cfg).Device()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), info.String())
			return nil
		},
	}
	return cmd
}

func NewRecordingsCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "List finished recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := command.NewApiClient(cfg).Recordings()
			if err != nil {
				return err
			}
			for _, e := range entries {
				state := "ok"
				if e.Error != "" {
					state = e.Error
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-5s %8d samples  %s  %s\n",
					e.ID, e.Start.Format("2006-01-02 15:04:05"), e.Format, e.Samples, e.Target, state)
			}
			return nil
		},
	}
	return cmd
}

// NewClearCommand creates the command that drops the samples not packed into a window yet
func NewClearCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "clear-buffer",
		Short: "Drop buffered samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).ClearBuffer()
		},
	}
	return cmd
}

func NewResetCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "reset-counters",
		Short: "Reset the error counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).ResetCounters()
		},
	}
	return cmd
}

func NewSendCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:       "send <command> [arg]",
		Short:     "Send a mailbox command to the headset",
		Long:      fmt.Sprintf("Send a mailbox command to the headset. Commands: %s", strings.Join(protocol.CommandNames(), ", ")),
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: protocol.CommandNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 1 {
				arg = args[1]
			}
			// fail before the round trip on a typo
			if _, err := protocol.ParseCommand(args[0], arg); err != nil {
				return err
			}
			return command.NewApiClient(cfg).Send(args[0], arg)
		},
	}
	return cmd
}
