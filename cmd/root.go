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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-headset/cmd/acquire"
	"jinr.ru/greenlab/go-headset/cmd/completion"
	"jinr.ru/greenlab/go-headset/cmd/config"
	"jinr.ru/greenlab/go-headset/cmd/control"
	"jinr.ru/greenlab/go-headset/cmd/discover"
	"jinr.ru/greenlab/go-headset/cmd/record"
	pkgconfig "jinr.ru/greenlab/go-headset/pkg/config"
	"jinr.ru/greenlab/go-headset/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:          "go-headset",
		Short:        "Tool to acquire EEG and motion data from wearable headsets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(acquire.NewCommand())
	cmd.AddCommand(record.NewCommand())
	cmd.AddCommand(control.NewStatusCommand())
	cmd.AddCommand(control.NewDeviceCommand())
	cmd.AddCommand(control.NewRecordingsCommand())
	cmd.AddCommand(control.NewClearCommand())
	cmd.AddCommand(control.NewResetCommand())
	cmd.AddCommand(control.NewSendCommand())
	cmd.AddCommand(discover.NewCommand())
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
