// Copyright The Tracecov Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tracecov.dev/pkg/log"
	"tracecov.dev/pkg/viperconfig"
)

var loggingOptions = log.DefaultOptions()

func getRootCmd(args []string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tracecov",
		Short:        "Per-line code coverage from interpreter bytecode traces",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			viperconfig.ProcessViperConfig(cmd, viper.GetViper())
			return log.Configure(loggingOptions)
		},
	}
	rootCmd.SetArgs(args)

	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(versionCmd())

	loggingOptions.AttachCobraFlags(rootCmd)
	viperconfig.AddConfigFlag(rootCmd, viper.GetViper())

	return rootCmd
}
