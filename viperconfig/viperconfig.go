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

// Package viperconfig lets a cobra command take any of its flag values
// from a config file named by a --config flag, with command-line values
// taking precedence.
package viperconfig

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tracecov.dev/pkg/log"
)

// AddConfigFlag adds the --config flag to a command. The file it names is
// applied by ProcessViperConfig.
func AddConfigFlag(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().String("config", "", "Config file containing args")
	_ = v.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
}

// ProcessViperConfig reads the file named by the command's --config flag,
// if any, and applies its values to every flag not explicitly set on the
// command line.
func ProcessViperConfig(cmd *cobra.Command, v *viper.Viper) {
	path, err := cmd.Flags().GetString("config")
	if err != nil || path == "" {
		return
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		log.Warnf("unable to read config file %s: %v", path, err)
		return
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			_ = cmd.Flags().Set(f.Name, v.GetString(f.Name))
		}
	})
}

// Viperize installs the --config flag on the root command and arranges for
// ProcessViperConfig to run before any command in the tree executes.
func Viperize(root *cobra.Command, v *viper.Viper) {
	AddConfigFlag(root, v)

	wrap := func(cmd *cobra.Command) {
		pre := cmd.PreRun
		cmd.PreRun = func(c *cobra.Command, args []string) {
			ProcessViperConfig(c, v)
			if pre != nil {
				pre(c, args)
			}
		}
		_ = v.BindPFlags(cmd.Flags())
		_ = v.BindPFlags(cmd.PersistentFlags())
	}

	wrap(root)
	for _, sub := range root.Commands() {
		wrap(sub)
	}
}

// ViperizeRootCmdDefault is Viperize against the shared viper instance.
func ViperizeRootCmdDefault(root *cobra.Command) {
	Viperize(root, viper.GetViper())
}
