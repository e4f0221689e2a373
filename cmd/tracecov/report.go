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
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"

	"tracecov.dev/pkg/coverage"
	"tracecov.dev/pkg/log"
	"tracecov.dev/pkg/report"
)

func reportCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "report <trace-file>",
		Short: "Parse a trace dump once and render its coverage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ioutil.ReadFile(args[0])
			if err != nil {
				return err
			}

			eng := coverage.New()
			if err := eng.ParseData(string(data)); err != nil {
				// Malformed records were skipped; everything parseable is
				// still in the engine.
				log.Warnf("trace %s: %v", args[0], err)
			}

			snaps := eng.Snapshots()
			out := cmd.OutOrStdout()

			switch format {
			case "summary":
				return report.WriteSummary(out, snaps)
			case "json":
				return report.WriteJSON(out, snaps)
			case "yaml":
				return report.WriteYAML(out, snaps)
			case "profile":
				return report.WriteProfile(out, snaps)
			default:
				return fmt.Errorf("unknown format %q (want summary, json, yaml, or profile)", format)
			}
		},
	}

	c.PersistentFlags().StringVar(&format, "format", "summary",
		"Output format: summary, json, yaml, or profile")

	return c
}
