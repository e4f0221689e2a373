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

package log

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	defaultOutputLevel     = InfoLevel
	defaultOutputPath      = "stderr"
	defaultRotationSize    = 100
	defaultRotationAge     = 30
	defaultRotationBackups = 1000
)

// Options defines the set of options supported by the package's logging.
type Options struct {
	// OutputPaths is a list of file system paths to write the log data to.
	// The special values stdout and stderr can be used to output to the
	// standard I/O streams.
	OutputPaths []string

	// RotateOutputPath is the path to a rotating log file. An empty path
	// disables rotation.
	RotateOutputPath string

	// RotationMaxSize is the maximum size in megabytes of a log file before
	// it gets rotated.
	RotationMaxSize int

	// RotationMaxAge is the maximum number of days to retain old log files.
	RotationMaxAge int

	// RotationMaxBackups is the maximum number of old log files to retain.
	RotationMaxBackups int

	// JSONEncoding controls whether the log is formatted as JSON.
	JSONEncoding bool

	outputLevels string
}

// DefaultOptions returns a new set of options, initialized to the defaults.
func DefaultOptions() *Options {
	return &Options{
		OutputPaths:        []string{defaultOutputPath},
		RotationMaxSize:    defaultRotationSize,
		RotationMaxAge:     defaultRotationAge,
		RotationMaxBackups: defaultRotationBackups,
		outputLevels:       DefaultScopeName + ":" + defaultOutputLevel.String(),
	}
}

// SetOutputLevel sets the minimum log output level for a given scope.
func (o *Options) SetOutputLevel(scope string, level Level) {
	sl := scope + ":" + level.String()
	levels := strings.Split(o.outputLevels, ",")

	for i, l := range levels {
		if strings.HasPrefix(l, scope+":") {
			levels[i] = sl
			o.outputLevels = strings.Join(levels, ",")
			return
		}
	}

	levels = append(levels, sl)
	o.outputLevels = strings.Join(levels, ",")
}

// GetOutputLevel returns the minimum log output level for a given scope.
func (o *Options) GetOutputLevel(scope string) (Level, error) {
	levels := strings.Split(o.outputLevels, ",")

	for _, l := range levels {
		if strings.HasPrefix(l, scope+":") {
			return stringToLevel[l[len(scope)+1:]], nil
		}
	}

	return NoneLevel, fmt.Errorf("no level defined for scope '%s'", scope)
}

// AttachCobraFlags attaches a set of Cobra flags to the given Cobra
// command, letting users control logging from the command line.
func (o *Options) AttachCobraFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVar(&o.OutputPaths, "log_target", o.OutputPaths,
		"The set of paths where to output the log. This can be any path as well as the special values stdout and stderr")

	cmd.PersistentFlags().StringVar(&o.RotateOutputPath, "log_rotate", o.RotateOutputPath,
		"The path for the optional rotating log file")

	cmd.PersistentFlags().IntVar(&o.RotationMaxAge, "log_rotate_max_age", o.RotationMaxAge,
		"The maximum age in days of a log file beyond which the file is rotated (0 indicates no limit)")

	cmd.PersistentFlags().IntVar(&o.RotationMaxSize, "log_rotate_max_size", o.RotationMaxSize,
		"The maximum size in megabytes of a log file beyond which the file is rotated")

	cmd.PersistentFlags().IntVar(&o.RotationMaxBackups, "log_rotate_max_backups", o.RotationMaxBackups,
		"The maximum number of log file backups to keep before older files are deleted (0 indicates no limit)")

	cmd.PersistentFlags().BoolVar(&o.JSONEncoding, "log_as_json", o.JSONEncoding,
		"Whether to format output as JSON or in plain console-friendly format")

	cmd.PersistentFlags().StringVar(&o.outputLevels, "log_output_level", o.outputLevels,
		"Comma-separated minimum per-scope logging level of messages to output, in the form of <scope>:<level>,<scope>:<level>,... "+
			"where scope can be one of [default, trace, coverage, tracewatch, covz] and level can be one of "+
			"[debug, info, warn, error, fatal, none]")
}
