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
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// patchTable lets tests intercept the write path.
type patchTable struct {
	write       func(ent zapcore.Entry, fields []zapcore.Field) error
	errorSink   zapcore.WriteSyncer
	exitProcess func(code int)
}

var funcs atomic.Value

func init() {
	funcs.Store(patchTable{
		errorSink:   zapcore.AddSync(os.Stderr),
		exitProcess: os.Exit,
	})
	// Usable without explicit configuration.
	_ = Configure(DefaultOptions())
}

func defaultEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "scope",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// Configure initializes the logging subsystem from the supplied options.
// It may be called at any time to dynamically reconfigure output targets
// and per-scope levels.
func Configure(options *Options) error {
	var enc zapcore.Encoder
	if options.JSONEncoding {
		enc = zapcore.NewJSONEncoder(defaultEncoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(defaultEncoderConfig())
	}

	var syncers []zapcore.WriteSyncer
	for _, p := range options.OutputPaths {
		switch p {
		case "stdout":
			syncers = append(syncers, zapcore.AddSync(os.Stdout))
		case "stderr":
			syncers = append(syncers, zapcore.AddSync(os.Stderr))
		default:
			s, _, err := zap.Open(p)
			if err != nil {
				return fmt.Errorf("unable to open log output path %s: %v", p, err)
			}
			syncers = append(syncers, s)
		}
	}

	if options.RotateOutputPath != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   options.RotateOutputPath,
			MaxSize:    options.RotationMaxSize,
			MaxAge:     options.RotationMaxAge,
			MaxBackups: options.RotationMaxBackups,
		}))
	}

	if len(syncers) == 0 {
		syncers = append(syncers, zapcore.AddSync(os.Stderr))
	}

	// Per-scope filtering happens in the Scope methods; the core itself
	// passes everything through.
	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(syncers...), zap.DebugLevel)

	if err := applyOutputLevels(options.outputLevels); err != nil {
		return err
	}

	pt := funcs.Load().(patchTable)
	pt.write = core.Write
	funcs.Store(pt)

	return nil
}

func applyOutputLevels(outputLevels string) error {
	if outputLevels == "" {
		return nil
	}

	for _, part := range strings.Split(outputLevels, ",") {
		sl := strings.Split(part, ":")

		var scopeName string
		var levelName string
		switch len(sl) {
		case 1:
			scopeName = DefaultScopeName
			levelName = sl[0]
		case 2:
			scopeName = sl[0]
			levelName = sl[1]
		default:
			return fmt.Errorf("invalid output level setting %q", part)
		}

		level, ok := stringToLevel[levelName]
		if !ok {
			return fmt.Errorf("invalid output level %q", levelName)
		}

		if s := FindScope(scopeName); s != nil {
			s.SetOutputLevel(level)
		}
	}

	return nil
}
