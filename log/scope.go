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
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap/zapcore"
)

// Scope lets you log data for an area of code, enabling the user full
// control over the level of logging output produced.
type Scope struct {
	// immutable, set at creation
	name        string
	nameToEmit  string
	description string

	// adjustable dynamically
	outputLevel atomic.Value
}

var (
	scopes = make(map[string]*Scope)
	lock   sync.RWMutex
)

// RegisterScope registers a new logging scope. If the same name is used
// multiple times for a single process, the same Scope struct is returned.
//
// Scope names cannot include colons, commas, or periods.
func RegisterScope(name string, description string, _ int) *Scope {
	if strings.ContainsAny(name, ":,.") {
		panic(fmt.Sprintf("scope name %s is invalid, it cannot contain colons, commas, or periods", name))
	}

	lock.Lock()
	defer lock.Unlock()

	s, ok := scopes[name]
	if !ok {
		s = &Scope{
			name:        name,
			description: description,
		}
		s.SetOutputLevel(InfoLevel)

		if name != DefaultScopeName {
			s.nameToEmit = name
		}

		scopes[name] = s
	}

	return s
}

// FindScope returns a previously registered scope, or nil if the named
// scope wasn't previously registered.
func FindScope(scope string) *Scope {
	lock.RLock()
	defer lock.RUnlock()

	return scopes[scope]
}

// Scopes returns a snapshot of the currently defined set of scopes.
func Scopes() map[string]*Scope {
	lock.RLock()
	defer lock.RUnlock()

	s := make(map[string]*Scope, len(scopes))
	for k, v := range scopes {
		s[k] = v
	}

	return s
}

// Name returns this scope's name.
func (s *Scope) Name() string {
	return s.name
}

// Description returns this scope's description.
func (s *Scope) Description() string {
	return s.description
}

// SetOutputLevel adjusts the output level associated with the scope.
func (s *Scope) SetOutputLevel(l Level) {
	s.outputLevel.Store(l)
}

// GetOutputLevel returns the output level associated with the scope.
func (s *Scope) GetOutputLevel() Level {
	return s.outputLevel.Load().(Level)
}

// Fatalf uses fmt.Sprintf to construct and log a message at fatal level.
func (s *Scope) Fatalf(format string, args ...interface{}) {
	if s.GetOutputLevel() >= FatalLevel {
		s.emit(FatalLevel, fmt.Sprintf(format, args...))
	}
}

// Errorf uses fmt.Sprintf to construct and log a message at error level.
func (s *Scope) Errorf(format string, args ...interface{}) {
	if s.GetOutputLevel() >= ErrorLevel {
		s.emit(ErrorLevel, fmt.Sprintf(format, args...))
	}
}

// Warnf uses fmt.Sprintf to construct and log a message at warn level.
func (s *Scope) Warnf(format string, args ...interface{}) {
	if s.GetOutputLevel() >= WarnLevel {
		s.emit(WarnLevel, fmt.Sprintf(format, args...))
	}
}

// Infof uses fmt.Sprintf to construct and log a message at info level.
func (s *Scope) Infof(format string, args ...interface{}) {
	if s.GetOutputLevel() >= InfoLevel {
		s.emit(InfoLevel, fmt.Sprintf(format, args...))
	}
}

// Debugf uses fmt.Sprintf to construct and log a message at debug level.
func (s *Scope) Debugf(format string, args ...interface{}) {
	if s.GetOutputLevel() >= DebugLevel {
		s.emit(DebugLevel, fmt.Sprintf(format, args...))
	}
}

// DebugEnabled returns whether output of messages using this scope is
// currently enabled for debug-level output.
func (s *Scope) DebugEnabled() bool {
	return s.GetOutputLevel() >= DebugLevel
}

// InfoEnabled returns whether output of messages using this scope is
// currently enabled for info-level output.
func (s *Scope) InfoEnabled() bool {
	return s.GetOutputLevel() >= InfoLevel
}

func (s *Scope) emit(level Level, msg string) {
	e := zapcore.Entry{
		Message:    msg,
		Level:      toZapLevel[level],
		Time:       time.Now(),
		LoggerName: s.nameToEmit,
	}

	pt := funcs.Load().(patchTable)
	if pt.write != nil {
		if err := pt.write(e, nil); err != nil {
			_, _ = fmt.Fprintf(pt.errorSink, "%v log write error: %v\n", time.Now(), err)
			_ = pt.errorSink.Sync()
		}
	}

	if level == FatalLevel {
		pt.exitProcess(1)
	}
}
