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

// DefaultScopeName defines the name of the default scope.
const DefaultScopeName = "default"

var defaultScope = RegisterScope(DefaultScopeName, "Unscoped logging messages.", 0)

// Fatalf uses fmt.Sprintf to construct and log a message at fatal level.
func Fatalf(format string, args ...interface{}) {
	defaultScope.Fatalf(format, args...)
}

// Errorf uses fmt.Sprintf to construct and log a message at error level.
func Errorf(format string, args ...interface{}) {
	defaultScope.Errorf(format, args...)
}

// Warnf uses fmt.Sprintf to construct and log a message at warn level.
func Warnf(format string, args ...interface{}) {
	defaultScope.Warnf(format, args...)
}

// Infof uses fmt.Sprintf to construct and log a message at info level.
func Infof(format string, args ...interface{}) {
	defaultScope.Infof(format, args...)
}

// Debugf uses fmt.Sprintf to construct and log a message at debug level.
func Debugf(format string, args ...interface{}) {
	defaultScope.Debugf(format, args...)
}
