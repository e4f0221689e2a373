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

package trace

import (
	"regexp"
	"strings"
)

const (
	endMarkerPrefix = "--- END SCRIPT"
	entryMarker     = "main:"
)

var startMarkerRE = regexp.MustCompile(`^--- SCRIPT (.+):(\d+) ---$`)

// DefaultDiscardHeaders are the record headers of interpreter bootstrap and
// anonymous top-level eval scripts. Records opening with one of these lines
// carry no user code and are dropped whole. The exact strings match what
// the known trace producer emits and must not change.
var DefaultDiscardHeaders = []string{
	"--- SCRIPT :0 ---",
	"--- SCRIPT (null):0 ---",
	"--- SCRIPT -e:1 ---",
}

// Tokenize splits raw trace text into per-script record blocks and hands
// each one to emit. A block opens at a start-marker line and closes at the
// next end-marker line; the markers are included in the block. Anything
// outside a block is ignored, so unexpected trace content passes through
// harmlessly.
func Tokenize(text string, emit func(block []string)) {
	var block []string
	inside := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if !inside {
			if startMarkerRE.MatchString(line) {
				inside = true
				block = []string{line}
			}
			continue
		}

		block = append(block, line)
		if strings.HasPrefix(line, endMarkerPrefix) {
			inside = false
			emit(block)
			block = nil
		}
	}
}

func discarded(block []string, discard []string) bool {
	if len(block) == 0 {
		return false
	}
	for _, h := range discard {
		if block[0] == h {
			return true
		}
	}
	return false
}
