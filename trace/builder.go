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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Remap translates raw trace coordinates into logical source coordinates.
// It is called once per record header and once per instruction line and
// must be pure and deterministic. Generated or preprocessed sources use it
// to report coverage against the original files.
type Remap func(filename string, line int) (string, int)

// Instruction lines read
//
//	<address>: <c1>/<c2>/<c3>[/...] x <sourceLine> <disassembly>
//
// The slash group has three or more fields; fields past the third hold
// auxiliary interpreter statistics and are ignored.
var instructionRE = regexp.MustCompile(`^\s*(\d+):\s*(\d+(?:/\d+){2,})\s+x\s+(\d+)\s+(.*)$`)

// Closure literals and local function definitions disassemble with the full
// body of the nested function inline. The operand is replaced so a script's
// text stays bounded and signature-stable.
const (
	opClosure       = "lambda"
	opDefineFunc    = "deffun"
	funcPlaceholder = "<func>"
)

// BuildScript parses one record block into a Script. Lines that match no
// known production are skipped; the builder never fails on malformed text.
func BuildScript(block []string, remap Remap) *Script {
	s := &Script{index: make(map[int]int)}
	var rawFilename string

	for _, line := range block {
		if m := startMarkerRE.FindStringSubmatch(line); m != nil {
			rawFilename = m[1]
			start, _ := strconv.Atoi(m[2])
			filename := rawFilename
			if remap != nil {
				filename, start = remap(rawFilename, start)
			}
			s.Filename = filename
			s.StartLine = start
			s.Name = fmt.Sprintf("%s:%d", filename, start)
			continue
		}

		if strings.HasPrefix(line, endMarkerPrefix) {
			continue
		}

		if line == entryMarker {
			s.EntryIndex = len(s.Instructions)
			continue
		}

		if strings.HasPrefix(line, "\t") {
			// Continuation of the previous instruction's disassembly,
			// e.g. a switch case table.
			if n := len(s.Instructions); n > 0 {
				s.Instructions[n-1].Text += "\n" + line
			}
			continue
		}

		if m := instructionRE.FindStringSubmatch(line); m != nil {
			addr, _ := strconv.Atoi(m[1])
			counts := strings.Split(m[2], "/")
			count := 0
			for _, c := range counts[:3] {
				n, _ := strconv.Atoi(c)
				count += n
			}

			srcLine, _ := strconv.Atoi(m[3])
			if remap != nil {
				_, srcLine = remap(rawFilename, srcLine)
			}

			text := m[4]
			switch mn := firstToken(text); mn {
			case opClosure, opDefineFunc:
				text = mn + " " + funcPlaceholder
			}

			s.index[addr] = len(s.Instructions)
			s.Instructions = append(s.Instructions, &Instruction{
				Address: addr,
				Line:    srcLine,
				Text:    text,
				Count:   count,
			})
			continue
		}

		// Unrecognized line, skip.
	}

	if s.EntryIndex < len(s.Instructions) {
		s.Instructions[s.EntryIndex].EntryTarget = true
	}

	return s
}

func firstToken(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}
