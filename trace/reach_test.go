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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAndAnalyze(t *testing.T, lines ...string) *Script {
	t.Helper()
	block := append([]string{"--- SCRIPT app.js:1 ---"}, lines...)
	block = append(block, "--- END SCRIPT app.js:1 ---")
	s := BuildScript(block, nil)
	require.NoError(t, s.Analyze())
	return s
}

func reachability(s *Script) []bool {
	out := make([]bool, len(s.Instructions))
	for i, in := range s.Instructions {
		out[i] = in.Reachable
	}
	return out
}

func TestAnalyzeLinearFallthrough(t *testing.T) {
	s := buildAndAnalyze(t,
		"00000:  1/0/0 x 1  getvar a",
		"00003:  1/0/0 x 1  setvar a",
		"00006:  1/0/0 x 2  stop",
	)

	assert.Equal(t, []bool{true, true, true}, reachability(s))
	assert.True(t, s.Instructions[0].FallsThrough)
	assert.True(t, s.Instructions[1].FallsThrough)
	assert.False(t, s.Instructions[2].FallsThrough, "terminators never fall through")
}

func TestAnalyzeDeadAfterReturn(t *testing.T) {
	s := buildAndAnalyze(t,
		"00000:  1/0/0 x 1  return",
		"00001:  0/0/0 x 2  getvar a",
		"00004:  0/0/0 x 3  stop",
	)

	assert.Equal(t, []bool{true, false, false}, reachability(s))
}

func TestAnalyzeUnconditionalSkipsOver(t *testing.T) {
	s := buildAndAnalyze(t,
		"00000:  1/0/0 x 1  goto 6 (6)",
		"00003:  0/0/0 x 2  getvar a",
		"00006:  1/0/0 x 3  stop",
	)

	assert.Equal(t, []bool{true, false, true}, reachability(s))
	assert.False(t, s.Instructions[0].FallsThrough)
}

func TestAnalyzeConditionalBothArms(t *testing.T) {
	s := buildAndAnalyze(t,
		"00000:  2/0/0 x 1  getvar a",
		"00003:  2/0/0 x 1  ifeq 10 (7)",
		"00006:  1/0/0 x 2  setvar b",
		"00010:  2/0/0 x 3  stop",
	)

	assert.Equal(t, []bool{true, true, true, true}, reachability(s))
	assert.False(t, s.Instructions[1].FallsThrough)
}

func TestAnalyzeConditionalWithoutTarget(t *testing.T) {
	// The exception-setup form may carry no target operand; only the
	// fallthrough successor applies.
	s := buildAndAnalyze(t,
		"00000:  1/0/0 x 1  try",
		"00001:  1/0/0 x 2  getvar a",
		"00004:  1/0/0 x 3  stop",
	)

	assert.Equal(t, []bool{true, true, true}, reachability(s))
}

func TestAnalyzeLoopTerminates(t *testing.T) {
	s := buildAndAnalyze(t,
		"00000:  5/0/0 x 1  getvar i",
		"00003:  5/0/0 x 1  ifeq 10 (7)",
		"00006:  4/0/0 x 2  setvar i",
		"00009:  4/0/0 x 2  goto 0 (-9)",
		"00010:  1/0/0 x 3  stop",
	)

	assert.Equal(t, []bool{true, true, true, true, true}, reachability(s))
}

func TestAnalyzeSwitchRelativeOffsets(t *testing.T) {
	s := buildAndAnalyze(t,
		"00090:  1/0/0 x 1  getvar k",
		"00100:  1/0/0 x 2  tableswitch defaultOffset 10 low 1 high 1",
		"\t1: 20",
		"00105:  0/0/0 x 3  setvar dead",
		"00110:  1/0/0 x 4  goto 120 (10)",
		"00120:  1/0/0 x 5  stop",
	)

	// Offsets are relative to the switch's own address: 100+10 and 100+20.
	assert.Equal(t, []bool{true, true, false, true, true}, reachability(s))
}

func TestAnalyzeStartsAtZeroNotEntry(t *testing.T) {
	// Prologue declarations before the main: label fall through into the
	// body and must not be reported dead.
	s := buildAndAnalyze(t,
		"00000:  1/0/0 x 1  defvar a",
		"main:",
		"00003:  1/0/0 x 2  getvar a",
		"00006:  1/0/0 x 3  stop",
	)

	assert.Equal(t, 1, s.EntryIndex)
	assert.Equal(t, []bool{true, true, true}, reachability(s))
}

func TestAnalyzeBadTarget(t *testing.T) {
	block := []string{
		"--- SCRIPT app.js:1 ---",
		"00000:  1/0/0 x 1  goto 99 (99)",
		"00003:  1/0/0 x 2  stop",
		"--- END SCRIPT app.js:1 ---",
	}
	s := BuildScript(block, nil)

	err := s.Analyze()
	require.Error(t, err)
	bte, ok := err.(*BadTargetError)
	require.True(t, ok)
	assert.Equal(t, "app.js:1", bte.Script)
	assert.Equal(t, 0, bte.Addr)
	assert.Equal(t, 99, bte.Target)
}

func TestAnalyzeDeepLinearSequence(t *testing.T) {
	// A long straight-line script must not blow any recursion limit.
	var lines []string
	for i := 0; i < 200000; i++ {
		lines = append(lines, instructionLine(i, 1, "getvar a"))
	}
	s := buildAndAnalyze(t, lines...)
	for _, in := range s.Instructions {
		require.True(t, in.Reachable)
	}
}

func instructionLine(addr, line int, text string) string {
	return fmt.Sprintf("%05d:  1/0/0 x %d  %s", addr, line, text)
}
