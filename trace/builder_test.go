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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScriptBasics(t *testing.T) {
	block := []string{
		"--- SCRIPT app.js:12 ---",
		"00000:  3/0/0 x 12  defvar a",
		"main:",
		"00003:  1/2/0/9/9 x 13  getvar a",
		"some unparseable line",
		"00006:  0/0/3 x 14  stop",
		"--- END SCRIPT app.js:12 ---",
	}

	s := BuildScript(block, nil)

	assert.Equal(t, "app.js:12", s.Name)
	assert.Equal(t, "app.js", s.Filename)
	assert.Equal(t, 12, s.StartLine)
	assert.Equal(t, 1, s.EntryIndex)
	require.Len(t, s.Instructions, 3)

	in := s.Instructions[0]
	assert.Equal(t, 0, in.Address)
	assert.Equal(t, 12, in.Line)
	assert.Equal(t, "defvar a", in.Text)
	assert.Equal(t, 3, in.Count)
	assert.False(t, in.EntryTarget)

	// Only the first three slash fields count; trailing ones are
	// auxiliary statistics.
	assert.Equal(t, 3, s.Instructions[1].Count)
	assert.True(t, s.Instructions[1].EntryTarget)

	assert.Equal(t, 3, s.Instructions[2].Count)

	pos, ok := s.PositionOf(6)
	assert.True(t, ok)
	assert.Equal(t, 2, pos)
	_, ok = s.PositionOf(99)
	assert.False(t, ok)
}

func TestBuildScriptContinuationLines(t *testing.T) {
	block := []string{
		"--- SCRIPT app.js:1 ---",
		"00000:  1/0/0 x 1  tableswitch defaultOffset 10 low 1 high 2",
		"\t1: 20",
		"\t2: 30",
		"00010:  1/0/0 x 2  stop",
		"--- END SCRIPT app.js:1 ---",
	}

	s := BuildScript(block, nil)
	require.Len(t, s.Instructions, 2)

	sw := s.Instructions[0]
	assert.Equal(t, "tableswitch defaultOffset 10 low 1 high 2\n\t1: 20\n\t2: 30", sw.Text)
	assert.Equal(t, []int{10, 20, 30}, sw.switchOffsets())
}

func TestBuildScriptFunctionPlaceholder(t *testing.T) {
	block := []string{
		"--- SCRIPT app.js:1 ---",
		"00000:  1/0/0 x 1  lambda function inner() { nested body dump }",
		"00003:  1/0/0 x 2  deffun function helper() { more nesting }",
		"00006:  1/0/0 x 3  getvar a",
		"--- END SCRIPT app.js:1 ---",
	}

	s := BuildScript(block, nil)
	require.Len(t, s.Instructions, 3)
	assert.Equal(t, "lambda <func>", s.Instructions[0].Text)
	assert.Equal(t, "deffun <func>", s.Instructions[1].Text)
	assert.Equal(t, "getvar a", s.Instructions[2].Text)
}

func TestBuildScriptRemap(t *testing.T) {
	remap := func(filename string, line int) (string, int) {
		assert.Equal(t, "gen.js", filename)
		return "orig.js", line - 100
	}

	block := []string{
		"--- SCRIPT gen.js:101 ---",
		"00000:  1/0/0 x 105  getvar a",
		"--- END SCRIPT gen.js:101 ---",
	}

	s := BuildScript(block, remap)
	assert.Equal(t, "orig.js", s.Filename)
	assert.Equal(t, 1, s.StartLine)
	assert.Equal(t, "orig.js:1", s.Name)
	require.Len(t, s.Instructions, 1)
	assert.Equal(t, 5, s.Instructions[0].Line)
}

func TestMnemonic(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"getvar a", "getvar"},
		{"stop", "stop"},
		{"tableswitch defaultOffset 10\n\t1: 20", "tableswitch"},
	}
	for _, c := range cases {
		in := &Instruction{Text: c.text}
		assert.Equal(t, c.want, in.Mnemonic())
	}
}

func TestBranchTarget(t *testing.T) {
	cases := []struct {
		text   string
		target int
		ok     bool
	}{
		{"goto 25 (18)", 25, true},
		{"ifeq 12 (5)", 12, true},
		{"try", 0, false},
		{"try 23 (9)", 23, true},
	}
	for _, c := range cases {
		in := &Instruction{Text: c.text}
		target, ok := in.branchTarget()
		assert.Equal(t, c.ok, ok, c.text)
		if ok {
			assert.Equal(t, c.target, target, c.text)
		}
	}
}
