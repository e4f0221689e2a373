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

package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tracecov.dev/pkg/trace"
)

func ins(addr, count int, reachable, fallsThrough bool, text string) *trace.Instruction {
	return &trace.Instruction{
		Address:      addr,
		Line:         1,
		Text:         text,
		Count:        count,
		Reachable:    reachable,
		FallsThrough: fallsThrough,
	}
}

func lineWith(instructions ...*trace.Instruction) *Line {
	l := newLine(1)
	for _, in := range instructions {
		l.add(in)
	}
	return l
}

func TestLineCounts(t *testing.T) {
	cases := []struct {
		name   string
		line   *Line
		counts []int
		class  Class
	}{
		{
			name:   "single executed",
			line:   lineWith(ins(0, 7, true, true, "getvar a")),
			counts: []int{7},
			class:  ClassFull,
		},
		{
			name:   "unreachable lone halt",
			line:   lineWith(ins(0, 0, false, false, "stop")),
			counts: nil,
			class:  ClassInsignificant,
		},
		{
			name:   "unreachable non-halt",
			line:   lineWith(ins(0, 0, false, false, "getvar a")),
			counts: []int{-1},
			class:  ClassDead,
		},
		{
			name: "dead and live collapse to full",
			line: lineWith(
				ins(0, 0, false, false, "getvar a"),
				ins(3, 4, true, true, "setvar a"),
			),
			counts: []int{-1, 4},
			class:  ClassFull,
		},
		{
			name: "differing branch counts",
			line: lineWith(
				ins(0, 0, true, false, "ifeq 10 (10)"),
				ins(3, 5, true, true, "getvar a"),
			),
			counts: []int{0, 5},
			class:  ClassSome,
		},
		{
			name:   "single never executed",
			line:   lineWith(ins(0, 0, true, true, "getvar a")),
			counts: []int{0},
			class:  ClassNone,
		},
		{
			name: "fallthrough with equal count suppressed",
			line: lineWith(
				ins(0, 7, true, true, "getvar a"),
				ins(3, 7, true, true, "setvar a"),
			),
			counts: []int{7},
			class:  ClassFull,
		},
		{
			name: "fallthrough zero after nonzero suppressed",
			line: lineWith(
				ins(0, 7, true, true, "getvar a"),
				ins(3, 0, true, true, "setvar a"),
			),
			counts: []int{7},
			class:  ClassFull,
		},
		{
			name: "no suppression without fallthrough",
			line: lineWith(
				ins(0, 7, true, false, "ifeq 10 (10)"),
				ins(3, 0, true, true, "getvar a"),
			),
			counts: []int{0, 7},
			class:  ClassSome,
		},
		{
			name: "equal counts collapse",
			line: lineWith(
				ins(0, 4, true, false, "ifeq 10 (10)"),
				ins(3, 4, true, false, "case 20 (20)"),
				ins(6, 4, true, false, "case 30 (30)"),
			),
			counts: []int{4},
			class:  ClassFull,
		},
		{
			name: "sorted and deduplicated",
			line: lineWith(
				ins(0, 5, true, false, "ifeq 10 (10)"),
				ins(3, 2, true, false, "case 20 (20)"),
				ins(6, 5, true, false, "case 30 (30)"),
			),
			counts: []int{2, 5},
			class:  ClassFull,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.counts, c.line.Counts())
			assert.Equal(t, c.class, c.line.Coverage())
		})
	}
}

func TestLineCountsIdempotent(t *testing.T) {
	l := lineWith(
		ins(0, 5, true, false, "ifeq 10 (10)"),
		ins(3, 2, true, true, "getvar a"),
	)

	first := l.Counts()
	second := l.Counts()
	assert.Equal(t, first, second)

	// A structurally identical independent line agrees.
	other := lineWith(
		ins(0, 5, true, false, "ifeq 10 (10)"),
		ins(3, 2, true, true, "getvar a"),
	)
	assert.Equal(t, first, other.Counts())
}

func TestLineDuplicateAddressDropped(t *testing.T) {
	first := ins(0, 3, true, true, "getvar a")
	dup := ins(0, 9, true, true, "getvar a")

	l := lineWith(first, dup)
	assert.Equal(t, []int{3}, l.Counts(), "first registration wins")
}

func TestFileCoverage(t *testing.T) {
	f := NewFile("app.js")
	f.Line(1).add(ins(0, 7, true, true, "getvar a"))
	f.Line(2).add(ins(3, 0, true, true, "setvar a"))
	f.Line(3).add(ins(6, 0, false, false, "getvar b"))
	f.Line(4).add(ins(9, 0, false, false, "stop"))
	f.Line(5).add(ins(12, 0, true, false, "ifeq 20 (20)"))
	f.Line(5).add(ins(15, 2, true, true, "getvar c"))

	full, some, none, dead := f.Coverage()
	assert.Equal(t, 1, full)
	assert.Equal(t, 1, some)
	assert.Equal(t, 1, none)
	assert.Equal(t, 1, dead)
}

func TestClassJSONRoundTrip(t *testing.T) {
	for c := range classToString {
		b, err := c.MarshalJSON()
		assert.NoError(t, err)

		var back Class
		assert.NoError(t, back.UnmarshalJSON(b))
		assert.Equal(t, c, back)
	}
}
