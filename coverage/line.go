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
	"encoding/json"
	"fmt"
	"sort"

	"tracecov.dev/pkg/trace"
)

// Class is the coverage classification of a single source line.
type Class int

const (
	// ClassInsignificant marks a line with no meaningful executable
	// content, such as a lone closing brace.
	ClassInsignificant Class = iota

	// ClassFull marks a line whose code executed on every branch.
	ClassFull

	// ClassSome marks a line where some branches executed and others
	// did not.
	ClassSome

	// ClassNone marks an executable line that never executed.
	ClassNone

	// ClassDead marks a line whose only code is statically unreachable.
	ClassDead
)

var classToString = map[Class]string{
	ClassInsignificant: "insignificant",
	ClassFull:          "full",
	ClassSome:          "some",
	ClassNone:          "none",
	ClassDead:          "dead",
}

var stringToClass = map[string]Class{
	"insignificant": ClassInsignificant,
	"full":          ClassFull,
	"some":          ClassSome,
	"none":          ClassNone,
	"dead":          ClassDead,
}

func (c Class) String() string {
	return classToString[c]
}

// MarshalJSON renders the class as its string name.
func (c Class) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the string names produced by MarshalJSON.
func (c *Class) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	cl, ok := stringToClass[s]
	if !ok {
		return fmt.Errorf("unknown coverage class %q", s)
	}
	*c = cl
	return nil
}

// sentinelCount stands in for an unreachable instruction in a line's count
// list.
const sentinelCount = -1

// Line aggregates the instructions generated from one source line, across
// every script of the file.
type Line struct {
	// Number is the 1-based source line number.
	Number int

	// StartFunc marks the line holding the first instruction of a script;
	// EndFunc the line holding the last.
	StartFunc bool
	EndFunc   bool

	order  []*trace.Instruction
	byAddr map[int]*trace.Instruction

	cachedCounts []int
	counted      bool
}

func newLine(number int) *Line {
	return &Line{
		Number: number,
		byAddr: make(map[int]*trace.Instruction),
	}
}

// add registers an instruction with the line. The first registration for a
// given address wins; later duplicates are dropped.
func (l *Line) add(in *trace.Instruction) {
	if _, ok := l.byAddr[in.Address]; ok {
		return
	}
	l.byAddr[in.Address] = in
	l.order = append(l.order, in)
}

// Counts derives the canonical count list for the line and caches it.
// The cache needs no invalidation: a line only accumulates instructions
// during a single build pass, and each pass constructs fresh lines.
//
// Registration order follows program order, so an instruction that falls
// through from its predecessor with an equal count, or with a zero count
// where the predecessor's was not, is an optimizer artifact rather than a
// distinct branch and is suppressed. Unreachable instructions contribute
// the -1 sentinel.
func (l *Line) Counts() []int {
	if l.counted {
		return l.cachedCounts
	}

	var vals []int
	var prev *trace.Instruction
	var sentinel *trace.Instruction

	for _, in := range l.order {
		if !in.Reachable {
			vals = append(vals, sentinelCount)
			sentinel = in
			prev = in
			continue
		}

		if prev != nil && prev.FallsThrough &&
			(prev.Count == in.Count || (in.Count == 0 && prev.Count != 0)) {
			prev = in
			continue
		}

		vals = append(vals, in.Count)
		prev = in
	}

	switch {
	case len(vals) == 1 && vals[0] == sentinelCount:
		// An unreachable halt on its own line is the compiled form of a
		// closing brace, not dead user code.
		if sentinel.Text == trace.HaltMnemonic {
			vals = nil
		}

	case len(vals) > 1:
		min, max := vals[0], vals[0]
		for _, v := range vals[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if min == max && min >= 0 {
			vals = vals[:1]
		} else {
			sort.Ints(vals)
			vals = dedupeSorted(vals)
		}
	}

	l.cachedCounts = vals
	l.counted = true
	return vals
}

// Coverage classifies the line from its count list.
func (l *Line) Coverage() Class {
	c := l.Counts()
	switch {
	case len(c) == 0:
		return ClassInsignificant
	case c[0] > 0:
		return ClassFull
	case len(c) == 1 && c[0] == 0:
		return ClassNone
	case len(c) == 1 && c[0] == sentinelCount:
		return ClassDead
	case c[0] == sentinelCount && c[1] > 0:
		// Dead instruction sharing a line with executed code is a
		// compiler artifact, not a real partial branch.
		return ClassFull
	default:
		return ClassSome
	}
}

func dedupeSorted(vals []int) []int {
	out := vals[:1]
	for _, v := range vals[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
