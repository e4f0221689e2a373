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
	"strings"

	"github.com/spaolacci/murmur3"
)

// Script is one function body, top-level unit, or eval string as dumped by
// the interpreter, identified by filename plus starting source line.
type Script struct {
	// Name is "<filename>:<startLine>".
	Name string

	// Filename and StartLine locate the script in (remapped) source
	// coordinates.
	Filename  string
	StartLine int

	// EntryIndex is the position of the instruction the "main:" label
	// precedes. Instructions before it are prologue (variable and function
	// declarations) that fall through into the body.
	EntryIndex int

	// Instructions in program order. Addresses are unique per script.
	Instructions []*Instruction

	index map[int]int
}

// PositionOf resolves a bytecode address to the instruction's position in
// the sequence.
func (s *Script) PositionOf(addr int) (int, bool) {
	pos, ok := s.index[addr]
	return pos, ok
}

// Signature derives the textual structural key for the script: two dumps of
// the same function body produce the same signature even though their
// execution counts differ.
func (s *Script) Signature() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d", s.Name, s.EntryIndex)
	for _, in := range s.Instructions {
		fmt.Fprintf(&b, "|%d,%d,%s", in.Address, in.Line, in.Text)
	}
	return b.String()
}

// SignatureKey is the murmur3 hash of Signature, used as the dedup registry
// key. Hash hits are re-verified structurally before any merge.
func (s *Script) SignatureKey() uint64 {
	return murmur3.Sum64([]byte(s.Signature()))
}

func (s *Script) structurallyEqual(o *Script) bool {
	if s.Name != o.Name || s.EntryIndex != o.EntryIndex ||
		len(s.Instructions) != len(o.Instructions) {
		return false
	}
	for i, in := range s.Instructions {
		oi := o.Instructions[i]
		if in.Address != oi.Address || in.Line != oi.Line || in.Text != oi.Text {
			return false
		}
	}
	return true
}

// mergeCounts folds the execution counts of a re-dumped copy of the same
// script into s. The two scripts must be structurally identical; a mismatch
// is a defect in the caller's dedup keying, not a normal parse outcome.
func (s *Script) mergeCounts(o *Script) error {
	if !s.structurallyEqual(o) {
		return &SignatureMismatchError{Name: s.Name}
	}
	for i, in := range s.Instructions {
		in.Count += o.Instructions[i].Count
	}
	return nil
}
