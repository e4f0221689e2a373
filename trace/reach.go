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

// Analyze marks every instruction static control flow can reach from the
// start of the script, and flags linear instructions as falling through to
// their successor.
//
// The walk always starts at position 0, not at EntryIndex: prologue
// instructions ahead of the "main:" label (variable and nested function
// declarations) execute by falling through into the body and must not be
// reported as dead.
//
// An explicit work list of positions is used instead of recursion so that
// pathological generated code cannot exhaust the call stack. The Reachable
// flag doubles as the visited guard, which bounds the walk on cyclic
// control flow.
func (s *Script) Analyze() error {
	n := len(s.Instructions)
	if n == 0 {
		return nil
	}

	work := []int{0}
	for len(work) > 0 {
		pos := work[len(work)-1]
		work = work[:len(work)-1]

		for pos < n {
			in := s.Instructions[pos]
			if in.Reachable {
				break
			}
			in.Reachable = true

			kind := in.kind()
			if kind == kindLinear {
				in.FallsThrough = true
				pos++
				continue
			}

			switch kind {
			case kindTerminator:
				// No successors.

			case kindUnconditional:
				if target, ok := in.branchTarget(); ok {
					tp, ok := s.PositionOf(target)
					if !ok {
						return &BadTargetError{Script: s.Name, Addr: in.Address, Target: target}
					}
					work = append(work, tp)
				}

			case kindConditional:
				// Both arms. The exception-setup form can lack a target
				// operand, leaving fallthrough as the only successor.
				if target, ok := in.branchTarget(); ok {
					tp, ok := s.PositionOf(target)
					if !ok {
						return &BadTargetError{Script: s.Name, Addr: in.Address, Target: target}
					}
					work = append(work, tp)
				}
				work = append(work, pos+1)

			case kindSwitch:
				// Switch operands are relative to the instruction's own
				// address; everything else encodes absolute targets.
				for _, off := range in.switchOffsets() {
					target := in.Address + off
					tp, ok := s.PositionOf(target)
					if !ok {
						return &BadTargetError{Script: s.Name, Addr: in.Address, Target: target}
					}
					work = append(work, tp)
				}
			}
			break
		}
	}

	return nil
}
