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

import "fmt"

// BadTargetError reports a branch or switch operand that names an address
// absent from the script's own instruction sequence. The trace producer
// only ever emits intra-script targets, so this indicates a malformed or
// truncated record.
type BadTargetError struct {
	Script string
	Addr   int
	Target int
}

func (e *BadTargetError) Error() string {
	return fmt.Sprintf("script %s: instruction at %d branches to unknown address %d",
		e.Script, e.Addr, e.Target)
}

// SignatureMismatchError reports an attempt to merge counts between two
// scripts whose structures differ despite sharing a signature key.
type SignatureMismatchError struct {
	Name string
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("script %s: count merge with structurally different script", e.Name)
}
