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

// Observer receives change notifications while ParseData reconciles a
// parse against stored state. Dispatch is synchronous and in registration
// order; callbacks must not call back into ParseData.
//
// Embed NopObserver to implement only the callbacks of interest.
type Observer interface {
	// OnNewScript fires when a filename is observed for the first time.
	OnNewScript(filename string, snap *FileSnapshot)

	// OnScriptUpdate fires when a file's aggregate tallies change.
	OnScriptUpdate(filename string, snap *FileSnapshot)

	// OnLineUpdate fires when a single line's coverage data changes.
	// For lines newly added to a known file, line is the 1-based source
	// line number; for lines whose data changed, it is the 0-based index
	// into the snapshot's Lines array.
	// TODO: unify on the 1-based convention once the known consumers of
	// the changed-line form are migrated.
	OnLineUpdate(filename string, line int, data *LineSnapshot)
}

// NopObserver implements Observer with no-ops, for embedding.
type NopObserver struct{}

// OnNewScript implements Observer.
func (NopObserver) OnNewScript(string, *FileSnapshot) {}

// OnScriptUpdate implements Observer.
func (NopObserver) OnScriptUpdate(string, *FileSnapshot) {}

// OnLineUpdate implements Observer.
func (NopObserver) OnLineUpdate(string, int, *LineSnapshot) {}
