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

// LineSnapshot is the reported per-line coverage state.
type LineSnapshot struct {
	Class     Class `json:"class"`
	Counts    []int `json:"counts"`
	StartFunc bool  `json:"start_func,omitempty"`
	EndFunc   bool  `json:"end_func,omitempty"`
}

// Clone the snapshot.
func (ls *LineSnapshot) Clone() *LineSnapshot {
	counts := make([]int, len(ls.Counts))
	copy(counts, ls.Counts)

	out := *ls
	out.Counts = counts
	return &out
}

// equal reports whether two line snapshots carry the same classification
// and count list. The function boundary flags do not participate.
func (ls *LineSnapshot) equal(o *LineSnapshot) bool {
	if ls.Class != o.Class || len(ls.Counts) != len(o.Counts) {
		return false
	}
	for i, c := range ls.Counts {
		if c != o.Counts[i] {
			return false
		}
	}
	return true
}

// FileSnapshot is the reported per-file coverage state: the four-way line
// tally plus a dense per-line array where index 0 is source line 1. Gaps
// (nil entries) are lines the trace never mentioned.
type FileSnapshot struct {
	Filename  string          `json:"filename"`
	Covered   int             `json:"covered"`
	Partial   int             `json:"partial"`
	Uncovered int             `json:"uncovered"`
	Dead      int             `json:"dead"`
	Lines     []*LineSnapshot `json:"lines"`
}

// snapshotFile freezes a file aggregate into its reported form.
func snapshotFile(f *File) *FileSnapshot {
	fs := &FileSnapshot{
		Filename: f.Filename,
		Lines:    make([]*LineSnapshot, f.maxLine()),
	}

	for n, l := range f.lines {
		fs.Lines[n-1] = &LineSnapshot{
			Class:     l.Coverage(),
			Counts:    l.Counts(),
			StartFunc: l.StartFunc,
			EndFunc:   l.EndFunc,
		}
	}

	fs.Covered, fs.Partial, fs.Uncovered, fs.Dead = tally(fs.Lines)
	return fs
}

// Clone the snapshot.
func (fs *FileSnapshot) Clone() *FileSnapshot {
	out := *fs
	out.Lines = make([]*LineSnapshot, len(fs.Lines))
	for i, ls := range fs.Lines {
		if ls != nil {
			out.Lines[i] = ls.Clone()
		}
	}
	return &out
}

func tally(lines []*LineSnapshot) (covered, partial, uncovered, dead int) {
	for _, ls := range lines {
		if ls == nil {
			continue
		}
		switch ls.Class {
		case ClassFull:
			covered++
		case ClassSome:
			partial++
		case ClassNone:
			uncovered++
		case ClassDead:
			dead++
		}
	}
	return
}
