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

// File groups the lines of one source file for a single build pass.
type File struct {
	Filename string

	lines map[int]*Line
}

// NewFile returns an empty file aggregate.
func NewFile(filename string) *File {
	return &File{
		Filename: filename,
		lines:    make(map[int]*Line),
	}
}

// Line returns the aggregate for a source line, creating it on first use.
func (f *File) Line(number int) *Line {
	l, ok := f.lines[number]
	if !ok {
		l = newLine(number)
		f.lines[number] = l
	}
	return l
}

// Coverage tallies the file's lines by classification. Insignificant lines
// count toward none of the four buckets.
func (f *File) Coverage() (full, some, none, dead int) {
	for _, l := range f.lines {
		switch l.Coverage() {
		case ClassFull:
			full++
		case ClassSome:
			some++
		case ClassNone:
			none++
		case ClassDead:
			dead++
		}
	}
	return
}

func (f *File) maxLine() int {
	max := 0
	for n := range f.lines {
		if n > max {
			max = n
		}
	}
	return max
}
