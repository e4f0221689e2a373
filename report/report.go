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

// Package report renders accumulated coverage snapshots for human or
// machine consumption. How snapshots are rendered is deliberately outside
// the engine; these writers are reference renderers.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ghodss/yaml"

	"tracecov.dev/pkg/coverage"
)

// WriteSummary writes an aligned per-file table of the four-way line
// tallies plus a percentage of executable lines covered.
func WriteSummary(w io.Writer, snaps []*coverage.FileSnapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "FILE\tCOVERED\tPARTIAL\tUNCOVERED\tDEAD\tPERCENT")
	for _, fs := range snaps {
		executable := fs.Covered + fs.Partial + fs.Uncovered
		pct := 0.0
		if executable > 0 {
			pct = 100 * float64(fs.Covered) / float64(executable)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f%%\n",
			fs.Filename, fs.Covered, fs.Partial, fs.Uncovered, fs.Dead, pct)
	}

	return tw.Flush()
}

// WriteJSON writes the snapshots as an indented JSON array.
func WriteJSON(w io.Writer, snaps []*coverage.FileSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snaps)
}

// WriteYAML writes the snapshots as a YAML document.
func WriteYAML(w io.Writer, snaps []*coverage.FileSnapshot) error {
	b, err := yaml.Marshal(snaps)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// WriteProfile generates output in the form of a cover profile file and
// writes it to the given writer, so existing profile tooling can render
// the data. Each classified line becomes one record; a line's count is the
// largest of its observed branch counts, with dead and unexecuted lines
// reporting zero. Insignificant lines are omitted.
func WriteProfile(w io.Writer, snaps []*coverage.FileSnapshot) error {
	if _, err := fmt.Fprintf(w, "mode: atomic\n"); err != nil {
		return err
	}

	for _, fs := range snaps {
		for i, ls := range fs.Lines {
			if ls == nil || ls.Class == coverage.ClassInsignificant {
				continue
			}

			line := i + 1
			if _, err := fmt.Fprintf(w, "%s:%d.1,%d.1 1 %d\n",
				fs.Filename, line, line, profileCount(ls)); err != nil {
				return err
			}
		}
	}

	return nil
}

// ProfileText generates output in the form of a cover profile file.
func ProfileText(snaps []*coverage.FileSnapshot) string {
	var b strings.Builder
	_ = WriteProfile(&b, snaps)
	return b.String()
}

func profileCount(ls *coverage.LineSnapshot) int {
	max := 0
	for _, c := range ls.Counts {
		if c > max {
			max = c
		}
	}
	return max
}
