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
)

func TestTokenizeSplitsRecords(t *testing.T) {
	text := "interpreter banner, ignored\n" +
		"--- SCRIPT app.js:1 ---\n" +
		"main:\n" +
		"00000:  1/0/0 x 1  getvar a\n" +
		"--- END SCRIPT app.js:1 ---\n" +
		"more noise between records\n" +
		"--- SCRIPT lib.js:10 ---\n" +
		"00000:  0/0/0 x 10  getvar b\n" +
		"--- END SCRIPT lib.js:10 ---\n"

	var blocks [][]string
	Tokenize(text, func(block []string) {
		blocks = append(blocks, block)
	})

	assert.Len(t, blocks, 2)
	assert.Equal(t, "--- SCRIPT app.js:1 ---", blocks[0][0])
	assert.Equal(t, "--- SCRIPT lib.js:10 ---", blocks[1][0])
	assert.Equal(t, "--- END SCRIPT lib.js:10 ---", blocks[1][len(blocks[1])-1])
}

func TestTokenizeUnterminatedRecord(t *testing.T) {
	text := "--- SCRIPT app.js:1 ---\n" +
		"00000:  1/0/0 x 1  getvar a\n"

	count := 0
	Tokenize(text, func([]string) { count++ })
	assert.Equal(t, 0, count, "a record without an end marker must not be emitted")
}

func TestTokenizeCRLF(t *testing.T) {
	text := "--- SCRIPT app.js:1 ---\r\n" +
		"00000:  1/0/0 x 1  getvar a\r\n" +
		"--- END SCRIPT app.js:1 ---\r\n"

	var blocks [][]string
	Tokenize(text, func(block []string) { blocks = append(blocks, block) })

	assert.Len(t, blocks, 1)
	assert.Equal(t, "--- SCRIPT app.js:1 ---", blocks[0][0])
}

func TestDiscardHeaders(t *testing.T) {
	for _, h := range DefaultDiscardHeaders {
		assert.True(t, discarded([]string{h}, DefaultDiscardHeaders), h)
	}
	assert.False(t, discarded([]string{"--- SCRIPT app.js:1 ---"}, DefaultDiscardHeaders))
	assert.False(t, discarded(nil, DefaultDiscardHeaders))
}
