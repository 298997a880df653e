/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// Chunk is a run of element text with a uniform inline style.
type Chunk struct {
	Bold      bool
	Italic    bool
	Underline bool
	Text      string
}

// String renders the chunk with HTML-style tags, underline outermost.
func (c Chunk) String() string {
	var b strings.Builder
	if c.Underline {
		b.WriteString("<u>")
	}
	if c.Bold {
		b.WriteString("<b>")
	}
	if c.Italic {
		b.WriteString("<i>")
	}
	b.WriteString(c.Text)
	if c.Italic {
		b.WriteString("</i>")
	}
	if c.Bold {
		b.WriteString("</b>")
	}
	if c.Underline {
		b.WriteString("</u>")
	}
	return b.String()
}

// Chunks splits the element text into styled runs. '*' runs toggle italic,
// bold, or both depending on run length; '_' toggles underline; '\' escapes
// the next character.
//
// The scan is simple and will choke on invalid nesting: a '*' run left
// unterminated at end of text never resolves to a toggle.
func (e *Element) Chunks() []Chunk {
	chunks := []Chunk{{}}
	cur := 0
	escaped := false
	stars := 0

	for _, r := range e.Text {
		if escaped {
			escaped = false
			chunks[cur].Text += string(r)
			continue
		}

		if stars > 0 && r != '*' {
			next := chunks[cur]
			next.Text = ""
			switch stars {
			case 3:
				next.Bold = !next.Bold
				next.Italic = !next.Italic
			case 2:
				next.Bold = !next.Bold
			case 1:
				next.Italic = !next.Italic
			}
			chunks = append(chunks, next)
			cur = len(chunks) - 1
			stars = 0
		}

		switch r {
		case '\\':
			escaped = true
		case '_':
			next := chunks[cur]
			next.Text = ""
			next.Underline = !next.Underline
			chunks = append(chunks, next)
			cur = len(chunks) - 1
		case '*':
			stars++
		default:
			chunks[cur].Text += string(r)
		}
	}
	return chunks
}
