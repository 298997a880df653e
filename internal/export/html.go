/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"goscreenwriter/internal/fountain"
	"goscreenwriter/internal/storage"
)

// HTMLOptions controls HTML export behavior.
type HTMLOptions struct {
	IncludeTitlePage bool
	SceneNumbers     bool
	IncludeNotes     bool // render [[notes]] and synopses as visible asides
}

const htmlStylesheet = `body { background: #eee; margin: 0; }
.screenplay {
  font-family: "Courier New", Courier, monospace;
  font-size: 12pt;
  line-height: 1.2;
  background: #fff;
  max-width: 42em;
  margin: 0 auto;
  padding: 4em 6em 4em 8em;
  white-space: pre-wrap;
}
.title-page { text-align: center; padding: 8em 0 6em 0; }
.title-page h1 { font-size: 18pt; }
h2.scene-heading { font-size: 12pt; font-weight: bold; text-transform: uppercase; margin: 1.2em 0 0 0; }
.scene-number { float: left; margin-left: -4em; color: #888; }
p { margin: 1.2em 0 0 0; }
p.character { margin-left: 14em; margin-bottom: 0; }
p.parenthetical { margin: 0 6em 0 10em; }
p.dialogue { margin: 0 4em 0 6em; }
p.transition { text-align: right; }
p.centered { text-align: center; }
p.note, p.synopsis { color: #36c; font-style: italic; }
h3.section { color: #888; }
hr.page-break { border: 0; border-top: 1px dashed #bbb; margin: 2em 0; }
`

// ExportHTML renders the parsed screenplay as a standalone HTML document.
// A relative outPath is resolved under the project's exports folder.
func ExportHTML(ph *storage.ProjectHandle, sp *fountain.Screenplay, outPath string, opt HTMLOptions) error {
	if sp == nil {
		return fmt.Errorf("screenplay is nil")
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(titleOf(sp)))
	b.WriteString("<style>\n" + htmlStylesheet + "</style>\n</head>\n<body>\n<div class=\"screenplay\">\n")

	if opt.IncludeTitlePage {
		writeHTMLTitlePage(&b, sp)
	}

	sceneNo := 0
	for _, e := range sp.Elements {
		switch e.Type {
		case fountain.ElementEmpty, fountain.ElementBoneyard:
			// not rendered
		case fountain.ElementPageBreak:
			b.WriteString("<hr class=\"page-break\">\n")
		case fountain.ElementSynopsis:
			if opt.IncludeNotes {
				fmt.Fprintf(&b, "<p class=\"synopsis\">%s</p>\n", html.EscapeString(e.Text))
			}
		case fountain.ElementComment:
			if opt.IncludeNotes {
				fmt.Fprintf(&b, "<p class=\"note\">%s</p>\n", html.EscapeString(e.Text))
			}
		case fountain.ElementSectionHeading:
			fmt.Fprintf(&b, "<h3 class=\"section\" data-depth=\"%d\">%s</h3>\n", e.SectionDepth, html.EscapeString(e.Text))
		case fountain.ElementSceneHeading:
			sceneNo++
			head, rest, _ := strings.Cut(e.Text, "\n")
			b.WriteString("<h2 class=\"scene-heading\">")
			if opt.SceneNumbers {
				num := e.SceneNumber
				if num == "" {
					num = fmt.Sprintf("%d", sceneNo)
				}
				fmt.Fprintf(&b, "<span class=\"scene-number\">%s</span>", html.EscapeString(num))
			}
			b.WriteString(html.EscapeString(strings.ToUpper(head)))
			b.WriteString("</h2>\n")
			if rest != "" {
				fmt.Fprintf(&b, "<p class=\"action\">%s</p>\n", chunksToHTML(&fountain.Element{Type: fountain.ElementAction, Text: rest}))
			}
		case fountain.ElementTransition:
			fmt.Fprintf(&b, "<p class=\"transition\">%s</p>\n", html.EscapeString(e.Text))
		case fountain.ElementCharacter:
			cue := html.EscapeString(e.Text)
			if e.DualDialogue {
				cue += " <span class=\"dual\">^</span>"
			}
			fmt.Fprintf(&b, "<p class=\"character\">%s</p>\n", cue)
		case fountain.ElementParenthetical:
			fmt.Fprintf(&b, "<p class=\"parenthetical\">%s</p>\n", chunksToHTML(e))
		case fountain.ElementDialogue:
			fmt.Fprintf(&b, "<p class=\"dialogue\">%s</p>\n", chunksToHTML(e))
		case fountain.ElementAction:
			class := "action"
			if e.Centered {
				class = "centered"
			}
			fmt.Fprintf(&b, "<p class=\"%s\">%s</p>\n", class, chunksToHTML(e))
		}
	}
	b.WriteString("</div>\n</body>\n</html>\n")

	if !filepath.IsAbs(outPath) && ph != nil {
		outPath = filepath.Join(ph.Root, storage.ExportsDirName, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

func writeHTMLTitlePage(b *strings.Builder, sp *fountain.Screenplay) {
	b.WriteString("<div class=\"title-page\">\n")
	fmt.Fprintf(b, "<h1>%s</h1>\n", html.EscapeString(titleOf(sp)))
	if by := metaLine(sp, "author", "authors"); by != "" {
		fmt.Fprintf(b, "<p>by</p>\n<p>%s</p>\n", html.EscapeString(by))
	}
	for _, key := range []string{"source", "draft date", "contact", "copyright"} {
		for _, v := range sp.Metadata[key] {
			fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(v))
		}
	}
	b.WriteString("</div>\n<hr class=\"page-break\">\n")
}

// chunksToHTML renders the element's emphasis chunks as nested u/b/i tags,
// escaping the text content.
func chunksToHTML(e *fountain.Element) string {
	var b strings.Builder
	for _, ch := range e.Chunks() {
		if ch.Underline {
			b.WriteString("<u>")
		}
		if ch.Bold {
			b.WriteString("<b>")
		}
		if ch.Italic {
			b.WriteString("<i>")
		}
		b.WriteString(html.EscapeString(ch.Text))
		if ch.Italic {
			b.WriteString("</i>")
		}
		if ch.Bold {
			b.WriteString("</b>")
		}
		if ch.Underline {
			b.WriteString("</u>")
		}
	}
	return b.String()
}
