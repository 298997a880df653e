/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain parses plain-text screenplay markup into a structured
// document: an ordered sequence of typed elements, a grouping of those
// elements into scenes, and an optional title-page metadata block.
//
// The body parser is a single-pass, line-oriented state machine. Each line is
// matched against a fixed priority order of classification rules; the first
// match wins. Malformed input never fails: anything that matches no specific
// rule falls through to the action/continuation rule.
package fountain

import (
	"errors"
	"strings"
	"unicode"
)

// ErrNoOpenKey is returned when a title-page continuation line appears before
// any "Key:" line has opened a metadata key.
var ErrNoOpenKey = errors.New("fountain: no open metadata key")

// commonTransitions are transition phrases recognized without the " TO:" suffix.
var commonTransitions = map[string]struct{}{
	"FADE OUT.":      {},
	"CUT TO BLACK.":  {},
	"FADE TO BLACK.": {},
}

// characterAllowable is the set of characters permitted in an unforced
// character cue. Fixed for compatibility; deliberately not generalized to all
// of Unicode uppercase.
const characterAllowable = "ABCDEFGHIJKLMNOPQRSTUVWXYZ _ÄÖÜ0123456789"

// Screenplay is the result of parsing one screenplay text.
// Elements is the flat ordered element sequence; Scenes groups the same
// element pointers by scene heading. Metadata maps lowercased title-page keys
// to their value lines.
type Screenplay struct {
	Metadata map[string][]string
	Elements []*Element
	Scenes   []*Scene
}

// Parse parses screenplay markup into a Screenplay. Empty input yields an
// empty Screenplay. The only error condition is a malformed title-page block
// (ErrNoOpenKey); body content never fails to parse.
func Parse(input string) (*Screenplay, error) {
	sp := &Screenplay{Metadata: map[string][]string{}}
	contents := strings.TrimSpace(strings.ReplaceAll(input, "\r", ""))
	if contents == "" {
		return sp, nil
	}

	firstLine, _, _ := strings.Cut(contents, "\n")
	hasMetadata := strings.Contains(firstLine, ":")
	hasBody := strings.Contains(contents, "\n\n")

	switch {
	case hasMetadata && hasBody:
		head, body, _ := strings.Cut(contents, "\n\n")
		if err := sp.parseHead(strings.Split(head, "\n")); err != nil {
			return nil, err
		}
		sp.parseBody(strings.Split(body, "\n"))
	case hasMetadata:
		if err := sp.parseHead(strings.Split(contents, "\n")); err != nil {
			return nil, err
		}
	default:
		sp.parseBody(strings.Split(contents, "\n"))
	}
	return sp, nil
}

// parseHead parses the title-page block. One piece of state is carried: the
// currently open key, which collects indented continuation lines.
func (sp *Screenplay) parseHead(lines []string) error {
	openKey := ""
	for _, raw := range lines {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		if line == "" {
			continue
		}
		switch {
		case unicode.IsSpace(rune(line[0])):
			if openKey == "" {
				return ErrNoOpenKey
			}
			sp.Metadata[openKey] = append(sp.Metadata[openKey], strings.TrimSpace(line))
		case strings.HasSuffix(line, ":"):
			openKey = strings.ToLower(line[:len(line)-1])
			sp.Metadata[openKey] = []string{}
		default:
			key, value, _ := strings.Cut(line, ":")
			sp.Metadata[strings.ToLower(strings.TrimSpace(key))] = []string{strings.TrimSpace(value)}
		}
	}
	return nil
}

// addScene opens a new scene for the given heading element. The current scene
// is discarded if it holds nothing but empty elements. The heading element is
// shared between the flat element list and the new scene.
func (sp *Screenplay) addScene(heading *Element) *Scene {
	if last := sp.Scenes[len(sp.Scenes)-1]; last.IsEmpty() {
		sp.Scenes = sp.Scenes[:len(sp.Scenes)-1]
	}
	scene := NewScene(heading.Text)
	scene.append(heading)
	sp.Scenes = append(sp.Scenes, scene)
	return scene
}

// parseBody runs the line classifier over the body lines.
//
// The branch order below is load-bearing: each rule assumes every rule above
// it has already declined the line.
func (sp *Screenplay) parseBody(lines []string) {
	inCommentBlock := false
	insideDialogue := false
	newlinesBefore := 0
	var commentText []string
	var commentLines []string

	scene := NewScene("")
	sp.Scenes = []*Scene{scene}

	// push appends an element to both the flat list and the current scene.
	push := func(e *Element) {
		sp.Elements = append(sp.Elements, e)
		scene.append(e)
	}

	for linenum, raw := range lines {
		line := strings.TrimLeftFunc(raw, unicode.IsSpace)
		fullStrip := strings.TrimSpace(line)

		// Blank line.
		if line == "" && !inCommentBlock {
			push(newElement(ElementEmpty, ""))
			insideDialogue = false
			newlinesBefore++
			continue
		}

		// Boneyard open, possibly closed on the same line.
		if strings.HasPrefix(line, "/*") {
			if strings.HasSuffix(fullStrip, "*/") {
				text := strings.ReplaceAll(strings.ReplaceAll(fullStrip, "/*", ""), "*/", "")
				e := newElement(ElementBoneyard, strings.TrimSpace(text))
				e.OriginalLine = linenum
				e.OriginalContent = fullStrip
				push(e)
				inCommentBlock = false
				newlinesBefore = 0
			} else {
				inCommentBlock = true
				if rest := strings.TrimSpace(strings.TrimPrefix(fullStrip, "/*")); rest != "" {
					commentText = append(commentText, rest)
				}
				commentLines = append(commentLines, line)
			}
			continue
		}

		// Boneyard close.
		if strings.HasSuffix(strings.TrimRightFunc(line, unicode.IsSpace), "*/") {
			text := strings.TrimSpace(strings.ReplaceAll(line, "*/", ""))
			if text != "" {
				commentText = append(commentText, text)
			}
			commentLines = append(commentLines, line)
			e := newElement(ElementBoneyard, strings.Join(commentText, "\n"))
			e.OriginalLine = linenum
			e.OriginalContent = strings.Join(commentLines, "\n")
			push(e)
			inCommentBlock = false
			commentText = nil
			commentLines = nil
			newlinesBefore = 0
			continue
		}

		// Inside an open boneyard: accumulate, emit nothing.
		if inCommentBlock {
			commentText = append(commentText, line)
			commentLines = append(commentLines, line)
			continue
		}

		// Page break.
		if strings.HasPrefix(line, "===") {
			e := newElement(ElementPageBreak, line)
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			newlinesBefore = 0
			continue
		}

		// Synopsis.
		if fullStrip[0] == '=' {
			e := newElement(ElementSynopsis, strings.TrimSpace(fullStrip[1:]))
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			continue
		}

		// Inline note, only when set off by a blank line.
		if newlinesBefore > 0 && strings.HasPrefix(fullStrip, "[[") && strings.HasSuffix(fullStrip, "]]") {
			e := newElement(ElementComment, strings.Trim(fullStrip, "[] \t"))
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			continue
		}

		// Section heading; depth is the '#' count of the first token.
		if fullStrip[0] == '#' {
			newlinesBefore = 0
			depth := strings.Count(strings.Fields(fullStrip)[0], "#")
			e := newElement(ElementSectionHeading, strings.TrimSpace(fullStrip[depth:]))
			e.SectionDepth = depth
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			continue
		}

		// Forced scene heading. ".." escapes the sigil (ellipsis action).
		if len(line) > 1 && line[0] == '.' && line[1] != '.' {
			newlinesBefore = 0
			text, number := splitSceneNumber(fullStrip[1:])
			e := newElement(ElementSceneHeading, text)
			e.SceneNumber = number
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			scene = sp.addScene(e)
			continue
		}

		// Forced action.
		if len(line) > 1 && line[0] == '!' {
			e := newElement(ElementAction, strings.TrimSpace(fullStrip[1:]))
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			continue
		}

		// Natural scene heading (INT/EXT-style prefix).
		if hasSceneHeadingPrefix(line) {
			newlinesBefore = 0
			fields := strings.Fields(line)
			var e *Element
			if len(fields) < 2 {
				e = newElement(ElementSceneHeading, fullStrip)
			} else {
				nameStart := strings.Index(line, fields[1])
				text, number := splitSceneNumber(fullStrip[nameStart:])
				e = newElement(ElementSceneHeading, fields[0]+" "+text)
				e.SceneNumber = number
			}
			e.SceneAbbreviation = fields[0]
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			scene = sp.addScene(e)
			continue
		}

		// Transitions.
		if strings.HasSuffix(fullStrip, " TO:") {
			newlinesBefore = 0
			e := newElement(ElementTransition, fullStrip)
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			continue
		}
		if _, ok := commonTransitions[fullStrip]; ok {
			newlinesBefore = 0
			e := newElement(ElementTransition, fullStrip)
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			continue
		}

		// ">...<" is centered action; a bare leading ">" forces a transition.
		if fullStrip[0] == '>' {
			newlinesBefore = 0
			var e *Element
			if len(fullStrip) > 1 && fullStrip[len(fullStrip)-1] == '<' {
				e = newElement(ElementAction, strings.TrimSpace(fullStrip[1:len(fullStrip)-1]))
				e.Centered = true
			} else {
				e = newElement(ElementTransition, strings.TrimSpace(fullStrip[1:]))
			}
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			continue
		}

		// Character cue: preceded by a blank line, followed by a non-empty
		// line, and either all-allowable characters or forced with '@'.
		if newlinesBefore > 0 && linenum+1 < len(lines) && lines[linenum+1] != "" &&
			strings.IndexByte("[],()", line[0]) < 0 &&
			(allAllowable(fullStrip) || fullStrip[0] == '@') {
			newlinesBefore = 0
			var e *Element
			if fullStrip[len(fullStrip)-1] == '^' {
				// Pair with the nearest preceding character cue.
				for i := len(sp.Elements) - 1; i >= 0; i-- {
					if sp.Elements[i].Type == ElementCharacter {
						sp.Elements[i].DualDialogue = true
						break
					}
				}
				e = newElement(ElementCharacter, strings.TrimSpace(strings.TrimRight(strings.TrimLeft(fullStrip, "@"), "^")))
				e.DualDialogue = true
			} else {
				e = newElement(ElementCharacter, strings.TrimLeft(fullStrip, "@"))
			}
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			insideDialogue = true
			continue
		}

		// Dialogue block: parenthetical, continuation, or a new dialogue run.
		if insideDialogue {
			if newlinesBefore == 0 && fullStrip[0] == '(' {
				e := newElement(ElementParenthetical, fullStrip)
				e.OriginalLine = linenum
				e.OriginalContent = line
				push(e)
			} else if last := sp.Elements[len(sp.Elements)-1]; last.Type == ElementDialogue {
				last.Text += "\n" + fullStrip
				last.OriginalContent += "\n" + line
			} else {
				e := newElement(ElementDialogue, fullStrip)
				e.OriginalLine = linenum
				e.OriginalContent = line
				push(e)
			}
			continue
		}

		// Fallthrough: continuation of the previous element, or new action.
		if newlinesBefore == 0 && len(sp.Elements) > 0 {
			last := sp.Elements[len(sp.Elements)-1]
			last.Text += "\n" + fullStrip
			last.OriginalContent += "\n" + line
		} else {
			e := newElement(ElementAction, fullStrip)
			e.OriginalLine = linenum
			e.OriginalContent = line
			push(e)
			newlinesBefore = 0
		}
	}
}

// splitSceneNumber splits a trailing "#...#" marker off a scene heading line.
// The marker must end the line and a second '#' must exist to open it.
func splitSceneNumber(s string) (text, number string) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "#") || strings.Count(s, "#") < 2 {
		return s, ""
	}
	start := strings.LastIndex(s[:len(s)-1], "#")
	return strings.TrimSpace(s[:start]), strings.TrimSpace(strings.Trim(s[start:], "#"))
}

// hasSceneHeadingPrefix reports whether the line opens with one of the
// standard scene heading tokens followed by a space or period.
func hasSceneHeadingPrefix(line string) bool {
	upper := strings.ToUpper(line)
	for _, p := range []string{"INT ", "INT.", "EXT ", "EXT.", "EST ", "EST.", "I/E ", "I/E.", "INT/EXT ", "INT/EXT.", "INT./EXT ", "INT./EXT."} {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// allAllowable reports whether every rune of s is in the character cue set.
func allAllowable(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(characterAllowable, r) {
			return false
		}
	}
	return true
}
