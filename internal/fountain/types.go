/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// ElementType indicates the kind of a screenplay element.
type ElementType int

const (
	ElementEmpty ElementType = iota
	ElementBoneyard
	ElementPageBreak
	ElementSynopsis
	ElementComment
	ElementSectionHeading
	ElementSceneHeading
	ElementTransition
	ElementAction
	ElementCharacter
	ElementParenthetical
	ElementDialogue
)

var elementTypeNames = map[ElementType]string{
	ElementEmpty:          "Empty",
	ElementBoneyard:       "Boneyard",
	ElementPageBreak:      "Page Break",
	ElementSynopsis:       "Synopsis",
	ElementComment:        "Comment",
	ElementSectionHeading: "Section Heading",
	ElementSceneHeading:   "Scene Heading",
	ElementTransition:     "Transition",
	ElementAction:         "Action",
	ElementCharacter:      "Character",
	ElementParenthetical:  "Parenthetical",
	ElementDialogue:       "Dialogue",
}

func (t ElementType) String() string {
	if s, ok := elementTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Element captures a single classified unit of screenplay content.
// Text is the normalized content (sigils stripped, whitespace trimmed); for
// multi-line dialogue and boneyards the lines are joined with "\n".
//
// Several fields are meaningful only for specific types:
//   - SectionDepth: Section Heading (count of leading '#')
//   - SceneNumber: Scene Heading with a trailing #...# marker
//   - SceneAbbreviation: Scene Heading; the INT/EXT-style prefix token, or "."
//     for a forced (leading-dot) heading
//   - Centered: Action wrapped in >...<
//   - DualDialogue: Character cues paired by a trailing '^'
type Element struct {
	Type              ElementType
	Text              string
	SectionDepth      int
	SceneNumber       string
	SceneAbbreviation string
	Centered          bool
	DualDialogue      bool
	OriginalLine      int // 0-based line in the body where the element began
	OriginalContent   string
}

func newElement(t ElementType, text string) *Element {
	return &Element{Type: t, Text: text, SceneAbbreviation: "."}
}

// IsEmpty reports whether the element carries no rendered content.
// Used by the scene-emptiness check when a new scene heading opens.
func (e *Element) IsEmpty() bool {
	return e.Type == ElementEmpty || e.Type == ElementPageBreak || e.Type == ElementBoneyard
}

// Scene is a contiguous run of elements from one scene heading (inclusive) up
// to the next heading. Elements are shared with the Screenplay's flat list.
type Scene struct {
	HeaderText string
	Elements   []*Element
}

// NewScene returns a scene titled with the heading text, backslash escapes removed.
func NewScene(headerText string) *Scene {
	return &Scene{HeaderText: stripSlashes(headerText)}
}

func (s *Scene) append(e *Element) {
	s.Elements = append(s.Elements, e)
}

// IsEmpty reports whether every element of the scene is empty.
func (s *Scene) IsEmpty() bool {
	for _, e := range s.Elements {
		if !e.IsEmpty() {
			return false
		}
	}
	return true
}

func stripSlashes(s string) string {
	return strings.ReplaceAll(s, "\\", "")
}
