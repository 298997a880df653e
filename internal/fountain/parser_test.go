/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string) *Screenplay {
	t.Helper()
	sp, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return sp
}

func TestParseEmptyInput(t *testing.T) {
	sp := mustParse(t, "")
	if len(sp.Metadata) != 0 || len(sp.Elements) != 0 || len(sp.Scenes) != 0 {
		t.Fatalf("expected empty screenplay, got %+v", sp)
	}
}

func TestParseSceneSplit(t *testing.T) {
	sp := mustParse(t, "INT. HOUSE - DAY\nJohn enters.\n\nEXT. STREET - NIGHT\nJohn leaves.\n")
	if len(sp.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(sp.Scenes))
	}
	if sp.Scenes[0].HeaderText != "INT. HOUSE - DAY" {
		t.Fatalf("unexpected scene 1 header: %q", sp.Scenes[0].HeaderText)
	}
	if sp.Scenes[1].HeaderText != "EXT. STREET - NIGHT" {
		t.Fatalf("unexpected scene 2 header: %q", sp.Scenes[1].HeaderText)
	}
	first := sp.Scenes[0].Elements[0]
	if first.Type != ElementSceneHeading || first.SceneAbbreviation != "INT." {
		t.Fatalf("expected INT. scene heading, got %+v", first)
	}
}

func TestParseMetadataAndBody(t *testing.T) {
	sp := mustParse(t, "Title: My Play\nAuthor: A. Writer\n\nINT. HOUSE - DAY\n")
	want := map[string][]string{"title": {"My Play"}, "author": {"A. Writer"}}
	if !reflect.DeepEqual(sp.Metadata, want) {
		t.Fatalf("unexpected metadata: %+v", sp.Metadata)
	}
	if len(sp.Scenes) != 1 || len(sp.Scenes[0].Elements) != 1 {
		t.Fatalf("expected a single scene with one element, got %+v", sp.Scenes)
	}
	if sp.Scenes[0].Elements[0].Type != ElementSceneHeading {
		t.Fatalf("expected scene heading, got %+v", sp.Scenes[0].Elements[0])
	}
}

func TestParseHeadOnly(t *testing.T) {
	sp := mustParse(t, "Title:\n    My Play\n    An Adventure")
	want := []string{"My Play", "An Adventure"}
	if !reflect.DeepEqual(sp.Metadata["title"], want) {
		t.Fatalf("unexpected title value: %+v", sp.Metadata["title"])
	}
	if len(sp.Elements) != 0 || len(sp.Scenes) != 0 {
		t.Fatalf("head-only input must not produce body content, got %+v", sp)
	}
}

func TestParseHeadContinuationWithoutKey(t *testing.T) {
	// "Title: x" stores a value without opening a key, so the indented line
	// that follows has nothing to attach to.
	_, err := Parse("Title: x\n  orphan value")
	if !errors.Is(err, ErrNoOpenKey) {
		t.Fatalf("expected ErrNoOpenKey, got %v", err)
	}
}

func TestForcedAction(t *testing.T) {
	sp := mustParse(t, "!John stands.")
	if len(sp.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(sp.Elements))
	}
	e := sp.Elements[0]
	if e.Type != ElementAction || e.Text != "John stands." {
		t.Fatalf("expected forced action, got %+v", e)
	}
}

func TestForcedSceneHeadingWithNumber(t *testing.T) {
	sp := mustParse(t, ".BACKYARD #4#")
	e := sp.Elements[0]
	if e.Type != ElementSceneHeading || e.Text != "BACKYARD" || e.SceneNumber != "4" {
		t.Fatalf("unexpected forced heading: %+v", e)
	}
	if e.SceneAbbreviation != "." {
		t.Fatalf("forced heading must keep the sentinel abbreviation, got %q", e.SceneAbbreviation)
	}
}

func TestEllipsisIsNotASceneHeading(t *testing.T) {
	sp := mustParse(t, "...and then silence.")
	if sp.Elements[0].Type != ElementAction {
		t.Fatalf("expected action for ellipsis line, got %+v", sp.Elements[0])
	}
}

func TestNaturalSceneHeadingWithNumber(t *testing.T) {
	sp := mustParse(t, "INT. HOUSE - DAY #1#")
	e := sp.Elements[0]
	if e.Type != ElementSceneHeading {
		t.Fatalf("expected scene heading, got %+v", e)
	}
	if e.Text != "INT. HOUSE - DAY" || e.SceneNumber != "1" || e.SceneAbbreviation != "INT." {
		t.Fatalf("unexpected heading fields: %+v", e)
	}
}

func TestSceneHeadingPrefixCaseInsensitive(t *testing.T) {
	sp := mustParse(t, "int. basement - night")
	e := sp.Elements[0]
	if e.Type != ElementSceneHeading || e.SceneAbbreviation != "int." {
		t.Fatalf("expected lowercase heading with original-case token, got %+v", e)
	}
}

func TestTransitions(t *testing.T) {
	sp := mustParse(t, "INT. HALL - DAY\n\nCUT TO:\n\nFADE OUT.\n\n> SMASH CUT")
	var transitions []*Element
	for _, e := range sp.Elements {
		if e.Type == ElementTransition {
			transitions = append(transitions, e)
		}
	}
	if len(transitions) != 3 {
		t.Fatalf("expected 3 transitions, got %d: %+v", len(transitions), sp.Elements)
	}
	if transitions[2].Text != "SMASH CUT" {
		t.Fatalf("forced transition must strip '>', got %q", transitions[2].Text)
	}
}

func TestCenteredText(t *testing.T) {
	sp := mustParse(t, "> THE END <")
	e := sp.Elements[0]
	if e.Type != ElementAction || !e.Centered || e.Text != "THE END" {
		t.Fatalf("expected centered action THE END, got %+v", e)
	}
}

func TestBoneyardSingleLine(t *testing.T) {
	sp := mustParse(t, "/* gone */")
	e := sp.Elements[0]
	if e.Type != ElementBoneyard || e.Text != "gone" {
		t.Fatalf("expected boneyard 'gone', got %+v", e)
	}
}

func TestBoneyardSpansLines(t *testing.T) {
	sp := mustParse(t, "/* this\nspans lines */")
	if len(sp.Elements) != 1 {
		t.Fatalf("expected exactly 1 element, got %d", len(sp.Elements))
	}
	e := sp.Elements[0]
	if e.Type != ElementBoneyard || e.Text != "this\nspans lines" {
		t.Fatalf("unexpected boneyard: %+v", e)
	}
}

func TestPageBreak(t *testing.T) {
	sp := mustParse(t, "===")
	e := sp.Elements[0]
	if e.Type != ElementPageBreak || e.Text != "===" {
		t.Fatalf("expected page break, got %+v", e)
	}
}

func TestSynopsisAndSectionHeading(t *testing.T) {
	sp := mustParse(t, "### The Confrontation\n= John finally faces his past.")
	if e := sp.Elements[0]; e.Type != ElementSectionHeading || e.SectionDepth != 3 || e.Text != "The Confrontation" {
		t.Fatalf("unexpected section heading: %+v", e)
	}
	if e := sp.Elements[1]; e.Type != ElementSynopsis || e.Text != "John finally faces his past." {
		t.Fatalf("unexpected synopsis: %+v", e)
	}
}

func TestInlineNoteNeedsBlankLine(t *testing.T) {
	sp := mustParse(t, "INT. LAB - DAY\n\n[[check continuity]]")
	var note *Element
	for _, e := range sp.Elements {
		if e.Type == ElementComment {
			note = e
		}
	}
	if note == nil || note.Text != "check continuity" {
		t.Fatalf("expected note element, got %+v", sp.Elements)
	}

	// Without a preceding blank line the brackets read as a continuation.
	sp = mustParse(t, "INT. LAB - DAY\n[[check continuity]]")
	for _, e := range sp.Elements {
		if e.Type == ElementComment {
			t.Fatalf("note must not be recognized without a blank line: %+v", e)
		}
	}
}

func TestDialogueBlock(t *testing.T) {
	sp := mustParse(t, "INT. ROOM - DAY\n\nJOHN\n(quietly)\nI never wanted this.\nNot once.\n")
	var kinds []ElementType
	for _, e := range sp.Elements {
		kinds = append(kinds, e.Type)
	}
	want := []ElementType{ElementSceneHeading, ElementEmpty, ElementCharacter, ElementParenthetical, ElementDialogue}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("unexpected element kinds: %v", kinds)
	}
	dlg := sp.Elements[4]
	if dlg.Text != "I never wanted this.\nNot once." {
		t.Fatalf("wrapped dialogue must join with newline, got %q", dlg.Text)
	}
	if p := sp.Elements[3]; p.Text != "(quietly)" {
		t.Fatalf("unexpected parenthetical text: %q", p.Text)
	}
}

func TestForcedCharacterCue(t *testing.T) {
	sp := mustParse(t, "INT. ROOM - DAY\n\n@McCLANE\nYippee.\n")
	var cue *Element
	for _, e := range sp.Elements {
		if e.Type == ElementCharacter {
			cue = e
		}
	}
	if cue == nil || cue.Text != "McCLANE" {
		t.Fatalf("expected forced cue McCLANE, got %+v", cue)
	}
}

func TestDualDialoguePairing(t *testing.T) {
	sp := mustParse(t, "INT. ROOM - DAY\n\nJOHN\nI'm here.\n\n@MARY ^\nMe too.\n")
	var cues []*Element
	for _, e := range sp.Elements {
		if e.Type == ElementCharacter {
			cues = append(cues, e)
		}
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 character cues, got %d", len(cues))
	}
	if cues[0].Text != "JOHN" || !cues[0].DualDialogue {
		t.Fatalf("first cue must be back-patched dual, got %+v", cues[0])
	}
	if cues[1].Text != "MARY" || !cues[1].DualDialogue {
		t.Fatalf("second cue must strip '@' and '^', got %+v", cues[1])
	}
}

func TestDualDialogueVisibleInScenes(t *testing.T) {
	sp := mustParse(t, "INT. ROOM - DAY\n\nJOHN\nHello.\n\n@MARY ^\nHi.\n")
	// The scene view shares element pointers with the flat list, so the
	// back-patched flag must show in both.
	for _, sc := range sp.Scenes {
		for _, e := range sc.Elements {
			if e.Type == ElementCharacter && !e.DualDialogue {
				t.Fatalf("scene view missed the dual-dialogue back-patch: %+v", e)
			}
		}
	}
}

func TestCharacterCueNeedsNextLine(t *testing.T) {
	sp := mustParse(t, "INT. ROOM - DAY\n\nJOHN")
	last := sp.Elements[len(sp.Elements)-1]
	if last.Type == ElementCharacter {
		t.Fatalf("a cue with no following line must not classify as character: %+v", last)
	}
}

func TestActionContinuation(t *testing.T) {
	sp := mustParse(t, "John walks in.\nHe stops.")
	if len(sp.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(sp.Elements))
	}
	e := sp.Elements[0]
	if e.Type != ElementAction || e.Text != "John walks in.\nHe stops." {
		t.Fatalf("unexpected continuation: %+v", e)
	}
}

func TestTrailingEmptySceneIsKept(t *testing.T) {
	// The placeholder scene is only discarded when a new heading opens, so a
	// document that never opens one keeps its empty scene.
	sp := mustParse(t, "===")
	if len(sp.Scenes) != 1 || !sp.Scenes[0].IsEmpty() {
		t.Fatalf("expected one empty scene, got %+v", sp.Scenes)
	}

	sp = mustParse(t, "===\n.ALLEY")
	if len(sp.Scenes) != 1 {
		t.Fatalf("empty placeholder must be discarded when a heading opens, got %d scenes", len(sp.Scenes))
	}
	if sp.Scenes[0].HeaderText != "ALLEY" {
		t.Fatalf("unexpected scene header: %q", sp.Scenes[0].HeaderText)
	}
}

func TestHeaderTextStripsBackslashes(t *testing.T) {
	sp := mustParse(t, ".INT HOUSE \\#2")
	if sp.Scenes[0].HeaderText != "INT HOUSE #2" {
		t.Fatalf("expected backslashes removed from header, got %q", sp.Scenes[0].HeaderText)
	}
}

func TestOriginalContentRoundTrip(t *testing.T) {
	input := "INT. HOUSE - DAY\nJohn enters.\n\nEXT. STREET - NIGHT\nJohn leaves."
	sp := mustParse(t, input)
	var parts []string
	for _, e := range sp.Elements {
		parts = append(parts, e.OriginalContent)
	}
	if got := strings.Join(parts, "\n"); got != input {
		t.Fatalf("round trip mismatch:\n got %q\nwant %q", got, input)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	input := "Title: X\n\nINT. A - DAY\n\nJOHN\nHi.\n\n@MARY ^\nHello.\n\nCUT TO:\n\n> FIN <"
	a := mustParse(t, input)
	b := mustParse(t, input)
	if !reflect.DeepEqual(a.Elements, b.Elements) {
		t.Fatalf("element sequences differ between identical parses")
	}
	if !reflect.DeepEqual(a.Metadata, b.Metadata) {
		t.Fatalf("metadata differs between identical parses")
	}
}

func TestMalformedInputNeverFails(t *testing.T) {
	inputs := []string{
		"]",
		"(((",
		"*/",
		"====#==",
		">",
		"#",
		"@",
		"\n\n\n",
		".x #broken",
	}
	for _, in := range inputs {
		if _, err := Parse(in); err != nil {
			t.Fatalf("Parse(%q) returned error: %v", in, err)
		}
	}
}
