/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"goscreenwriter/internal/fountain"
	"goscreenwriter/internal/storage"
)

// Document is the stable JSON shape of a parsed screenplay. Scene elements
// reference the flat element list by index so the dual view stays cheap to
// serialize and consumers can pick either.
type Document struct {
	Metadata map[string][]string `json:"metadata,omitempty"`
	Elements []DocumentElement   `json:"elements"`
	Scenes   []DocumentScene     `json:"scenes"`
}

// DocumentElement mirrors fountain.Element with wire-friendly names.
type DocumentElement struct {
	Type              string `json:"type"`
	Text              string `json:"text"`
	SectionDepth      int    `json:"sectionDepth,omitempty"`
	SceneNumber       string `json:"sceneNumber,omitempty"`
	SceneAbbreviation string `json:"sceneAbbreviation,omitempty"`
	Centered          bool   `json:"centered,omitempty"`
	DualDialogue      bool   `json:"dualDialogue,omitempty"`
	Line              int    `json:"line"`
}

// DocumentScene is one scene with indexes into the elements array.
type DocumentScene struct {
	Heading  string `json:"heading"`
	Elements []int  `json:"elements"`
}

// BuildDocument converts a parsed screenplay into the export DTO.
func BuildDocument(sp *fountain.Screenplay) Document {
	doc := Document{
		Metadata: sp.Metadata,
		Elements: make([]DocumentElement, 0, len(sp.Elements)),
		Scenes:   make([]DocumentScene, 0, len(sp.Scenes)),
	}
	index := make(map[*fountain.Element]int, len(sp.Elements))
	for i, e := range sp.Elements {
		index[e] = i
		de := DocumentElement{
			Type:         e.Type.String(),
			Text:         e.Text,
			SectionDepth: e.SectionDepth,
			SceneNumber:  e.SceneNumber,
			Centered:     e.Centered,
			DualDialogue: e.DualDialogue,
			Line:         e.OriginalLine,
		}
		if e.Type == fountain.ElementSceneHeading {
			de.SceneAbbreviation = e.SceneAbbreviation
		}
		doc.Elements = append(doc.Elements, de)
	}
	for _, sc := range sp.Scenes {
		ds := DocumentScene{Heading: sc.HeaderText, Elements: []int{}}
		for _, e := range sc.Elements {
			if i, ok := index[e]; ok {
				ds.Elements = append(ds.Elements, i)
			}
		}
		doc.Scenes = append(doc.Scenes, ds)
	}
	return doc
}

// ExportJSON writes the screenplay DTO as indented JSON at outPath.
// A relative outPath is resolved under the project's exports folder.
func ExportJSON(ph *storage.ProjectHandle, sp *fountain.Screenplay, outPath string) error {
	if sp == nil {
		return fmt.Errorf("screenplay is nil")
	}
	doc := BuildDocument(sp)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	if !filepath.IsAbs(outPath) && ph != nil {
		outPath = filepath.Join(ph.Root, storage.ExportsDirName, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
