/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for a screenplay project. A project
// serializes to a human-readable JSON manifest next to the script sources.

// Project represents a screenplay project and its metadata.
type Project struct {
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`
	Drafts   []Draft  `json:"drafts"`
}

// Metadata contains optional descriptive metadata for a project.
type Metadata struct {
	Author   string `json:"author,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Source   string `json:"source,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Revision string `json:"revision,omitempty"`
}

// Draft names one script file inside the project's script directory.
// File is a path relative to the script directory; the active draft is the
// one the CLI operates on by default.
type Draft struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Active  bool   `json:"active,omitempty"`
	Locked  bool   `json:"locked,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// ActiveDraft returns the active draft, falling back to the first one.
// The second return is false when the project has no drafts at all.
func (p Project) ActiveDraft() (Draft, bool) {
	for _, d := range p.Drafts {
		if d.Active {
			return d, true
		}
	}
	if len(p.Drafts) > 0 {
		return p.Drafts[0], true
	}
	return Draft{}, false
}
