/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// ScriptFilePath returns the path of the project's active script file.
// It resolves the active draft from the manifest and falls back to the
// default script file name. Returns "" for a nil handle.
func ScriptFilePath(ph *ProjectHandle) string {
	if ph == nil {
		return ""
	}
	name := DefaultScriptFileName
	if d, ok := ph.Project.ActiveDraft(); ok && d.File != "" {
		name = d.File
	}
	return filepath.Join(ph.Root, ScriptDirName, name)
}

// ReadScript returns the active script text. A missing file is not an error;
// it reads as an empty script.
func ReadScript(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	b, err := os.ReadFile(ScriptFilePath(ph))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteScript saves the active script text with a synced write.
func WriteScript(ph *ProjectHandle, text string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	path := ScriptFilePath(ph)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeFileSync(path, []byte(text))
}
