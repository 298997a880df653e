/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"goscreenwriter/internal/domain"
)

func testProject() domain.Project {
	return domain.Project{
		Name:   "Test Screenplay",
		Drafts: []domain.Draft{{Name: "First Draft", File: "draft1.fountain", Active: true}},
	}
}

func TestInitProjectScaffold(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if _, err := os.Stat(ph.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	for _, d := range standardSubDirs {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Fatalf("expected subdir %s: %v", d, err)
		}
	}
}

func TestInitProjectEmptyRoot(t *testing.T) {
	if _, err := InitProject("  ", testProject()); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	if _, err := InitProject(root, testProject()); err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	ph, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if ph.Project.Name != "Test Screenplay" {
		t.Fatalf("unexpected project name: %q", ph.Project.Name)
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	ph.Project.Metadata.Revision = "pink"
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected at least one manifest backup")
	}
}

func TestOpenFallsBackToBackup(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, testProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	// Second save produces a backup of the valid manifest.
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	// Corrupt the current manifest.
	if err := os.WriteFile(ph.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open with backup fallback failed: %v", err)
	}
	if got.Project.Name != "Test Screenplay" {
		t.Fatalf("backup content mismatch: %+v", got.Project)
	}
}

func TestSaveNilHandle(t *testing.T) {
	if err := Save(nil); err == nil {
		t.Fatalf("expected error for nil handle")
	}
}
