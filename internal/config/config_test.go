/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ConfigVersion != 1 {
		t.Fatalf("unexpected config version: %d", cfg.ConfigVersion)
	}
	if cfg.Export.PaperSize != "letter" || !cfg.Export.IncludeTitlePage {
		t.Fatalf("unexpected export defaults: %+v", cfg.Export)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestMergeInto(t *testing.T) {
	dst := Defaults()
	src := AppConfig{
		Export:  ExportConfig{PaperSize: " A4 ", SceneNumbers: true},
		Logging: LoggingConfig{Level: "DEBUG", File: "  /tmp/x.log "},
	}
	mergeInto(&dst, &src)
	if dst.Export.PaperSize != "a4" {
		t.Fatalf("paper size not normalized: %q", dst.Export.PaperSize)
	}
	if !dst.Export.SceneNumbers {
		t.Fatalf("scene numbers flag not carried over")
	}
	if dst.Logging.Level != "debug" || dst.Logging.File != "/tmp/x.log" {
		t.Fatalf("logging not merged: %+v", dst.Logging)
	}
	// empty src fields keep defaults
	if dst.Logging.Format != "console" {
		t.Fatalf("format should keep default, got %q", dst.Logging.Format)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvPaperSize, "A4")
	t.Setenv(EnvSceneNumbers, "yes")
	t.Setenv(EnvLogLevel, "ERROR")

	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Export.PaperSize != "a4" {
		t.Fatalf("paper size override failed: %q", cfg.Export.PaperSize)
	}
	if !cfg.Export.SceneNumbers {
		t.Fatalf("scene numbers override failed")
	}
	if cfg.Logging.Level != "error" {
		t.Fatalf("log level override failed: %q", cfg.Logging.Level)
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "ON", "Yes"} {
		if !isTruthy(v) {
			t.Fatalf("expected %q to be truthy", v)
		}
	}
	for _, v := range []string{"0", "false", "off", "no", ""} {
		if isTruthy(v) {
			t.Fatalf("expected %q to be falsy", v)
		}
	}
}
