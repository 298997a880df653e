/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goscreenwriter/internal/config"
	"goscreenwriter/internal/crash"
	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/export"
	"goscreenwriter/internal/fountain"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/version"
)

func usage() {
	fmt.Println("goscreenwriter — Fountain screenplay toolkit")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  goscreenwriter version|-v|--version            Show version")
	fmt.Println("  goscreenwriter init <dir> <name>               Create a new project at <dir> with name <name>")
	fmt.Println("  goscreenwriter open <dir>                      Open project at <dir> and print summary")
	fmt.Println("  goscreenwriter parse [-json] <dir|file>        Parse and print the outline, or the full document as JSON")
	fmt.Println("  goscreenwriter outline <dir|file>              Print the scene outline")
	fmt.Println("  goscreenwriter stats <dir|file>                Print element and character statistics")
	fmt.Println("  goscreenwriter index <dir>                     Rebuild the project search index")
	fmt.Println("  goscreenwriter search <dir> <query> [name]     Search indexed dialogue, optionally by character")
	fmt.Println("  goscreenwriter snapshot <dir>                  Save a script snapshot into the index")
	fmt.Println("  goscreenwriter export <dir|file> <format> [out]  Export as pdf, html or json")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())

	case "init":
		if len(args) < 4 {
			fmt.Println("init requires <dir> and <name>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		name := args[3]
		l.Info("init project", slog.String("root", abs), slog.String("name", name))
		h, err := storage.InitProject(abs, domain.Project{
			Name: name,
			Drafts: []domain.Draft{
				{Name: "First Draft", File: storage.DefaultScriptFileName, Active: true},
			},
		})
		if err != nil {
			fail(l, "init failed", err)
		}
		ph = h
		if err := storage.WriteScript(ph, ""); err != nil {
			fail(l, "write script failed", err)
		}
		fmt.Println("Created project at", abs)

	case "open":
		ph = mustOpen(l, args, 3)
		sp := mustParseScript(l, ph)
		fmt.Printf("Opened project: %s\n", ph.Project.Name)
		if d, ok := ph.Project.ActiveDraft(); ok {
			fmt.Printf("Active draft: %s (%s)\n", d.Name, d.File)
		}
		fmt.Printf("Scenes: %d\n", len(sp.Scenes))
		fmt.Println("Root:", ph.Root)

	case "parse":
		fs := flag.NewFlagSet("parse", flag.ExitOnError)
		asJSON := fs.Bool("json", false, "print the parsed document as JSON")
		_ = fs.Parse(args[2:])
		if fs.NArg() < 1 {
			fmt.Println("parse requires <dir|file>")
			usage()
			os.Exit(2)
		}
		sp, h := loadScreenplay(l, []string{args[0], args[1], fs.Arg(0)}, 3)
		ph = h
		if *asJSON {
			data, err := json.MarshalIndent(export.BuildDocument(sp), "", "  ")
			if err != nil {
				fail(l, "marshal failed", err)
			}
			fmt.Println(string(data))
			return
		}
		printOutline(sp)

	case "outline":
		sp, h := loadScreenplay(l, args, 3)
		ph = h
		printOutline(sp)

	case "stats":
		sp, h := loadScreenplay(l, args, 3)
		ph = h
		printStats(sp)

	case "index":
		ph = mustOpen(l, args, 3)
		sp := mustParseScript(l, ph)
		if err := storage.RebuildIndex(context.Background(), ph.Root, sp); err != nil {
			fail(l, "rebuild index failed", err)
		}
		fmt.Printf("Indexed %d scenes.\n", len(sp.Scenes))

	case "search":
		if len(args) < 4 {
			fmt.Println("search requires <dir> and <query>")
			usage()
			os.Exit(2)
		}
		ph = mustOpen(l, args, 3)
		character := ""
		if len(args) > 4 {
			character = args[4]
		}
		hits, err := storage.SearchDialogue(context.Background(), ph.Root, args[3], character)
		if err != nil {
			fail(l, "search failed", err)
		}
		for _, h := range hits {
			fmt.Printf("scene %d, line %d, %s: %s\n", h.ScenePosition+1, h.Line+1, h.Character, h.Text)
		}
		if len(hits) == 0 {
			fmt.Println("No matches. Run `goscreenwriter index` after editing the script.")
		}

	case "snapshot":
		ph = mustOpen(l, args, 3)
		text, err := storage.ReadScript(ph)
		if err != nil {
			fail(l, "read script failed", err)
		}
		if err := storage.SaveScriptSnapshot(context.Background(), ph, text, time.Now()); err != nil {
			fail(l, "save snapshot failed", err)
		}
		fmt.Println("Snapshot saved.")

	case "export":
		if len(args) < 4 {
			fmt.Println("export requires <dir|file> and <format>")
			usage()
			os.Exit(2)
		}
		sp, h := loadScreenplay(l, args, 3)
		ph = h
		format := strings.ToLower(args[3])
		out := "script." + format
		if len(args) > 4 {
			out = args[4]
		}
		cfg, err := config.Load()
		if err != nil {
			l.Warn("config load failed, using defaults", slog.Any("err", err))
			cfg = config.Defaults()
		}
		switch format {
		case "pdf":
			err = export.ExportPDF(ph, sp, out, export.PDFOptions{
				PaperSize:        cfg.Export.PaperSize,
				IncludeTitlePage: cfg.Export.IncludeTitlePage,
				SceneNumbers:     cfg.Export.SceneNumbers,
			})
		case "html":
			err = export.ExportHTML(ph, sp, out, export.HTMLOptions{
				IncludeTitlePage: cfg.Export.IncludeTitlePage,
				SceneNumbers:     cfg.Export.SceneNumbers,
			})
		case "json":
			err = export.ExportJSON(ph, sp, out)
		default:
			fmt.Println("unknown export format:", format)
			os.Exit(2)
		}
		if err != nil {
			fail(l, "export failed", err)
		}
		fmt.Println("Exported", format, "to", out)

	default:
		usage()
	}
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

// mustOpen opens the project named by args[need-1], or exits.
func mustOpen(l *slog.Logger, args []string, need int) *storage.ProjectHandle {
	if len(args) < need {
		fmt.Printf("%s requires <dir>\n", args[1])
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[need-1])
	l.Info("open project", slog.String("root", abs))
	ph, err := storage.Open(abs)
	if err != nil {
		fail(l, "open failed", err)
	}
	return ph
}

func mustParseScript(l *slog.Logger, ph *storage.ProjectHandle) *fountain.Screenplay {
	text, err := storage.ReadScript(ph)
	if err != nil {
		fail(l, "read script failed", err)
	}
	sp, err := fountain.Parse(text)
	if err != nil {
		fail(l, "parse failed", err)
	}
	return sp
}

// loadScreenplay accepts either a project directory or a bare .fountain file.
// The returned handle is nil for bare files.
func loadScreenplay(l *slog.Logger, args []string, need int) (*fountain.Screenplay, *storage.ProjectHandle) {
	if len(args) < need {
		fmt.Printf("%s requires <dir|file>\n", args[1])
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[need-1])
	if st, err := os.Stat(abs); err == nil && st.IsDir() {
		ph, err := storage.Open(abs)
		if err != nil {
			fail(l, "open failed", err)
		}
		return mustParseScript(l, ph), ph
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		fail(l, "read script failed", err)
	}
	sp, err := fountain.Parse(string(data))
	if err != nil {
		fail(l, "parse failed", err)
	}
	return sp, nil
}

func printOutline(sp *fountain.Screenplay) {
	for i, sc := range sp.Scenes {
		head := sc.HeaderText
		if head == "" {
			head = "(no heading)"
		}
		fmt.Printf("%3d  %s\n", i+1, head)
	}
}

func printStats(sp *fountain.Screenplay) {
	counts := map[fountain.ElementType]int{}
	cues := map[string]int{}
	for _, e := range sp.Elements {
		counts[e.Type]++
		if e.Type == fountain.ElementCharacter {
			cues[e.Text]++
		}
	}
	fmt.Printf("Scenes: %d\n", len(sp.Scenes))
	for _, t := range []fountain.ElementType{
		fountain.ElementSceneHeading, fountain.ElementAction, fountain.ElementCharacter,
		fountain.ElementDialogue, fountain.ElementParenthetical, fountain.ElementTransition,
	} {
		fmt.Printf("%s: %d\n", t, counts[t])
	}
	if len(cues) > 0 {
		fmt.Println("Characters:")
		for name, n := range cues {
			fmt.Printf("  %s (%d cues)\n", name, n)
		}
	}
}
