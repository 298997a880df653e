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
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"goscreenwriter/internal/fountain"
	"goscreenwriter/internal/storage"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt) unless otherwise noted.
// Text is set in built-in Courier for portability; font embedding can be
// added later using TTFs.
//
// Layout follows the common screenplay convention on US Letter:
// - 1.5in left margin, 1in right/top/bottom
// - character cues indented 2.2in from the left margin
// - dialogue indented 1in, parentheticals 1.6in
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	PaperSize        string // "Letter" (default) or "A4"
	IncludeTitlePage bool
	SceneNumbers     bool // print scene numbers in the left margin
}

const (
	pdfFontSize   = 12.0
	pdfLineHeight = 14.4 // 12pt Courier, single spaced

	marginLeft   = 108.0 // 1.5in
	marginRight  = 72.0
	marginTop    = 72.0
	marginBottom = 72.0

	indentCharacter = 158.0 // 2.2in from left margin
	indentParen     = 115.0
	indentDialogue  = 72.0
)

// ExportPDF renders the parsed screenplay to a paginated PDF at outPath.
// A relative outPath is resolved under the project's exports folder.
func ExportPDF(ph *storage.ProjectHandle, sp *fountain.Screenplay, outPath string, opt PDFOptions) error {
	if sp == nil {
		return fmt.Errorf("screenplay is nil")
	}

	size := "Letter"
	if strings.EqualFold(opt.PaperSize, "A4") {
		size = "A4"
	}
	pdf := gofpdf.New("P", "pt", size, "")
	pdf.SetTitle(titleOf(sp), false)
	pdf.SetAuthor(metaLine(sp, "author", "authors"), false)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetFont("Courier", "", pdfFontSize)

	pageW, _ := pdf.GetPageSize()

	if opt.IncludeTitlePage {
		writeTitlePage(pdf, sp, pageW)
	}
	pdf.AddPage()

	sceneNo := 0
	for _, e := range sp.Elements {
		switch e.Type {
		case fountain.ElementEmpty, fountain.ElementBoneyard, fountain.ElementComment,
			fountain.ElementSynopsis, fountain.ElementSectionHeading:
			// not printed
		case fountain.ElementPageBreak:
			pdf.AddPage()
		case fountain.ElementSceneHeading:
			sceneNo++
			pdf.Ln(pdfLineHeight)
			if opt.SceneNumbers {
				num := e.SceneNumber
				if num == "" {
					num = fmt.Sprintf("%d", sceneNo)
				}
				pdf.SetX(marginLeft - 54)
				pdf.SetFont("Courier", "", pdfFontSize)
				pdf.Write(pdfLineHeight, num)
			}
			head, rest, _ := strings.Cut(e.Text, "\n")
			pdf.SetX(marginLeft)
			pdf.SetFont("Courier", "B", pdfFontSize)
			pdf.Write(pdfLineHeight, strings.ToUpper(head))
			pdf.Ln(pdfLineHeight)
			pdf.SetFont("Courier", "", pdfFontSize)
			if rest != "" {
				pdf.Ln(pdfLineHeight)
				writeBlock(pdf, &fountain.Element{Type: fountain.ElementAction, Text: rest}, marginLeft, marginRight)
			}
		case fountain.ElementTransition:
			pdf.Ln(pdfLineHeight)
			writeRightAligned(pdf, pageW, e.Text)
		case fountain.ElementCharacter:
			pdf.Ln(pdfLineHeight)
			cue := e.Text
			if e.DualDialogue {
				cue += " ^"
			}
			pdf.SetX(marginLeft + indentCharacter)
			pdf.Write(pdfLineHeight, cue)
			pdf.Ln(pdfLineHeight)
		case fountain.ElementParenthetical:
			writeBlock(pdf, e, marginLeft+indentParen, marginRight+indentParen)
		case fountain.ElementDialogue:
			writeBlock(pdf, e, marginLeft+indentDialogue, marginRight+indentDialogue)
		case fountain.ElementAction:
			pdf.Ln(pdfLineHeight)
			if e.Centered {
				writeCentered(pdf, pageW, e)
				continue
			}
			writeBlock(pdf, e, marginLeft, marginRight)
		}
	}

	if !filepath.IsAbs(outPath) && ph != nil {
		outPath = filepath.Join(ph.Root, storage.ExportsDirName, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// writeBlock writes a styled element line by line, honoring the emphasis
// markup via the chunk splitter. gofpdf's Write wraps at the right margin.
func writeBlock(pdf *gofpdf.Fpdf, e *fountain.Element, left, right float64) {
	pdf.SetLeftMargin(left)
	pdf.SetRightMargin(right)
	defer func() {
		pdf.SetLeftMargin(marginLeft)
		pdf.SetRightMargin(marginRight)
	}()

	for _, line := range strings.Split(e.Text, "\n") {
		pdf.SetX(left)
		for _, ch := range chunkLine(line) {
			pdf.SetFont("Courier", chunkStyle(ch), pdfFontSize)
			pdf.Write(pdfLineHeight, ch.Text)
		}
		pdf.SetFont("Courier", "", pdfFontSize)
		pdf.Ln(pdfLineHeight)
	}
}

func writeCentered(pdf *gofpdf.Fpdf, pageW float64, e *fountain.Element) {
	for _, line := range strings.Split(e.Text, "\n") {
		w := pdf.GetStringWidth(line)
		x := (pageW - w) / 2
		if x < marginLeft {
			x = marginLeft
		}
		pdf.SetX(x)
		pdf.Write(pdfLineHeight, line)
		pdf.Ln(pdfLineHeight)
	}
}

func writeRightAligned(pdf *gofpdf.Fpdf, pageW float64, text string) {
	w := pdf.GetStringWidth(text)
	pdf.SetX(pageW - marginRight - w)
	pdf.Write(pdfLineHeight, text)
	pdf.Ln(pdfLineHeight)
}

func writeTitlePage(pdf *gofpdf.Fpdf, sp *fountain.Screenplay, pageW float64) {
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()
	pdf.SetY(pageH / 3)

	center := func(text string, style string, size float64) {
		pdf.SetFont("Courier", style, size)
		w := pdf.GetStringWidth(text)
		pdf.SetX((pageW - w) / 2)
		pdf.Write(size*1.2, text)
		pdf.Ln(size * 1.4)
	}

	center(titleOf(sp), "B", 18)
	if by := metaLine(sp, "author", "authors"); by != "" {
		center("by", "", pdfFontSize)
		center(by, "", pdfFontSize)
	}
	if src := metaLine(sp, "source"); src != "" {
		center(src, "", pdfFontSize)
	}

	// Contact and draft date go bottom-left by convention.
	bottom := []string{}
	for _, key := range []string{"draft date", "contact", "copyright"} {
		bottom = append(bottom, sp.Metadata[key]...)
	}
	if len(bottom) > 0 {
		pdf.SetY(pageH - marginBottom - float64(len(bottom))*pdfLineHeight)
		pdf.SetFont("Courier", "", pdfFontSize)
		for _, line := range bottom {
			pdf.SetX(marginLeft)
			pdf.Write(pdfLineHeight, line)
			pdf.Ln(pdfLineHeight)
		}
	}
}

func chunkStyle(ch fountain.Chunk) string {
	var s strings.Builder
	if ch.Bold {
		s.WriteByte('B')
	}
	if ch.Italic {
		s.WriteByte('I')
	}
	if ch.Underline {
		s.WriteByte('U')
	}
	return s.String()
}

func chunkLine(line string) []fountain.Chunk {
	e := &fountain.Element{Type: fountain.ElementAction, Text: line}
	return e.Chunks()
}

func titleOf(sp *fountain.Screenplay) string {
	if t := metaLine(sp, "title"); t != "" {
		return t
	}
	return "Untitled Screenplay"
}

// metaLine joins the values of the first present metadata key.
func metaLine(sp *fountain.Screenplay, keys ...string) string {
	for _, k := range keys {
		if vals := sp.Metadata[k]; len(vals) > 0 {
			return strings.Join(vals, " ")
		}
	}
	return ""
}
