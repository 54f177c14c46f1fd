// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

const (
	pdfFont       = "ReportSans"
	pdfFontSize   = 12
	pdfLineHeight = 10
)

// PDFWriter renders an A4 document with one text line per report line.
// Long lines wrap; pages break automatically. Text is embedded as UTF-8
// with the bundled DejaVu Sans faces unless Font is set.
type PDFWriter struct {
	// Compress deflates page content streams.
	Compress bool

	// Font is a TrueType font used for every style. Nil uses DejaVu Sans.
	Font []byte
}

func (p PDFWriter) faces() (regular, bold pdfFace, err error) {
	if p.Font == nil {
		f, err := bundledFaces()
		return f[0], f[1], err
	}
	covers, err := cmapCoverage(p.Font)
	if err != nil {
		return pdfFace{}, pdfFace{}, fmt.Errorf("parsing report font: %w", err)
	}
	face := pdfFace{ttf: p.Font, covers: covers}
	return face, face, nil
}

// Write renders r to w. It returns ErrUnsupportedText, before writing
// anything, when a line holds a character the font cannot draw.
func (p PDFWriter) Write(w io.Writer, r types.Report) error {
	regular, bold, err := p.faces()
	if err != nil {
		return err
	}
	lines := reportLines(r)
	for _, l := range lines {
		face := regular
		if l.heading {
			face = bold
		}
		if err := checkCoverage(face, l.text); err != nil {
			return err
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(p.Compress)
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("keyword-engine", true)
	if !r.GeneratedAt.IsZero() {
		pdf.SetCreationDate(r.GeneratedAt)
	}
	pdf.AddUTF8FontFromBytes(pdfFont, "", regular.ttf)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", bold.ttf)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	for _, l := range lines {
		style := ""
		if l.heading {
			style = "B"
		}
		pdf.SetFont(pdfFont, style, pdfFontSize)
		pdf.MultiCell(0, pdfLineHeight, l.text, "", "L", false)
	}

	return pdf.Output(w)
}
