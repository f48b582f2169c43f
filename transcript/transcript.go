// Package transcript records what was said during a session and exports it
// as a PDF.
package transcript

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Speaker string

const (
	Player   Speaker = "player"
	Narrator Speaker = "narrator"
)

// Entry is one line of the transcript. Narrator text may contain the
// inline markup directives carry.
type Entry struct {
	At      time.Time `json:"at"`
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
}

var tags = regexp.MustCompile(`<[^>]*>`)

// PlainText drops markup and decodes entities.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(tags.ReplaceAllString(s, "")))
}

// WritePDF renders entries under title and writes the document to w.
func WritePDF(w io.Writer, title string, entries []Entry) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetAuthor("Paimon", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 10, tr(title), "", "L", false)
	pdf.Ln(4)

	for _, e := range entries {
		text := PlainText(e.Text)
		if text == "" {
			continue
		}
		switch e.Speaker {
		case Player:
			pdf.SetFont("Arial", "B", 11)
			pdf.SetTextColor(120, 20, 20)
			pdf.MultiCell(0, 6, tr("> "+text), "", "L", false)
		default:
			pdf.SetFont("Arial", "", 11)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, 6, tr(text), "", "L", false)
		}
		pdf.Ln(1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write transcript pdf: %w", err)
	}
	return nil
}
