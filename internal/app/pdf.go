package app

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var (
	mdLinkRe     = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	numberedItem = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
)

// writePDF renders the exported Markdown as a simple PDF: headings in bold,
// paragraphs wrapped, numbered source links clickable.
func writePDF(markdown string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		switch {
		case s == "":
			pdf.Ln(4)
		case s == "---":
			y := pdf.GetY() + 2
			pdf.Line(10, y, 200, y)
			pdf.Ln(5)
		case strings.HasPrefix(s, "#"):
			level := len(s) - len(strings.TrimLeft(s, "#"))
			text := strings.TrimSpace(s[level:])
			size := 16.0
			if level >= 2 {
				size = 13.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 8, tr(text), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case numberedItem.MatchString(s):
			m := numberedItem.FindStringSubmatch(s)
			pdf.Write(6, m[1]+". ")
			writeInline(pdf, tr, m[2])
			pdf.Ln(6)
		default:
			if mdLinkRe.MatchString(s) {
				writeInline(pdf, tr, s)
				pdf.Ln(6)
				continue
			}
			pdf.MultiCell(0, 6, tr(s), "", "L", false)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}

// writeInline writes s, turning Markdown links into PDF links.
func writeInline(pdf *gofpdf.Fpdf, tr func(string) string, s string) {
	pos := 0
	for _, m := range mdLinkRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > pos {
			pdf.Write(6, tr(s[pos:m[0]]))
		}
		pdf.WriteLinkString(6, tr(s[m[2]:m[3]]), s[m[4]:m[5]])
		pos = m[1]
	}
	if pos < len(s) {
		pdf.Write(6, tr(s[pos:]))
	}
}
