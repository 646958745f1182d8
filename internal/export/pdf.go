package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont      = "Helvetica"
	pdfLineWidth = 0 // full width between margins
	pdfPairWidth = 85
)

func renderPDF(w io.Writer, blocks []block) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(firstTitle(blocks), true)
	pdf.AddPage()

	// Core fonts only cover cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, b := range blocks {
		switch b.kind {
		case blockTitle:
			pdf.SetFont(pdfFont, "B", 18)
			pdf.MultiCell(pdfLineWidth, 9, tr(b.text), "", "C", false)
			pdf.Ln(4)
		case blockHeading:
			pdf.Ln(4)
			pdf.SetFont(pdfFont, "B", 14)
			pdf.MultiCell(pdfLineWidth, 8, tr(b.text), "", "L", false)
		case blockText:
			pdf.SetFont(pdfFont, "", 11)
			pdf.MultiCell(pdfLineWidth, 6, tr(b.text), "", "L", false)
		case blockNote:
			pdf.SetFont(pdfFont, "I", 10)
			pdf.MultiCell(pdfLineWidth, 6, tr(b.text), "", "L", false)
		case blockQuestion:
			pdf.Ln(2)
			pdf.SetFont(pdfFont, "B", 11)
			pdf.MultiCell(pdfLineWidth, 6, tr(b.text), "", "L", false)
		case blockOption:
			pdf.SetFont(pdfFont, "", 11)
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(pdfLineWidth, 6, tr(b.text), "", "L", false)
		case blockCorrectOption:
			pdf.SetFont(pdfFont, "B", 11)
			pdf.SetTextColor(0, 110, 0)
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(pdfLineWidth, 6, tr(b.text), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		case blockAnswer:
			pdf.SetFont(pdfFont, "I", 11)
			pdf.SetTextColor(0, 110, 0)
			pdf.MultiCell(pdfLineWidth, 6, tr(b.text), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		case blockAnswerLine:
			pdf.SetFont(pdfFont, "", 11)
			pdf.Ln(2)
			pdf.CellFormat(pdfLineWidth, 6, b.text, "", 1, "L", false, 0, "")
		case blockPairHeader:
			pdf.SetFont(pdfFont, "B", 11)
			pdf.CellFormat(pdfPairWidth, 7, tr(b.left), "1", 0, "L", false, 0, "")
			pdf.CellFormat(pdfPairWidth, 7, tr(b.right), "1", 1, "L", false, 0, "")
		case blockPair:
			pdf.SetFont(pdfFont, "", 11)
			pdf.CellFormat(pdfPairWidth, 7, tr(b.left), "1", 0, "L", false, 0, "")
			pdf.CellFormat(pdfPairWidth, 7, tr(b.right), "1", 1, "L", false, 0, "")
		}
	}

	return pdf.Output(w)
}

func firstTitle(blocks []block) string {
	for _, b := range blocks {
		if b.kind == blockTitle {
			return b.text
		}
	}
	return ""
}
