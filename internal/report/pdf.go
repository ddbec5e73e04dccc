package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/pocketledger/pocketledger/internal/balance"
	"github.com/pocketledger/pocketledger/internal/model"
)

type rgb struct{ r, g, b int }

var (
	navy      = rgb{0x00, 0x33, 0x66}
	deepNavy  = rgb{0x00, 0x22, 0x44}
	paleBlue  = rgb{0xe6, 0xf2, 0xff}
	white     = rgb{0xff, 0xff, 0xff}
	whiteText = rgb{0xf5, 0xf5, 0xf5}
	grey      = rgb{0x80, 0x80, 0x80}
	black     = rgb{0x00, 0x00, 0x00}
)

// Column widths in points, matching the header order below.
var colWidths = []float64{40, 80, 70, 60, 150, 90}

const (
	generatedLayout = "02 January 2006, 03:04 PM"
	headerRowHeight = 20
	bodyRowHeight   = 16
	pageMargin      = 52
	footerSpace     = 40
)

// Document is everything a rendered report shows.
type Document struct {
	Title       string
	Currency    string
	GeneratedAt string // already formatted
	Summary     balance.Sheet
	Rows        []model.Transaction
}

// RenderPDF lays out doc as an A4 PDF and writes it to w.
func RenderPDF(w io.Writer, doc Document, compress bool) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(doc.Title, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	pdf.SetFooterFunc(func() {
		pdf.SetY(pageH - 10*mm - 8)
		pdf.SetFont("Helvetica", "", 8)
		setText(pdf, grey)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 22)
	setText(pdf, navy)
	pdf.CellFormat(0, 28, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 14, tr("Generated on: "+doc.GeneratedAt), "", 1, "L", false, 0, "")
	pdf.Ln(12)

	setText(pdf, deepNavy)
	left, _, right, _ := pdf.GetMargins()
	for _, line := range [][2]string{
		{"Total Income:", FormatAmount(doc.Currency, doc.Summary.Income())},
		{"Total Expense:", FormatAmount(doc.Currency, doc.Summary.Expense())},
		{"Balance:", FormatAmount(doc.Currency, doc.Summary.Total())},
	} {
		pdf.SetFont("Helvetica", "B", 12)
		labelW := pdf.GetStringWidth(line[0] + " ")
		pdf.SetFont("Helvetica", "", 12)
		valueW := pdf.GetStringWidth(tr(line[1]))
		pdf.SetX(pageW - right - labelW - valueW)
		if pdf.GetX() < left {
			pdf.SetX(left)
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(labelW, 16, line[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(valueW, 16, tr(line[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(24)

	headers := []string{"S.No", "Account", fmt.Sprintf("Amount (%s)", currencyLabel(doc.Currency)), "Type", "Note", "Date"}
	if currencyLabel(doc.Currency) == "" {
		headers[2] = "Amount"
	}
	drawTableHeader(pdf, tr, headers)

	for i, txn := range doc.Rows {
		if pdf.GetY()+bodyRowHeight > pageH-footerSpace {
			pdf.AddPage()
			drawTableHeader(pdf, tr, headers)
		}
		fill := paleBlue
		if i%2 == 1 {
			fill = white
		}
		cells := []string{
			strconv.Itoa(i + 1),
			txn.Account,
			txn.Amount.StringFixed(2),
			string(txn.Type),
			txn.Note,
			txn.DateString(),
		}
		pdf.SetFont("Helvetica", "", 9)
		setText(pdf, black)
		setFill(pdf, fill)
		pdf.SetDrawColor(grey.r, grey.g, grey.b)
		pdf.SetLineWidth(0.4)
		for c, text := range cells {
			pdf.CellFormat(colWidths[c], bodyRowHeight, fitText(pdf, tr, text, colWidths[c]-4), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("laying out report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// mm converts millimetres to points.
const mm = 72.0 / 25.4

func drawTableHeader(pdf *fpdf.Fpdf, tr func(string) string, headers []string) {
	pdf.SetFont("Helvetica", "B", 11)
	setText(pdf, whiteText)
	setFill(pdf, navy)
	pdf.SetDrawColor(navy.r, navy.g, navy.b)
	pdf.SetLineWidth(1)
	for c, h := range headers {
		pdf.CellFormat(colWidths[c], headerRowHeight, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

// fitText translates s for the core fonts and shortens it with an ellipsis
// until it fits within width.
func fitText(pdf *fpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if out := tr(s); pdf.GetStringWidth(out) <= width {
		return out
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := tr(string(runes) + "...")
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}

func setText(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
