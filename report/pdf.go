package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
)

// Renderer writes a Document in some output format.
type Renderer interface {
	Render(doc Document, w io.Writer) error
}

type rgb struct{ r, g, b int }

var (
	navy      = rgb{0x1F, 0x4E, 0x79}
	lightBlue = rgb{0xE8, 0xF4, 0xFD}
	grey      = rgb{0x80, 0x80, 0x80}
	black     = rgb{0, 0, 0}
	white     = rgb{0xFF, 0xFF, 0xFF}
)

const (
	margin     = 15.0
	lineHeight = 5.0
	cellPad    = 2.0
	fontFamily = "Helvetica"
)

// PDFRenderer renders A4 portrait PDFs with fpdf.
type PDFRenderer struct {
	Author string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Author: "Sistem Monitoring TOL"}
}

type pdfWriter struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	width   float64
	height  float64
	content float64
}

func (r *PDFRenderer) Render(doc Document, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(r.Author, true)
	pdf.SetCreator(r.Author, true)
	pdf.AddPage()

	width, height := pdf.GetPageSize()
	pw := &pdfWriter{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		width:   width,
		height:  height,
		content: width - 2*margin,
	}

	pw.header(doc.Header)
	for _, b := range doc.Blocks {
		switch b.Kind {
		case BlockHeading:
			pw.heading(b.Text)
		case BlockKeyValueTable:
			pw.table(nil, b.Rows, []float64{50, pw.content - 50}, true)
		case BlockGridTable:
			pw.table(b.Columns, b.Rows, b.Widths, false)
		case BlockParagraph:
			pw.paragraph(b.Text, "J", "")
		case BlockPhotos:
			pw.photos(b)
		case BlockPlaceholder:
			pw.paragraph(b.Text, "L", "I")
		case BlockFooter:
			pw.footer(b.Lines)
		default:
			return fmt.Errorf("unsupported block kind %s", b.Kind)
		}
		if pdf.Err() {
			return pdf.Error()
		}
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

func (p *pdfWriter) setFill(c rgb) { p.pdf.SetFillColor(c.r, c.g, c.b) }
func (p *pdfWriter) setText(c rgb) { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *pdfWriter) setDraw(c rgb) { p.pdf.SetDrawColor(c.r, c.g, c.b) }

// ensure starts a new page when h mm do not fit on the current one.
func (p *pdfWriter) ensure(h float64) {
	if p.pdf.GetY()+h > p.height-margin {
		p.pdf.AddPage()
	}
}

func (p *pdfWriter) header(h Header) {
	const (
		boxHeight = 36.0
		logoCol   = 38.0
		infoCol   = 37.0
	)
	pdf := p.pdf
	top := pdf.GetY()
	middleCol := p.content - logoCol - infoCol

	p.setDraw(black)
	pdf.SetLineWidth(0.35)
	pdf.Rect(margin, top, p.content, boxHeight, "D")

	if h.LogoPath != "" {
		if _, err := os.Stat(h.LogoPath); err == nil {
			pdf.ImageOptions(h.LogoPath, margin+4, top+3, 30, 30, false, fpdf.ImageOptions{ReadDpi: false}, 0, "")
			if pdf.Err() {
				// An unreadable logo must not break the report.
				pdf.ClearError()
			}
		}
	}

	p.setText(black)
	pdf.SetXY(margin+logoCol, top+6)
	for _, org := range h.Organizations {
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetX(margin + logoCol)
		pdf.CellFormat(middleCol, 4.5, p.tr(org), "", 1, "C", false, 0, "")
	}
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetX(margin + logoCol)
	pdf.CellFormat(middleCol, 4.5, p.tr(h.Unit), "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "B", 11)
	pdf.SetX(margin + logoCol)
	pdf.MultiCell(middleCol, 5.5, p.tr(h.Title), "", "C", false)

	pdf.SetFont(fontFamily, "", 8)
	infoX := margin + logoCol + middleCol + 2
	pdf.SetXY(infoX, top+11)
	for _, line := range [][2]string{
		{"No. Dok", h.DocumentNumber},
		{"Tgl. Terbit", h.IssueDate},
		{"Rev", h.Revision},
	} {
		pdf.SetX(infoX)
		pdf.SetFont(fontFamily, "B", 8)
		pdf.CellFormat(15, 4.5, p.tr(line[0]), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 8)
		pdf.CellFormat(infoCol-17, 4.5, p.tr(": "+line[1]), "", 1, "L", false, 0, "")
	}

	pdf.SetLineWidth(0.7)
	pdf.Line(margin, top+boxHeight, margin+p.content, top+boxHeight)
	pdf.SetLineWidth(0.2)
	pdf.SetY(top + boxHeight + 4)
}

func (p *pdfWriter) heading(text string) {
	p.ensure(14)
	p.pdf.Ln(2)
	p.pdf.SetFont(fontFamily, "B", 10)
	p.setText(navy)
	p.pdf.CellFormat(p.content, 6, p.tr(text), "", 1, "L", false, 0, "")
	p.setText(black)
	p.pdf.Ln(1)
}

func (p *pdfWriter) paragraph(text, align, style string) {
	p.pdf.SetFont(fontFamily, style, 10)
	p.setText(black)
	p.pdf.MultiCell(p.content, lineHeight, p.tr(text), "", align, false)
	p.pdf.Ln(2)
}

// table draws rows of wrapped cells. A non-nil columns slice adds a navy
// header row; labeled tables shade their first column instead.
func (p *pdfWriter) table(columns []string, rows [][]string, widths []float64, labeled bool) {
	pdf := p.pdf
	p.setDraw(grey)
	pdf.SetLineWidth(0.2)

	if len(columns) > 0 {
		pdf.SetFont(fontFamily, "B", 10)
		p.row(columns, widths, func(int) (rgb, rgb, bool) { return navy, white, true }, "C")
	}

	for _, r := range rows {
		style := func(col int) (rgb, rgb, bool) {
			if labeled && col == 0 {
				return lightBlue, black, true
			}
			return white, black, false
		}
		pdf.SetFont(fontFamily, "", 10)
		p.row(r, widths, style, "L")
	}
	pdf.Ln(3)
}

func (p *pdfWriter) row(cells []string, widths []float64, style func(col int) (fill, text rgb, bold bool), align string) {
	pdf := p.pdf

	lines := make([][]string, len(cells))
	height := 0.0
	for i, c := range cells {
		w := widthAt(widths, i, p.content/float64(len(cells)))
		_, _, bold := style(i)
		if bold {
			pdf.SetFont(fontFamily, "B", 10)
		} else {
			pdf.SetFont(fontFamily, "", 10)
		}
		lines[i] = pdf.SplitText(p.tr(c), w-2*cellPad)
		if len(lines[i]) == 0 {
			lines[i] = []string{""}
		}
		if h := float64(len(lines[i]))*lineHeight + 2*cellPad; h > height {
			height = h
		}
	}

	p.ensure(height)
	x, y := margin, pdf.GetY()
	for i := range cells {
		w := widthAt(widths, i, p.content/float64(len(cells)))
		fill, text, bold := style(i)

		p.setFill(fill)
		pdf.Rect(x, y, w, height, "FD")

		if bold {
			pdf.SetFont(fontFamily, "B", 10)
		} else {
			pdf.SetFont(fontFamily, "", 10)
		}
		p.setText(text)
		cellAlign := align
		if i == 0 && len(cells) == 3 {
			cellAlign = "C"
		}
		textTop := y + (height-float64(len(lines[i]))*lineHeight)/2
		for j, line := range lines[i] {
			pdf.SetXY(x+cellPad, textTop+float64(j)*lineHeight)
			pdf.CellFormat(w-2*cellPad, lineHeight, line, "", 0, cellAlign, false, 0, "")
		}
		x += w
	}
	p.setText(black)
	pdf.SetXY(margin, y+height)
}

func widthAt(widths []float64, i int, fallback float64) float64 {
	if i < len(widths) && widths[i] > 0 {
		return widths[i]
	}
	return fallback
}

func (p *pdfWriter) photos(b Block) {
	pdf := p.pdf
	size := b.Layout()
	const labelHeight = 6.0

	p.ensure(size.Height + labelHeight + 4)
	y := pdf.GetY() + 2

	slot := p.content / float64(len(b.Photos))
	for i, ph := range b.Photos {
		x := margin + slot*float64(i) + (slot-size.Width)/2
		p.image(ph.Path, x, y, size)

		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetXY(x, y+size.Height+1)
		pdf.CellFormat(size.Width, labelHeight, p.tr(ph.Label), "", 0, "C", false, 0, "")
	}
	pdf.SetXY(margin, y+size.Height+labelHeight+4)
}

// image fits the picture into the box, keeping its aspect ratio.
func (p *pdfWriter) image(path string, x, y float64, box PhotoSize) {
	pdf := p.pdf
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	info := pdf.RegisterImageOptions(path, opts)
	if info == nil || pdf.Err() {
		pdf.ClearError()
		pdf.SetFont(fontFamily, "I", 9)
		pdf.SetXY(x, y+box.Height/2)
		pdf.CellFormat(box.Width, lineHeight, "Foto tidak dapat ditampilkan", "", 0, "C", false, 0, "")
		return
	}

	w, h := box.Width, box.Height
	if iw, ih := info.Width(), info.Height(); iw > 0 && ih > 0 {
		scale := box.Width / iw
		if s := box.Height / ih; s < scale {
			scale = s
		}
		w, h = iw*scale, ih*scale
	}
	pdf.ImageOptions(path, x+(box.Width-w)/2, y+(box.Height-h)/2, w, h, false, opts, 0, "")
}

func (p *pdfWriter) footer(lines []string) {
	pdf := p.pdf
	p.ensure(25)
	pdf.Ln(6)
	p.setDraw(black)
	pdf.Line(margin, pdf.GetY(), margin+p.content, pdf.GetY())
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "", 9)
	p.setText(black)
	for _, line := range lines {
		pdf.CellFormat(p.content, lineHeight, p.tr(line), "", 1, "L", false, 0, "")
	}
}
