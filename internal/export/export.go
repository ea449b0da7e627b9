// Package export renders the calculated page list into a fixed-layout PDF.
// It consumes only the PageInfo list, the resolved Dimensions, and the block
// sequence, so output is independent of the live viewport, zoom, and
// virtualization state.
package export

import (
	"fmt"
	"io"
	"log/slog"

	"codeberg.org/go-pdf/fpdf"

	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/logging"
	"github.com/jobast/palimpsest/internal/paginate"
	"github.com/jobast/palimpsest/internal/template"
	"github.com/jobast/palimpsest/internal/units"
)

// Metadata carries document metadata written into the PDF and drawn in the
// header band when the template enables one.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Exporter renders pages to PDF.
type Exporter struct {
	dims units.Dimensions
	typo template.Typography

	log *slog.Logger
}

// NewExporter creates an exporter for the given resolved dimensions and
// effective typography. A nil logger disables logging.
func NewExporter(dims units.Dimensions, typo template.Typography, log *slog.Logger) *Exporter {
	return &Exporter{dims: dims, typo: typo, log: logging.Or(log)}
}

// WritePDF renders each page's content range onto its own fixed-size PDF
// page and writes the document to w.
func (e *Exporter) WritePDF(w io.Writer, pages []paginate.PageInfo, blocks []document.Block, meta Metadata) error {
	if len(pages) == 0 {
		return fmt.Errorf("export: empty page list")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size: fpdf.SizeType{
			Wd: units.PxToPoints(e.dims.Width),
			Ht: units.PxToPoints(e.dims.Height),
		},
	})
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetKeywords(meta.Keywords, true)
	pdf.SetCreator("Palimpsest", true)
	pdf.SetAutoPageBreak(false, 0)

	fontSize := units.PxToPoints(units.FontSize(e.typo.FontSize))
	lineHeight := units.PxToPoints(units.LineHeight(e.typo.LineHeight, units.FontSize(e.typo.FontSize)))
	family := pdfFamily(e.typo.FontFamily)

	marginLeft := units.PxToPoints(e.dims.MarginLeft)
	marginTop := units.PxToPoints(e.dims.MarginTop)
	headerH := units.PxToPoints(e.dims.HeaderHeight)
	footerH := units.PxToPoints(e.dims.FooterHeight)
	contentW := units.PxToPoints(e.dims.ContentWidth)
	pageH := units.PxToPoints(e.dims.Height)
	marginBottom := units.PxToPoints(e.dims.MarginBottom)

	e.log.Info("exporting PDF", slog.Int("pages", len(pages)))

	for _, page := range pages {
		pdf.AddPage()

		if headerH > 0 && meta.Title != "" {
			pdf.SetFont(family, "I", fontSize*0.85)
			pdf.SetXY(marginLeft, marginTop)
			pdf.CellFormat(contentW, headerH, meta.Title, "", 0, "C", false, 0, "")
		}
		if footerH > 0 {
			pdf.SetFont(family, "", fontSize*0.85)
			pdf.SetXY(marginLeft, pageH-marginBottom-footerH)
			pdf.CellFormat(contentW, footerH, fmt.Sprintf("%d", page.Number), "", 0, "C", false, 0, "")
		}

		pdf.SetXY(marginLeft, marginTop+headerH)
		for _, b := range blocksInRange(blocks, page) {
			e.writeBlock(pdf, b, family, fontSize, lineHeight, contentW, marginLeft)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	return nil
}

// blocksInRange selects the blocks whose start offsets fall inside the
// page's range. Intermediate pages spanned by an oversized block cover an
// empty range and correctly select nothing; the block itself renders once on
// the first spanned page and overflows visually, matching the live view.
func blocksInRange(blocks []document.Block, page paginate.PageInfo) []document.Block {
	var out []document.Block
	for _, b := range blocks {
		if b.StartOffset >= page.StartPos && b.StartOffset < page.EndPos {
			out = append(out, b)
		}
		if b.StartOffset >= page.EndPos {
			break
		}
	}
	// A page whose range is non-empty but contains no block start continues
	// an oversized block; nothing to draw.
	return out
}

func (e *Exporter) writeBlock(pdf *fpdf.Fpdf, b document.Block, family string, fontSize, lineHeight, contentW, marginLeft float64) {
	switch b.Kind {
	case document.KindSceneBreak:
		pdf.SetFont(family, "", fontSize)
		pdf.SetX(marginLeft)
		pdf.CellFormat(contentW, lineHeight, "* * *", "", 1, "C", false, 0, "")
		pdf.Ln(lineHeight * 0.5)
	case document.KindHeading:
		scale := 2.0
		switch b.Level {
		case 2:
			scale = 1.5
		case 3:
			scale = 1.17
		}
		pdf.SetFont(family, "B", fontSize*scale)
		pdf.SetX(marginLeft)
		pdf.MultiCell(contentW, lineHeight*scale, b.Text, "", "L", false)
		pdf.Ln(lineHeight * 0.5)
	case document.KindBlockquote:
		pdf.SetFont(family, "I", fontSize)
		pdf.SetX(marginLeft + fontSize*2)
		pdf.MultiCell(contentW-fontSize*4, lineHeight, b.Text, "", "L", false)
		pdf.Ln(lineHeight * 0.5)
	default:
		pdf.SetFont(family, "", fontSize)
		pdf.SetX(marginLeft)
		pdf.MultiCell(contentW, lineHeight, b.Text, "", "L", false)
		pdf.Ln(lineHeight * 0.5)
	}
}

// pdfFamily maps a template font family to one of the PDF core families;
// embedding arbitrary fonts is out of scope for export.
func pdfFamily(family string) string {
	switch family {
	case "Courier New", "Courier":
		return "Courier"
	case "Times New Roman", "Georgia", "Garamond":
		return "Times"
	default:
		return "Helvetica"
	}
}
