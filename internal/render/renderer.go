package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
)

var ErrTemplateMissing = errors.New("pdf template not found")

const (
	DefaultFontSize = 8
	MinFontSize     = 6
	MaxFontSize     = 16

	// Times-Roman is the closest core font to the Times New Roman used on the form.
	fontFamily = "Times"

	// A4 in points, used when the template does not report its page size.
	DefaultPageWidth  = 595.28
	DefaultPageHeight = 841.89

	templateBox = "/MediaBox"
)

// DateParts is a date split the way the form prints it, with leading zeros kept.
type DateParts struct {
	Day, Month, Year string
}

// PolicyDocument holds the already normalized values to print.
type PolicyDocument struct {
	Holder      string
	Address     string
	Start       DateParts
	End         DateParts
	Plate       string
	VehicleType string
	BrandModel  string
}

type RenderOptions struct {
	FontSize float64
}

// Renderer overlays policy text on page 1 of a PDF template.
type Renderer struct {
	templatePath string
	pageWidth    float64
	pageHeight   float64
	layout       Layout
}

func NewRenderer(templatePath string, layout Layout) *Renderer {
	return &Renderer{
		templatePath: templatePath,
		pageWidth:    DefaultPageWidth,
		pageHeight:   DefaultPageHeight,
		layout:       layout,
	}
}

func (r *Renderer) Render(w io.Writer, doc PolicyDocument, opts RenderOptions) (err error) {
	template, err := os.ReadFile(r.templatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrTemplateMissing, r.templatePath)
		}
		return fmt.Errorf("read template: %w", err)
	}

	fontSize := opts.FontSize
	if fontSize == 0 {
		fontSize = DefaultFontSize
	}
	if fontSize < MinFontSize || fontSize > MaxFontSize {
		return fmt.Errorf("font size %v out of range %d..%d", fontSize, MinFontSize, MaxFontSize)
	}

	// gofpdi panics on some malformed templates instead of reporting an error
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("import template: %v", rec)
		}
	}()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: r.pageWidth, Ht: r.pageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(template))
	tpl := importer.ImportPageFromStream(pdf, &rs, 1, templateBox)

	pageWidth, pageHeight := templatePageSize(importer, r.pageWidth, r.pageHeight)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: pageWidth, Ht: pageHeight})
	importer.UseImportedTemplate(pdf, tpl, 0, 0, pageWidth, pageHeight)

	pdf.SetFont(fontFamily, "", fontSize)
	pdf.SetTextColor(0, 0, 0)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	draw := func(text string, at Point) {
		if text == "" {
			return
		}
		pdf.Text(at.X, pageHeight-at.Y, tr(text))
	}
	drawCentered := func(text string, span Span) {
		if text == "" {
			return
		}
		text = tr(text)
		width := pdf.GetStringWidth(text)
		x := span.StartX + (span.EndX-span.StartX-width)/2
		pdf.Text(x, pageHeight-span.Y, text)
	}

	layout := r.layout
	draw(doc.Holder, layout.Holder)
	draw(doc.Address, layout.Address)

	draw(doc.Start.Day, layout.Start.Day)
	draw(doc.Start.Month, layout.Start.Month)
	draw(doc.Start.Year, layout.Start.Year)
	draw(doc.End.Day, layout.End.Day)
	draw(doc.End.Month, layout.End.Month)
	draw(doc.End.Year, layout.End.Year)

	draw(doc.Plate, layout.Plate)
	draw(doc.VehicleType, layout.VehicleType)
	drawCentered(doc.BrandModel, layout.BrandModel)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render policy: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// templatePageSize returns the size of page 1 of the imported template in
// points, or the fallback size when the importer cannot tell.
func templatePageSize(importer *gofpdi.Importer, fallbackWidth, fallbackHeight float64) (float64, float64) {
	page, ok := importer.GetPageSizes()[1]
	if !ok {
		return fallbackWidth, fallbackHeight
	}
	box, ok := page[templateBox]
	if !ok {
		return fallbackWidth, fallbackHeight
	}
	width, height := box["w"], box["h"]
	if width <= 0 || height <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return width, height
}
