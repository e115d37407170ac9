package render

import (
	"fmt"

	"policy-service/internal/annotation"
)

// Point is a text anchor in PDF points with the PDF bottom-left origin.
type Point struct {
	X, Y float64
}

// DatePoints anchors the three parts of a date.
type DatePoints struct {
	Day, Month, Year Point
}

// Span is a horizontal range text is centered in.
type Span struct {
	StartX, EndX float64
	Y            float64
}

// Layout tells the renderer where every policy field goes on page 1.
type Layout struct {
	Holder      Point
	Address     Point
	Start       DatePoints
	End         DatePoints
	Plate       Point
	VehicleType Point
	BrandModel  Span
}

// addressLineGap is the distance between the holder and address baselines.
const addressLineGap = 8

// DefaultLayout matches the policy template shipped as data/Shablon.pdf.
func DefaultLayout() Layout {
	return Layout{
		Holder:  Point{X: 45, Y: 340},
		Address: Point{X: 45, Y: 340 - addressLineGap},
		Start: DatePoints{
			Day:   Point{X: 56, Y: 615},
			Month: Point{X: 100, Y: 615},
			Year:  Point{X: 141, Y: 615},
		},
		End: DatePoints{
			Day:   Point{X: 189, Y: 615},
			Month: Point{X: 234, Y: 615},
			Year:  Point{X: 273, Y: 615},
		},
		Plate:       Point{X: 150, Y: 535},
		VehicleType: Point{X: 355, Y: 535},
		BrandModel:  Span{StartX: 430, EndX: 540, Y: 535},
	}
}

// WithNameAddressRegion moves the holder and address lines into the box found
// by annotation.FindNameAddress. rect uses a top-left origin, as produced by
// annotation.Region.Scale for a page of the given height.
func (l Layout) WithNameAddressRegion(rect annotation.Rect, pageHeight float64) Layout {
	centerY := pageHeight - (rect.Y + rect.Height/2)
	l.Holder = Point{X: rect.X, Y: centerY}
	l.Address = Point{X: rect.X, Y: centerY - addressLineGap}
	return l
}

// AnnotatedLayout returns DefaultLayout with the holder and address placed by
// the annotation file at path. Without a name/address box the default
// positions are kept.
func AnnotatedLayout(path string) (Layout, bool, error) {
	anns, err := annotation.LoadFile(path)
	if err != nil {
		return Layout{}, false, err
	}

	_, region, ok := annotation.FindNameAddress(anns)
	if !ok {
		return DefaultLayout(), false, nil
	}

	rect := region.Scale(DefaultPageWidth, DefaultPageHeight)
	if rect.Width <= 0 {
		return Layout{}, false, fmt.Errorf("name and address box in %s has no width", path)
	}
	return DefaultLayout().WithNameAddressRegion(rect, DefaultPageHeight), true, nil
}
