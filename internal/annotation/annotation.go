// Package annotation reads layout annotations exported for the policy
// template. Every vertex coordinate is encoded as page + fractional offset,
// so 1.25 means a quarter of the way across page 1.
package annotation

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

const (
	LabelParagraph = "PARAGRAPH"
	LabelTitle     = "TITLE"
)

type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Annotation struct {
	Label    string   `json:"label"`
	Vertices []Vertex `json:"vertices"`
}

// Region is a bounding box in normalized page space, origin at the top-left corner.
type Region struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Rect is a box in PDF points with a top-left origin.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// PageOf returns the 1-based page a coordinate belongs to.
func PageOf(coordinate float64) int {
	return int(math.Floor(coordinate))
}

// PositionOf returns the fractional offset of a coordinate within its page.
func PositionOf(coordinate float64) float64 {
	return coordinate - math.Floor(coordinate)
}

func Load(r io.Reader) ([]Annotation, error) {
	var anns []Annotation
	if err := json.NewDecoder(r).Decode(&anns); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	return anns, nil
}

func LoadFile(path string) ([]Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// OnPage reports whether any vertex lies on page.
func (a Annotation) OnPage(page int) bool {
	for _, v := range a.Vertices {
		if PageOf(v.X) == page {
			return true
		}
	}
	return false
}

// RegionOn returns the bounds of the vertices placed on page.
func (a Annotation) RegionOn(page int) (Region, bool) {
	var (
		region Region
		found  bool
	)
	for _, v := range a.Vertices {
		if PageOf(v.X) != page {
			continue
		}
		x, y := PositionOf(v.X), PositionOf(v.Y)
		if !found {
			region = Region{MinX: x, MaxX: x, MinY: y, MaxY: y}
			found = true
			continue
		}
		region.MinX = math.Min(region.MinX, x)
		region.MaxX = math.Max(region.MaxX, x)
		region.MinY = math.Min(region.MinY, y)
		region.MaxY = math.Max(region.MaxY, y)
	}
	return region, found
}

func (r Region) Width() float64  { return r.MaxX - r.MinX }
func (r Region) Height() float64 { return r.MaxY - r.MinY }
func (r Region) Area() float64   { return r.Width() * r.Height() }

func (r Region) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Scale converts the region to points on a page of the given size.
func (r Region) Scale(pageWidth, pageHeight float64) Rect {
	return Rect{
		X:      r.MinX * pageWidth,
		Y:      r.MinY * pageHeight,
		Width:  r.Width() * pageWidth,
		Height: r.Height() * pageHeight,
	}
}

// FindNameAddress locates the "name and address" box (field 9) of the policy
// form: the largest paragraph on page 1 that starts in the middle band of the
// page. When nothing qualifies the first paragraph on page 1 is used.
func FindNameAddress(anns []Annotation) (Annotation, Region, bool) {
	type candidate struct {
		ann    Annotation
		region Region
	}

	var candidates []candidate
	for _, ann := range anns {
		if ann.Label != LabelParagraph {
			continue
		}
		region, ok := ann.RegionOn(1)
		if !ok {
			continue
		}
		if region.MinY > 0.4 && region.MinY < 0.9 && region.Area() > 0.1 {
			candidates = append(candidates, candidate{ann: ann, region: region})
		}
	}

	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].region.Area() > candidates[j].region.Area()
		})
		return candidates[0].ann, candidates[0].region, true
	}

	for _, ann := range anns {
		if ann.Label != LabelParagraph {
			continue
		}
		if region, ok := ann.RegionOn(1); ok {
			return ann, region, true
		}
	}

	return Annotation{}, Region{}, false
}
