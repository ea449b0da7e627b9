package thumbnail

import (
	"image"
	"testing"

	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/paginate"
	"github.com/jobast/palimpsest/internal/template"
	"github.com/jobast/palimpsest/internal/units"
)

func testDims(t *testing.T) units.Dimensions {
	t.Helper()
	dims, err := units.Resolve(template.Manuscript)
	if err != nil {
		t.Fatal(err)
	}
	return dims
}

func TestPageDimensions(t *testing.T) {
	dims := testDims(t)
	r := NewRenderer(dims, 0.1, 32)

	img := r.Page(paginate.PageInfo{Number: 1, StartPos: 0, EndPos: 100, ContentHeight: 400}, nil)
	b := img.Bounds()
	if b.Dx() != int(dims.Width*0.1) || b.Dy() != int(dims.Height*0.1) {
		t.Errorf("thumbnail %dx%d, want %dx%d", b.Dx(), b.Dy(), int(dims.Width*0.1), int(dims.Height*0.1))
	}
}

func TestScaleClamping(t *testing.T) {
	dims := testDims(t)
	for _, bad := range []float64{0, -1, 1.5} {
		r := NewRenderer(dims, bad, 32)
		img := r.Page(paginate.PageInfo{Number: 1}, nil)
		want := int(dims.Width * 0.15)
		if img.Bounds().Dx() != want {
			t.Errorf("scale %v: width %d, want clamped %d", bad, img.Bounds().Dx(), want)
		}
	}
}

func TestAll(t *testing.T) {
	r := NewRenderer(testDims(t), 0.1, 32)
	pages := []paginate.PageInfo{
		{Number: 1, StartPos: 0, EndPos: 50, ContentHeight: 600},
		{Number: 2, StartPos: 50, EndPos: 90, ContentHeight: 200},
	}

	thumbs := r.All(pages, nil)
	if len(thumbs) != 2 {
		t.Fatalf("got %d thumbnails, want 2", len(thumbs))
	}
	for i, img := range thumbs {
		if img == nil {
			t.Errorf("thumbnail %d is nil", i)
		}
	}
}

func TestFillLevelChangesPixels(t *testing.T) {
	r := NewRenderer(testDims(t), 0.1, 32)

	full := r.Page(paginate.PageInfo{Number: 1, ContentHeight: 0}, nil)
	sparse := r.Page(paginate.PageInfo{Number: 1, ContentHeight: 40}, nil)

	if countDark(full) <= countDark(sparse) {
		t.Error("a fuller page should draw more line bars than a sparse one")
	}
}

func TestHasHeading(t *testing.T) {
	blocks := []document.Block{
		{Kind: document.KindHeading, StartOffset: 0, Size: 10},
		{Kind: document.KindParagraph, StartOffset: 10, Size: 40},
	}
	if !hasHeading(blocks, paginate.PageInfo{StartPos: 0, EndPos: 50}) {
		t.Error("heading on page not detected")
	}
	if hasHeading(blocks, paginate.PageInfo{StartPos: 10, EndPos: 50}) {
		t.Error("heading off page detected")
	}
}

func countDark(img image.Image) int {
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r < 0x9000 && g < 0x9000 && bl < 0x9000 {
				n++
			}
		}
	}
	return n
}
