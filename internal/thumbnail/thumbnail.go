// Package thumbnail draws miniature page images for the navigator sidebar.
// Thumbnails are schematic: page frame, margin box, and one placeholder bar
// per text line, enough to recognize a page's shape without laying out
// glyphs at postage-stamp size.
package thumbnail

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/paginate"
	"github.com/jobast/palimpsest/internal/units"
)

// Renderer draws page thumbnails at a fixed scale.
type Renderer struct {
	dims  units.Dimensions
	scale float64

	lineHeight float64
}

// NewRenderer creates a thumbnail renderer. scale is the ratio of thumbnail
// pixels to page pixels; values outside (0, 1] are clamped to 0.15.
func NewRenderer(dims units.Dimensions, scale, lineHeight float64) *Renderer {
	if scale <= 0 || scale > 1 {
		scale = 0.15
	}
	if lineHeight <= 0 {
		lineHeight = units.DefaultFontSize * units.DefaultLineHeightMult
	}
	return &Renderer{dims: dims, scale: scale, lineHeight: lineHeight}
}

// Page draws the thumbnail for one page.
func (r *Renderer) Page(page paginate.PageInfo, blocks []document.Block) image.Image {
	w := int(r.dims.Width * r.scale)
	h := int(r.dims.Height * r.scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dc := gg.NewContext(w, h)

	// Page background and border.
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0.75, 0.75, 0.75)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Stroke()

	left := r.dims.MarginLeft * r.scale
	top := (r.dims.MarginTop + r.dims.HeaderHeight) * r.scale
	contentW := r.dims.ContentWidth * r.scale
	contentH := r.dims.ContentHeight * r.scale

	// Content area outline, faint.
	dc.SetRGB(0.92, 0.92, 0.92)
	dc.DrawRectangle(left, top, contentW, contentH)
	dc.Stroke()

	// One bar per text line, proportional to the page's fill level.
	lineStep := r.lineHeight * r.scale
	barH := lineStep * 0.55
	fill := contentH
	if page.ContentHeight > 0 && page.ContentHeight < r.dims.ContentHeight {
		fill = page.ContentHeight * r.scale
	}

	dc.SetRGB(0.55, 0.55, 0.58)
	short := hasHeading(blocks, page)
	y := top
	for y+barH <= top+fill {
		barW := contentW
		if short && y == top {
			// Leading heading: a shorter, thicker bar.
			barW = contentW * 0.6
			dc.DrawRectangle(left, y, barW, barH*1.4)
		} else {
			dc.DrawRectangle(left, y, barW, barH)
		}
		dc.Fill()
		y += lineStep
	}

	return dc.Image()
}

// All draws thumbnails for every page in order.
func (r *Renderer) All(pages []paginate.PageInfo, blocks []document.Block) []image.Image {
	out := make([]image.Image, len(pages))
	for i, p := range pages {
		out[i] = r.Page(p, blocks)
	}
	return out
}

func hasHeading(blocks []document.Block, page paginate.PageInfo) bool {
	for _, b := range blocks {
		if b.StartOffset >= page.EndPos {
			return false
		}
		if b.StartOffset >= page.StartPos && b.Kind == document.KindHeading {
			return true
		}
	}
	return false
}
