// Package units converts physical page-template dimensions and typographic
// values into a common pixel space, and derives the usable content box for a
// page template. All parsing is deliberately lenient: malformed values degrade
// to documented defaults rather than failing, so a corrupt template can never
// block editing.
package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jobast/palimpsest/internal/template"
)

// DPI is the fixed conversion constant between physical units and pixels.
const DPI = 96

// Defaults substituted when a template uses responsive sentinels ("auto",
// percentage widths), emulating a digital reader page.
const (
	DigitalPageWidth  = 400
	DigitalPageHeight = 600
	DigitalMargin     = 24
)

// Typography defaults.
const (
	DefaultFontSize       = 16
	DefaultLineHeightMult = 1.5
)

// ToPixels converts a dimension string with an optional unit suffix among
// in, cm, mm, pt, px and em (px if absent) to pixels. Responsive sentinels
// (an empty string, "auto", or a percentage) resolve to 0, signaling the
// caller to substitute device-appropriate defaults.
func ToPixels(value string) float64 {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" || v == "auto" || strings.HasSuffix(v, "%") {
		return 0
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(v, "in"):
		v, factor = v[:len(v)-2], DPI
	case strings.HasSuffix(v, "cm"):
		v, factor = v[:len(v)-2], DPI/2.54
	case strings.HasSuffix(v, "mm"):
		v, factor = v[:len(v)-2], DPI/25.4
	case strings.HasSuffix(v, "pt"):
		v, factor = v[:len(v)-2], DPI/72.0
	case strings.HasSuffix(v, "em"):
		v, factor = v[:len(v)-2], DefaultFontSize
	case strings.HasSuffix(v, "px"):
		v = v[:len(v)-2]
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return n * factor
}

// FontSize parses a font-size string to pixels, defaulting to
// DefaultFontSize when the value is missing or unparseable.
func FontSize(value string) float64 {
	if px := ToPixels(value); px > 0 {
		return px
	}
	return DefaultFontSize
}

// LineHeight parses a line-height value to pixels. A bare unitless number is
// a multiplier on the resolved font size; a dimensioned string resolves
// directly. Missing or unparseable values default to DefaultLineHeightMult
// times the font size.
func LineHeight(value string, fontSize float64) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return fontSize * DefaultLineHeightMult
	}
	if mult, err := strconv.ParseFloat(v, 64); err == nil {
		if mult <= 0 {
			return fontSize * DefaultLineHeightMult
		}
		return fontSize * mult
	}
	if px := ToPixels(v); px > 0 {
		return px
	}
	return fontSize * DefaultLineHeightMult
}

// PxToInches converts pixels to inches.
func PxToInches(px float64) float64 { return px / DPI }

// PxToCentimeters converts pixels to centimeters.
func PxToCentimeters(px float64) float64 { return px / DPI * 2.54 }

// PxToMillimeters converts pixels to millimeters.
func PxToMillimeters(px float64) float64 { return px / DPI * 25.4 }

// PxToPoints converts pixels to PostScript points (1/72 inch).
func PxToPoints(px float64) float64 { return px / DPI * 72 }

// Dimensions is the pixel-resolved page box for a template: the outer page
// size, the four margins, header/footer band heights, and the resulting
// content box.
type Dimensions struct {
	Width  float64
	Height float64

	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	HeaderHeight float64
	FooterHeight float64

	ContentWidth  float64
	ContentHeight float64
}

// Resolve derives the pixel Dimensions for a page template. Templates using
// responsive sentinels for width or height resolve to the digital reader
// defaults. Resolve returns an error when the template yields a non-positive
// content box; callers are expected to log it once and fall back to
// DigitalDimensions rather than aborting.
func Resolve(t template.PageTemplate) (Dimensions, error) {
	d := Dimensions{
		Width:        ToPixels(t.Width),
		Height:       ToPixels(t.Height),
		MarginTop:    ToPixels(t.MarginTop),
		MarginRight:  ToPixels(t.MarginRight),
		MarginBottom: ToPixels(t.MarginBottom),
		MarginLeft:   ToPixels(t.MarginLeft),
	}

	if d.Width <= 0 || d.Height <= 0 {
		d.Width = DigitalPageWidth
		d.Height = DigitalPageHeight
		d.MarginTop = DigitalMargin
		d.MarginRight = DigitalMargin
		d.MarginBottom = DigitalMargin
		d.MarginLeft = DigitalMargin
	}

	if t.Header.Enabled {
		d.HeaderHeight = ToPixels(t.Header.Height)
	}
	if t.Footer.Enabled {
		d.FooterHeight = ToPixels(t.Footer.Height)
	}

	d.ContentWidth = d.Width - d.MarginLeft - d.MarginRight
	d.ContentHeight = d.Height - d.MarginTop - d.MarginBottom - d.HeaderHeight - d.FooterHeight

	if d.ContentWidth <= 0 || d.ContentHeight <= 0 {
		return d, fmt.Errorf("template %q: content box is %.0fx%.0f px, must be positive",
			t.Name, d.ContentWidth, d.ContentHeight)
	}
	return d, nil
}

// DigitalDimensions returns the digital reader fallback box. It is the
// substitute used when Resolve reports an invalid template.
func DigitalDimensions() Dimensions {
	d, _ := Resolve(template.PageTemplate{Name: "digital"})
	return d
}
