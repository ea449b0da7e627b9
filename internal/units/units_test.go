package units

import (
	"math"
	"testing"

	"github.com/jobast/palimpsest/internal/template"
)

func TestToPixels(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1in", 96},
		{"2.54cm", 96},
		{"25.4mm", 96},
		{"72pt", 96},
		{"96px", 96},
		{"1em", 16},
		{"100", 100},
		{"  8.5in ", 816},
		{"", 0},
		{"auto", 0},
		{"100%", 0},
		{"garbage", 0},
		{"px", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ToPixels(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ToPixels(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConversionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		back func(float64) float64
		want float64
	}{
		{"inches", "1in", PxToInches, 1},
		{"centimeters", "1cm", PxToCentimeters, 1},
		{"millimeters", "1mm", PxToMillimeters, 1},
		{"points", "1pt", PxToPoints, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.back(ToPixels(tt.in)); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("round trip of %q = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFontSize(t *testing.T) {
	if got := FontSize("12pt"); got != 16 {
		t.Errorf("FontSize(12pt) = %v, want 16", got)
	}
	if got := FontSize("nonsense"); got != DefaultFontSize {
		t.Errorf("FontSize(nonsense) = %v, want default %v", got, DefaultFontSize)
	}
	if got := FontSize(""); got != DefaultFontSize {
		t.Errorf("FontSize(empty) = %v, want default %v", got, DefaultFontSize)
	}
}

func TestLineHeight(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fontSize float64
		want     float64
	}{
		{"unitless multiplier", "2", 16, 32},
		{"fractional multiplier", "1.5", 20, 30},
		{"dimensioned", "24px", 16, 24},
		{"points", "18pt", 16, 24},
		{"empty defaults", "", 16, 24},
		{"garbage defaults", "tall", 16, 24},
		{"zero multiplier defaults", "0", 16, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineHeight(tt.value, tt.fontSize); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LineHeight(%q, %v) = %v, want %v", tt.value, tt.fontSize, got, tt.want)
			}
		})
	}
}

func TestResolveManuscript(t *testing.T) {
	d, err := Resolve(template.Manuscript)
	if err != nil {
		t.Fatalf("Resolve(Manuscript) error: %v", err)
	}
	if d.Width != 816 || d.Height != 1056 {
		t.Errorf("page box = %vx%v, want 816x1056", d.Width, d.Height)
	}
	if d.ContentWidth != d.Width-d.MarginLeft-d.MarginRight {
		t.Errorf("content width invariant violated: %v", d.ContentWidth)
	}
	wantCH := d.Height - d.MarginTop - d.MarginBottom - d.HeaderHeight - d.FooterHeight
	if d.ContentHeight != wantCH {
		t.Errorf("content height = %v, want %v", d.ContentHeight, wantCH)
	}
	if d.FooterHeight == 0 {
		t.Error("manuscript template footer should contribute height")
	}
}

func TestResolveDigitalFallback(t *testing.T) {
	d, err := Resolve(template.Digital)
	if err != nil {
		t.Fatalf("Resolve(Digital) error: %v", err)
	}
	if d.Width != DigitalPageWidth || d.Height != DigitalPageHeight {
		t.Errorf("digital box = %vx%v, want %vx%v", d.Width, d.Height, DigitalPageWidth, DigitalPageHeight)
	}
	if d.MarginTop != DigitalMargin {
		t.Errorf("digital margin = %v, want %v", d.MarginTop, DigitalMargin)
	}
}

func TestResolveInvalidTemplate(t *testing.T) {
	bad := template.PageTemplate{
		Name:         "crushed",
		Width:        "2in",
		Height:       "2in",
		MarginTop:    "1.5in",
		MarginRight:  "0.5in",
		MarginBottom: "1.5in",
		MarginLeft:   "0.5in",
	}
	if _, err := Resolve(bad); err == nil {
		t.Error("Resolve should report a non-positive content box")
	}
}
