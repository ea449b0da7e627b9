// Package template defines the immutable page templates a project selects
// from and the typography values layout actually uses. Templates are never
// mutated in place; changing format selects a different template value.
package template

import "strings"

// HeaderFooter describes an optional header or footer band with a fixed
// height. A disabled band contributes no height to the page box.
type HeaderFooter struct {
	Enabled bool
	Height  string
}

// Typography holds the typographic defaults used for layout. All values are
// dimension strings resolved by the units package; LineHeight may also be a
// bare unitless multiplier.
type Typography struct {
	FontFamily      string
	FontSize        string
	LineHeight      string
	FirstLineIndent string
}

// Overrides carries user-specified typography overrides. Empty fields leave
// the template value in effect.
type Overrides struct {
	FontSize        string
	LineHeight      string
	FirstLineIndent string
}

// PageTemplate is an immutable page format: outer size, margins, optional
// header/footer bands, and default typography. Width and Height are dimension
// strings; responsive sentinels ("100%", "auto") mean "fill available space"
// and resolve to digital reader defaults.
type PageTemplate struct {
	Name   string
	Width  string
	Height string

	MarginTop    string
	MarginRight  string
	MarginBottom string
	MarginLeft   string

	Header HeaderFooter
	Footer HeaderFooter

	Typography Typography
}

// Built-in presets. Manuscript is the default for new projects.
var (
	Manuscript = PageTemplate{
		Name:         "manuscript",
		Width:        "8.5in",
		Height:       "11in",
		MarginTop:    "1in",
		MarginRight:  "1in",
		MarginBottom: "1in",
		MarginLeft:   "1in",
		Footer:       HeaderFooter{Enabled: true, Height: "0.35in"},
		Typography: Typography{
			FontFamily:      "Courier New",
			FontSize:        "12pt",
			LineHeight:      "2",
			FirstLineIndent: "0.5in",
		},
	}

	A4 = PageTemplate{
		Name:         "a4",
		Width:        "210mm",
		Height:       "297mm",
		MarginTop:    "2.5cm",
		MarginRight:  "2.5cm",
		MarginBottom: "2.5cm",
		MarginLeft:   "2.5cm",
		Footer:       HeaderFooter{Enabled: true, Height: "1cm"},
		Typography: Typography{
			FontFamily:      "Times New Roman",
			FontSize:        "12pt",
			LineHeight:      "1.5",
			FirstLineIndent: "1.25cm",
		},
	}

	BookA5 = PageTemplate{
		Name:         "book-a5",
		Width:        "148mm",
		Height:       "210mm",
		MarginTop:    "18mm",
		MarginRight:  "15mm",
		MarginBottom: "18mm",
		MarginLeft:   "15mm",
		Header:       HeaderFooter{Enabled: true, Height: "8mm"},
		Footer:       HeaderFooter{Enabled: true, Height: "8mm"},
		Typography: Typography{
			FontFamily:      "Georgia",
			FontSize:        "10.5pt",
			LineHeight:      "1.4",
			FirstLineIndent: "1em",
		},
	}

	Letter = PageTemplate{
		Name:         "letter",
		Width:        "8.5in",
		Height:       "11in",
		MarginTop:    "1in",
		MarginRight:  "1.25in",
		MarginBottom: "1in",
		MarginLeft:   "1.25in",
		Typography: Typography{
			FontFamily: "Times New Roman",
			FontSize:   "12pt",
			LineHeight: "1.5",
		},
	}

	// Digital emulates a reflowable e-reader page; its responsive sentinels
	// resolve to the fixed digital defaults.
	Digital = PageTemplate{
		Name:   "digital",
		Width:  "100%",
		Height: "auto",
		Typography: Typography{
			FontFamily: "Georgia",
			FontSize:   "16px",
			LineHeight: "1.6",
		},
	}
)

var presets = []PageTemplate{Manuscript, A4, BookA5, Letter, Digital}

// Presets returns the built-in templates in display order.
func Presets() []PageTemplate {
	out := make([]PageTemplate, len(presets))
	copy(out, presets)
	return out
}

// Preset looks up a template by name. Unknown names fall back to Manuscript,
// so a stale project setting still paginates.
func Preset(name string) PageTemplate {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range presets {
		if t.Name == name {
			return t
		}
	}
	return Manuscript
}

// Apply merges overrides on top of the template typography and returns the
// effective typography. The result is derived and holds no identity; it is
// recomputed whenever overrides change.
func (t Typography) Apply(o Overrides) Typography {
	out := t
	if o.FontSize != "" {
		out.FontSize = o.FontSize
	}
	if o.LineHeight != "" {
		out.LineHeight = o.LineHeight
	}
	if o.FirstLineIndent != "" {
		out.FirstLineIndent = o.FirstLineIndent
	}
	return out
}

// ParseOverrides parses a CSS-declaration style override string such as
// "font-size: 14pt; line-height: 1.8". Unknown properties and malformed
// declarations are skipped rather than reported; typography overrides must
// never block editing.
func ParseOverrides(s string) Overrides {
	var o Overrides
	for _, decl := range strings.Split(s, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if value == "" {
			continue
		}
		switch property {
		case "font-size":
			o.FontSize = value
		case "line-height":
			o.LineHeight = value
		case "text-indent", "first-line-indent":
			o.FirstLineIndent = value
		}
	}
	return o
}
