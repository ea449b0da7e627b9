package measure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/template"
	"github.com/jobast/palimpsest/internal/units"
)

// FontMetrics measures block heights by greedily wrapping words at real
// advance widths from an OpenType face. It is the default measurement
// backend when the engine lays text out itself (export, thumbnails, and
// tests) rather than reading geometry from a live surface.
type FontMetrics struct {
	sfnt *opentype.Font

	// mu guards the face cache; font.Face is not safe for concurrent use.
	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFontMetrics parses TTF/OTF data into a measurement backend.
func NewFontMetrics(data []byte) (*FontMetrics, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &FontMetrics{sfnt: f, faces: make(map[float64]font.Face)}, nil
}

// BundledFont returns the TTF data of the bundled Go Regular face, the
// fallback font every measurement backend can be built from.
func BundledFont() []byte { return goregular.TTF }

// DefaultFontMetrics returns a backend over the bundled Go Regular face.
func DefaultFontMetrics() *FontMetrics {
	m, err := NewFontMetrics(goregular.TTF)
	if err != nil {
		// The bundled font always parses; reaching here means the toolchain
		// shipped corrupt data.
		panic(err)
	}
	return m
}

// LoadFontDirectory looks for a file named after the font family (spaces
// stripped, .ttf or .otf) in dir and builds a backend from it. Falls back to
// the bundled face when the family cannot be found, mirroring how the rest
// of the engine degrades instead of failing.
func LoadFontDirectory(dir, family string) *FontMetrics {
	base := strings.ToLower(strings.ReplaceAll(family, " ", ""))
	for _, ext := range []string{".ttf", ".otf"} {
		data, err := os.ReadFile(filepath.Join(dir, base+ext))
		if err != nil {
			continue
		}
		if m, err := NewFontMetrics(data); err == nil {
			return m
		}
	}
	return DefaultFontMetrics()
}

func (m *FontMetrics) face(sizePx float64) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[sizePx]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.sfnt, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72, // size is already in pixels; 72 DPI makes points == pixels
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face at %.1fpx: %w", sizePx, err)
	}
	m.faces[sizePx] = f
	return f, nil
}

// LineCount returns the number of greedily wrapped lines the text occupies
// at the given width and font size. Words wider than the line occupy a line
// of their own; the width the word overhangs is someone else's problem, the
// same as in a rendered surface.
func (m *FontMetrics) LineCount(text string, sizePx, width float64) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 1
	}
	face, err := m.face(sizePx)
	if err != nil {
		return 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	d := font.Drawer{Face: face}
	spaceW := fixedToFloat(d.MeasureString(" "))

	lines := 1
	lineW := 0.0
	for _, w := range words {
		wordW := fixedToFloat(d.MeasureString(w))
		switch {
		case lineW == 0:
			lineW = wordW
		case lineW+spaceW+wordW <= width:
			lineW += spaceW + wordW
		default:
			lines++
			lineW = wordW
		}
	}
	return lines
}

// BlockHeight implements Measurer using real line wrapping plus the same
// per-kind spacing the estimator applies, so the two backends agree on
// everything except line count.
func (m *FontMetrics) BlockHeight(b document.Block, typo template.Typography, contentWidth float64) float64 {
	fontSize := units.FontSize(typo.FontSize)
	lineHeight := units.LineHeight(typo.LineHeight, fontSize)

	if b.Kind == document.KindSceneBreak {
		return SceneBreakHeight
	}

	size := fontSize
	if b.Kind == document.KindHeading {
		// Headings render larger; scale by level the way the editor's
		// default stylesheet does.
		switch b.Level {
		case 1:
			size = fontSize * 2
		case 2:
			size = fontSize * 1.5
		default:
			size = fontSize * 1.17
		}
	}

	width := contentWidth
	if b.Kind == document.KindBlockquote {
		width = contentWidth - 2*fontSize
		if width < fontSize {
			width = fontSize
		}
	}

	lines := m.LineCount(b.Text, size, width)
	h := float64(lines) * lineHeight * (size / fontSize)
	switch b.Kind {
	case document.KindHeading:
		h += fontSize*1.6 + fontSize*0.8
	case document.KindParagraph, document.KindBlockquote:
		h += lineHeight
	}
	return h
}
