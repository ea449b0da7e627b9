package measure

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/template"
	"github.com/jobast/palimpsest/internal/units"
)

// Shaped is an opt-in measurement backend that runs full HarfBuzz shaping
// for each word, so advance widths include kerning, ligatures, and complex
// script forms. It costs more than FontMetrics and only changes results for
// text that needs those features.
//
// Shaped is safe for concurrent use: the parsed font is read-only, face
// instances are created per call, and HarfbuzzShaper instances are pooled
// since they are not concurrent-safe.
type Shaped struct {
	font *font.Font

	shaperPool sync.Pool
}

// NewShaped parses TTF/OTF data into a shaped measurement backend.
func NewShaped(data []byte) (*Shaped, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Shaped{
		font: face.Font,
		shaperPool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}, nil
}

// advance returns the shaped advance width of text at the given pixel size.
func (s *Shaped) advance(text string, sizePx float64) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}

	dir := di.DirectionLTR
	if baseDirection(text) == bidi.RightToLeft {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(s.font),
		Size:      fixed.Int26_6(sizePx * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.shaperPool.Put(hb)

	return fixedToFloat(out.Advance)
}

// LineCount greedily wraps words using shaped advances.
func (s *Shaped) LineCount(text string, sizePx, width float64) int {
	words := splitWords(text)
	if len(words) == 0 {
		return 1
	}
	spaceW := s.advance(" ", sizePx)

	lines := 1
	lineW := 0.0
	for _, w := range words {
		wordW := s.advance(w, sizePx)
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

// BlockHeight implements Measurer.
func (s *Shaped) BlockHeight(b document.Block, typo template.Typography, contentWidth float64) float64 {
	fontSize := units.FontSize(typo.FontSize)
	lineHeight := units.LineHeight(typo.LineHeight, fontSize)

	if b.Kind == document.KindSceneBreak {
		return SceneBreakHeight
	}

	lines := s.LineCount(b.Text, fontSize, contentWidth)
	h := float64(lines) * lineHeight
	switch b.Kind {
	case document.KindHeading:
		h += fontSize*1.6 + fontSize*0.8
	case document.KindParagraph, document.KindBlockquote:
		h += lineHeight
	}
	return h
}

// baseDirection resolves the base paragraph direction of text using the
// Unicode bidi algorithm. Neutral paragraphs read as left-to-right.
func baseDirection(text string) bidi.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return bidi.LeftToRight
	}
	return p.Direction()
}

// detectScript inspects the runes and returns the script of the first
// non-space character. Mixed-script text measures with the dominant script,
// which is close enough for height purposes.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func splitWords(text string) []string {
	var words []string
	start := -1
	for i, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if start >= 0 {
				words = append(words, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}
	return words
}

// fixedToFloat converts a 26.6 fixed-point value to float64 pixels.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
