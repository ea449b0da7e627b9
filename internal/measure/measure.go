// Package measure provides block-height measurement for the page-break
// calculator. Heights come from the live rendered surface whenever one is
// available; the backends here cover the two other cases: real font metrics
// when the engine must lay text out itself, and a cheap heuristic estimator
// when no metrics are available at all.
package measure

import (
	"log/slog"

	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/logging"
	"github.com/jobast/palimpsest/internal/template"
	"github.com/jobast/palimpsest/internal/units"
)

// SceneBreakHeight is the fixed rendered height of a scene-break element.
const SceneBreakHeight = 48

// Measurer produces a block's height in pixels when laid out at the given
// content width with the given typography.
type Measurer interface {
	BlockHeight(b document.Block, typo template.Typography, contentWidth float64) float64
}

// RescaleHeight adjusts a height measured at renderWidth to approximate the
// same text reflowed at targetWidth. Reflowed text at a narrower width is
// taller and vice versa. This is a linear approximation, not a relayout; the
// next measured pass corrects any drift it introduces.
func RescaleHeight(h, targetWidth, renderWidth float64) float64 {
	if renderWidth <= 0 || targetWidth <= 0 || renderWidth == targetWidth {
		return h
	}
	return h * renderWidth / targetWidth
}

// Estimator is the heuristic fallback measurer: line count times line
// height, with fixed spacing bonuses per block kind. It never touches font
// data, so it works for blocks that have no rendering at all.
type Estimator struct {
	// CharsPerLine overrides the derived characters-per-line estimate when
	// positive. Tests use it to make line counts deterministic.
	CharsPerLine int

	log *slog.Logger
}

// NewEstimator creates a heuristic estimator. A nil logger disables logging.
func NewEstimator(log *slog.Logger) *Estimator {
	return &Estimator{log: logging.Or(log)}
}

// BlockHeight implements Measurer.
func (e *Estimator) BlockHeight(b document.Block, typo template.Typography, contentWidth float64) float64 {
	fontSize := units.FontSize(typo.FontSize)
	lineHeight := units.LineHeight(typo.LineHeight, fontSize)

	if b.Kind == document.KindSceneBreak {
		return SceneBreakHeight
	}

	perLine := e.CharsPerLine
	if perLine <= 0 {
		// Average glyph advance for body text runs just under half an em.
		perLine = int(contentWidth / (fontSize * 0.5))
		if perLine < 1 {
			perLine = 1
		}
	}

	runes := 0
	for range b.Text {
		runes++
	}
	lines := (runes + perLine - 1) / perLine
	if lines < 1 {
		lines = 1
	}

	h := float64(lines) * lineHeight
	switch b.Kind {
	case document.KindHeading:
		h += fontSize*1.6 + fontSize*0.8
	case document.KindParagraph, document.KindBlockquote:
		h += lineHeight
	}

	e.log.Debug("estimated block height",
		slog.String("kind", b.Kind.String()),
		slog.Int("lines", lines),
		slog.Float64("height", h))
	return h
}
