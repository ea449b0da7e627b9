// Package paginate implements the page-break calculator: a single ordered
// pass over the document's top-level blocks that accumulates rendered height
// per page and decides where page breaks fall. Pages are a derived,
// disposable view; the document itself never learns about them.
package paginate

import (
	"log/slog"
	"math"

	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/logging"
	"github.com/jobast/palimpsest/internal/measure"
	"github.com/jobast/palimpsest/internal/template"
	"github.com/jobast/palimpsest/internal/units"
)

// PageGap is the visual gap in pixels between consecutive page frames.
const PageGap = 20

// OrphanLines is the minimum-room threshold, in line heights, below which a
// block is pushed to the next page instead of starting in a near-empty
// sliver at the bottom of the current one.
const OrphanLines = 2.5

// PageInfo describes one visual page: a 1-based number, the half-open offset
// range [StartPos, EndPos) it covers, and the content height consumed on it.
// Consecutive pages partition the document; intermediate pages spanned by an
// oversized block share its start offset and cover an empty range.
type PageInfo struct {
	Number        int
	StartPos      int
	EndPos        int
	ContentHeight float64
}

// PageBreak is a position at which content must be pushed onto a new visual
// page, paired with the spacer height that accomplishes the push. Breaks are
// recomputed wholesale on every pass and hold no identity across passes.
type PageBreak struct {
	Position     int
	SpacerHeight float64
}

// Result is the atomic output of one calculation pass.
type Result struct {
	Pages  []PageInfo
	Breaks []PageBreak
}

// Calculator walks blocks in order and produces the page list for one
// resolved template. It is cheap to construct; build a fresh one whenever
// the template or typography changes.
type Calculator struct {
	dims     units.Dimensions
	typo     template.Typography
	fallback measure.Measurer

	lineHeight float64

	log *slog.Logger
}

// NewCalculator creates a calculator for the given resolved dimensions and
// effective typography. fallback measures blocks that carry no live rendered
// height; a nil fallback uses the heuristic estimator. A nil logger disables
// logging.
func NewCalculator(dims units.Dimensions, typo template.Typography, fallback measure.Measurer, log *slog.Logger) *Calculator {
	if fallback == nil {
		fallback = measure.NewEstimator(nil)
	}
	fontSize := units.FontSize(typo.FontSize)
	return &Calculator{
		dims:       dims,
		typo:       typo,
		fallback:   fallback,
		lineHeight: units.LineHeight(typo.LineHeight, fontSize),
		log:        logging.Or(log),
	}
}

// InterPageSpace is the total vertical space between the last content line
// of one page and the first content line of the next: bottom margin, footer
// band, the inter-page gap, then the next page's top margin and header band.
func (c *Calculator) InterPageSpace() float64 {
	return c.dims.MarginBottom + c.dims.FooterHeight + PageGap + c.dims.MarginTop + c.dims.HeaderHeight
}

// orphanThreshold is the room below which a tall block will not start on the
// current page.
func (c *Calculator) orphanThreshold() float64 {
	return OrphanLines * c.lineHeight
}

// blockHeight returns the height the calculator uses for a block: the live
// rendered height, rescaled when it was rendered at a different width,
// falling back to the measurer for unrendered blocks.
func (c *Calculator) blockHeight(b document.Block) float64 {
	if b.Measured {
		return measure.RescaleHeight(b.Height, c.dims.ContentWidth, b.RenderWidth)
	}
	return c.fallback.BlockHeight(b, c.typo, c.dims.ContentWidth)
}

// Calculate runs one full pass over blocks and returns the page list and
// break list. docSize is the document's total addressable size; the final
// page always closes there. Calculate is pure with respect to its inputs:
// running it twice on unchanged inputs yields identical results.
func (c *Calculator) Calculate(blocks []document.Block, docSize int) Result {
	contentHeight := c.dims.ContentHeight
	interPage := c.InterPageSpace()

	if len(blocks) == 0 {
		return Result{Pages: []PageInfo{{Number: 1, StartPos: 0, EndPos: docSize}}}
	}

	var (
		pages         []PageInfo
		breaks        []PageBreak
		currentStart  = 0
		currentHeight = 0.0
	)

	closePage := func(endPos int) {
		pages = append(pages, PageInfo{
			Number:        len(pages) + 1,
			StartPos:      currentStart,
			EndPos:        endPos,
			ContentHeight: currentHeight,
		})
		currentStart = endPos
		currentHeight = 0
	}

	for _, b := range blocks {
		h := c.blockHeight(b)

		if h > contentHeight {
			// Oversized: the block cannot be split mid-block, so it spans
			// whole pages on its own. Close out any partial page first.
			if currentHeight > 0 {
				breaks = append(breaks, PageBreak{
					Position:     b.StartOffset,
					SpacerHeight: (contentHeight - currentHeight) + interPage,
				})
				closePage(b.StartOffset)
			}

			spanned := int(math.Ceil(h / contentHeight))
			c.log.Warn("oversized block spans multiple pages",
				slog.String("kind", b.Kind.String()),
				slog.Int("offset", b.StartOffset),
				slog.Float64("height", h),
				slog.Int("pages", spanned))

			// Intermediate pages exist so downstream frame rendering draws
			// the right number of page containers; they share the block's
			// start offset and cover an empty range.
			for i := 0; i < spanned-1; i++ {
				currentHeight = contentHeight
				closePage(b.StartOffset)
			}

			// The final spanned page absorbs the remainder and stays open.
			currentHeight = h - float64(spanned-1)*contentHeight

			// One compensating spacer after the block: following content
			// still has to cross the skipped inter-page gaps even though no
			// ordinary spacer was inserted mid-block.
			if spanned > 1 {
				breaks = append(breaks, PageBreak{
					Position:     b.EndOffset(),
					SpacerHeight: float64(spanned-1) * interPage,
				})
			}
			continue
		}

		remaining := contentHeight - currentHeight
		fits := currentHeight+h <= contentHeight
		if remaining < c.orphanThreshold() && h > c.orphanThreshold() {
			// The block would start in a sliver smaller than the orphan
			// threshold; push it to the next page instead of letting it
			// open there.
			fits = false
		}

		if !fits && currentHeight > 0 {
			breaks = append(breaks, PageBreak{
				Position:     b.StartOffset,
				SpacerHeight: (contentHeight - currentHeight) + interPage,
			})
			closePage(b.StartOffset)
		}
		currentHeight += h
	}

	closePage(docSize)
	return Result{Pages: pages, Breaks: breaks}
}
