// Package viewport renders page frames around the continuous content,
// tracks which page is currently visible, and provides programmatic
// scroll-to-page. Frames are overlays: the content flows through them using
// the inserted spacers to line up with frame boundaries.
package viewport

import (
	"fmt"
	"time"

	"github.com/jobast/palimpsest/internal/paginate"
	"github.com/jobast/palimpsest/internal/state"
	"github.com/jobast/palimpsest/internal/units"
)

// DefaultThreshold is the viewport-relative y of the fixed threshold line
// used for current-page detection, in pixels from the viewport top.
const DefaultThreshold = 80

// SuppressWindow is how long scroll-driven page tracking stays suppressed
// after a programmatic scroll, to avoid feedback oscillation between the two
// mechanisms.
const SuppressWindow = 250 * time.Millisecond

// Frame is one page-frame overlay. Every page gets a frame sized to the
// template's outer dimensions regardless of its content height, since pages
// spanned by an oversized block share content but still draw as separate
// frames.
type Frame struct {
	Page   int
	Top    float64
	Height float64
}

// Frames lays out one frame per page at the template's outer height,
// separated by the inter-page gap.
func Frames(pages []paginate.PageInfo, dims units.Dimensions) []Frame {
	frames := make([]Frame, len(pages))
	for i, p := range pages {
		frames[i] = Frame{
			Page:   p.Number,
			Top:    float64(i) * (dims.Height + paginate.PageGap),
			Height: dims.Height,
		}
	}
	return frames
}

// Surface is the scrollable rendering surface the navigator drives. Marker
// positions are visual, viewport-relative positions of the break markers, in
// break-list order; they are read live because page heights are not uniform
// once oversized blocks or virtualization are involved.
type Surface interface {
	// ScrollBy scrolls the surface by delta pixels (positive = down).
	ScrollBy(delta float64)

	// ScrollOffset returns the current scroll position.
	ScrollOffset() float64

	// MarkerTop returns the current visual position, relative to the
	// viewport top, of break marker i.
	MarkerTop(i int) float64
}

// Navigator tracks the current page from break-marker positions and
// implements scroll-to-page. It writes only the current page to the store;
// the page list belongs to the calculator.
type Navigator struct {
	store   *state.Store
	surface Surface

	// Threshold is the y of the detection line; markers fully above it have
	// been scrolled past.
	Threshold float64

	now           func() time.Time
	suppressUntil time.Time
}

// NewNavigator creates a navigator over the given surface.
func NewNavigator(store *state.Store, surface Surface) *Navigator {
	return &Navigator{
		store:     store,
		surface:   surface,
		Threshold: DefaultThreshold,
		now:       time.Now,
	}
}

// CurrentPageFromMarkers computes the current page by walking breaks in
// order: the current page is one past the last break whose marker has fully
// scrolled above the threshold line. Scroll percentage is deliberately not
// used; it is unreliable with oversized and virtualized pages.
func (n *Navigator) CurrentPageFromMarkers() int {
	snap := n.store.Snapshot()
	page := 1
	for i := range snap.Breaks {
		if n.surface.MarkerTop(i) < n.Threshold {
			page = i + 2
		} else {
			break
		}
	}
	if page > snap.TotalPages {
		page = snap.TotalPages
	}
	return page
}

// HandleScroll is the scroll-event entry point. It updates the current page
// unless tracking is suppressed by a recent programmatic scroll.
func (n *Navigator) HandleScroll() {
	if n.now().Before(n.suppressUntil) {
		return
	}
	n.store.SetCurrentPage(n.CurrentPageFromMarkers())
}

// ScrollToPage scrolls so that page becomes current. Page 1 scrolls to the
// top; any later page scrolls by the delta between its leading break marker
// and the threshold line, not to an absolute estimate, because page heights
// are not uniform. Scroll tracking is suppressed for SuppressWindow
// afterwards.
func (n *Navigator) ScrollToPage(page int) error {
	snap := n.store.Snapshot()
	if page < 1 || page > snap.TotalPages {
		return fmt.Errorf("page %d out of range 1..%d", page, snap.TotalPages)
	}

	if page == 1 {
		n.surface.ScrollBy(-n.surface.ScrollOffset())
	} else {
		delta := n.surface.MarkerTop(page-2) - n.Threshold
		n.surface.ScrollBy(delta)
	}

	n.suppressUntil = n.now().Add(SuppressWindow)
	n.store.SetCurrentPage(page)
	return nil
}
