package viewport

// Virtualization constants: documents at or under the page threshold render
// every frame; beyond it, frames outside the preload-expanded viewport plus
// the page buffer have their paint and layout suppressed. Suppressed frames
// keep their reserved height so the scrollbar and scroll math stay correct.
const (
	VirtualizeThreshold = 10
	PreloadMargin       = 200
	PageBuffer          = 2
)

// Virtualizer decides which page frames actually render. It holds no frame
// state of its own; callers pass the current frame list and viewport on
// every query.
type Virtualizer struct {
	// exporting forces every frame to render regardless of viewport; export
	// must see fully rendered pages.
	exporting bool
}

// NewVirtualizer creates a virtualizer.
func NewVirtualizer() *Virtualizer { return &Virtualizer{} }

// SetExporting toggles export mode, which disables virtualization entirely
// for the duration.
func (v *Virtualizer) SetExporting(on bool) { v.exporting = on }

// Exporting reports whether export mode is active.
func (v *Virtualizer) Exporting() bool { return v.exporting }

// RenderSet returns, per frame, whether the frame should render. A frame
// renders when the document is small, export is active, or it falls within
// the viewport expanded by the preload margin plus PageBuffer frames on each
// side.
func (v *Virtualizer) RenderSet(frames []Frame, viewportTop, viewportHeight float64) []bool {
	render := make([]bool, len(frames))
	if v.exporting || len(frames) <= VirtualizeThreshold {
		for i := range render {
			render[i] = true
		}
		return render
	}

	top := viewportTop - PreloadMargin
	bottom := viewportTop + viewportHeight + PreloadMargin

	first, last := -1, -1
	for i, f := range frames {
		if f.Top+f.Height >= top && f.Top <= bottom {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		// Scrolled past all frames; keep the nearest edge warm.
		if viewportTop <= 0 {
			first, last = 0, 0
		} else {
			first, last = len(frames)-1, len(frames)-1
		}
	}

	first -= PageBuffer
	last += PageBuffer
	if first < 0 {
		first = 0
	}
	if last > len(frames)-1 {
		last = len(frames) - 1
	}
	for i := first; i <= last; i++ {
		render[i] = true
	}
	return render
}
