// Package api is the facade over the pagination engine: it wires the
// scheduler, calculator, decoration layer, state store, navigator, and
// virtualizer around one document and exposes the surface the UI shell and
// export consume.
package api

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/jobast/palimpsest/internal/decoration"
	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/export"
	"github.com/jobast/palimpsest/internal/logging"
	"github.com/jobast/palimpsest/internal/measure"
	"github.com/jobast/palimpsest/internal/paginate"
	"github.com/jobast/palimpsest/internal/schedule"
	"github.com/jobast/palimpsest/internal/state"
	"github.com/jobast/palimpsest/internal/template"
	"github.com/jobast/palimpsest/internal/thumbnail"
	"github.com/jobast/palimpsest/internal/units"
	"github.com/jobast/palimpsest/internal/viewport"
)

// Paginator is the pagination engine for one document. It observes the
// document for mutations, keeps the page list current, decorates the editing
// surface with spacers, and serves navigation, thumbnails, and export.
type Paginator struct {
	opts Options
	doc  document.Document

	mu   sync.Mutex
	tpl  template.PageTemplate
	typo template.Typography
	dims units.Dimensions

	store    *state.Store
	sched    *schedule.Scheduler
	layer    *decoration.Layer
	nav      *viewport.Navigator
	virt     *viewport.Virtualizer
	fallback measure.Measurer

	removeListener func()
	log            *slog.Logger
}

// New creates a Paginator for doc and runs an initial recalculation.
func New(doc document.Document, options ...Option) (*Paginator, error) {
	opts := DefaultOptions()
	for _, o := range options {
		o(&opts)
	}
	return NewWithOptions(doc, opts)
}

// NewWithOptions creates a Paginator with fully specified options.
func NewWithOptions(doc document.Document, opts Options) (*Paginator, error) {
	if doc == nil {
		return nil, fmt.Errorf("paginator: document is required")
	}

	p := &Paginator{
		opts:  opts,
		doc:   doc,
		store: state.NewStore(),
		layer: decoration.NewLayer(opts.DecorationSink),
		virt:  viewport.NewVirtualizer(),
		log:   logging.Or(opts.Logger),
	}

	p.applyTemplate(template.Preset(opts.Template), template.ParseOverrides(opts.TypographyOverrides))
	p.fallback = p.buildMeasurer()

	p.sched = schedule.NewScheduler(opts.Debounce, p.log)
	p.sched.Run = p.recalculate
	p.sched.PostLayout = opts.PostLayout
	p.sched.OnError = func(error) { p.store.Reset(p.doc.Size()) }

	if opts.Surface != nil {
		p.nav = viewport.NewNavigator(p.store, opts.Surface)
	}

	p.removeListener = doc.OnChange(p.sched.Trigger)

	if err := p.recalculate(); err != nil {
		p.store.Reset(doc.Size())
	}
	return p, nil
}

// applyTemplate resolves the template and effective typography, logging an
// invalid template once and degrading to the digital defaults.
func (p *Paginator) applyTemplate(tpl template.PageTemplate, overrides template.Overrides) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tpl = tpl
	p.typo = tpl.Typography.Apply(overrides)

	dims, err := units.Resolve(tpl)
	if err != nil {
		p.log.Warn("invalid page template, using digital defaults", slog.Any("error", err))
		dims = units.DigitalDimensions()
	}
	p.dims = dims
}

func (p *Paginator) buildMeasurer() measure.Measurer {
	if p.opts.ShapedMeasurement {
		if s, err := measure.NewShaped(measure.BundledFont()); err == nil {
			return s
		}
		p.log.Warn("shaped measurement unavailable, using font metrics")
	}
	if p.opts.FontDirectory != "" {
		return measure.LoadFontDirectory(p.opts.FontDirectory, p.tpl.Typography.FontFamily)
	}
	return measure.DefaultFontMetrics()
}

// recalculate runs one full pass: read blocks, calculate pages and breaks,
// regenerate decorations, replace the store state atomically.
func (p *Paginator) recalculate() error {
	blocks := p.doc.Blocks()
	size := p.doc.Size()

	if len(blocks) == 0 && size == 0 {
		p.layer.Regenerate(nil)
		p.store.Reset(0)
		return nil
	}

	p.mu.Lock()
	calc := paginate.NewCalculator(p.dims, p.typo, p.fallback, p.log)
	p.mu.Unlock()

	res := calc.Calculate(blocks, size)
	p.layer.Regenerate(res.Breaks)
	p.store.SetPages(res.Pages, res.Breaks)

	p.log.Debug("recalculated pagination",
		slog.Int("blocks", len(blocks)),
		slog.Int("pages", len(res.Pages)))
	return nil
}

// Recalculate forces an immediate synchronous recalculation, bypassing the
// debounce. Intended for manual invalidation, e.g. after bulk content
// replacement.
func (p *Paginator) Recalculate() error {
	p.sched.Cancel()
	if err := p.recalculate(); err != nil {
		p.store.Reset(p.doc.Size())
		return err
	}
	return nil
}

// Invalidate schedules a debounced recalculation, the same path a document
// mutation takes.
func (p *Paginator) Invalidate() { p.sched.Trigger() }

// SetTemplate switches to another template preset and schedules a
// recalculation.
func (p *Paginator) SetTemplate(name string) {
	p.applyTemplate(template.Preset(name), template.ParseOverrides(p.opts.TypographyOverrides))
	p.sched.Trigger()
}

// SetTypographyOverrides replaces the typography overrides and schedules a
// recalculation.
func (p *Paginator) SetTypographyOverrides(s string) {
	p.mu.Lock()
	tpl := p.tpl
	p.mu.Unlock()
	p.opts.TypographyOverrides = s
	p.applyTemplate(tpl, template.ParseOverrides(s))
	p.sched.Trigger()
}

// State returns a consistent snapshot of the pagination state.
func (p *Paginator) State() state.Snapshot { return p.store.Snapshot() }

// Subscribe registers fn to receive a snapshot after every state change.
func (p *Paginator) Subscribe(fn func(state.Snapshot)) (cancel func()) {
	return p.store.Subscribe(fn)
}

// Dimensions returns the resolved page box in pixels.
func (p *Paginator) Dimensions() units.Dimensions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dims
}

// Spacers returns the current decoration spacer set.
func (p *Paginator) Spacers() []decoration.Spacer { return p.layer.Spacers() }

// Frames returns the current page-frame overlays.
func (p *Paginator) Frames() []viewport.Frame {
	return viewport.Frames(p.store.Snapshot().Pages, p.Dimensions())
}

// RenderSet returns, per frame, whether the frame should render given the
// current viewport, applying the virtualization policy.
func (p *Paginator) RenderSet(viewportTop, viewportHeight float64) []bool {
	return p.virt.RenderSet(p.Frames(), viewportTop, viewportHeight)
}

// ScrollToPage scrolls the attached surface so page n becomes current.
func (p *Paginator) ScrollToPage(n int) error {
	if p.nav == nil {
		return fmt.Errorf("scroll to page: no surface attached")
	}
	return p.nav.ScrollToPage(n)
}

// HandleScroll is the scroll-event entry point for the attached surface.
func (p *Paginator) HandleScroll() {
	if p.nav != nil {
		p.nav.HandleScroll()
	}
}

// ExportPDF renders every page to a fixed-layout PDF. Virtualization is
// disabled for the duration so all pages are fully rendered.
func (p *Paginator) ExportPDF(w io.Writer) error {
	p.virt.SetExporting(true)
	defer p.virt.SetExporting(false)

	snap := p.store.Snapshot()
	p.mu.Lock()
	dims, typo := p.dims, p.typo
	p.mu.Unlock()

	exp := export.NewExporter(dims, typo, p.log)
	return exp.WritePDF(w, snap.Pages, p.doc.Blocks(), export.Metadata{
		Title:    p.opts.Title,
		Author:   p.opts.Author,
		Subject:  p.opts.Subject,
		Keywords: p.opts.Keywords,
	})
}

// Thumbnails draws one miniature image per page at the given scale.
func (p *Paginator) Thumbnails(scale float64) []image.Image {
	p.mu.Lock()
	dims := p.dims
	fontSize := units.FontSize(p.typo.FontSize)
	lineHeight := units.LineHeight(p.typo.LineHeight, fontSize)
	p.mu.Unlock()

	r := thumbnail.NewRenderer(dims, scale, lineHeight)
	snap := p.store.Snapshot()
	return r.All(snap.Pages, p.doc.Blocks())
}

// Close detaches the paginator from the document and cancels any pending
// recalculation.
func (p *Paginator) Close() {
	if p.removeListener != nil {
		p.removeListener()
		p.removeListener = nil
	}
	p.sched.Cancel()
}
