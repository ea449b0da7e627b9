package api

import (
	"log/slog"
	"time"

	"github.com/jobast/palimpsest/internal/decoration"
	"github.com/jobast/palimpsest/internal/viewport"
)

// Options configures a Paginator.
type Options struct {
	// Template selects a page template preset by name. Unknown names fall
	// back to the manuscript template.
	Template string

	// TypographyOverrides is a CSS-declaration style override string, e.g.
	// "font-size: 14pt; line-height: 1.8". Unknown properties are ignored.
	TypographyOverrides string

	// Debounce is the recalculation debounce window. Zero selects the
	// 200ms default; values below one frame (16ms) are clamped up.
	Debounce time.Duration

	// FontDirectory, when set, is searched for a font file matching the
	// template's font family for measurement. The bundled face is used
	// otherwise.
	FontDirectory string

	// ShapedMeasurement enables full HarfBuzz shaping for measurement.
	// Slower; only changes results for text needing kerning, ligatures, or
	// complex scripts.
	ShapedMeasurement bool

	// Surface is the scrollable rendering surface driven by navigation.
	// Without one, ScrollToPage and scroll tracking are unavailable but
	// pagination, export, and thumbnails still work.
	Surface viewport.Surface

	// DecorationSink receives regenerated spacer sets. Nil keeps spacers
	// readable without a surface to decorate.
	DecorationSink decoration.Sink

	// PostLayout defers a function until the rendering surface has applied
	// pending mutations and finished layout. Nil runs recalculations
	// immediately, which is correct when measurement is synchronous.
	PostLayout func(fn func())

	// Logger receives engine diagnostics. Nil disables logging.
	Logger *slog.Logger

	// Document metadata used by export.
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options.
type Option func(*Options)

// DefaultOptions returns the default options: manuscript template, 200ms
// debounce, bundled measurement face, no logging.
func DefaultOptions() Options {
	return Options{Template: "manuscript"}
}

// WithTemplate selects a page template preset by name.
func WithTemplate(name string) Option {
	return func(o *Options) { o.Template = name }
}

// WithTypographyOverrides sets the typography override string.
func WithTypographyOverrides(s string) Option {
	return func(o *Options) { o.TypographyOverrides = s }
}

// WithDebounce sets the recalculation debounce window.
func WithDebounce(d time.Duration) Option {
	return func(o *Options) { o.Debounce = d }
}

// WithFontDirectory sets the directory searched for measurement fonts.
func WithFontDirectory(dir string) Option {
	return func(o *Options) { o.FontDirectory = dir }
}

// WithShapedMeasurement enables HarfBuzz-shaped measurement.
func WithShapedMeasurement() Option {
	return func(o *Options) { o.ShapedMeasurement = true }
}

// WithSurface attaches the scrollable rendering surface.
func WithSurface(s viewport.Surface) Option {
	return func(o *Options) { o.Surface = s }
}

// WithDecorationSink attaches the spacer sink of the editing surface.
func WithDecorationSink(s decoration.Sink) Option {
	return func(o *Options) { o.DecorationSink = s }
}

// WithPostLayout sets the post-layout deferral hook.
func WithPostLayout(fn func(func())) Option {
	return func(o *Options) { o.PostLayout = fn }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetadata sets the document metadata used by export.
func WithMetadata(title, author string) Option {
	return func(o *Options) {
		o.Title = title
		o.Author = author
	}
}
