// Package palimpsest paginates a continuously-editable long-form manuscript
// into fixed-size visual pages. The document stays one unbroken editable
// tree; pages are a derived, disposable view recomputed from it.
package palimpsest

import (
	"github.com/jobast/palimpsest/pkg/api"
)

type Paginator = api.Paginator
type Options = api.Options
type Option = api.Option
type Document = api.Document
type Block = api.Block
type HTMLDocument = api.HTMLDocument
type PageInfo = api.PageInfo
type PageBreak = api.PageBreak
type Snapshot = api.Snapshot

func New(doc Document, options ...Option) (*Paginator, error) { return api.New(doc, options...) }
func NewWithOptions(doc Document, opts Options) (*Paginator, error) {
	return api.NewWithOptions(doc, opts)
}
func DefaultOptions() Options { return api.DefaultOptions() }

var (
	WithTemplate            = api.WithTemplate
	WithTypographyOverrides = api.WithTypographyOverrides
	WithDebounce            = api.WithDebounce
	WithFontDirectory       = api.WithFontDirectory
	WithShapedMeasurement   = api.WithShapedMeasurement
	WithSurface             = api.WithSurface
	WithDecorationSink      = api.WithDecorationSink
	WithPostLayout          = api.WithPostLayout
	WithLogger              = api.WithLogger
	WithMetadata            = api.WithMetadata

	ParseHTML       = api.ParseHTML
	ParseHTMLString = api.ParseHTMLString
	Templates       = api.Templates
)
