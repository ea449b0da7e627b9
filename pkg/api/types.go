package api

import (
	"io"

	"github.com/jobast/palimpsest/internal/decoration"
	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/paginate"
	"github.com/jobast/palimpsest/internal/state"
	"github.com/jobast/palimpsest/internal/template"
	"github.com/jobast/palimpsest/internal/units"
	"github.com/jobast/palimpsest/internal/viewport"
)

// Aliases exposing the engine's integration types. The editing surface
// implements Document (and optionally Surface and Sink); everything else is
// read-only output.

type Document = document.Document
type Block = document.Block
type Kind = document.Kind

const (
	KindParagraph  = document.KindParagraph
	KindHeading    = document.KindHeading
	KindBlockquote = document.KindBlockquote
	KindSceneBreak = document.KindSceneBreak
	KindOther      = document.KindOther
)

// HTMLDocument is the built-in Document adapter for HTML manuscripts.
type HTMLDocument = document.HTMLDocument

// ParseHTML parses an HTML manuscript into an HTMLDocument.
func ParseHTML(r io.Reader) (*HTMLDocument, error) { return document.ParseHTML(r) }

// ParseHTMLString parses an HTML manuscript from a string.
func ParseHTMLString(s string) (*HTMLDocument, error) { return document.ParseHTMLString(s) }

type PageInfo = paginate.PageInfo
type PageBreak = paginate.PageBreak
type Snapshot = state.Snapshot
type Spacer = decoration.Spacer
type Sink = decoration.Sink
type Surface = viewport.Surface
type Frame = viewport.Frame
type Dimensions = units.Dimensions
type PageTemplate = template.PageTemplate

// Templates returns the built-in page template presets.
func Templates() []PageTemplate { return template.Presets() }
