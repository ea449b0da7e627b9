// Package document is the pagination engine's view of the editing surface:
// an ordered sequence of top-level blocks with character offsets, a total
// size, and a content-change listener. The engine never owns the document;
// it only reads this narrow surface.
package document

// Kind identifies a top-level block variant. The set of kinds is closed and
// known ahead of time, so height estimation and export dispatch over it with
// a switch rather than tag strings.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindBlockquote
	KindSceneBreak
	KindOther
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindBlockquote:
		return "blockquote"
	case KindSceneBreak:
		return "scene-break"
	default:
		return "other"
	}
}

// Block is one top-level block of the document as seen by the calculator.
//
// Height is the block's rendered height in pixels, margins included, and is
// only meaningful when Measured is true. RenderWidth is the width the block
// was actually rendered at; when it differs from the target content width the
// calculator rescales the height to approximate reflow. A zero RenderWidth
// means the block was rendered at the target width.
type Block struct {
	Kind  Kind
	Level int // heading level, 1-3; zero otherwise
	Text  string

	StartOffset int
	Size        int

	Height      float64
	Measured    bool
	RenderWidth float64
}

// EndOffset returns the offset one past the block's content.
func (b Block) EndOffset() int { return b.StartOffset + b.Size }

// Document is the read surface the engine consumes. Implementations must
// keep Blocks ordered by StartOffset with no gaps: the first block starts at
// 0 and each block starts where the previous one ends.
type Document interface {
	// Blocks returns the current top-level block sequence. The returned
	// slice must not be mutated by the engine.
	Blocks() []Block

	// Size returns the total addressable size of the document.
	Size() int

	// OnChange registers a listener invoked after every content mutation.
	// The returned function removes the listener.
	OnChange(fn func()) (remove func())
}
