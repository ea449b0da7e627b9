package document

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLDocument adapts a DOM-like manuscript to the Document surface. The
// top-level children of <body> become the block sequence; offsets are rune
// offsets into the concatenated block text. It is the production adapter for
// editing surfaces that expose their content as HTML.
type HTMLDocument struct {
	mu        sync.RWMutex
	blocks    []Block
	size      int
	listeners map[int]func()
	nextID    int
}

// ParseHTML parses an HTML manuscript into an HTMLDocument.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse manuscript: %w", err)
	}
	d := &HTMLDocument{listeners: make(map[int]func())}
	d.blocks, d.size = extractBlocks(root)
	return d, nil
}

// ParseHTMLString parses an HTML manuscript from a string.
func ParseHTMLString(content string) (*HTMLDocument, error) {
	return ParseHTML(strings.NewReader(content))
}

// Blocks implements Document.
func (d *HTMLDocument) Blocks() []Block {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// Size implements Document.
func (d *HTMLDocument) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.size
}

// OnChange implements Document.
func (d *HTMLDocument) OnChange(fn func()) (remove func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// SetBlockHeight records the live rendered height for the block at index i.
// The editing surface calls this after layout so the calculator can prefer
// real geometry over estimation. renderWidth is the width the block was laid
// out at; pass 0 when it matches the target content width.
func (d *HTMLDocument) SetBlockHeight(i int, px, renderWidth float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.blocks) {
		return
	}
	d.blocks[i].Height = px
	d.blocks[i].Measured = px > 0
	d.blocks[i].RenderWidth = renderWidth
}

// AppendParagraph appends a paragraph block and notifies listeners. It is
// the mutation path used by bulk import and by tests.
func (d *HTMLDocument) AppendParagraph(text string) {
	d.mu.Lock()
	b := Block{
		Kind:        KindParagraph,
		Text:        text,
		StartOffset: d.size,
		Size:        utf8.RuneCountInString(text) + 1,
	}
	d.blocks = append(d.blocks, b)
	d.size = b.EndOffset()
	d.mu.Unlock()
	d.notify()
}

// Replace swaps the whole document content for newly parsed HTML and
// notifies listeners. Previously recorded block heights are discarded; the
// next recalculation re-measures.
func (d *HTMLDocument) Replace(r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse manuscript: %w", err)
	}
	blocks, size := extractBlocks(root)
	d.mu.Lock()
	d.blocks = blocks
	d.size = size
	d.mu.Unlock()
	d.notify()
	return nil
}

func (d *HTMLDocument) notify() {
	d.mu.RLock()
	fns := make([]func(), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// extractBlocks walks the parsed tree and converts the top-level children of
// <body> into blocks with contiguous rune offsets. Each block is one past
// its text in the address space so that empty blocks still occupy a
// position (matching how an editable surface addresses them).
func extractBlocks(root *html.Node) ([]Block, int) {
	body := findBody(root)
	if body == nil {
		return nil, 0
	}

	var blocks []Block
	offset := 0
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		b := Block{
			Kind:        kindForAtom(c.DataAtom),
			Level:       headingLevel(c.DataAtom),
			Text:        collectText(c),
			StartOffset: offset,
		}
		b.Size = utf8.RuneCountInString(b.Text) + 1
		offset = b.EndOffset()
		blocks = append(blocks, b)
	}
	return blocks, offset
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func kindForAtom(a atom.Atom) Kind {
	switch a {
	case atom.P:
		return KindParagraph
	case atom.H1, atom.H2, atom.H3:
		return KindHeading
	case atom.Blockquote:
		return KindBlockquote
	case atom.Hr:
		return KindSceneBreak
	default:
		return KindOther
	}
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	default:
		return 0
	}
}

// collectText concatenates the text content of a node's subtree, collapsing
// runs of whitespace the way a rendered surface would.
func collectText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
