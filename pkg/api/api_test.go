package api

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jobast/palimpsest/internal/decoration"
	"github.com/jobast/palimpsest/internal/document"
	"github.com/jobast/palimpsest/internal/state"
)

const novelOpening = `<html><body>
<h1>Part One</h1>
<p>The house on Verity Street had been empty for eleven years, which was
exactly as long as anyone on the street could remember wanting it to be.</p>
<p>Marta arrived on a Tuesday with two suitcases and a typewriter.</p>
<blockquote>Begin anywhere. Begin with the weather if you must.</blockquote>
<hr>
<p>By Friday the neighbours had opinions.</p>
</body></html>`

func parseDoc(t *testing.T, src string) *document.HTMLDocument {
	t.Helper()
	doc, err := document.ParseHTMLString(src)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

type captureSink struct {
	mu   sync.Mutex
	sets [][]decoration.Spacer
}

func (c *captureSink) SetSpacers(s []decoration.Spacer) {
	c.mu.Lock()
	c.sets = append(c.sets, s)
	c.mu.Unlock()
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sets)
}

func TestNewRequiresDocument(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("nil document accepted")
	}
}

func TestNewRunsInitialRecalculation(t *testing.T) {
	p, err := New(parseDoc(t, novelOpening))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	snap := p.State()
	if snap.TotalPages < 1 {
		t.Fatalf("no pages after construction")
	}
	if snap.CurrentPage != 1 {
		t.Errorf("current page = %d, want 1", snap.CurrentPage)
	}
	if snap.Pages[0].StartPos != 0 {
		t.Errorf("first page starts at %d", snap.Pages[0].StartPos)
	}
}

func TestEmptyDocumentSinglePage(t *testing.T) {
	p, err := New(parseDoc(t, "<html><body></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	snap := p.State()
	if snap.TotalPages != 1 {
		t.Errorf("empty document paginated to %d pages, want 1", snap.TotalPages)
	}
}

func TestTemplateSelection(t *testing.T) {
	p, err := New(parseDoc(t, novelOpening), WithTemplate("manuscript"))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	dims := p.Dimensions()
	if dims.Width != 816 || dims.Height != 1056 {
		t.Errorf("manuscript dimensions = %vx%v, want 816x1056", dims.Width, dims.Height)
	}

	p.SetTemplate("book-a5")
	if got := p.Dimensions().Width; got == 816 {
		t.Error("SetTemplate did not change dimensions")
	}
}

func TestUnknownTemplateFallsBackToManuscript(t *testing.T) {
	p, err := New(parseDoc(t, novelOpening), WithTemplate("parchment-scroll"))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if got := p.Dimensions().Width; got != 816 {
		t.Errorf("unknown template width = %v, want manuscript 816", got)
	}
}

func TestMutationsCoalesceIntoOneRecalculation(t *testing.T) {
	doc := parseDoc(t, novelOpening)
	p, err := New(doc, WithDebounce(30*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	var mu sync.Mutex
	publishes := 0
	cancel := p.Subscribe(func(state.Snapshot) {
		mu.Lock()
		publishes++
		mu.Unlock()
	})
	defer cancel()

	for i := 0; i < 10; i++ {
		doc.AppendParagraph("Another sentence arrived with the evening post.")
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	got := publishes
	mu.Unlock()
	if got != 1 {
		t.Errorf("10 rapid mutations published %d state changes, want 1", got)
	}
}

func TestRecalculateBypassesDebounce(t *testing.T) {
	doc := parseDoc(t, novelOpening)
	p, err := New(doc, WithDebounce(10*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	before := p.State().Pages[len(p.State().Pages)-1].EndPos
	doc.AppendParagraph("A long coda, appended all at once.")
	if err := p.Recalculate(); err != nil {
		t.Fatal(err)
	}
	snap := p.State()
	after := snap.Pages[len(snap.Pages)-1].EndPos
	if after <= before {
		t.Errorf("document end did not advance: %d -> %d", before, after)
	}
}

func TestDecorationSinkReceivesSpacers(t *testing.T) {
	sink := &captureSink{}
	longDoc := "<html><body>" + strings.Repeat("<p>"+strings.Repeat("word ", 200)+"</p>", 30) + "</body></html>"

	p, err := New(parseDoc(t, longDoc), WithDecorationSink(sink))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if sink.count() == 0 {
		t.Fatal("sink never received a spacer set")
	}
	spacers := p.Spacers()
	if len(spacers) == 0 {
		t.Fatal("long document produced no spacers")
	}
	for i, s := range spacers {
		if s.Height <= 0 {
			t.Errorf("spacer %d has height %v", i, s.Height)
		}
		if i > 0 && s.Position <= spacers[i-1].Position {
			t.Errorf("spacer positions not increasing at %d", i)
		}
	}
	if len(spacers) != p.State().TotalPages-1 {
		t.Errorf("%d spacers for %d pages", len(spacers), p.State().TotalPages)
	}
}

func TestFramesMatchPages(t *testing.T) {
	p, err := New(parseDoc(t, novelOpening))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	frames := p.Frames()
	if len(frames) != p.State().TotalPages {
		t.Errorf("%d frames for %d pages", len(frames), p.State().TotalPages)
	}
	for _, f := range frames {
		if f.Height != p.Dimensions().Height {
			t.Errorf("frame %d height %v, want %v", f.Page, f.Height, p.Dimensions().Height)
		}
	}
}

func TestScrollToPageWithoutSurface(t *testing.T) {
	p, err := New(parseDoc(t, novelOpening))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := p.ScrollToPage(1); err == nil {
		t.Error("ScrollToPage without a surface accepted")
	}
	p.HandleScroll() // must not panic
}

func TestExportPDF(t *testing.T) {
	p, err := New(parseDoc(t, novelOpening), WithMetadata("Verity Street", "M. Aldous"))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	var buf bytes.Buffer
	if err := p.ExportPDF(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("export did not produce a PDF")
	}
}

func TestThumbnails(t *testing.T) {
	p, err := New(parseDoc(t, novelOpening))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	thumbs := p.Thumbnails(0.1)
	if len(thumbs) != p.State().TotalPages {
		t.Fatalf("%d thumbnails for %d pages", len(thumbs), p.State().TotalPages)
	}
	b := thumbs[0].Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		t.Errorf("thumbnail bounds %v", b)
	}
}

func TestSetTypographyOverrides(t *testing.T) {
	longDoc := "<html><body>" + strings.Repeat("<p>"+strings.Repeat("word ", 120)+"</p>", 20) + "</body></html>"
	p, err := New(parseDoc(t, longDoc))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	before := p.State().TotalPages
	p.SetTypographyOverrides("font-size: 24px; line-height: 2.4")
	if err := p.Recalculate(); err != nil {
		t.Fatal(err)
	}
	after := p.State().TotalPages
	if after <= before {
		t.Errorf("larger type did not grow the page count: %d -> %d", before, after)
	}
}

func TestCloseDetaches(t *testing.T) {
	doc := parseDoc(t, novelOpening)
	p, err := New(doc, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	publishes := 0
	p.Subscribe(func(state.Snapshot) {
		mu.Lock()
		publishes++
		mu.Unlock()
	})

	p.Close()
	doc.AppendParagraph("Written into the void.")
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if publishes != 0 {
		t.Errorf("closed paginator still recalculated %d times", publishes)
	}
}
